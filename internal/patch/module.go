package patch

import "regexp"

// IDSource records how a module id came to be.
type IDSource int

const (
	// IDInferred means the compiler did not record the id's origin; it is
	// inferred from the id's shape on demand.
	IDInferred IDSource = iota
	// IDAuto means the compiler generated the id ({type}-{counter}).
	IDAuto
	// IDUser means the id was authored in source.
	IDUser
)

// Module is one synthesis unit instance in a patch graph.
type Module struct {
	ID     string
	Type   string
	Params map[string]Param
	Source IDSource
}

var autoIDPattern = regexp.MustCompile(`^(.+)-([0-9]+)$`)

// LooksAutoGenerated reports whether id matches the compiler's
// auto-generated shape `{moduleType}-{integer}` for the given type.
func LooksAutoGenerated(id, moduleType string) bool {
	m := autoIDPattern.FindStringSubmatch(id)
	return m != nil && m[1] == moduleType
}

// ExplicitID reports whether the module id was authored by the user. When
// the descriptor does not carry the origin flag, an id that does not look
// auto-generated is treated as explicit.
func (m *Module) ExplicitID() bool {
	switch m.Source {
	case IDAuto:
		return false
	case IDUser:
		return true
	default:
		return !LooksAutoGenerated(m.ID, m.Type)
	}
}

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	params := make(map[string]Param, len(m.Params))
	for k, p := range m.Params {
		params[k] = CloneParam(p)
	}
	return &Module{
		ID:     m.ID,
		Type:   m.Type,
		Params: params,
		Source: m.Source,
	}
}
