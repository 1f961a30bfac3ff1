package patch

import "fmt"

// Reserved module ids. They denote the same semantic entities in every
// compilation and are never candidates for remapping.
const (
	RootID      = "root"
	RootClockID = "root_clock"
)

// IsReserved reports whether id is one of the reserved module ids.
func IsReserved(id string) bool {
	return id == RootID || id == RootClockID
}

// Scope subscribes a visualization to one module output.
type Scope struct {
	Module string
	Port   string
}

// Graph is an ordered collection of module descriptors plus the scope
// subscriptions referencing them.
type Graph struct {
	Modules []*Module
	Scopes  []Scope
}

// Module returns the module with the given id, if present.
func (g *Graph) Module(id string) (*Module, bool) {
	for _, m := range g.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// TypeOf returns the module type tag for the given id, if present.
func (g *Graph) TypeOf(id string) (string, bool) {
	if m, ok := g.Module(id); ok {
		return m.Type, true
	}
	return "", false
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	modules := make([]*Module, len(g.Modules))
	for i, m := range g.Modules {
		modules[i] = m.Clone()
	}
	scopes := make([]Scope, len(g.Scopes))
	copy(scopes, g.Scopes)
	return &Graph{Modules: modules, Scopes: scopes}
}

// Validate enforces the structural invariants the compiler is contracted
// to uphold: unique ids, non-empty type tags, and scopes that reference
// modules present in the graph.
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Modules))
	for _, m := range g.Modules {
		if m.ID == "" {
			return fmt.Errorf("module of type %q has an empty id", m.Type)
		}
		if m.Type == "" {
			return fmt.Errorf("module %q has an empty type", m.ID)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	for _, s := range g.Scopes {
		if _, ok := seen[s.Module]; !ok {
			return fmt.Errorf("scope references unknown module %q", s.Module)
		}
	}
	return nil
}
