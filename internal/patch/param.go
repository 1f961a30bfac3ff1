package patch

import "reflect"

// Param is a single value in a module's parameter tree. The set of
// implementations is closed: a parameter is either a leaf (a constant, a
// cable reference, null, or explicitly disconnected) or a container
// (list or struct) of further Params. Foreign values that fit none of
// these shapes are carried as Opaque.
type Param interface {
	paramNode()
}

// Disconnected marks a parameter that carries no value at all, as opposed
// to one explicitly set to null.
type Disconnected struct{}

// Value is a numeric constant.
type Value struct {
	N float64
}

// Bool is a boolean constant.
type Bool struct {
	B bool
}

// Str is a string constant.
type Str struct {
	S string
}

// Null is an explicit null value.
type Null struct{}

// Cable references another module's output port instead of holding a
// constant. Module is the producer's id within the same graph.
type Cable struct {
	Module string
	Port   string
}

// List is an ordered container of parameter values.
type List struct {
	Items []Param
}

// Struct is a keyed container of parameter values.
type Struct struct {
	Fields map[string]Param
}

// Opaque carries a value the model does not recognize. It compares by deep
// equality and never participates in structural traversal.
type Opaque struct {
	Raw any
}

func (Disconnected) paramNode() {}
func (Value) paramNode()        {}
func (Bool) paramNode()         {}
func (Str) paramNode()          {}
func (Null) paramNode()         {}
func (Cable) paramNode()        {}
func (List) paramNode()         {}
func (Struct) paramNode()       {}
func (Opaque) paramNode()       {}

// Equal reports whether two opaque values hold the same payload.
func (o Opaque) Equal(other Opaque) bool {
	return reflect.DeepEqual(o.Raw, other.Raw)
}

// CloneParam returns a deep copy of p. Leaves are value types and copy
// freely; containers are rebuilt so mutations of the copy never reach the
// original.
func CloneParam(p Param) Param {
	switch v := p.(type) {
	case List:
		items := make([]Param, len(v.Items))
		for i, item := range v.Items {
			items[i] = CloneParam(item)
		}
		return List{Items: items}
	case Struct:
		fields := make(map[string]Param, len(v.Fields))
		for k, f := range v.Fields {
			fields[k] = CloneParam(f)
		}
		return Struct{Fields: fields}
	default:
		// Leaf variants are plain values; Opaque payloads are treated as
		// immutable by contract.
		return p
	}
}
