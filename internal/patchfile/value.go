package patchfile

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/HelveticaScenario/modular-sub001/internal/patch"
)

// cableRef is the payload of the cable capsule type produced by the
// cable() expression function.
type cableRef struct {
	Module string
	Port   string
}

type disconnectedMark struct{}

var (
	cableCapsule        = cty.Capsule("cable", reflect.TypeOf(cableRef{}))
	disconnectedCapsule = cty.Capsule("disconnected", reflect.TypeOf(disconnectedMark{}))
)

// patchFunctions is the expression vocabulary available inside a patch
// file. It deliberately contains no variables: patch files are data, not
// programs.
var patchFunctions = map[string]function.Function{
	"cable": function.New(&function.Spec{
		Description: "References another module's output port.",
		Params: []function.Parameter{
			{Name: "module", Type: cty.String},
			{Name: "port", Type: cty.String},
		},
		Type: function.StaticReturnType(cableCapsule),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.CapsuleVal(cableCapsule, &cableRef{
				Module: args[0].AsString(),
				Port:   args[1].AsString(),
			}), nil
		},
	}),
	"disconnected": function.New(&function.Spec{
		Description: "Marks a parameter as carrying no value.",
		Type:        function.StaticReturnType(disconnectedCapsule),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.CapsuleVal(disconnectedCapsule, &disconnectedMark{}), nil
		},
	}),
}

// valueToParam converts an evaluated cty value into the closed Param
// variant the reconciler operates on.
func valueToParam(v cty.Value) (patch.Param, error) {
	if v.IsNull() {
		return patch.Null{}, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known at load time")
	}

	t := v.Type()
	switch {
	case t.Equals(cableCapsule):
		ref := v.EncapsulatedValue().(*cableRef)
		return patch.Cable{Module: ref.Module, Port: ref.Port}, nil
	case t.Equals(disconnectedCapsule):
		return patch.Disconnected{}, nil
	case t.Equals(cty.Number):
		f, _ := v.AsBigFloat().Float64()
		return patch.Value{N: f}, nil
	case t.Equals(cty.String):
		return patch.Str{S: v.AsString()}, nil
	case t.Equals(cty.Bool):
		return patch.Bool{B: v.True()}, nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		items := make([]patch.Param, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			p, err := valueToParam(ev)
			if err != nil {
				return nil, err
			}
			items = append(items, p)
		}
		return patch.List{Items: items}, nil
	case t.IsObjectType() || t.IsMapType():
		fields := make(map[string]patch.Param)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			p, err := valueToParam(ev)
			if err != nil {
				return nil, err
			}
			fields[kv.AsString()] = p
		}
		return patch.Struct{Fields: fields}, nil
	default:
		// A value shape the model has no variant for; carried opaquely
		// with its canonical rendering as the comparison payload.
		return patch.Opaque{Raw: v.GoString()}, nil
	}
}
