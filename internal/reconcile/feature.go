package reconcile

import (
	"sort"

	"github.com/HelveticaScenario/modular-sub001/internal/patch"
)

// featureKind classifies a leaf extracted from a parameter tree.
type featureKind int

const (
	featureNumber featureKind = iota
	featureBool
	featureString
	featureNull
	featureDisconnected
	featureCable
	featureOpaque
)

// Similarity weights per leaf kind. Cable wiring says more about a
// module's identity than any scalar constant; unrecognized values say
// less than either.
const (
	weightCable  = 2.0
	weightScalar = 1.0
	weightOpaque = 0.75
)

// feature is one leaf of a module's parameter tree, addressed by its
// canonical path.
type feature struct {
	path    string
	kind    featureKind
	number  float64
	boolean bool
	// text holds string constants; for cables it holds the canonical
	// producer token {producerType}:{port}.
	text   string
	raw    patch.Param // opaque payload, compared by deep equality
	weight float64
}

// extractFeatures flattens a module's parameter tree into a path-keyed
// feature map. Lists are visited by index and structs by sorted key, so
// paths are deterministic regardless of source ordering. Cables are leaves
// canonicalized against the producing module's type in the same graph,
// which lets wiring compare equal across graphs even when the upstream id
// changed.
func extractFeatures(m *patch.Module, g *patch.Graph) map[string]feature {
	out := make(map[string]feature)
	for _, name := range sortedKeys(m.Params) {
		walkParam(patch.Path{}.Field(name), m.Params[name], g, out)
	}
	return out
}

func walkParam(path patch.Path, p patch.Param, g *patch.Graph, out map[string]feature) {
	key := path.String()
	switch v := p.(type) {
	case patch.Value:
		out[key] = feature{path: key, kind: featureNumber, number: v.N, weight: weightScalar}
	case patch.Bool:
		out[key] = feature{path: key, kind: featureBool, boolean: v.B, weight: weightScalar}
	case patch.Str:
		out[key] = feature{path: key, kind: featureString, text: v.S, weight: weightScalar}
	case patch.Null:
		out[key] = feature{path: key, kind: featureNull, weight: weightScalar}
	case patch.Disconnected:
		out[key] = feature{path: key, kind: featureDisconnected, weight: weightScalar}
	case patch.Cable:
		out[key] = feature{path: key, kind: featureCable, text: cableToken(v, g), weight: weightCable}
	case patch.List:
		for i, item := range v.Items {
			walkParam(path.Index(i), item, g, out)
		}
	case patch.Struct:
		for _, k := range sortedKeys(v.Fields) {
			walkParam(path.Field(k), v.Fields[k], g, out)
		}
	case patch.Opaque:
		out[key] = feature{path: key, kind: featureOpaque, raw: v, weight: weightOpaque}
	default:
		// Foreign Param implementation: record it rather than fail, at a
		// reduced weight, and let comparison fall back to deep equality.
		out[key] = feature{path: key, kind: featureOpaque, raw: p, weight: weightOpaque}
	}
}

// cableToken canonicalizes a cable reference to {producerType}:{port}. A
// dangling reference keeps the literal id; structural validity is the
// compiler's contract, not ours.
func cableToken(c patch.Cable, g *patch.Graph) string {
	if t, ok := g.TypeOf(c.Module); ok {
		return t + ":" + c.Port
	}
	return c.Module + ":" + c.Port
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
