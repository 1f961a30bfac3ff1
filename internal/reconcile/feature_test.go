package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelveticaScenario/modular-sub001/internal/patch"
	"github.com/HelveticaScenario/modular-sub001/internal/testutil"
)

func TestExtractFeatures(t *testing.T) {
	lfo := testutil.Module("lfo-1", "lfo", map[string]patch.Param{
		"freq": patch.Value{N: 2},
	})
	env := testutil.Module("env-1", "envelope", nil)
	osc := testutil.Module("sine-1", "sine", map[string]patch.Param{
		"freq": patch.Value{N: 440},
		"fm":   patch.Cable{Module: "lfo-1", Port: "out"},
		"mods": patch.List{Items: []patch.Param{
			patch.Cable{Module: "env-1", Port: "out"},
			patch.Value{N: 0.5},
		}},
		"opts": patch.Struct{Fields: map[string]patch.Param{
			"depth": patch.Value{N: 1},
			"mode":  patch.Str{S: "soft"},
		}},
		"gate": patch.Disconnected{},
		"pan":  patch.Null{},
	})
	g := testutil.Graph(osc, lfo, env)

	features := extractFeatures(osc, g)

	require.Len(t, features, 8)

	t.Run("scalar leaves", func(t *testing.T) {
		f := features["freq"]
		assert.Equal(t, featureNumber, f.kind)
		assert.Equal(t, 440.0, f.number)
		assert.Equal(t, weightScalar, f.weight)

		assert.Equal(t, featureString, features["opts.mode"].kind)
		assert.Equal(t, "soft", features["opts.mode"].text)
		assert.Equal(t, featureDisconnected, features["gate"].kind)
		assert.Equal(t, featureNull, features["pan"].kind)
	})

	t.Run("cables are canonicalized to producer type", func(t *testing.T) {
		f := features["fm"]
		assert.Equal(t, featureCable, f.kind)
		assert.Equal(t, "lfo:out", f.text)
		assert.Equal(t, weightCable, f.weight)

		assert.Equal(t, "envelope:out", features["mods[0]"].text)
	})

	t.Run("containers flatten to indexed paths", func(t *testing.T) {
		assert.Equal(t, featureNumber, features["mods[1]"].kind)
		assert.Equal(t, 0.5, features["mods[1]"].number)
		assert.Equal(t, 1.0, features["opts.depth"].number)
	})
}

func TestExtractFeaturesDanglingCable(t *testing.T) {
	osc := testutil.Module("sine-1", "sine", map[string]patch.Param{
		"fm": patch.Cable{Module: "ghost-3", Port: "out"},
	})
	g := testutil.Graph(osc)

	features := extractFeatures(osc, g)
	// No producer to canonicalize against; the literal id is kept.
	assert.Equal(t, "ghost-3:out", features["fm"].text)
}

func TestExtractFeaturesOpaque(t *testing.T) {
	osc := testutil.Module("sine-1", "sine", map[string]patch.Param{
		"weird": patch.Opaque{Raw: []int{1, 2, 3}},
	})
	g := testutil.Graph(osc)

	features := extractFeatures(osc, g)
	f := features["weird"]
	assert.Equal(t, featureOpaque, f.kind)
	assert.Equal(t, weightOpaque, f.weight)
}

func TestDownstreamUsage(t *testing.T) {
	osc := testutil.Module("sine-1", "sine", map[string]patch.Param{
		"freq": patch.Value{N: 440},
	})
	filter := testutil.Module("filter-1", "filter", map[string]patch.Param{
		"in": patch.Cable{Module: "sine-1", Port: "out"},
	})
	mix := testutil.Module("mix-1", "mix", map[string]patch.Param{
		"inputs": patch.List{Items: []patch.Param{
			patch.Cable{Module: "sine-1", Port: "out"},
			patch.Cable{Module: "sine-1", Port: "sub"},
		}},
	})
	g := testutil.Graph(osc, filter, mix)

	usage := downstreamUsage(g)

	require.Contains(t, usage, "sine-1")
	assert.Equal(t, usageCounts{
		"filter:in:out":     1,
		"mix:inputs[0]:out": 1,
		"mix:inputs[1]:sub": 1,
	}, usage["sine-1"])

	// Nothing consumes the filter or the mix.
	assert.NotContains(t, usage, "filter-1")
	assert.NotContains(t, usage, "mix-1")
}
