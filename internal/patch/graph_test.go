package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved(RootID))
	assert.True(t, IsReserved(RootClockID))
	assert.False(t, IsReserved("sine-1"))
	assert.False(t, IsReserved("rooted"))
}

func TestGraphModuleLookup(t *testing.T) {
	g := &Graph{Modules: []*Module{
		{ID: "sine-1", Type: "sine"},
		{ID: "lead", Type: "sine"},
	}}

	m, ok := g.Module("lead")
	require.True(t, ok)
	assert.Equal(t, "sine", m.Type)

	typ, ok := g.TypeOf("sine-1")
	require.True(t, ok)
	assert.Equal(t, "sine", typ)

	_, ok = g.Module("missing")
	assert.False(t, ok)
}

func TestGraphClone(t *testing.T) {
	g := &Graph{
		Modules: []*Module{{
			ID:   "sine-1",
			Type: "sine",
			Params: map[string]Param{
				"freq": Value{N: 440},
				"fm":   Cable{Module: "lfo-1", Port: "out"},
			},
		}},
		Scopes: []Scope{{Module: "sine-1", Port: "out"}},
	}

	clone := g.Clone()
	require.NotSame(t, g, clone)
	require.NotSame(t, g.Modules[0], clone.Modules[0])
	assert.Equal(t, g, clone)

	clone.Modules[0].Params["freq"] = Value{N: 220}
	assert.Equal(t, Value{N: 440}, g.Modules[0].Params["freq"])

	var nilGraph *Graph
	assert.Nil(t, nilGraph.Clone())
}

func TestGraphValidate(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		g := &Graph{
			Modules: []*Module{
				{ID: "sine-1", Type: "sine"},
				{ID: "lead", Type: "sine"},
			},
			Scopes: []Scope{{Module: "lead", Port: "out"}},
		}
		assert.NoError(t, g.Validate())
	})

	t.Run("error cases", func(t *testing.T) {
		err := (&Graph{Modules: []*Module{{ID: "", Type: "sine"}}}).Validate()
		assert.ErrorContains(t, err, "empty id")

		err = (&Graph{Modules: []*Module{{ID: "sine-1", Type: ""}}}).Validate()
		assert.ErrorContains(t, err, "empty type")

		err = (&Graph{Modules: []*Module{
			{ID: "sine-1", Type: "sine"},
			{ID: "sine-1", Type: "saw"},
		}}).Validate()
		assert.ErrorContains(t, err, "duplicate module id")

		err = (&Graph{
			Modules: []*Module{{ID: "sine-1", Type: "sine"}},
			Scopes:  []Scope{{Module: "ghost", Port: "out"}},
		}).Validate()
		assert.ErrorContains(t, err, "unknown module")
	})
}
