package patchfile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelveticaScenario/modular-sub001/internal/patch"
	"github.com/HelveticaScenario/modular-sub001/internal/testutil"
)

func TestParseBasicPatch(t *testing.T) {
	src := `
module "lfo" {
  freq = 0.5
}

module "sine" {
  id   = "lead"
  freq = 440
  fm   = cable("lfo-1", "out")
}

scope {
  module = "lead"
  port   = "out"
}
`
	g, err := Parse([]byte(src), "patch.hcl")
	require.NoError(t, err)
	require.Len(t, g.Modules, 2)

	lfo, ok := g.Module("lfo-1")
	require.True(t, ok)
	assert.Equal(t, "lfo", lfo.Type)
	assert.Equal(t, patch.IDAuto, lfo.Source)
	assert.Equal(t, patch.Value{N: 0.5}, lfo.Params["freq"])

	lead, ok := g.Module("lead")
	require.True(t, ok)
	assert.Equal(t, "sine", lead.Type)
	assert.Equal(t, patch.IDUser, lead.Source)
	assert.Equal(t, patch.Value{N: 440}, lead.Params["freq"])
	assert.Equal(t, patch.Cable{Module: "lfo-1", Port: "out"}, lead.Params["fm"])
	assert.NotContains(t, lead.Params, "id")

	require.Len(t, g.Scopes, 1)
	assert.Equal(t, patch.Scope{Module: "lead", Port: "out"}, g.Scopes[0])
}

func TestParseAutoIDCountersPerType(t *testing.T) {
	src := `
module "sine" {}
module "saw" {}
module "sine" {}
`
	g, err := Parse([]byte(src), "patch.hcl")
	require.NoError(t, err)

	var ids []string
	for _, m := range g.Modules {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"sine-1", "saw-1", "sine-2"}, ids)
}

func TestParseNestedValues(t *testing.T) {
	src := `
module "sequencer" {
  steps = [1, 2, null, disconnected()]
  opts = {
    depth = 0.3
    sync  = true
    label = "verse"
    mods  = [cable("env-1", "out")]
  }
}
`
	g, err := Parse([]byte(src), "patch.hcl")
	require.NoError(t, err)

	seq, ok := g.Module("sequencer-1")
	require.True(t, ok)

	assert.Equal(t, patch.List{Items: []patch.Param{
		patch.Value{N: 1},
		patch.Value{N: 2},
		patch.Null{},
		patch.Disconnected{},
	}}, seq.Params["steps"])

	opts, ok := seq.Params["opts"].(patch.Struct)
	require.True(t, ok)
	assert.Equal(t, patch.Value{N: 0.3}, opts.Fields["depth"])
	assert.Equal(t, patch.Bool{B: true}, opts.Fields["sync"])
	assert.Equal(t, patch.Str{S: "verse"}, opts.Fields["label"])
	assert.Equal(t, patch.List{Items: []patch.Param{
		patch.Cable{Module: "env-1", Port: "out"},
	}}, opts.Fields["mods"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax error",
			src:  `module "sine" {`,
			want: "parsing",
		},
		{
			name: "non-string id",
			src:  `module "sine" { id = 42 }`,
			want: "id must be a string",
		},
		{
			name: "duplicate ids",
			src: `
module "sine" { id = "lead" }
module "saw"  { id = "lead" }
`,
			want: "invalid patch",
		},
		{
			name: "scope references unknown module",
			src: `
module "sine" {}
scope {
  module = "ghost"
  port   = "out"
}
`,
			want: "invalid patch",
		},
		{
			name: "unknown function",
			src:  `module "sine" { fm = wire("a", "b") }`,
			want: "evaluating",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "patch.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"01_voices.hcl": `
module "sine" {
  freq = 440
}
`,
		"02_fx.hcl": `
module "sine" {
  freq = 220
}
module "reverb" {
  in = cable("sine-1", "out")
}
`,
	})

	g, err := Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, g.Modules, 3)

	// Files load in sorted order and the per-type counter runs across
	// file boundaries.
	first, ok := g.Module("sine-1")
	require.True(t, ok)
	assert.Equal(t, patch.Value{N: 440}, first.Params["freq"])
	second, ok := g.Module("sine-2")
	require.True(t, ok)
	assert.Equal(t, patch.Value{N: 220}, second.Params["freq"])
	_, ok = g.Module("reverb-1")
	assert.True(t, ok)
}

func TestLoadSingleFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"patch.hcl": `module "sine" { freq = 110 }`,
	})

	g, err := Load(context.Background(), dir+"/patch.hcl")
	require.NoError(t, err)
	require.Len(t, g.Modules, 1)
	assert.Equal(t, "sine-1", g.Modules[0].ID)
}

func TestLoadNoFiles(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"notes.txt": "not a patch",
	})

	_, err := Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl patch files")
}
