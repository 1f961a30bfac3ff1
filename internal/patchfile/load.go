package patchfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/HelveticaScenario/modular-sub001/internal/ctxlog"
	"github.com/HelveticaScenario/modular-sub001/internal/fsutil"
	"github.com/HelveticaScenario/modular-sub001/internal/patch"
)

// patchSchema describes the top-level blocks of a patch file.
var patchSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module", LabelNames: []string{"type"}},
		{Type: "scope"},
	},
}

// scopeBlock is the decode target for a scope subscription.
type scopeBlock struct {
	Module string `hcl:"module"`
	Port   string `hcl:"port"`
}

// Load reads a patch graph from a single .hcl file or a directory of them.
func Load(ctx context.Context, path string) (*patch.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindPatchFiles(path)
	if err != nil {
		return nil, fmt.Errorf("finding patch files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl patch files found in %s", path)
	}
	logger.Debug("loading patch", "path", path, "files", len(files))

	parser := hclparse.NewParser()
	l := newLoader()
	for _, f := range files {
		hclFile, diags := parser.ParseHCLFile(f)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", f, diags)
		}
		if err := l.addFile(hclFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return l.finish()
}

// Parse reads a patch graph from in-memory source. The filename is used
// only for diagnostics.
func Parse(src []byte, filename string) (*patch.Graph, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", filename, diags)
	}
	l := newLoader()
	if err := l.addFile(hclFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return l.finish()
}

// loader accumulates modules and scopes across files, assigning auto ids
// with a per-type counter in declaration order, matching the compiler's
// {type}-{counter} contract.
type loader struct {
	modules  []*patch.Module
	scopes   []patch.Scope
	counters map[string]int
}

func newLoader() *loader {
	return &loader{counters: make(map[string]int)}
}

func (l *loader) addFile(file *hcl.File) error {
	content, diags := file.Body.Content(patchSchema)
	if diags.HasErrors() {
		return diags
	}
	for _, block := range content.Blocks {
		switch block.Type {
		case "module":
			if err := l.addModule(block); err != nil {
				return err
			}
		case "scope":
			if err := l.addScope(block); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *loader) addModule(block *hcl.Block) error {
	moduleType := block.Labels[0]
	if moduleType == "" {
		return fmt.Errorf("module block at %s has an empty type label", block.DefRange)
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	evalCtx := &hcl.EvalContext{Functions: patchFunctions}
	id := ""
	source := patch.IDAuto
	params := make(map[string]patch.Param, len(attrs))

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val, diags := attrs[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating %s.%s: %w", moduleType, name, diags)
		}
		if name == "id" {
			if !val.Type().Equals(cty.String) || val.IsNull() {
				return fmt.Errorf("module %s: id must be a string", moduleType)
			}
			id = val.AsString()
			source = patch.IDUser
			continue
		}
		p, err := valueToParam(val)
		if err != nil {
			return fmt.Errorf("parameter %s.%s: %w", moduleType, name, err)
		}
		params[name] = p
	}

	if id == "" {
		l.counters[moduleType]++
		id = fmt.Sprintf("%s-%d", moduleType, l.counters[moduleType])
	}
	l.modules = append(l.modules, &patch.Module{
		ID:     id,
		Type:   moduleType,
		Params: params,
		Source: source,
	})
	return nil
}

func (l *loader) addScope(block *hcl.Block) error {
	var sb scopeBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &sb); diags.HasErrors() {
		return diags
	}
	l.scopes = append(l.scopes, patch.Scope{Module: sb.Module, Port: sb.Port})
	return nil
}

func (l *loader) finish() (*patch.Graph, error) {
	g := &patch.Graph{Modules: l.modules, Scopes: l.scopes}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}
	return g, nil
}
