package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/HelveticaScenario/modular-sub001/internal/ctxlog"
	"github.com/HelveticaScenario/modular-sub001/internal/patch"
	"github.com/HelveticaScenario/modular-sub001/internal/patchfile"
	"github.com/HelveticaScenario/modular-sub001/internal/reconcile"
)

// report is the machine-readable shape of a reconciliation outcome.
type report struct {
	Remap     map[string]string `json:"remap"`
	Kept      []string          `json:"kept"`
	Created   []string          `json:"created"`
	Destroyed []string          `json:"destroyed"`
}

// Run executes the main application logic: load the desired patch and the
// running patch (if any), reconcile them, and write the remap report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	desired, err := patchfile.Load(ctx, a.config.DesiredPath)
	if err != nil {
		return fmt.Errorf("failed to load desired patch: %w", err)
	}
	a.logger.Debug("Desired patch loaded.", "modules", len(desired.Modules))

	var current *patch.Graph
	if a.config.CurrentPath != "" {
		current, err = patchfile.Load(ctx, a.config.CurrentPath)
		if err != nil {
			return fmt.Errorf("failed to load current patch: %w", err)
		}
		a.logger.Debug("Current patch loaded.", "modules", len(current.Modules))
	} else {
		a.logger.Debug("No current patch given; treating as first run.")
	}

	opts := reconcile.DefaultOptions()
	if a.config.MatchThreshold > 0 {
		opts.MatchThreshold = a.config.MatchThreshold
	}
	if a.config.AmbiguityMargin > 0 {
		opts.AmbiguityMargin = a.config.AmbiguityMargin
	}
	opts.Logger = a.logger

	result := reconcile.Reconcile(ctx, desired, current, opts)

	if a.config.Output == "json" {
		return a.writeJSON(result)
	}
	return a.writeText(result)
}

func (a *App) writeJSON(result reconcile.Result) error {
	rep := report{
		Remap:     result.Remap,
		Kept:      result.Plan.Kept,
		Created:   result.Plan.Created,
		Destroyed: result.Plan.Destroyed,
	}
	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (a *App) writeText(result reconcile.Result) error {
	froms := make([]string, 0, len(result.Remap))
	for from := range result.Remap {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		fmt.Fprintf(a.outW, "remap   %s -> %s\n", from, result.Remap[from])
	}
	for _, id := range result.Plan.Kept {
		fmt.Fprintf(a.outW, "keep    %s\n", id)
	}
	for _, id := range result.Plan.Created {
		fmt.Fprintf(a.outW, "create  %s\n", id)
	}
	for _, id := range result.Plan.Destroyed {
		fmt.Fprintf(a.outW, "destroy %s\n", id)
	}
	return nil
}
