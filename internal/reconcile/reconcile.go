package reconcile

import (
	"context"
	"log/slog"

	"github.com/HelveticaScenario/modular-sub001/internal/ctxlog"
	"github.com/HelveticaScenario/modular-sub001/internal/patch"
)

// Default policy constants. Both are empirically tuned and configurable;
// treat them as policy, not algorithmic truth.
const (
	DefaultMatchThreshold  = 0.65
	DefaultAmbiguityMargin = 0.05
)

// assignEpsilon nudges the no-match cost above the threshold cost so a
// pairing scoring exactly at the threshold is strictly preferred by the
// optimizer rather than tied with rejection.
const assignEpsilon = 1e-9

// Options configures one reconciliation call. The zero value uses the
// defaults; a nil Logger falls back to the context logger.
type Options struct {
	// MatchThreshold is the minimum score for a pairing to be accepted.
	MatchThreshold float64
	// AmbiguityMargin is the minimum gap between a desired module's best
	// and second-best candidate score for the best to be trusted.
	AmbiguityMargin float64
	// Logger receives per-decision debug output.
	Logger *slog.Logger
}

// DefaultOptions returns the tuned default policy.
func DefaultOptions() Options {
	return Options{
		MatchThreshold:  DefaultMatchThreshold,
		AmbiguityMargin: DefaultAmbiguityMargin,
	}
}

// Plan summarizes, per module, what applying the reconciled patch means
// for the audio engine: instances to keep (possibly under a new id),
// instances to create, and instances to tear down. Slices follow graph
// order.
type Plan struct {
	Kept      []string // desired ids served by a surviving instance
	Created   []string // desired ids with no surviving instance
	Destroyed []string // current ids whose instance goes away
}

// Result is the output of one reconciliation.
type Result struct {
	// Applied is the desired graph, deep-cloned and otherwise unchanged;
	// ids and cable references stay exactly as compiled.
	Applied *patch.Graph
	// Remap maps current-instance id to desired id for every pair judged
	// to be the same module. Identity pairs are omitted.
	Remap map[string]string
	// Plan is advisory keep/create/destroy metadata derived from the same
	// pairing.
	Plan Plan
}

// run holds the per-call working set: features and usage fingerprints for
// every module on both sides. Nothing survives between calls.
type run struct {
	opts    Options
	logger  *slog.Logger
	desired *patch.Graph
	current *patch.Graph

	desiredFeatures map[string]map[string]feature
	currentFeatures map[string]map[string]feature
	desiredUsage    map[string]usageCounts
	currentUsage    map[string]usageCounts
}

func newRun(desired, current *patch.Graph, opts Options, logger *slog.Logger) *run {
	r := &run{
		opts:            opts,
		logger:          logger,
		desired:         desired,
		current:         current,
		desiredFeatures: make(map[string]map[string]feature, len(desired.Modules)),
		currentFeatures: make(map[string]map[string]feature, len(current.Modules)),
		desiredUsage:    downstreamUsage(desired),
		currentUsage:    downstreamUsage(current),
	}
	for _, m := range desired.Modules {
		r.desiredFeatures[m.ID] = extractFeatures(m, desired)
	}
	for _, m := range current.Modules {
		r.currentFeatures[m.ID] = extractFeatures(m, current)
	}
	return r
}

// Reconcile computes the identity mapping from current-instance ids to
// desired ids. It never mutates its inputs, never fails, and is
// deterministic: repeated calls on identical input return identical
// results. A nil current graph is the first-run case and yields an empty
// remap.
func Reconcile(ctx context.Context, desired, current *patch.Graph, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}
	if opts.MatchThreshold == 0 {
		opts.MatchThreshold = DefaultMatchThreshold
	}
	if opts.AmbiguityMargin == 0 {
		opts.AmbiguityMargin = DefaultAmbiguityMargin
	}

	result := Result{
		Applied: desired.Clone(),
		Remap:   make(map[string]string),
	}
	if current == nil {
		for _, m := range desired.Modules {
			result.Plan.Created = append(result.Plan.Created, m.ID)
		}
		logger.Debug("reconcile: no current graph, first run", "created", len(result.Plan.Created))
		return result
	}

	r := newRun(desired, current, opts, logger)

	// pairs maps desired id -> current id for every accepted identity,
	// including identity pairs; taken marks consumed current modules.
	pairs := make(map[string]string)
	taken := make(map[string]bool)

	// Reserved ids always denote the same semantic entity; map them to
	// themselves when present on both sides and keep them away from the
	// optimizer entirely.
	for _, id := range []string{patch.RootID, patch.RootClockID} {
		if _, ok := desired.Module(id); !ok {
			continue
		}
		if _, ok := current.Module(id); !ok {
			continue
		}
		pairs[id] = id
		taken[id] = true
	}

	// A user-authored id that still exists under the same type is
	// near-certain identity. Anchoring it before any scoring guarantees
	// the optimizer can never reassign a named module away from its own
	// name.
	for _, d := range desired.Modules {
		if patch.IsReserved(d.ID) {
			continue
		}
		if _, anchored := pairs[d.ID]; anchored {
			continue
		}
		if !d.ExplicitID() {
			continue
		}
		c, ok := current.Module(d.ID)
		if !ok || c.Type != d.Type || taken[c.ID] {
			continue
		}
		pairs[d.ID] = c.ID
		taken[c.ID] = true
		logger.Debug("reconcile: anchored explicit id", "id", d.ID, "type", d.Type)
	}

	// Group what is left by module type and solve each group as an
	// assignment problem. Types are visited in desired-graph order for
	// deterministic output.
	currentByType := make(map[string][]*patch.Module)
	for _, c := range current.Modules {
		if taken[c.ID] || patch.IsReserved(c.ID) {
			continue
		}
		currentByType[c.Type] = append(currentByType[c.Type], c)
	}
	desiredByType := make(map[string][]*patch.Module)
	var typeOrder []string
	for _, d := range desired.Modules {
		if patch.IsReserved(d.ID) {
			continue
		}
		if _, anchored := pairs[d.ID]; anchored {
			continue
		}
		if _, seen := desiredByType[d.Type]; !seen {
			typeOrder = append(typeOrder, d.Type)
		}
		desiredByType[d.Type] = append(desiredByType[d.Type], d)
	}
	for _, t := range typeOrder {
		dGroup := desiredByType[t]
		cGroup := currentByType[t]
		if len(cGroup) == 0 {
			continue
		}
		r.matchGroup(dGroup, cGroup, pairs, taken)
	}

	// Compose the remap and the plan from the full pair set. Identity
	// pairs stay out of the remap; they still count as kept.
	usedCurrent := make(map[string]bool, len(pairs))
	for _, d := range desired.Modules {
		c, ok := pairs[d.ID]
		if !ok {
			result.Plan.Created = append(result.Plan.Created, d.ID)
			continue
		}
		usedCurrent[c] = true
		result.Plan.Kept = append(result.Plan.Kept, d.ID)
		if c != d.ID {
			result.Remap[c] = d.ID
		}
	}
	for _, c := range current.Modules {
		if !usedCurrent[c.ID] {
			result.Plan.Destroyed = append(result.Plan.Destroyed, c.ID)
		}
	}

	logger.Debug("reconcile: complete",
		"remapped", len(result.Remap),
		"kept", len(result.Plan.Kept),
		"created", len(result.Plan.Created),
		"destroyed", len(result.Plan.Destroyed),
	)
	return result
}

// matchGroup solves one module type's pairing as a square assignment
// problem. Dummy rows/columns priced just above the rejection cost make
// the optimizer itself refuse any pairing below the threshold.
func (r *run) matchGroup(dGroup, cGroup []*patch.Module, pairs map[string]string, taken map[string]bool) {
	n := max(len(dGroup), len(cGroup))
	noMatchCost := 1 - r.opts.MatchThreshold + assignEpsilon

	scores := make([][]float64, len(dGroup))
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		if i < len(dGroup) {
			scores[i] = make([]float64, len(cGroup))
		}
		for j := range cost[i] {
			if i < len(dGroup) && j < len(cGroup) {
				s := r.score(dGroup[i], cGroup[j])
				scores[i][j] = s
				cost[i][j] = 1 - s
			} else {
				cost[i][j] = noMatchCost
			}
		}
	}

	assignment := solveAssignment(cost)
	for i, d := range dGroup {
		j := assignment[i]
		if j >= len(cGroup) {
			r.logger.Debug("reconcile: no candidate above threshold", "id", d.ID, "type", d.Type)
			continue
		}
		s := scores[i][j]
		if s+assignEpsilon < r.opts.MatchThreshold {
			r.logger.Debug("reconcile: match below threshold",
				"id", d.ID, "candidate", cGroup[j].ID, "score", s)
			continue
		}
		if len(cGroup) > 1 {
			best, second := topTwo(scores[i])
			if best-second < r.opts.AmbiguityMargin {
				r.logger.Debug("reconcile: candidates too ambiguous",
					"id", d.ID, "best", best, "second", second)
				continue
			}
		}
		pairs[d.ID] = cGroup[j].ID
		taken[cGroup[j].ID] = true
		r.logger.Debug("reconcile: matched",
			"from", cGroup[j].ID, "to", d.ID, "score", s)
	}
}

// topTwo returns the largest and second-largest values of a non-empty
// slice.
func topTwo(scores []float64) (best, second float64) {
	best = scores[0]
	second = -1
	for _, s := range scores[1:] {
		if s > best {
			second = best
			best = s
		} else if s > second {
			second = s
		}
	}
	return best, second
}
