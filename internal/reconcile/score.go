package reconcile

import (
	"math"
	"reflect"

	"github.com/HelveticaScenario/modular-sub001/internal/patch"
)

// simEpsilon keeps the relative-difference similarity defined at zero and
// absorbs floating point noise at decision boundaries.
const simEpsilon = 1e-9

// Blend of the two similarity signals, and the floor applied when a
// user-authored id survives an edit unchanged.
const (
	paramWeight      = 0.6
	downstreamWeight = 0.4
	explicitIDScore  = 0.99
)

// numberSimilarity compares two numeric constants by relative difference.
// Identical values score 1; values of opposite magnitude approach 0.
func numberSimilarity(a, b float64) float64 {
	return 1 - math.Abs(a-b)/(math.Abs(a)+math.Abs(b)+simEpsilon)
}

// featureSimilarity compares two leaves at the same path. Kinds must agree;
// only numbers get partial credit.
func featureSimilarity(a, b feature) float64 {
	if a.kind != b.kind {
		return 0
	}
	switch a.kind {
	case featureNumber:
		return numberSimilarity(a.number, b.number)
	case featureBool:
		if a.boolean == b.boolean {
			return 1
		}
		return 0
	case featureString, featureCable:
		if a.text == b.text {
			return 1
		}
		return 0
	case featureNull, featureDisconnected:
		return 1
	case featureOpaque:
		if ao, ok := a.raw.(patch.Opaque); ok {
			if bo, ok := b.raw.(patch.Opaque); ok {
				if ao.Equal(bo) {
					return 1
				}
				return 0
			}
		}
		if reflect.DeepEqual(a.raw, b.raw) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// paramSimilarity is the weighted match fraction over the union of both
// modules' feature paths. A path present on only one side contributes its
// weight to the denominator and nothing to the numerator.
func paramSimilarity(a, b map[string]feature) float64 {
	var num, den float64
	for path, fa := range a {
		fb, ok := b[path]
		if !ok {
			den += fa.weight
			continue
		}
		w := math.Max(fa.weight, fb.weight)
		den += w
		num += w * featureSimilarity(fa, fb)
	}
	for path, fb := range b {
		if _, ok := a[path]; !ok {
			den += fb.weight
		}
	}
	if den == 0 {
		// Two parameterless modules are indistinguishable by parameters.
		return 1
	}
	return num / den
}

// multisetJaccard is sum-of-min over sum-of-max across the token union.
// Two modules nothing refers to are considered identically used.
func multisetJaccard(a, b usageCounts) float64 {
	var minSum, maxSum float64
	for token, ca := range a {
		cb := b[token]
		minSum += float64(min(ca, cb))
		maxSum += float64(max(ca, cb))
	}
	for token, cb := range b {
		if _, ok := a[token]; !ok {
			maxSum += float64(cb)
		}
	}
	if maxSum == 0 {
		return 1
	}
	return minSum / maxSum
}

// score rates how likely the desired module d and the running module c are
// the same unit, in [0,1]. Cross-type pairs never match. An explicit,
// stable id is treated as near-certain identity regardless of how far the
// parameters drifted.
func (r *run) score(d, c *patch.Module) float64 {
	if d.Type != c.Type {
		return 0
	}
	ps := paramSimilarity(r.desiredFeatures[d.ID], r.currentFeatures[c.ID])
	ds := multisetJaccard(r.desiredUsage[d.ID], r.currentUsage[c.ID])
	base := paramWeight*ps + downstreamWeight*ds
	if d.ExplicitID() && d.ID == c.ID && base < explicitIDScore {
		base = explicitIDScore
	}
	return base
}
