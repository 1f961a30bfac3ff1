// Package reconcile computes the identity mapping between a freshly
// compiled patch graph and the graph currently running in the audio engine.
// Modules judged to be "the same unit, edited" keep their live instance and
// therefore their internal state (oscillator phase, filter history,
// envelope stage) across an update.
//
// The engine is a pure function of the two input graphs: it extracts
// weighted features from every module's parameter tree, fingerprints how
// each module's outputs are consumed downstream, scores same-type pairs,
// and solves a minimum-cost assignment per module type, with anchoring for
// reserved and user-authored ids and an ambiguity guard for
// indistinguishable candidates.
package reconcile
