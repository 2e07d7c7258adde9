// Package matching orchestrates constrained optimal assignment.
//
// The package layers policy around the pure hungarian solver:
//
//	▸ Matcher — the pipeline: validate → normalize → penalize → solve →
//	  validate result → record timing. Solves go through a bounded LRU
//	  cache keyed by the penalized matrix's content hash.
//	▸ EdgeCaseHandler — detects pathological inputs (rectangular shapes,
//	  infeasible rows, ties, negative costs, disconnected graphs) and
//	  repairs them via pluggable resolution strategies.
//	▸ StableMatch — Gale–Shapley stable matching for the bidirectional
//	  mode, where ranked preferences outrank raw numeric cost.
//
// Two solving modes:
//
//	cost mode (default)    minimize Σ cost over a perfect matching
//	bidirectional mode     stability over ranked preference lists
//
// Constraints registered on the Matcher act twice: their penalties are
// folded into the working matrix before solving (steering the optimum),
// and their groups are validated before and after computation (reporting,
// or hard failure under the Strict level).
//
// Determinism: for a fixed option set, constraint set and input, every
// Match call returns the same assignment. Randomized tie-breaking derives
// its stream from the configured seed mixed with the matrix content hash.
//
// Construction is option-based:
//
//	m := matching.NewMatcher(
//	    matching.WithName("dispatch"),
//	    matching.WithCacheSize(256),
//	    matching.WithSeed(42),
//	)
//	res, err := m.Match(costs, nil, nil, nil)
//
// All entry points return explicit errors; panics occur only on programmer
// error in option values (documented per option).
package matching
