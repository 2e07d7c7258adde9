// Package hungarian provides the pure primitives of the assignment engine:
// an immutable CostMatrix and a Kuhn–Munkres (Hungarian) solver.
//
// CostMatrix
//
//	A row-major, immutable wrapper around a 2-D float64 grid where entry
//	(i,j) is the cost of pairing row i with column j. Costs are finite or
//	+Inf (the "forbidden pairing" sentinel); NaN and -Inf are rejected at
//	construction. Every matrix carries a stable 64-bit content hash computed
//	over a canonical byte encoding of its values, so two matrices with
//	identical entries hash identically regardless of construction path —
//	the hash is the solve-cache key upstream.
//
// Solve — Kuhn–Munkres with dual potentials
//
// Algorithm Outline:
//  1. Maintain row potentials u and column potentials v with the invariant
//     u[i] + v[j] ≤ c[i][j] on all cells.
//  2. For each row, grow an alternating tree over tight cells
//     (c[i][j] − u[i] − v[j] == 0), tracking the minimum slack per column.
//  3. When no tight cell extends the tree, shift the potentials by the
//     minimum slack (dual update) and continue.
//  4. On reaching a free column, augment along the recorded path.
//  5. After n augmentations the matching is perfect and minimum-cost.
//
// Contracts:
//   - Square matrices only; rectangular input returns ErrNonSquare.
//     The matching package always pads to square before solving.
//   - Deterministic: fixed loop order, no map iteration, no randomness.
//   - Pure: Solve never mutates its input and holds no state.
//
// Complexity:
//
//	Time   = O(n³)
//	Memory = O(n²) for the internal working copy.
//
// Errors: ErrNilMatrix, ErrNonSquare (see errors.go).
package hungarian
