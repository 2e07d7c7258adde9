// SPDX-License-Identifier: MIT

// Package hungarian: the Kuhn–Munkres solver (dual-potential formulation).
// See doc.go for the algorithm outline and contracts.

package hungarian

import (
	"math"
	"sort"
)

// forbiddenStandIn replaces +Inf entries inside the solver so dual
// arithmetic stays finite. Large enough to never be chosen over any real
// cost, small enough that sums of n stand-ins cannot overflow.
const forbiddenStandIn = 1e18

// Pair is one (row, col) element of an assignment.
type Pair struct {
	Row int
	Col int
}

// Solve computes a minimum-total-cost perfect assignment of an n×n matrix.
//
// Contracts:
//   - m must be non-nil and square; rectangular input returns ErrNonSquare
//     (the matching package pads to square before calling).
//   - Deterministic for identical input: fixed loop order, no randomness.
//   - Pure: m is never mutated; no state survives the call.
//
// Returns the assignment as pairs sorted by row, and the total cost summed
// from the ORIGINAL entries (so a forbidden pairing that had to be taken
// reports +Inf, not the internal stand-in).
//
// Complexity: O(n³) time, O(n²) memory.
func Solve(m *CostMatrix) ([]Pair, float64, error) {
	if m == nil {
		return nil, 0, ErrNilMatrix
	}
	if m.rows != m.cols {
		return nil, 0, ErrNonSquare
	}
	n := m.rows

	// Working copy with +Inf replaced by the finite stand-in.
	c := make([][]float64, n)
	for i := 0; i < n; i++ {
		c[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v := m.at(i, j)
			if math.IsInf(v, 1) {
				v = forbiddenStandIn
			}
			c[i][j] = v
		}
	}

	// Kuhn–Munkres with potentials, 1-indexed internally for cleaner index
	// arithmetic. p[j] is the row matched to column j; column 0 is virtual.
	const inf = math.MaxFloat64 / 2

	u := make([]float64, n+1)    // row potentials
	v := make([]float64, n+1)    // column potentials
	p := make([]int, n+1)        // p[j] = row assigned to column j
	way := make([]int, n+1)      // way[j] = previous column on the path
	minv := make([]float64, n+1) // per-column minimum slack
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0 // start from the virtual column

		for j := 1; j <= n; j++ {
			minv[j] = inf
			used[j] = false
		}

		// Grow the alternating tree until a free column is reached.
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 < 0 {
				break
			}

			// Dual update: keep u[i]+v[j] ≤ c[i][j] tight along the tree.
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the recorded path.
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	// Extract pairs and total cost over the original entries.
	pairs := make([]Pair, 0, n)
	total := 0.0
	for j := 1; j <= n; j++ {
		row := p[j] - 1
		col := j - 1
		pairs = append(pairs, Pair{Row: row, Col: col})
		total += m.at(row, col)
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].Row < pairs[b].Row })

	return pairs, total, nil
}
