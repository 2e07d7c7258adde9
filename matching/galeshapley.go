// Package matching: stable matching via row-proposing Gale–Shapley.
//
// Used instead of the Hungarian solver when preference ORDER matters more
// than raw numeric cost: each side ranks the other, and the result
// guarantees no blocking pair — no (row, col) who would both abandon their
// assigned partners for each other.
//
// Algorithm Outline:
//  1. Precompute rank[c][r] from colPrefs so "does c prefer r over r'?"
//     is O(1). Rows absent from a column's list are unacceptable to it.
//  2. Every row proposes down its own list, in order. A free column
//     accepts; an engaged column trades up iff the proposer ranks better.
//  3. Rejected rows continue down their lists; rows with exhausted (or
//     empty) lists stay unmatched.
//  4. Terminates after at most rows×cols proposals with a stable matching.
//
// Contracts:
//   - Deterministic: rows propose in ascending index order via a FIFO queue.
//   - Every preference index must be in range for the opposite dimension;
//     validated up front (ErrPreferenceIndex).
//
// Complexity: O(rows·cols) time and memory.

package matching

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/assign/hungarian"
)

// StableMatch computes a stable matching from ranked preference lists.
// rowPrefs[i] ranks columns for row i (most-preferred first); colPrefs[j]
// ranks rows for column j. Returns pairs sorted by row.
func StableMatch(rowPrefs, colPrefs [][]int) ([]hungarian.Pair, error) {
	rows, cols := len(rowPrefs), len(colPrefs)
	if err := validatePreferenceIndices(rowPrefs, cols, "row"); err != nil {
		return nil, err
	}
	if err := validatePreferenceIndices(colPrefs, rows, "column"); err != nil {
		return nil, err
	}

	// rank[c][r] = position of row r in column c's list; cols beyond the
	// list (value rows) are unacceptable.
	rank := make([][]int, cols)
	for c := 0; c < cols; c++ {
		rank[c] = make([]int, rows)
		for r := range rank[c] {
			rank[c][r] = rows
		}
		for pos, r := range colPrefs[c] {
			if rank[c][r] == rows {
				rank[c][r] = pos // first occurrence wins under ties
			}
		}
	}

	matchOfCol := make([]int, cols) // -1 = free
	for c := range matchOfCol {
		matchOfCol[c] = -1
	}
	nextChoice := make([]int, rows) // next index into rowPrefs[r]

	// FIFO of free rows, ascending start order for determinism.
	queue := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		for nextChoice[r] < len(rowPrefs[r]) {
			c := rowPrefs[r][nextChoice[r]]
			nextChoice[r]++

			if rank[c][r] == rows {
				continue // c finds r unacceptable
			}
			current := matchOfCol[c]
			if current == -1 {
				matchOfCol[c] = r
				break
			}
			if rank[c][r] < rank[c][current] {
				// c trades up; the dumped row resumes proposing.
				matchOfCol[c] = r
				queue = append(queue, current)
				break
			}
			// rejected, try the next preference
		}
	}

	pairs := make([]hungarian.Pair, 0, cols)
	for c, r := range matchOfCol {
		if r >= 0 {
			pairs = append(pairs, hungarian.Pair{Row: r, Col: c})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].Row < pairs[b].Row })

	return pairs, nil
}

// validatePreferenceIndices checks that every entry addresses the opposite
// dimension.
func validatePreferenceIndices(prefs [][]int, oppositeDim int, side string) error {
	for i, list := range prefs {
		for _, idx := range list {
			if idx < 0 || idx >= oppositeDim {
				return fmt.Errorf("%s list %d entry %d: %w", side, i, idx, ErrPreferenceIndex)
			}
		}
	}

	return nil
}
