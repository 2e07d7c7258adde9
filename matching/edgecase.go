// Package matching: edge-case detection and resolution.
//
// The EdgeCaseHandler is the pre/post-processing layer that keeps the pure
// solver honest about pathological inputs: it detects anomalous matrix
// shapes or solution structures, and rewrites the cost matrix (or flags the
// result) according to a resolution strategy. Strategies come from a
// default table, a per-call override, or a caller-registered custom handler
// which fully replaces the built-in behavior for its case type.

package matching

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/assign/constraints"
	"github.com/katalvlaran/assign/hungarian"
)

// EdgeCaseType tags the recognized pathological input/output structures.
type EdgeCaseType int

const (
	// NonSquareMatrix: rows != cols.
	NonSquareMatrix EdgeCaseType = iota

	// InfeasibleAssignment: a full row or column of +Inf costs.
	InfeasibleAssignment

	// MultipleOptimalSolutions: at least two assignments share the optimal
	// total (detected by a pairwise swap test on a computed solution).
	MultipleOptimalSolutions

	// PreferenceTies: duplicate indices inside a single preference list.
	PreferenceTies

	// MissingPreferences: an empty preference list where one was expected.
	MissingPreferences

	// ZeroCostCycles: two rows and two columns whose four crossing cells
	// are all zero, admitting free alternation between equal assignments.
	ZeroCostCycles

	// NegativeCostCycles: negative entries present, so swap cycles can
	// reduce cost below the non-negative domain floor.
	NegativeCostCycles

	// DisconnectedGraph: the finite-cost bipartite graph splits into more
	// than one connected component.
	DisconnectedGraph
)

// String implements fmt.Stringer.
func (t EdgeCaseType) String() string {
	switch t {
	case NonSquareMatrix:
		return "NonSquareMatrix"
	case InfeasibleAssignment:
		return "InfeasibleAssignment"
	case MultipleOptimalSolutions:
		return "MultipleOptimalSolutions"
	case PreferenceTies:
		return "PreferenceTies"
	case MissingPreferences:
		return "MissingPreferences"
	case ZeroCostCycles:
		return "ZeroCostCycles"
	case NegativeCostCycles:
		return "NegativeCostCycles"
	case DisconnectedGraph:
		return "DisconnectedGraph"
	default:
		return "Unknown"
	}
}

// ResolutionStrategy names the built-in repair behaviors.
type ResolutionStrategy int

const (
	// PadMatrix squares up a rectangular matrix with the pad-cost sentinel.
	PadMatrix ResolutionStrategy = iota

	// GreedyAssignment replaces +Inf with a large finite cost so the
	// solver can proceed (degraded but feasible).
	GreedyAssignment

	// RandomSelection adds a seeded pseudo-random perturbation to break
	// ties; reproducible for a fixed seed and matrix.
	RandomSelection

	// ProportionalSelection perturbs each cell proportionally to its
	// magnitude (seeded, reproducible).
	ProportionalSelection

	// UseSecondaryCriteria adds a small weighted secondary cost matrix to
	// break ties deterministically.
	UseSecondaryCriteria

	// SplitAssignment would partition a disconnected instance into
	// independent sub-problems; no built-in implementation exists, so it
	// requires a custom handler.
	SplitAssignment

	// ManualResolution leaves the matrix untouched on purpose: the caller
	// owns the repair and only wants the detection on record.
	ManualResolution
)

// String implements fmt.Stringer.
func (s ResolutionStrategy) String() string {
	switch s {
	case PadMatrix:
		return "PadMatrix"
	case GreedyAssignment:
		return "GreedyAssignment"
	case RandomSelection:
		return "RandomSelection"
	case ProportionalSelection:
		return "ProportionalSelection"
	case UseSecondaryCriteria:
		return "UseSecondaryCriteria"
	case SplitAssignment:
		return "SplitAssignment"
	case ManualResolution:
		return "ManualResolution"
	default:
		return "Unknown"
	}
}

// Detection is one recorded edge-case observation with human-readable
// detail (shape, offending indices).
type Detection struct {
	Type   EdgeCaseType
	Detail string
}

// HandlerFunc is a caller-registered resolution. It receives the current
// working matrix and the evaluation context and returns the repaired
// matrix. A registered handler fully overrides the built-in strategy for
// its case type.
type HandlerFunc func(m *hungarian.CostMatrix, ctx constraints.Context) (*hungarian.CostMatrix, error)

// defaultStrategies maps each case type to its built-in repair.
// Absent entries (MissingPreferences, ZeroCostCycles, NegativeCostCycles)
// have no safe default: they resolve only through a custom handler,
// otherwise the matrix passes through unmodified with a logged warning.
var defaultStrategies = map[EdgeCaseType]ResolutionStrategy{
	NonSquareMatrix:          PadMatrix,
	InfeasibleAssignment:     GreedyAssignment,
	MultipleOptimalSolutions: UseSecondaryCriteria,
	PreferenceTies:           RandomSelection,
	DisconnectedGraph:        GreedyAssignment,
}

// EdgeCaseHandler detects and resolves pathological inputs. Not
// goroutine-safe on its own (it accumulates detections); the Matcher
// serializes access under its lock.
type EdgeCaseHandler struct {
	opts     Options
	log      *zap.Logger
	custom   map[EdgeCaseType]HandlerFunc
	detected []Detection
}

// NewEdgeCaseHandler builds a handler with the given options.
func NewEdgeCaseHandler(opts ...Option) *EdgeCaseHandler {
	o := gatherOptions(opts...)

	return &EdgeCaseHandler{
		opts:   o,
		log:    o.log,
		custom: make(map[EdgeCaseType]HandlerFunc),
	}
}

// RegisterHandler installs a custom resolution for one case type,
// fully overriding the built-in strategy.
func (h *EdgeCaseHandler) RegisterHandler(t EdgeCaseType, fn HandlerFunc) {
	if fn == nil {
		delete(h.custom, t)
		return
	}
	h.custom[t] = fn
}

// Detections returns a copy of the recorded observations since the last
// DetectAll / Reset.
func (h *EdgeCaseHandler) Detections() []Detection {
	out := make([]Detection, len(h.detected))
	copy(out, h.detected)

	return out
}

// Reset clears the recorded detections.
func (h *EdgeCaseHandler) Reset() { h.detected = h.detected[:0] }

// record appends one observation.
func (h *EdgeCaseHandler) record(t EdgeCaseType, format string, args ...any) {
	h.detected = append(h.detected, Detection{Type: t, Detail: fmt.Sprintf(format, args...)})
}

// ---------------------------------------------------------------- detectors

// DetectNonSquare reports rows != cols.
func (h *EdgeCaseHandler) DetectNonSquare(m *hungarian.CostMatrix) bool {
	if m.Rows() == m.Cols() {
		return false
	}
	h.record(NonSquareMatrix, "shape %dx%d", m.Rows(), m.Cols())

	return true
}

// DetectInfeasible reports any full row or full column of +Inf costs.
func (h *EdgeCaseHandler) DetectInfeasible(m *hungarian.CostMatrix) bool {
	rows, cols := m.Rows(), m.Cols()
	found := false

	for i := 0; i < rows; i++ {
		allInf := true
		for j := 0; j < cols; j++ {
			if v, _ := m.At(i, j); !math.IsInf(v, 1) {
				allInf = false
				break
			}
		}
		if allInf {
			h.record(InfeasibleAssignment, "row %d has no feasible column", i)
			found = true
		}
	}
	for j := 0; j < cols; j++ {
		allInf := true
		for i := 0; i < rows; i++ {
			if v, _ := m.At(i, j); !math.IsInf(v, 1) {
				allInf = false
				break
			}
		}
		if allInf {
			h.record(InfeasibleAssignment, "column %d has no feasible row", j)
			found = true
		}
	}

	return found
}

// DetectMultipleOptima runs the pairwise swap test over an already-computed
// assignment: if exchanging the columns of two assigned rows leaves the
// total unchanged (within eps), multiple optima exist.
//
// This is a sampling heuristic over row pairs, NOT an exhaustive
// alternate-optimum search; absence of a hit does not prove uniqueness.
func (h *EdgeCaseHandler) DetectMultipleOptima(m *hungarian.CostMatrix, pairs []hungarian.Pair) bool {
	const eps = 1e-9

	for a := 0; a < len(pairs); a++ {
		for b := a + 1; b < len(pairs); b++ {
			ra, ca := pairs[a].Row, pairs[a].Col
			rb, cb := pairs[b].Row, pairs[b].Col

			straight1, _ := m.At(ra, ca)
			straight2, _ := m.At(rb, cb)
			swapped1, err1 := m.At(ra, cb)
			swapped2, err2 := m.At(rb, ca)
			if err1 != nil || err2 != nil {
				continue
			}
			if math.Abs((swapped1+swapped2)-(straight1+straight2)) <= eps {
				h.record(MultipleOptimalSolutions,
					"rows %d and %d can swap columns %d/%d at equal cost", ra, rb, ca, cb)

				return true
			}
		}
	}

	return false
}

// DetectPreferenceTies reports duplicate indices inside any single
// preference list (either side).
func (h *EdgeCaseHandler) DetectPreferenceTies(prefs [][]int, side string) bool {
	found := false
	for i, list := range prefs {
		seen := make(map[int]bool, len(list))
		for _, idx := range list {
			if seen[idx] {
				h.record(PreferenceTies, "%s list %d repeats index %d", side, i, idx)
				found = true
				break
			}
			seen[idx] = true
		}
	}

	return found
}

// DetectMissingPreferences reports empty lists inside supplied preference
// sides (a nil side means preferences are not in play at all).
func (h *EdgeCaseHandler) DetectMissingPreferences(rowPrefs, colPrefs [][]int) bool {
	found := false
	for i, list := range rowPrefs {
		if len(list) == 0 {
			h.record(MissingPreferences, "row %d has no preferences", i)
			found = true
		}
	}
	for j, list := range colPrefs {
		if len(list) == 0 {
			h.record(MissingPreferences, "column %d has no preferences", j)
			found = true
		}
	}

	return found
}

// DetectZeroCostCycles reports a 2×2 all-zero crossing (two rows × two
// columns), the smallest structure that lets assignments alternate freely
// at zero cost.
func (h *EdgeCaseHandler) DetectZeroCostCycles(m *hungarian.CostMatrix) bool {
	rows, cols := m.Rows(), m.Cols()

	for c1 := 0; c1 < cols; c1++ {
		for c2 := c1 + 1; c2 < cols; c2++ {
			zeroRows := 0
			for r := 0; r < rows; r++ {
				v1, _ := m.At(r, c1)
				v2, _ := m.At(r, c2)
				if v1 == 0 && v2 == 0 {
					zeroRows++
					if zeroRows == 2 {
						h.record(ZeroCostCycles, "columns %d and %d share >=2 zero rows", c1, c2)

						return true
					}
				}
			}
		}
	}

	return false
}

// DetectNegativeCosts reports negative entries. Costs are non-negative by
// domain convention; negative values signal reward-style input whose swap
// cycles can drive totals below the domain floor.
func (h *EdgeCaseHandler) DetectNegativeCosts(m *hungarian.CostMatrix) bool {
	rows, cols := m.Rows(), m.Cols()
	negative := 0

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, _ := m.At(i, j); v < 0 {
				negative++
			}
		}
	}
	if negative == 0 {
		return false
	}
	h.record(NegativeCostCycles, "%d negative entries", negative)

	return true
}

// DetectDisconnected reports whether the finite-cost bipartite graph splits
// into more than one connected component (isolated all-Inf rows/cols are
// the InfeasibleAssignment case and do not count here).
func (h *EdgeCaseHandler) DetectDisconnected(m *hungarian.CostMatrix) bool {
	rows, cols := m.Rows(), m.Cols()

	// Nodes: 0..rows-1 are rows, rows..rows+cols-1 are columns.
	adj := make([][]int, rows+cols)
	hasEdge := make([]bool, rows+cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, _ := m.At(i, j); !math.IsInf(v, 1) {
				adj[i] = append(adj[i], rows+j)
				adj[rows+j] = append(adj[rows+j], i)
				hasEdge[i] = true
				hasEdge[rows+j] = true
			}
		}
	}

	components := 0
	visited := make([]bool, rows+cols)
	for start := 0; start < rows+cols; start++ {
		if visited[start] || !hasEdge[start] {
			continue
		}
		components++
		if components > 1 {
			h.record(DisconnectedGraph, "finite-cost graph has multiple components")

			return true
		}
		// BFS flood fill of one component.
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			for _, next := range adj[node] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	return false
}

// DetectAll clears prior detections, runs every structural detector, and
// returns the unique set of case types found. Detail records are preserved
// and queryable via Detections. MultipleOptimalSolutions is excluded here:
// it needs a computed assignment (see DetectMultipleOptima).
func (h *EdgeCaseHandler) DetectAll(m *hungarian.CostMatrix, rowPrefs, colPrefs [][]int) []EdgeCaseType {
	h.Reset()

	h.DetectNonSquare(m)
	h.DetectInfeasible(m)
	h.DetectPreferenceTies(rowPrefs, "row")
	h.DetectPreferenceTies(colPrefs, "column")
	h.DetectMissingPreferences(rowPrefs, colPrefs)
	h.DetectZeroCostCycles(m)
	h.DetectNegativeCosts(m)
	h.DetectDisconnected(m)

	seen := make(map[EdgeCaseType]bool, len(h.detected))
	var unique []EdgeCaseType
	for _, d := range h.detected {
		if !seen[d.Type] {
			seen[d.Type] = true
			unique = append(unique, d.Type)
		}
	}

	return unique
}

// --------------------------------------------------------------- resolution

// Resolve repairs the matrix for one detected case type.
//
// Dispatch order: a registered custom handler wins outright; otherwise an
// explicit strategy override applies; otherwise the default table. A case
// with no applicable strategy is returned unmodified with applied=false and
// a logged warning — downstream solving may then fail or degrade, and the
// condition is surfaced through the matcher's result, never hidden.
func (h *EdgeCaseHandler) Resolve(t EdgeCaseType, m *hungarian.CostMatrix, ctx constraints.Context, strategy ...ResolutionStrategy) (out *hungarian.CostMatrix, applied bool, err error) {
	if fn, ok := h.custom[t]; ok {
		out, err = fn(m, ctx)
		if err != nil {
			return nil, false, err
		}
		h.log.Info("edge case resolved by custom handler", zap.Stringer("case", t))

		return out, true, nil
	}

	strat, ok := defaultStrategies[t]
	if len(strategy) > 0 {
		strat, ok = strategy[0], true
	}
	if !ok {
		h.log.Warn("edge case has no resolution strategy; matrix passed through",
			zap.Stringer("case", t))

		return m, false, nil
	}

	switch strat {
	case PadMatrix:
		out = h.padMatrix(m)
	case GreedyAssignment:
		out = h.applyGreedyCosts(m)
	case UseSecondaryCriteria:
		out = h.applySecondaryCriteria(m, ctx)
	case RandomSelection:
		out = h.applyRandomTiebreaker(m)
	case ProportionalSelection:
		out = h.applyProportionalWeights(m)
	case ManualResolution:
		h.log.Info("edge case left for manual resolution", zap.Stringer("case", t))

		return m, true, nil
	case SplitAssignment:
		// No built-in split; without a custom handler this is unresolved.
		h.log.Warn("SplitAssignment requires a custom handler; matrix passed through",
			zap.Stringer("case", t))

		return m, false, nil
	default:
		return m, false, nil
	}

	h.log.Info("edge case resolved",
		zap.Stringer("case", t), zap.Stringer("strategy", strat))

	return out, true, nil
}

// padMatrix squares up a rectangular matrix, filling synthetic cells with
// the pad-cost sentinel.
func (h *EdgeCaseHandler) padMatrix(m *hungarian.CostMatrix) *hungarian.CostMatrix {
	rows, cols := m.Rows(), m.Cols()
	if rows == cols {
		return m
	}
	dim := rows
	if cols > dim {
		dim = cols
	}

	vals := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		vals[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < rows && j < cols {
				vals[i][j], _ = m.At(i, j)
			} else {
				vals[i][j] = h.opts.padCost
			}
		}
	}

	return hungarian.MustNew(vals)
}

// applyGreedyCosts replaces +Inf entries with the finite greedy cost.
func (h *EdgeCaseHandler) applyGreedyCosts(m *hungarian.CostMatrix) *hungarian.CostMatrix {
	vals := m.Values()
	for i := range vals {
		for j := range vals[i] {
			if math.IsInf(vals[i][j], 1) {
				vals[i][j] = h.opts.greedyCost
			}
		}
	}

	return hungarian.MustNew(vals)
}

// applySecondaryCriteria adds a small weighted secondary cost matrix. The
// caller may supply one under ctx["secondary_costs"] ([][]float64, same
// shape); otherwise a deterministic product gradient (i+1)(j+1) is used.
// The product form matters: exchanging the columns of two rows shifts the
// gradient sum by (i1-i2)(j1-j2) != 0, so every pairwise swap tie breaks
// (an additive i*cols+j gradient would be swap-invariant).
func (h *EdgeCaseHandler) applySecondaryCriteria(m *hungarian.CostMatrix, ctx constraints.Context) *hungarian.CostMatrix {
	rows, cols := m.Rows(), m.Cols()
	vals := m.Values()

	secondary, _ := ctx["secondary_costs"].([][]float64)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsInf(vals[i][j], 1) {
				continue // forbidden cells stay forbidden
			}
			if secondary != nil && i < len(secondary) && j < len(secondary[i]) {
				vals[i][j] += h.opts.secondaryWeight * secondary[i][j]
			} else {
				vals[i][j] += h.opts.secondaryWeight * float64((i+1)*(j+1)) / float64(rows*cols)
			}
		}
	}

	return hungarian.MustNew(vals)
}

// applyRandomTiebreaker adds a seeded pseudo-random perturbation of
// magnitude noise to every finite cell. The RNG stream is derived from the
// configured seed and the matrix content hash, so the same (seed, matrix)
// pair always produces the same repaired matrix.
func (h *EdgeCaseHandler) applyRandomTiebreaker(m *hungarian.CostMatrix) *hungarian.CostMatrix {
	rng := rngFromSeed(mixSeed(h.opts.seed, m.ContentHash()))
	vals := m.Values()
	for i := range vals {
		for j := range vals[i] {
			if !math.IsInf(vals[i][j], 1) {
				vals[i][j] += rng.Float64() * h.opts.noise
			}
		}
	}

	return hungarian.MustNew(vals)
}

// applyProportionalWeights perturbs each finite cell proportionally to its
// magnitude (seeded, reproducible), preserving relative cost ordering for
// well-separated values while breaking exact ties.
func (h *EdgeCaseHandler) applyProportionalWeights(m *hungarian.CostMatrix) *hungarian.CostMatrix {
	rng := rngFromSeed(mixSeed(h.opts.seed, m.ContentHash()))
	vals := m.Values()
	for i := range vals {
		for j := range vals[i] {
			if !math.IsInf(vals[i][j], 1) {
				vals[i][j] *= 1 + rng.Float64()*h.opts.noise
			}
		}
	}

	return hungarian.MustNew(vals)
}
