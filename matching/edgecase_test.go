package matching_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/assign/constraints"
	"github.com/katalvlaran/assign/hungarian"
	"github.com/katalvlaran/assign/matching"
)

func mustMatrix(t *testing.T, vals [][]float64) *hungarian.CostMatrix {
	t.Helper()

	m, err := hungarian.New(vals)
	require.NoError(t, err)

	return m
}

// TestDetectAll_StructuralCases drives every structural detector through
// one crafted input each and checks the unique-type contract.
func TestDetectAll_StructuralCases(t *testing.T) {
	inf := math.Inf(1)
	h := matching.NewEdgeCaseHandler()

	cases := []struct {
		name string
		vals [][]float64
		rows [][]int
		cols [][]int
		want matching.EdgeCaseType
	}{
		{
			name: "non-square",
			vals: [][]float64{{1, 2, 3}, {4, 5, 6}},
			want: matching.NonSquareMatrix,
		},
		{
			name: "infeasible row",
			vals: [][]float64{{inf, inf}, {1, 2}},
			want: matching.InfeasibleAssignment,
		},
		{
			name: "preference ties",
			vals: [][]float64{{1, 2}, {3, 4}},
			rows: [][]int{{0, 0}, {1}},
			want: matching.PreferenceTies,
		},
		{
			name: "missing preferences",
			vals: [][]float64{{1, 2}, {3, 4}},
			rows: [][]int{{}, {0}},
			want: matching.MissingPreferences,
		},
		{
			name: "zero-cost cycle",
			vals: [][]float64{{0, 0, 1}, {0, 0, 2}, {3, 4, 5}},
			want: matching.ZeroCostCycles,
		},
		{
			name: "negative costs",
			vals: [][]float64{{1, -2}, {3, 4}},
			want: matching.NegativeCostCycles,
		},
		{
			name: "disconnected graph",
			vals: [][]float64{{1, inf}, {inf, 2}},
			want: matching.DisconnectedGraph,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found := h.DetectAll(mustMatrix(t, tc.vals), tc.rows, tc.cols)
			assert.Contains(t, found, tc.want)
		})
	}
}

// TestDetectAll_CleanMatrix finds nothing on a well-formed input, and the
// detection log resets between calls.
func TestDetectAll_CleanMatrix(t *testing.T) {
	h := matching.NewEdgeCaseHandler()

	_ = h.DetectAll(mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}}), nil, nil)
	require.NotEmpty(t, h.Detections())

	found := h.DetectAll(mustMatrix(t, [][]float64{{4, 1, 3}, {2, 7, 5}, {3, 2, 2}}), nil, nil)
	assert.Empty(t, found)
	assert.Empty(t, h.Detections())
}

// TestDetectMultipleOptima runs the pairwise swap test against a computed
// assignment.
func TestDetectMultipleOptima(t *testing.T) {
	h := matching.NewEdgeCaseHandler()

	// Uniform matrix: any permutation is optimal.
	tied := mustMatrix(t, [][]float64{{1, 1}, {1, 1}})
	pairs, _, err := hungarian.Solve(tied)
	require.NoError(t, err)
	assert.True(t, h.DetectMultipleOptima(tied, pairs))

	// Strictly separated costs: the swap test finds no equal-cost exchange.
	unique := mustMatrix(t, [][]float64{{1, 10}, {10, 1}})
	pairs, _, err = hungarian.Solve(unique)
	require.NoError(t, err)
	assert.False(t, h.DetectMultipleOptima(unique, pairs))
}

// TestResolve_PadMatrix squares up a 2×3 matrix with the pad sentinel and
// preserves the original cells.
func TestResolve_PadMatrix(t *testing.T) {
	h := matching.NewEdgeCaseHandler()
	m := mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	out, applied, err := h.Resolve(matching.NonSquareMatrix, m, constraints.NewContext())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 3, out.Cols())

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			orig, _ := m.At(i, j)
			got, _ := out.At(i, j)
			assert.Equal(t, orig, got)
		}
	}
	for j := 0; j < 3; j++ {
		v, _ := out.At(2, j)
		assert.Equal(t, matching.DefaultPadCost, v)
	}
}

// TestResolve_GreedyReplacesInf substitutes the configured finite cost for
// every +Inf entry.
func TestResolve_GreedyReplacesInf(t *testing.T) {
	h := matching.NewEdgeCaseHandler(matching.WithGreedyCost(500))
	m := mustMatrix(t, [][]float64{{math.Inf(1), 1}, {2, math.Inf(1)}})

	out, applied, err := h.Resolve(matching.InfeasibleAssignment, m, constraints.NewContext())
	require.NoError(t, err)
	assert.True(t, applied)

	v, _ := out.At(0, 0)
	assert.Equal(t, 500.0, v)
	v, _ = out.At(1, 1)
	assert.Equal(t, 500.0, v)
	v, _ = out.At(0, 1)
	assert.Equal(t, 1.0, v)
}

// TestResolve_CustomHandlerOverrides: a registered handler fully replaces
// the built-in strategy for its case type.
func TestResolve_CustomHandlerOverrides(t *testing.T) {
	h := matching.NewEdgeCaseHandler()
	replacement := mustMatrix(t, [][]float64{{7}})

	h.RegisterHandler(matching.NonSquareMatrix,
		func(_ *hungarian.CostMatrix, _ constraints.Context) (*hungarian.CostMatrix, error) {
			return replacement, nil
		})

	out, applied, err := h.Resolve(matching.NonSquareMatrix,
		mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}}), constraints.NewContext())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Same(t, replacement, out)
}

// TestResolve_NoDefaultPassesThrough: case types without a default strategy
// return the matrix untouched with applied=false.
func TestResolve_NoDefaultPassesThrough(t *testing.T) {
	h := matching.NewEdgeCaseHandler()
	m := mustMatrix(t, [][]float64{{0, 0}, {0, 0}})

	out, applied, err := h.Resolve(matching.ZeroCostCycles, m, constraints.NewContext())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Same(t, m, out)
}

// TestResolve_RandomTiebreakIsSeeded: identical (seed, matrix) pairs yield
// identical perturbations; a different seed yields a different matrix.
func TestResolve_RandomTiebreakIsSeeded(t *testing.T) {
	m := mustMatrix(t, [][]float64{{1, 1}, {1, 1}})
	ctx := constraints.NewContext()

	a := matching.NewEdgeCaseHandler(matching.WithSeed(42))
	b := matching.NewEdgeCaseHandler(matching.WithSeed(42))
	c := matching.NewEdgeCaseHandler(matching.WithSeed(7))

	outA, _, err := a.Resolve(matching.PreferenceTies, m, ctx)
	require.NoError(t, err)
	outB, _, err := b.Resolve(matching.PreferenceTies, m, ctx)
	require.NoError(t, err)
	outC, _, err := c.Resolve(matching.PreferenceTies, m, ctx)
	require.NoError(t, err)

	assert.True(t, outA.Equal(outB))
	assert.False(t, outA.Equal(outC))

	// Perturbation magnitude stays within the configured noise bound.
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, _ := outA.At(i, j)
			assert.InDelta(t, 1.0, v, matching.DefaultTiebreakNoise)
		}
	}
}

// TestResolve_SecondaryCriteriaBreaksSwapTies: after applying the secondary
// gradient, no pairwise swap over the previously tied cells stays equal.
func TestResolve_SecondaryCriteriaBreaksSwapTies(t *testing.T) {
	h := matching.NewEdgeCaseHandler()
	m := mustMatrix(t, [][]float64{{1, 1}, {1, 1}})

	out, applied, err := h.Resolve(matching.MultipleOptimalSolutions, m, constraints.NewContext())
	require.NoError(t, err)
	require.True(t, applied)

	a00, _ := out.At(0, 0)
	a01, _ := out.At(0, 1)
	a10, _ := out.At(1, 0)
	a11, _ := out.At(1, 1)
	assert.NotEqual(t, a00+a11, a01+a10)
}

// TestResolve_SecondaryCriteriaFromContext: a caller-supplied secondary
// matrix takes precedence over the built-in gradient.
func TestResolve_SecondaryCriteriaFromContext(t *testing.T) {
	h := matching.NewEdgeCaseHandler(matching.WithSecondaryWeight(1))
	m := mustMatrix(t, [][]float64{{1, 1}, {1, 1}})

	ctx := constraints.NewContext()
	ctx["secondary_costs"] = [][]float64{{0, 10}, {10, 0}}

	out, applied, err := h.Resolve(matching.MultipleOptimalSolutions, m, ctx)
	require.NoError(t, err)
	require.True(t, applied)

	v, _ := out.At(0, 1)
	assert.Equal(t, 11.0, v)
	v, _ = out.At(0, 0)
	assert.Equal(t, 1.0, v)
}

// TestResolve_StrategyOverride forces an explicit strategy in place of the
// default table.
func TestResolve_StrategyOverride(t *testing.T) {
	h := matching.NewEdgeCaseHandler()
	m := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})

	// ManualResolution: matrix untouched, but counted as handled.
	out, applied, err := h.Resolve(matching.NonSquareMatrix, m, constraints.NewContext(),
		matching.ManualResolution)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Same(t, m, out)

	// SplitAssignment has no built-in implementation.
	out, applied, err = h.Resolve(matching.DisconnectedGraph, m, constraints.NewContext(),
		matching.SplitAssignment)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Same(t, m, out)
}
