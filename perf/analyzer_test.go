package perf_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/assign/hungarian"
	"github.com/katalvlaran/assign/matching"
	"github.com/katalvlaran/assign/perf"
)

func testMatrix(t *testing.T) *hungarian.CostMatrix {
	t.Helper()

	m, err := hungarian.New([][]float64{{4, 1, 3}, {2, 0, 5}, {3, 2, 2}})
	require.NoError(t, err)

	return m
}

// TestAnalyzer_Measure records one averaged measurement with the matrix
// shape, the solution quality and the iteration count.
func TestAnalyzer_Measure(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(3))
	mt := matching.NewMatcher(matching.WithName("baseline"))

	res, err := a.Measure(mt, testMatrix(t))
	require.NoError(t, err)

	assert.Equal(t, "baseline", res.Matcher)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 3, res.Columns)
	assert.Equal(t, 5.0, res.Quality)
	assert.Equal(t, 3, res.Iterations)
	assert.GreaterOrEqual(t, res.ExecutionTime, 0.0)
	assert.False(t, res.Timestamp.IsZero())

	assert.Len(t, a.Results(), 1)
	assert.NotEmpty(t, a.Session())
}

// TestAnalyzer_MeasureWarmup runs the configured number of untimed passes
// before the timed loop; the matcher's solve counter exposes the total
// because the cache is cleared before every run.
func TestAnalyzer_MeasureWarmup(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithWarmup(3), perf.WithIterations(2))
	mt := matching.NewMatcher()

	res, err := a.Measure(mt, testMatrix(t))
	require.NoError(t, err)

	assert.Equal(t, uint64(5), mt.SolveCount()) // 3 warmup + 2 timed
	assert.Equal(t, 5.0, res.Quality)
	assert.Equal(t, 2, res.Iterations)

	assert.Panics(t, func() { perf.WithWarmup(0) })
}

// TestAnalyzer_MeasureValidation rejects nil inputs.
func TestAnalyzer_MeasureValidation(t *testing.T) {
	a := perf.NewAnalyzer()

	_, err := a.Measure(nil, testMatrix(t))
	assert.ErrorIs(t, err, perf.ErrNilMatcher)

	_, err = a.Measure(matching.NewMatcher(), nil)
	assert.ErrorIs(t, err, perf.ErrNilMatrix)
}

// TestAnalyzer_CompareMatchers records one result per configuration, in
// order.
func TestAnalyzer_CompareMatchers(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1))
	matchers := []*matching.Matcher{
		matching.NewMatcher(matching.WithName("first")),
		matching.NewMatcher(matching.WithName("second")),
	}

	results, err := a.CompareMatchers(matchers, testMatrix(t))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Matcher)
	assert.Equal(t, "second", results[1].Matcher)

	// Same matrix, same optimum for both configurations.
	assert.Equal(t, results[0].Quality, results[1].Quality)
}

// TestAnalyzer_RunScalabilityTest walks growing sizes and rejects
// non-positive ones.
func TestAnalyzer_RunScalabilityTest(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1), perf.WithSeed(42))
	mt := matching.NewMatcher()

	results, err := a.RunScalabilityTest(mt, []int{2, 4, 8})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, n := range []int{2, 4, 8} {
		assert.Equal(t, n, results[i].Rows)
		assert.Equal(t, n, results[i].Columns)
	}

	_, err = a.RunScalabilityTest(mt, []int{0})
	assert.ErrorIs(t, err, perf.ErrBadSize)

	_, err = a.RunScalabilityTest(nil, []int{2})
	assert.ErrorIs(t, err, perf.ErrNilMatcher)
}

// TestAnalyzer_ExportCSV renders the fixed header plus one row per result.
func TestAnalyzer_ExportCSV(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1))
	_, err := a.Measure(matching.NewMatcher(), testMatrix(t))
	require.NoError(t, err)

	out, err := a.ExportCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"Matcher, Rows, Columns, Execution Time (s), Memory Usage (MB), Solution Quality, Constraint Violations, Cache Hits, Iterations, Timestamp",
		lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "optimal,3,3,"))
}

// TestAnalyzer_ExportJSON round-trips the result list.
func TestAnalyzer_ExportJSON(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1))
	_, err := a.Measure(matching.NewMatcher(), testMatrix(t))
	require.NoError(t, err)

	out, err := a.ExportJSON()
	require.NoError(t, err)

	var decoded []perf.Result
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, a.Results()[0].Quality, decoded[0].Quality)
}

// TestAnalyzer_SaveFiles writes both export formats to disk.
func TestAnalyzer_SaveFiles(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1))
	_, err := a.Measure(matching.NewMatcher(), testMatrix(t))
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "results.json")
	csvPath := filepath.Join(dir, "results.csv")

	require.NoError(t, a.SaveJSON(jsonPath))
	require.NoError(t, a.SaveCSV(csvPath))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Solution Quality")

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"solution_quality\"")
}

// TestAnalyzer_Summarize checks the median on odd and even counts.
func TestAnalyzer_Summarize(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1))
	assert.Equal(t, perf.Summary{}, a.Summarize())

	mt := matching.NewMatcher()
	for i := 0; i < 3; i++ {
		_, err := a.Measure(mt, testMatrix(t))
		require.NoError(t, err)
	}

	s := a.Summarize()
	assert.Equal(t, 3, s.Count)
	assert.LessOrEqual(t, s.MinTime, s.MedianTime)
	assert.LessOrEqual(t, s.MedianTime, s.MaxTime)
	assert.LessOrEqual(t, s.MinTime, s.AvgTime)
	assert.LessOrEqual(t, s.AvgTime, s.MaxTime)
}

// TestAnalyzer_RenderTableAndReset formats accumulated rows and clears
// them on Reset (the session id survives).
func TestAnalyzer_RenderTableAndReset(t *testing.T) {
	a := perf.NewAnalyzer(perf.WithIterations(1))
	mt := matching.NewMatcher(matching.WithName("render-me"))

	_, err := a.Measure(mt, testMatrix(t))
	require.NoError(t, err)

	table := a.RenderTable()
	assert.Contains(t, table, "MATCHER")
	assert.Contains(t, table, "render-me")
	assert.Contains(t, table, "3x3")

	session := a.Session()
	a.Reset()
	assert.Empty(t, a.Results())
	assert.Equal(t, session, a.Session())
}
