// Package perf: the Analyzer — repeatable matcher benchmarking with
// JSON/CSV export.

package perf

import (
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/assign/hungarian"
	"github.com/katalvlaran/assign/matching"
)

// DefaultIterations is the per-measurement repetition count; execution time
// and allocation figures are averaged over it.
const DefaultIterations = 5

// DefaultWarmup is the number of untimed runs preceding each measurement.
const DefaultWarmup = 1

// Option configures an Analyzer.
type Option func(*options)

type options struct {
	iterations int
	warmup     int
	seed       int64
	log        *zap.Logger
}

// WithIterations sets the repetition count per measurement.
// Panics unless n > 0.
func WithIterations(n int) Option {
	if n <= 0 {
		panic("perf: WithIterations: n must be > 0")
	}

	return func(o *options) { o.iterations = n }
}

// WithWarmup sets the number of untimed runs preceding each measurement.
// Panics unless n > 0.
func WithWarmup(n int) Option {
	if n <= 0 {
		panic("perf: WithWarmup: n must be > 0")
	}

	return func(o *options) { o.warmup = n }
}

// WithSeed fixes the seed for generated scalability matrices.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger injects a zap logger for per-measurement progress output.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Analyzer runs matchers against matrices and accumulates comparable
// measurements. Each analyzer carries a session id so exported artifacts
// from different runs stay distinguishable.
//
// Not goroutine-safe; one analyzer per benchmarking goroutine.
type Analyzer struct {
	session string
	opts    options
	results []Result
}

// NewAnalyzer builds an analyzer with a fresh session id.
func NewAnalyzer(opts ...Option) *Analyzer {
	o := options{
		iterations: DefaultIterations,
		warmup:     DefaultWarmup,
		seed:       1,
		log:        zap.NewNop(),
	}
	for _, set := range opts {
		set(&o)
	}
	if o.seed == 0 {
		o.seed = 1
	}

	return &Analyzer{
		session: uuid.NewString(),
		opts:    o,
	}
}

// Session returns the analyzer's unique session id.
func (a *Analyzer) Session() string { return a.session }

// Results returns a copy of the accumulated measurements.
func (a *Analyzer) Results() []Result {
	out := make([]Result, len(a.results))
	copy(out, a.results)

	return out
}

// Reset drops accumulated measurements (the session id survives).
func (a *Analyzer) Reset() { a.results = a.results[:0] }

// Measure benchmarks one matcher against one matrix and records the
// averaged result.
//
// The matcher's solve cache is cleared before every iteration so the
// figure reflects cold solver runs, not cache lookups; the cache-hit column
// reports the matcher's lifetime counter at measurement end. The configured
// warmup runs (WithWarmup, default one) precede timing; the last of them
// supplies the quality figure. Memory is the per-iteration allocation delta
// (runtime.MemStats.TotalAlloc), an upper bound that includes transient
// garbage.
func (a *Analyzer) Measure(mt *matching.Matcher, m *hungarian.CostMatrix) (Result, error) {
	if mt == nil {
		return Result{}, ErrNilMatcher
	}
	if m == nil {
		return Result{}, ErrNilMatrix
	}

	var warm *matching.Result
	for i := 0; i < a.opts.warmup; i++ {
		mt.ClearCache()
		w, err := mt.Match(m, nil, nil, nil)
		if err != nil {
			return Result{}, fmt.Errorf("perf: warmup %d: %w", i, err)
		}
		warm = w
	}

	violationsBefore := mt.ViolationCount()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	for i := 0; i < a.opts.iterations; i++ {
		mt.ClearCache()
		if _, err := mt.Match(m, nil, nil, nil); err != nil {
			return Result{}, fmt.Errorf("perf: iteration %d: %w", i, err)
		}
	}
	elapsed := time.Since(start).Seconds()

	runtime.ReadMemStats(&after)

	iters := float64(a.opts.iterations)
	res := Result{
		SessionID:     a.session,
		Matcher:       mt.Name(),
		Rows:          m.Rows(),
		Columns:       m.Cols(),
		ExecutionTime: elapsed / iters,
		MemoryMB:      float64(after.TotalAlloc-before.TotalAlloc) / iters / (1 << 20),
		Quality:       warm.TotalCost,
		Violations:    mt.ViolationCount() - violationsBefore,
		CacheHits:     mt.CacheHits(),
		Iterations:    a.opts.iterations,
		Timestamp:     time.Now(),
	}
	a.results = append(a.results, res)

	a.opts.log.Info("measurement complete",
		zap.String("session", a.session),
		zap.String("matcher", res.Matcher),
		zap.Int("rows", res.Rows),
		zap.Int("columns", res.Columns),
		zap.Float64("execution_time_s", res.ExecutionTime))

	return res, nil
}

// CompareMatchers measures every matcher against the same matrix, enabling
// side-by-side configuration comparisons.
func (a *Analyzer) CompareMatchers(matchers []*matching.Matcher, m *hungarian.CostMatrix) ([]Result, error) {
	out := make([]Result, 0, len(matchers))
	for _, mt := range matchers {
		res, err := a.Measure(mt, m)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, nil
}

// RunScalabilityTest measures one matcher across generated square matrices
// of the given sizes (uniform costs in [0, 1000), seeded per analyzer).
func (a *Analyzer) RunScalabilityTest(mt *matching.Matcher, sizes []int) ([]Result, error) {
	if mt == nil {
		return nil, ErrNilMatcher
	}

	out := make([]Result, 0, len(sizes))
	for _, n := range sizes {
		if n <= 0 {
			return nil, fmt.Errorf("perf: size %d: %w", n, ErrBadSize)
		}
		m, err := randomMatrix(n, a.opts.seed+int64(n))
		if err != nil {
			return nil, err
		}
		res, merr := a.Measure(mt, m)
		if merr != nil {
			return nil, merr
		}
		out = append(out, res)
	}

	return out, nil
}

// ExportJSON renders the accumulated results as indented JSON.
func (a *Analyzer) ExportJSON() ([]byte, error) { return exportJSON(a.results) }

// ExportCSV renders the accumulated results with the fixed CSV header.
func (a *Analyzer) ExportCSV() ([]byte, error) { return exportCSV(a.results) }

// SaveJSON writes the JSON export to path.
func (a *Analyzer) SaveJSON(path string) error {
	data, err := a.ExportJSON()
	if err != nil {
		return err
	}

	return save(path, data)
}

// SaveCSV writes the CSV export to path.
func (a *Analyzer) SaveCSV(path string) error {
	data, err := a.ExportCSV()
	if err != nil {
		return err
	}

	return save(path, data)
}

// Summary aggregates the execution times of accumulated results.
type Summary struct {
	Count      int     `json:"count"`
	MinTime    float64 `json:"min_time_seconds"`
	MaxTime    float64 `json:"max_time_seconds"`
	AvgTime    float64 `json:"avg_time_seconds"`
	MedianTime float64 `json:"median_time_seconds"`
}

// Summarize computes min/max/avg/median over the accumulated execution
// times. Zero results yield a zero Summary.
func (a *Analyzer) Summarize() Summary {
	n := len(a.results)
	if n == 0 {
		return Summary{}
	}

	times := make([]float64, n)
	for i, r := range a.results {
		times[i] = r.ExecutionTime
	}
	sort.Float64s(times)

	sum := 0.0
	for _, t := range times {
		sum += t
	}

	median := times[n/2]
	if n%2 == 0 {
		median = (times[n/2-1] + times[n/2]) / 2
	}

	return Summary{
		Count:      n,
		MinTime:    times[0],
		MaxTime:    times[n-1],
		AvgTime:    sum / float64(n),
		MedianTime: median,
	}
}

// RenderTable formats the accumulated results as an aligned text table for
// terminal output.
func (a *Analyzer) RenderTable() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "MATCHER\tSIZE\tTIME (s)\tMEM (MB)\tQUALITY\tVIOLATIONS\tCACHE HITS")
	for _, r := range a.results {
		fmt.Fprintf(w, "%s\t%dx%d\t%.6f\t%.3f\t%.4f\t%d\t%d\n",
			r.Matcher, r.Rows, r.Columns,
			r.ExecutionTime, r.MemoryMB, r.Quality, r.Violations, r.CacheHits)
	}
	w.Flush()

	return sb.String()
}

// randomMatrix builds an n×n matrix of uniform costs in [0, 1000).
func randomMatrix(n int, seed int64) (*hungarian.CostMatrix, error) {
	rng := rand.New(rand.NewSource(seed))
	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
		for j := range vals[i] {
			vals[i][j] = rng.Float64() * 1000
		}
	}

	return hungarian.New(vals)
}
