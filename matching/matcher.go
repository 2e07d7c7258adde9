// Package matching: the Matcher — orchestrator of the whole assignment
// pipeline. See doc.go for the stage-by-stage outline.

package matching

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/assign/constraints"
	"github.com/katalvlaran/assign/hungarian"
)

// Well-known constraint group names used by the pipeline.
const (
	// PreComputationGroup is validated before any matrix work starts.
	PreComputationGroup = "pre_computation"

	// PostComputationGroup is validated against the realized assignment
	// (context carries assignments and total_cost).
	PostComputationGroup = "post_computation"

	// DefaultGroup receives constraints added without an explicit group.
	DefaultGroup = "default"
)

// Stats summarizes the rolling wall-clock execution times of Match calls.
// Times are in seconds.
type Stats struct {
	Count    int
	AvgTime  float64
	MinTime  float64
	MaxTime  float64
	LastTime float64
}

// Result is the outcome of one Match call. Never mutated after return; a
// new call produces a new Result.
type Result struct {
	// Pairs is the assignment restricted to the original matrix
	// dimensions (synthetic padded rows/cols are filtered out).
	Pairs []hungarian.Pair

	// TotalCost sums the ORIGINAL (unpenalized) matrix over Pairs, rounded
	// to 1e-9. Penalties steer the solver but never inflate this number.
	TotalCost float64

	// CacheHit is true when no solver invocation was needed.
	CacheHit bool

	// EdgeCases lists every detected case type (unique set).
	EdgeCases []EdgeCaseType

	// Resolved / Unresolved partition the detected cases by whether a
	// repair strategy was applied. Unresolved cases mean the solve ran on
	// a degraded input; inspect Detections via the handler for detail.
	Resolved   []EdgeCaseType
	Unresolved []EdgeCaseType
}

// Matcher validates input, normalizes the matrix through the edge-case
// handler, applies constraint penalties, solves (Hungarian through an LRU
// cache, or Gale–Shapley in bidirectional mode), validates the result, and
// records timing.
//
// A Matcher is safe for concurrent use: the solve cache, the validator
// history and the timing window are all guarded by one mutex, so Match
// calls serialize against each other.
type Matcher struct {
	mu sync.Mutex

	opts      Options
	validator *constraints.Validator
	handler   *EdgeCaseHandler
	cache     *solveCache
	penalties []constraints.Constraint
	times     []float64
	solves    uint64
	log       *zap.Logger
}

// NewMatcher builds a matcher from functional options (see options.go for
// the documented defaults).
func NewMatcher(opts ...Option) *Matcher {
	o := gatherOptions(opts...)

	// Cache size is validated by WithCacheSize, so this cannot fail.
	cache, err := newSolveCache(o.cacheSize)
	if err != nil {
		panic(panicBadCacheSize)
	}

	return &Matcher{
		opts:      o,
		validator: constraints.NewValidator(o.historyLimit),
		handler: &EdgeCaseHandler{
			opts:   o,
			log:    o.log,
			custom: make(map[EdgeCaseType]HandlerFunc),
		},
		cache: cache,
		log:   o.log,
	}
}

// Name returns the matcher label used in metrics and benchmark results.
func (mt *Matcher) Name() string { return mt.opts.name }

// Handler exposes the edge-case handler, e.g. to register custom
// resolutions. Register handlers before the first Match call; the handler
// is not independently locked.
func (mt *Matcher) Handler() *EdgeCaseHandler { return mt.handler }

// EnsureGroup creates (or fetches) a named constraint group with an
// explicit validation level. Use it before AddConstraint when a group must
// be Strict — groups auto-created by AddConstraint default to Relaxed.
func (mt *Matcher) EnsureGroup(name string, level constraints.ValidationLevel) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	_, err := mt.validator.EnsureGroup(name, level)

	return err
}

// AddConstraint registers a constraint for both reporting (the validator's
// named group, created Relaxed on first use) and penalty application
// during solving.
func (mt *Matcher) AddConstraint(c constraints.Constraint, group ...string) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	name := DefaultGroup
	if len(group) > 0 && group[0] != "" {
		name = group[0]
	}

	g, err := mt.validator.Group(name)
	if errors.Is(err, constraints.ErrUnknownGroup) {
		g, err = mt.validator.EnsureGroup(name, constraints.Relaxed)
	}
	if err != nil {
		return err
	}
	if err = g.Add(c); err != nil {
		return err
	}
	mt.penalties = append(mt.penalties, c)

	return nil
}

// Match computes the assignment for m.
//
// Stage 1 - shape validation: m non-nil; preference list counts match the
// matrix dimensions; preference indices address the opposite side.
// Stage 2 - pre-computation constraint validation ("pre_computation").
// Stage 3 - solve: Gale–Shapley when bidirectional mode is on AND both
// preference sides are supplied; with either side missing the call falls
// back to edge-case normalization, penalty application and the cached
// Hungarian solve (missing preferences are a detectable condition, not a
// fatal one).
// Stage 4 - post-computation validation ("post_computation") against a
// context carrying assignments and total_cost.
// Stage 5 - timing: wall-clock seconds recorded in the rolling window.
//
// ctx may be nil; a caller-supplied context is cloned, never mutated.
func (mt *Matcher) Match(m *hungarian.CostMatrix, rowPrefs, colPrefs [][]int, ctx constraints.Context) (*Result, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	start := time.Now()

	if m == nil {
		return nil, ErrNilMatrix
	}
	if err := validatePreferenceShape(m, rowPrefs, colPrefs); err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = constraints.NewContext()
	} else {
		ctx = ctx.Clone()
		if _, ok := ctx[constraints.KeyTimestamp]; !ok {
			ctx[constraints.KeyTimestamp] = time.Now()
		}
	}
	ctx[constraints.KeyCostMatrix] = m

	if err := mt.validateGroup(PreComputationGroup, ctx); err != nil {
		return nil, err
	}

	var (
		res  *Result
		mode string
		err  error
	)
	if mt.opts.bidirectional && rowPrefs != nil && colPrefs != nil {
		mode = "bidirectional"
		res, err = mt.matchBidirectional(m, rowPrefs, colPrefs)
	} else {
		mode = "hungarian"
		res, err = mt.matchHungarian(m, rowPrefs, colPrefs, ctx)
	}
	if err != nil {
		return nil, err
	}

	ctx[constraints.KeyAssignments] = res.Pairs
	ctx[constraints.KeyTotalCost] = res.TotalCost
	if err = mt.validateGroup(PostComputationGroup, ctx); err != nil {
		return nil, err
	}

	elapsed := time.Since(start).Seconds()
	mt.recordTime(elapsed)
	matchesTotal.WithLabelValues(mt.opts.name, mode).Inc()
	matchDuration.WithLabelValues(mt.opts.name).Observe(elapsed)

	return res, nil
}

// matchBidirectional delegates to Gale–Shapley and costs the stable
// matching against the original matrix. Both preference sides are non-nil
// here; Match routes preference-less calls to the Hungarian path.
func (mt *Matcher) matchBidirectional(m *hungarian.CostMatrix, rowPrefs, colPrefs [][]int) (*Result, error) {
	cases := mt.handler.DetectAll(m, rowPrefs, colPrefs)
	mt.countEdgeCases(cases)

	pairs, err := StableMatch(rowPrefs, colPrefs)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, p := range pairs {
		v, aerr := m.At(p.Row, p.Col)
		if aerr != nil {
			return nil, aerr
		}
		total += v
	}

	return &Result{
		Pairs:     pairs,
		TotalCost: round1e9(total),
		EdgeCases: cases,
	}, nil
}

// matchHungarian runs normalization, penalties and the cached solve.
func (mt *Matcher) matchHungarian(m *hungarian.CostMatrix, rowPrefs, colPrefs [][]int, ctx constraints.Context) (*Result, error) {
	origRows, origCols := m.Rows(), m.Cols()

	res := &Result{EdgeCases: mt.handler.DetectAll(m, rowPrefs, colPrefs)}
	mt.countEdgeCases(res.EdgeCases)

	// Normalize: resolve each detected case in detection order. Preference
	// cases never rewrite the matrix in cost mode unless the caller
	// registered a handler for them — perturbing costs over an advisory
	// preference tie would silently change numeric results.
	work := m
	for _, t := range res.EdgeCases {
		if (t == PreferenceTies || t == MissingPreferences) && mt.handler.custom[t] == nil {
			res.Unresolved = append(res.Unresolved, t)
			continue
		}
		next, applied, err := mt.handler.Resolve(t, work, ctx)
		if err != nil {
			return nil, err
		}
		work = next
		if applied {
			res.Resolved = append(res.Resolved, t)
		} else {
			res.Unresolved = append(res.Unresolved, t)
		}
	}

	work = mt.applyPenalties(work, ctx)

	pairs, hit, err := mt.solveCached(work)
	if err != nil {
		return nil, err
	}
	res.CacheHit = hit

	// Post-hoc tie detection: the pairwise swap test needs an assignment.
	// On a hit, re-break ties deterministically and solve once more (the
	// second solve is itself cached, so repeated calls stay cheap).
	if mt.handler.DetectMultipleOptima(work, pairs) {
		res.EdgeCases = append(res.EdgeCases, MultipleOptimalSolutions)
		edgeCasesTotal.WithLabelValues(mt.opts.name, MultipleOptimalSolutions.String()).Inc()

		next, applied, rerr := mt.handler.Resolve(MultipleOptimalSolutions, work, ctx)
		if rerr != nil {
			return nil, rerr
		}
		if applied {
			res.Resolved = append(res.Resolved, MultipleOptimalSolutions)
			var hit2 bool
			pairs, hit2, rerr = mt.solveCached(next)
			if rerr != nil {
				return nil, rerr
			}
			res.CacheHit = res.CacheHit && hit2
		} else {
			res.Unresolved = append(res.Unresolved, MultipleOptimalSolutions)
		}
	}

	// Restrict to original dimensions and cost against the ORIGINAL matrix.
	total := 0.0
	for _, p := range pairs {
		if p.Row >= origRows || p.Col >= origCols {
			continue // synthetic padding
		}
		res.Pairs = append(res.Pairs, p)
		v, aerr := m.At(p.Row, p.Col)
		if aerr != nil {
			return nil, aerr
		}
		total += v
	}
	res.TotalCost = round1e9(total)

	return res, nil
}

// applyPenalties adds registered constraint penalties onto a working copy.
// Cell-scoped constraints broadcast per cell; assignment-scoped ones add a
// flat magnitude everywhere. The original matrix is never touched.
func (mt *Matcher) applyPenalties(work *hungarian.CostMatrix, ctx constraints.Context) *hungarian.CostMatrix {
	if len(mt.penalties) == 0 {
		return work
	}

	vals := work.Values()
	dirty := false
	for _, c := range mt.penalties {
		if cell, ok := c.(constraints.CellConstraint); ok {
			for i := range vals {
				for j := range vals[i] {
					if p := cell.CellPenalty(ctx, i, j); p > 0 {
						vals[i][j] += p
						dirty = true
					}
				}
			}
			continue
		}
		if p := c.Penalty(ctx); p > 0 {
			for i := range vals {
				for j := range vals[i] {
					vals[i][j] += p
				}
			}
			dirty = true
		}
	}
	if !dirty {
		return work
	}

	return hungarian.MustNew(vals)
}

// solveCached returns the assignment for work, invoking the solver at most
// once per unique content hash.
func (mt *Matcher) solveCached(work *hungarian.CostMatrix) ([]hungarian.Pair, bool, error) {
	key := work.ContentHash()
	if pairs, ok := mt.cache.get(key); ok {
		cacheHitsTotal.WithLabelValues(mt.opts.name).Inc()

		return pairs, true, nil
	}

	pairs, _, err := hungarian.Solve(work)
	if err != nil {
		return nil, false, err
	}
	mt.solves++
	solvesTotal.WithLabelValues(mt.opts.name).Inc()
	mt.cache.add(key, pairs)

	return pairs, false, nil
}

// validateGroup runs one named group if it exists; a group that was never
// created is simply skipped.
func (mt *Matcher) validateGroup(name string, ctx constraints.Context) error {
	res, err := mt.validator.ValidateGroup(name, ctx)
	if errors.Is(err, constraints.ErrUnknownGroup) {
		return nil
	}
	if len(res.Violated) > 0 {
		violationsTotal.WithLabelValues(mt.opts.name, name).Add(float64(len(res.Violated)))
		mt.log.Warn("constraints violated",
			zap.String("group", name),
			zap.Strings("violated", res.Violated),
			zap.Float64("total_penalty", res.TotalPenalty))
	}

	return err
}

// countEdgeCases feeds the detection metrics.
func (mt *Matcher) countEdgeCases(cases []EdgeCaseType) {
	for _, t := range cases {
		edgeCasesTotal.WithLabelValues(mt.opts.name, t.String()).Inc()
	}
}

// recordTime appends to the rolling window, dropping the oldest entry past
// the configured cap.
func (mt *Matcher) recordTime(seconds float64) {
	mt.times = append(mt.times, seconds)
	if len(mt.times) > mt.opts.timingWindow {
		copy(mt.times, mt.times[1:])
		mt.times = mt.times[:mt.opts.timingWindow]
	}
}

// PerformanceStats summarizes the rolling execution-time window.
func (mt *Matcher) PerformanceStats() Stats {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	n := len(mt.times)
	if n == 0 {
		return Stats{}
	}

	s := Stats{
		Count:    n,
		MinTime:  math.Inf(1),
		LastTime: mt.times[n-1],
	}
	sum := 0.0
	for _, t := range mt.times {
		sum += t
		if t < s.MinTime {
			s.MinTime = t
		}
		if t > s.MaxTime {
			s.MaxTime = t
		}
	}
	s.AvgTime = sum / float64(n)

	return s
}

// SolveCount returns the number of actual solver invocations (cache misses)
// over the matcher's lifetime.
func (mt *Matcher) SolveCount() uint64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.solves
}

// CacheHits returns the lifetime solve-cache hit count.
func (mt *Matcher) CacheHits() uint64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.cache.hits
}

// CacheMisses returns the lifetime solve-cache miss count.
func (mt *Matcher) CacheMisses() uint64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.cache.misses
}

// CacheSize returns the number of solutions currently cached.
func (mt *Matcher) CacheSize() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.cache.len()
}

// ClearCache drops all cached solutions (hit counters survive).
func (mt *Matcher) ClearCache() {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.cache.purge()
}

// ViolationCount returns the lifetime number of recorded constraint
// violations.
func (mt *Matcher) ViolationCount() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.validator.ViolationCount()
}

// GenerateReport renders the validator's queryable summary.
func (mt *Matcher) GenerateReport() constraints.Report {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.validator.GenerateReport()
}

// validatePreferenceShape checks list counts against the matrix dimensions
// and every index against the opposite side.
func validatePreferenceShape(m *hungarian.CostMatrix, rowPrefs, colPrefs [][]int) error {
	if rowPrefs != nil {
		if len(rowPrefs) != m.Rows() {
			return fmt.Errorf("row preferences: have %d lists, want %d: %w",
				len(rowPrefs), m.Rows(), ErrPreferenceLength)
		}
		if err := validatePreferenceIndices(rowPrefs, m.Cols(), "row"); err != nil {
			return err
		}
	}
	if colPrefs != nil {
		if len(colPrefs) != m.Cols() {
			return fmt.Errorf("column preferences: have %d lists, want %d: %w",
				len(colPrefs), m.Cols(), ErrPreferenceLength)
		}
		if err := validatePreferenceIndices(colPrefs, m.Rows(), "column"); err != nil {
			return err
		}
	}

	return nil
}

// round1e9 stabilizes reported costs against FP drift across platforms.
func round1e9(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}

	return math.Round(v*1e9) / 1e9
}
