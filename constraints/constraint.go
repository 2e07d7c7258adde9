// Package constraints: the Constraint interface, priorities and the Func
// adapter — the atomic building blocks of the rule layer.

package constraints

import "math"

// Priority orders constraints by severity. Under Strict validation, High
// and Critical violations fail the group; Low and Medium only penalize.
type Priority int

const (
	// Low priority: advisory; soft penalty only.
	Low Priority = iota

	// Medium priority: soft penalty only, weighted above Low by convention.
	Medium

	// High priority: fails Strict groups when violated.
	High

	// Critical priority: fails Strict groups when violated; reserved for
	// rules whose violation invalidates the whole solution.
	Critical
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Constraint is the polymorphic rule contract.
//
// Check reports whether the rule holds for the given context. Penalty
// returns the non-negative magnitude to add to the adjusted cost when the
// rule is violated; implementations MUST return 0 when Check passes.
type Constraint interface {
	// Name identifies the constraint in violation lists and reports.
	Name() string

	// Priority classifies the severity of a violation.
	Priority() Priority

	// Check returns true when the constraint is satisfied.
	Check(ctx Context) bool

	// Penalty returns the violation magnitude (>= 0; 0 when satisfied).
	Penalty(ctx Context) float64
}

// CellConstraint is an optional extension for cell-scoped rules. When a
// constraint implements it, the matcher broadcasts CellPenalty per matrix
// cell instead of adding the flat Penalty uniformly. Assignment-scoped
// constraints simply do not implement it.
type CellConstraint interface {
	Constraint

	// CellPenalty returns the extra cost for assigning row to col under
	// ctx (>= 0; 0 when the pairing is acceptable).
	CellPenalty(ctx Context, row, col int) float64
}

// Func adapts plain functions into a Constraint. The common case needs only
// a check function and a flat penalty factor; an optional penalty function
// overrides the factor for context-dependent magnitudes.
type Func struct {
	name      string
	priority  Priority
	factor    float64
	check     func(Context) bool
	penaltyFn func(Context) float64
}

// NewFunc builds a function-backed constraint.
//
// Contracts (panic on programmer error, per option-constructor policy):
//   - name non-empty, check non-nil;
//   - factor finite and >= 0;
//   - at most one optional penalty function; when given, its result is
//     clamped to >= 0 at evaluation time.
func NewFunc(name string, priority Priority, factor float64, check func(Context) bool, penalty ...func(Context) float64) *Func {
	if name == "" {
		panic(panicEmptyName)
	}
	if check == nil {
		panic(panicNilCheck)
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		panic(panicBadFactor)
	}

	f := &Func{name: name, priority: priority, factor: factor, check: check}
	if len(penalty) > 0 && penalty[0] != nil {
		f.penaltyFn = penalty[0]
	}

	return f
}

// Name implements Constraint.
func (f *Func) Name() string { return f.name }

// Priority implements Constraint.
func (f *Func) Priority() Priority { return f.priority }

// Check implements Constraint.
func (f *Func) Check(ctx Context) bool { return f.check(ctx) }

// Penalty implements Constraint: 0 when satisfied, otherwise the flat
// factor or the clamped custom penalty.
func (f *Func) Penalty(ctx Context) float64 {
	if f.check(ctx) {
		return 0
	}
	if f.penaltyFn != nil {
		if p := f.penaltyFn(ctx); p > 0 {
			return p
		}

		return 0
	}

	return f.factor
}
