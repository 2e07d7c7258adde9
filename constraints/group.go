// Package constraints: named, ordered constraint groups and their
// validation levels.

package constraints

// ValidationLevel controls how a group reacts to violations.
type ValidationLevel int

const (
	// Strict fails fast: any violated High/Critical constraint turns the
	// validation into a *ViolationError listing all such violations.
	Strict ValidationLevel = iota

	// Relaxed accumulates soft penalties and never errors.
	Relaxed

	// ReportOnly records violations for reporting and never errors.
	ReportOnly
)

// String implements fmt.Stringer.
func (l ValidationLevel) String() string {
	switch l {
	case Strict:
		return "STRICT"
	case Relaxed:
		return "RELAXED"
	case ReportOnly:
		return "REPORT_ONLY"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of validating one group against a context.
type Result struct {
	// Valid is true when no constraint was violated.
	Valid bool

	// Violated lists "name (priority)" per violated constraint, in
	// evaluation order.
	Violated []string

	// TotalPenalty is the sum of penalties of all violated constraints.
	TotalPenalty float64
}

// Group is a named, ordered collection of constraints evaluated under a
// single validation level. Constraints are appended over the group's
// lifetime and evaluated in insertion order for determinism.
type Group struct {
	name        string
	level       ValidationLevel
	constraints []Constraint
}

// NewGroup creates an empty group.
func NewGroup(name string, level ValidationLevel) *Group {
	return &Group{name: name, level: level}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Level returns the group's validation level.
func (g *Group) Level() ValidationLevel { return g.level }

// Len returns the number of constraints in the group.
func (g *Group) Len() int { return len(g.constraints) }

// Add appends a constraint. Returns ErrNilConstraint for nil input.
func (g *Group) Add(c Constraint) error {
	if c == nil {
		return ErrNilConstraint
	}
	g.constraints = append(g.constraints, c)

	return nil
}

// Constraints returns a copy of the constraint list (insertion order).
func (g *Group) Constraints() []Constraint {
	out := make([]Constraint, len(g.constraints))
	copy(out, g.constraints)

	return out
}

// Validate evaluates every constraint against ctx.
//
// The Result is always fully populated (all violations and the total soft
// penalty), even when an error is returned, so callers can both report and
// fail. Under Strict, a violated High/Critical constraint yields a
// *ViolationError carrying every such violation; Relaxed and ReportOnly
// never error.
//
// Complexity: O(k) constraint evaluations for k constraints.
func (g *Group) Validate(ctx Context) (Result, error) {
	res := Result{Valid: true}

	var hard []string
	for _, c := range g.constraints {
		if c.Check(ctx) {
			continue
		}
		desc := c.Name() + " (" + c.Priority().String() + ")"
		res.Valid = false
		res.Violated = append(res.Violated, desc)
		res.TotalPenalty += c.Penalty(ctx)
		if c.Priority() >= High {
			hard = append(hard, desc)
		}
	}

	if g.level == Strict && len(hard) > 0 {
		return res, &ViolationError{Group: g.name, Violations: hard}
	}

	return res, nil
}
