// Package constraints: CompoundConstraint — AND/OR combinations of child
// constraints with the combination-specific penalty semantics.

package constraints

import "math"

// Op selects the logical combination of a compound's children.
type Op int

const (
	// OpAnd: satisfied when every child is satisfied.
	// Penalty on violation: sum of the violated children's penalties.
	OpAnd Op = iota

	// OpOr: satisfied when at least one child is satisfied.
	// Penalty on violation: minimum child penalty (the cheapest repair).
	OpOr
)

// String implements fmt.Stringer.
func (o Op) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "UNKNOWN"
	}
}

// Compound combines child constraints under an Op. Its priority is the
// maximum child priority, so a compound containing a Critical rule fails
// Strict groups exactly as the rule would on its own.
type Compound struct {
	name     string
	op       Op
	children []Constraint
}

// NewCompound builds an AND/OR combination.
//
// Contracts (panic on programmer error): name non-empty, at least one
// non-nil child, op is OpAnd or OpOr. The children slice is copied.
func NewCompound(name string, op Op, children ...Constraint) *Compound {
	if name == "" {
		panic(panicEmptyName)
	}
	if op != OpAnd && op != OpOr {
		panic(panicBadCompoundOp)
	}
	if len(children) == 0 {
		panic(panicNoChildren)
	}
	kids := make([]Constraint, len(children))
	for i, c := range children {
		if c == nil {
			panic(panicNilChild)
		}
		kids[i] = c
	}

	return &Compound{name: name, op: op, children: kids}
}

// Name implements Constraint.
func (c *Compound) Name() string { return c.name }

// Priority implements Constraint as the maximum child priority.
func (c *Compound) Priority() Priority {
	max := Low
	for _, child := range c.children {
		if p := child.Priority(); p > max {
			max = p
		}
	}

	return max
}

// Check implements Constraint: conjunction under OpAnd, disjunction under
// OpOr, evaluated in child order.
func (c *Compound) Check(ctx Context) bool {
	if c.op == OpAnd {
		for _, child := range c.children {
			if !child.Check(ctx) {
				return false
			}
		}

		return true
	}

	for _, child := range c.children {
		if child.Check(ctx) {
			return true
		}
	}

	return false
}

// Penalty implements Constraint.
//
// OpAnd: sum of the violated children's penalties (satisfied children
// contribute 0 by the Constraint contract).
// OpOr: 0 when the disjunction holds; otherwise the minimum child penalty.
func (c *Compound) Penalty(ctx Context) float64 {
	if c.op == OpAnd {
		total := 0.0
		for _, child := range c.children {
			total += child.Penalty(ctx)
		}

		return total
	}

	if c.Check(ctx) {
		return 0
	}
	min := math.Inf(1)
	for _, child := range c.children {
		if p := child.Penalty(ctx); p < min {
			min = p
		}
	}

	return min
}
