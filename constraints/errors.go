// SPDX-License-Identifier: MIT

// Package constraints: sentinel error set plus the structured violation
// error raised under Strict validation. Sentinels are matched via errors.Is;
// *ViolationError via errors.As.

package constraints

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownGroup is returned when a named group has not been created.
	ErrUnknownGroup = errors.New("constraints: unknown group")

	// ErrNilConstraint is returned when a nil Constraint is added to a group.
	ErrNilConstraint = errors.New("constraints: nil constraint")

	// ErrGroupExists is returned when creating a group whose name is taken
	// with a different validation level.
	ErrGroupExists = errors.New("constraints: group already exists with a different level")
)

// Internal panic messages for option/constructor misuse (programmer error).
const (
	panicEmptyName     = "constraints: constraint name must be non-empty"
	panicBadFactor     = "constraints: penalty factor must be finite and >= 0"
	panicNilCheck      = "constraints: check function must be non-nil"
	panicNoChildren    = "constraints: compound requires at least one child"
	panicBadCompoundOp = "constraints: unknown compound operator"
	panicNilChild      = "constraints: compound child must be non-nil"
)

// ViolationError is returned by Strict groups when at least one constraint
// of High or Critical priority is violated. It lists every such violation,
// not only the first, so callers see the full picture in one failure.
type ViolationError struct {
	// Group is the name of the failing group.
	Group string

	// Violations holds one "name (priority)" description per violated
	// High/Critical constraint, in evaluation order.
	Violations []string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("constraints: group %q violated: %s",
		e.Group, strings.Join(e.Violations, "; "))
}
