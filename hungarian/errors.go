// SPDX-License-Identifier: MIT

// Package hungarian: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the
// hungarian package. All entry points MUST return these sentinels and tests
// MUST check them via errors.Is. No function panics on user-triggered error
// conditions.

package hungarian

import "errors"

var (
	// ErrBadShape is returned when a cost matrix is built from empty or
	// ragged input. Constructors must validate before allocation.
	ErrBadShape = errors.New("hungarian: invalid matrix shape")

	// ErrOutOfRange indicates that a row or column index is outside valid
	// bounds. Public indexers MUST return this, not panic.
	ErrOutOfRange = errors.New("hungarian: index out of range")

	// ErrNonSquare signals that Solve received a rectangular matrix.
	// Padding to square is the caller's responsibility (see matching).
	ErrNonSquare = errors.New("hungarian: matrix is not square")

	// ErrNaNInf signals a NaN or -Inf entry where the numeric policy
	// requires finite-or-+Inf values. +Inf is legal as the "forbidden
	// pairing" sentinel; NaN and -Inf never are.
	ErrNaNInf = errors.New("hungarian: NaN or -Inf encountered")

	// ErrNilMatrix indicates that a nil *CostMatrix was passed in.
	ErrNilMatrix = errors.New("hungarian: nil cost matrix")
)
