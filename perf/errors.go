// Package perf: sentinel error set; tests match via errors.Is.

package perf

import "errors"

var (
	// ErrNilMatcher indicates a nil matcher handed to a measurement entry
	// point.
	ErrNilMatcher = errors.New("perf: nil matcher")

	// ErrNilMatrix indicates a nil cost matrix handed to Measure.
	ErrNilMatrix = errors.New("perf: nil cost matrix")

	// ErrBadSize indicates a non-positive size in a scalability run.
	ErrBadSize = errors.New("perf: matrix size must be > 0")
)
