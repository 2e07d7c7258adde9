// SPDX-License-Identifier: MIT

// Package matching: sentinel error set. All entry points return these
// sentinels (optionally wrapped with context via fmt.Errorf("...: %w"));
// tests match via errors.Is.

package matching

import "errors"

var (
	// ErrNilMatrix indicates a nil cost matrix was passed to Match.
	ErrNilMatrix = errors.New("matching: nil cost matrix")

	// ErrPreferenceLength indicates that a preference list count does not
	// match the corresponding matrix dimension (rows for row preferences,
	// cols for column preferences).
	ErrPreferenceLength = errors.New("matching: preference list length mismatch")

	// ErrPreferenceIndex indicates a preference entry referencing an index
	// outside the opposite dimension.
	ErrPreferenceIndex = errors.New("matching: preference index out of range")
)

// Internal panic messages for option misuse (programmer error only).
const (
	panicBadPadCost         = "matching: WithPadCost: cost must be finite and > 0"
	panicBadGreedyCost      = "matching: WithGreedyCost: cost must be finite and > 0"
	panicBadNoise           = "matching: WithTiebreakNoise: magnitude must be in (0, 1e-3]"
	panicBadSecondaryWeight = "matching: WithSecondaryWeight: weight must be finite and > 0"
	panicBadCacheSize       = "matching: WithCacheSize: size must be > 0"
	panicBadTimingWindow    = "matching: WithTimingWindow: window must be > 0"
)
