// SPDX-License-Identifier: MIT

// Package matching: functional configuration for the matcher and the
// edge-case handler. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Options fields are unexported; public APIs consume ...Option.

package matching

import (
	"math"

	"go.uber.org/zap"
)

// DEFAULTS - single source of truth for zero-value behavior.
// The sentinel magnitudes are tunable on purpose: downstream numeric
// stability depends on the value range of the caller's matrices, so none of
// these is hard-coded at use sites.
const (
	// DefaultName labels metrics and benchmark results.
	DefaultName = "optimal"

	// DefaultPadCost fills the synthetic rows/cols added when a non-square
	// matrix is squared up. Large enough that padded cells are never chosen
	// while any real option remains.
	DefaultPadCost = 1e6

	// DefaultGreedyCost substitutes +Inf entries so the solver can proceed
	// on infeasible or disconnected inputs.
	DefaultGreedyCost = 1e6

	// DefaultTiebreakNoise is the magnitude of the seeded random
	// perturbation used by the RandomSelection strategy.
	DefaultTiebreakNoise = 1e-9

	// MaxTiebreakNoise bounds WithTiebreakNoise: anything above this starts
	// to distort real cost differences instead of only breaking ties.
	MaxTiebreakNoise = 1e-3

	// DefaultSecondaryWeight scales the secondary criteria matrix used to
	// break ties deterministically.
	DefaultSecondaryWeight = 1e-3

	// DefaultSeed feeds every derived RNG stream (seed==0 maps here).
	DefaultSeed int64 = 1

	// DefaultCacheSize bounds the LRU solve cache ("most recent N matrices").
	DefaultCacheSize = 128

	// DefaultTimingWindow caps the rolling execution-time list behind
	// PerformanceStats.
	DefaultTimingWindow = 1000
)

// Option mutates internal options. Safe to apply repeatedly; last-writer-wins.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Intentionally unexported fields; public entry points accept ...Option and
// resolve them via gatherOptions.
type Options struct {
	name            string
	padCost         float64
	greedyCost      float64
	noise           float64
	secondaryWeight float64
	seed            int64
	cacheSize       int
	timingWindow    int
	historyLimit    int
	bidirectional   bool
	log             *zap.Logger
}

// WithName labels the matcher in metrics and performance results.
// Empty names fall back to DefaultName.
func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithPadCost sets the sentinel cost for synthetic padding cells.
// Panics unless the cost is finite and > 0.
func WithPadCost(cost float64) Option {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		panic(panicBadPadCost)
	}

	return func(o *Options) { o.padCost = cost }
}

// WithGreedyCost sets the finite substitute for +Inf entries.
// Panics unless the cost is finite and > 0.
func WithGreedyCost(cost float64) Option {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		panic(panicBadGreedyCost)
	}

	return func(o *Options) { o.greedyCost = cost }
}

// WithTiebreakNoise sets the magnitude of the seeded random perturbation.
// Panics unless 0 < magnitude <= MaxTiebreakNoise.
func WithTiebreakNoise(magnitude float64) Option {
	if math.IsNaN(magnitude) || magnitude <= 0 || magnitude > MaxTiebreakNoise {
		panic(panicBadNoise)
	}

	return func(o *Options) { o.noise = magnitude }
}

// WithSecondaryWeight scales the deterministic secondary-criteria matrix.
// Panics unless the weight is finite and > 0.
func WithSecondaryWeight(w float64) Option {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		panic(panicBadSecondaryWeight)
	}

	return func(o *Options) { o.secondaryWeight = w }
}

// WithSeed fixes the base seed for all perturbation streams.
// Seed 0 maps to DefaultSeed at use time (stable-default policy).
func WithSeed(seed int64) Option {
	return func(o *Options) { o.seed = seed }
}

// WithCacheSize bounds the LRU solve cache. Panics unless size > 0.
func WithCacheSize(size int) Option {
	if size <= 0 {
		panic(panicBadCacheSize)
	}

	return func(o *Options) { o.cacheSize = size }
}

// WithTimingWindow caps the rolling execution-time window.
// Panics unless window > 0.
func WithTimingWindow(window int) Option {
	if window <= 0 {
		panic(panicBadTimingWindow)
	}

	return func(o *Options) { o.timingWindow = window }
}

// WithHistoryLimit caps the constraint-validation history.
// Non-positive values select the constraints package default.
func WithHistoryLimit(limit int) Option {
	return func(o *Options) { o.historyLimit = limit }
}

// WithBidirectional switches Match to stable matching (Gale–Shapley) when
// both preference sides are supplied.
func WithBidirectional() Option {
	return func(o *Options) { o.bidirectional = true }
}

// WithLogger injects a zap logger for edge-case resolutions and violation
// reports. nil keeps the default nop logger (the library stays silent).
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.log = log
		}
	}
}

// gatherOptions applies user setters on top of the documented defaults.
// Last-writer-wins; derived invariants are enforced here in one place.
func gatherOptions(user ...Option) Options {
	o := Options{
		name:            DefaultName,
		padCost:         DefaultPadCost,
		greedyCost:      DefaultGreedyCost,
		noise:           DefaultTiebreakNoise,
		secondaryWeight: DefaultSecondaryWeight,
		seed:            DefaultSeed,
		cacheSize:       DefaultCacheSize,
		timingWindow:    DefaultTimingWindow,
		log:             zap.NewNop(),
	}
	for _, set := range user {
		set(&o)
	}

	if o.seed == 0 {
		o.seed = DefaultSeed
	}

	return o
}
