// Package constraints: the free-form evaluation context and its canonical
// keys. Context is a loose map by design — the matcher populates the
// canonical keys, callers may add arbitrary extras — so typed access goes
// through cast-based getters instead of type assertions scattered around.

package constraints

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Canonical context keys populated by the matching pipeline.
const (
	// KeyCostMatrix holds the *hungarian.CostMatrix under evaluation.
	KeyCostMatrix = "cost_matrix"

	// KeyAssignments holds the realized []hungarian.Pair (post-solve only).
	KeyAssignments = "assignments"

	// KeyTotalCost holds the float64 total over the original matrix
	// (post-solve only).
	KeyTotalCost = "total_cost"

	// KeyTimestamp holds the time.Time at which evaluation started.
	KeyTimestamp = "timestamp"
)

// Context is the key-value map constraints evaluate against.
type Context map[string]any

// NewContext returns a Context pre-stamped with the current timestamp.
func NewContext() Context {
	return Context{KeyTimestamp: time.Now()}
}

// Float64 coerces the value under key to float64 (0 when absent or
// non-numeric).
func (c Context) Float64(key string) float64 { return cast.ToFloat64(c[key]) }

// Int coerces the value under key to int (0 when absent or non-numeric).
func (c Context) Int(key string) int { return cast.ToInt(c[key]) }

// String coerces the value under key to a string ("" when absent).
func (c Context) String(key string) string { return cast.ToString(c[key]) }

// Bool coerces the value under key to bool (false when absent).
func (c Context) Bool(key string) bool { return cast.ToBool(c[key]) }

// Time coerces the value under key to time.Time (zero when absent).
func (c Context) Time(key string) time.Time { return cast.ToTime(c[key]) }

// Clone returns a shallow copy: keys are independent, values are shared.
// Sufficient for the pipeline, which only ever adds keys per phase.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}

	return out
}

// Summary renders a JSON-serializable snapshot of the context for history
// records. Scalars pass through; timestamps are formatted; everything else
// (matrices, assignment slices, caller structs) is summarized as
// "{TypeName} instance" so history memory stays bounded.
func (c Context) Summary() map[string]any {
	out := make(map[string]any, len(c))
	for k, v := range c {
		out[k] = summarizeValue(v)
	}

	return out
}

// summarizeValue keeps scalars and flattens the rest to a type tag.
func summarizeValue(v any) any {
	switch tv := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case time.Time:
		return tv.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("{%T} instance", v)
	}
}
