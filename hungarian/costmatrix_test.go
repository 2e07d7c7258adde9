package hungarian_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/assign/hungarian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_RejectsEmptyAndRagged verifies shape validation at construction.
func TestNew_RejectsEmptyAndRagged(t *testing.T) {
	_, err := hungarian.New(nil)
	assert.ErrorIs(t, err, hungarian.ErrBadShape, "nil input must error")

	_, err = hungarian.New([][]float64{})
	assert.ErrorIs(t, err, hungarian.ErrBadShape, "empty input must error")

	_, err = hungarian.New([][]float64{{}})
	assert.ErrorIs(t, err, hungarian.ErrBadShape, "empty row must error")

	_, err = hungarian.New([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, hungarian.ErrBadShape, "ragged rows must error")
}

// TestNew_NumericPolicy verifies that +Inf is legal while NaN and -Inf are
// rejected.
func TestNew_NumericPolicy(t *testing.T) {
	_, err := hungarian.New([][]float64{{1, math.Inf(1)}, {2, 3}})
	assert.NoError(t, err, "+Inf is the forbidden-pairing sentinel and must pass")

	_, err = hungarian.New([][]float64{{1, math.NaN()}, {2, 3}})
	assert.ErrorIs(t, err, hungarian.ErrNaNInf, "NaN must be rejected")

	_, err = hungarian.New([][]float64{{1, math.Inf(-1)}, {2, 3}})
	assert.ErrorIs(t, err, hungarian.ErrNaNInf, "-Inf must be rejected")
}

// TestCostMatrix_Accessors covers shape, At bounds checking and Values
// isolation.
func TestCostMatrix_Accessors(t *testing.T) {
	m, err := hungarian.New([][]float64{{4, 1, 3}, {2, 0, 5}})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())

	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, hungarian.ErrOutOfRange)
	_, err = m.At(0, -1)
	assert.ErrorIs(t, err, hungarian.ErrOutOfRange)

	// Mutating the Values copy must not leak back into the matrix.
	vals := m.Values()
	vals[0][0] = 999
	v, err = m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v, "Values must be a deep copy")
}

// TestContentHash_StableAcrossConstruction verifies that independently
// built matrices with identical entries share a hash, and that any single
// entry change alters it.
func TestContentHash_StableAcrossConstruction(t *testing.T) {
	a := hungarian.MustNew([][]float64{{1, 2}, {3, 4}})
	b := hungarian.MustNew([][]float64{{1, 2}, {3, 4}})
	c := hungarian.MustNew([][]float64{{1, 2}, {3, 5}})

	assert.Equal(t, a.ContentHash(), b.ContentHash(), "identical contents must hash identically")
	assert.NotEqual(t, a.ContentHash(), c.ContentHash(), "a changed entry must change the hash")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

// TestContentHash_ShapeSensitive verifies that transposed shapes with the
// same flat contents do not collide (shape is part of the digest).
func TestContentHash_ShapeSensitive(t *testing.T) {
	wide := hungarian.MustNew([][]float64{{1, 2, 3, 4}})
	tall := hungarian.MustNew([][]float64{{1}, {2}, {3}, {4}})

	assert.NotEqual(t, wide.ContentHash(), tall.ContentHash(), "1×4 and 4×1 must not collide")
	assert.False(t, wide.Equal(tall))
}
