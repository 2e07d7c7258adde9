// SPDX-License-Identifier: MIT

// Package hungarian: CostMatrix — the immutable numeric input of the engine.
// Dense row-major storage in a flat slice for cache friendliness, plus a
// stable content hash used as the solve-cache key upstream.

package hungarian

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CostMatrix is an immutable rows×cols grid of assignment costs.
// Entries are finite float64 values or +Inf ("forbidden pairing").
// A new matrix is produced whenever constraint penalties or edge-case
// repair alter values; existing instances are never mutated.
type CostMatrix struct {
	rows, cols int
	data       []float64 // flat backing storage, row-major, length rows*cols
	hash       uint64    // content hash, computed once at construction
}

// New builds a CostMatrix from values.
// Stage 1 (Validate): non-empty, rectangular, no NaN / -Inf entries.
// Stage 2 (Prepare): copy into flat row-major storage.
// Stage 3 (Finalize): compute the canonical content hash.
//
// Errors: ErrBadShape on empty or ragged input, ErrNaNInf on NaN / -Inf.
//
// Complexity: O(rows·cols) time and memory.
func New(values [][]float64) (*CostMatrix, error) {
	rows := len(values)
	if rows == 0 || len(values[0]) == 0 {
		return nil, ErrBadShape
	}
	cols := len(values[0])

	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		if len(values[i]) != cols {
			return nil, ErrBadShape
		}
		for j := 0; j < cols; j++ {
			v := values[i][j]
			// +Inf is a legal sentinel; NaN and -Inf are not.
			if math.IsNaN(v) || math.IsInf(v, -1) {
				return nil, ErrNaNInf
			}
			data = append(data, v)
		}
	}

	m := &CostMatrix{rows: rows, cols: cols, data: data}
	m.hash = contentHash(rows, cols, data)

	return m, nil
}

// MustNew is New that panics on error. Intended for literals in tests and
// examples where the shape is known correct by construction.
func MustNew(values [][]float64) *CostMatrix {
	m, err := New(values)
	if err != nil {
		panic(err)
	}

	return m
}

// Rows returns the number of rows. Complexity: O(1).
func (m *CostMatrix) Rows() int { return m.rows }

// Cols returns the number of columns. Complexity: O(1).
func (m *CostMatrix) Cols() int { return m.cols }

// At retrieves the cost at (row, col), or ErrOutOfRange.
// Complexity: O(1).
func (m *CostMatrix) At(row, col int) (float64, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, fmt.Errorf("CostMatrix.At(%d,%d): %w", row, col, ErrOutOfRange)
	}

	return m.data[row*m.cols+col], nil
}

// at is the unchecked fast-path accessor for internal loops.
func (m *CostMatrix) at(row, col int) float64 {
	return m.data[row*m.cols+col]
}

// Values returns a deep copy of the underlying grid. Mutating the returned
// slices never affects the matrix. Complexity: O(rows·cols).
func (m *CostMatrix) Values() [][]float64 {
	out := make([][]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		row := make([]float64, m.cols)
		copy(row, m.data[i*m.cols:(i+1)*m.cols])
		out[i] = row
	}

	return out
}

// ContentHash returns the stable 64-bit digest of the matrix contents.
// Two matrices with identical values in identical positions hash
// identically regardless of construction path. Complexity: O(1) (cached).
func (m *CostMatrix) ContentHash() uint64 { return m.hash }

// Equal reports value equality: same shape and bit-identical entries.
// Complexity: O(rows·cols) worst case; hash mismatch short-circuits.
func (m *CostMatrix) Equal(other *CostMatrix) bool {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return false
	}
	if m.hash != other.hash {
		return false
	}
	for i := range m.data {
		// Bit-level comparison, matching the hash canonicalization exactly:
		// whatever the hash distinguishes (including +0 vs -0), Equal does too.
		if math.Float64bits(m.data[i]) != math.Float64bits(other.data[i]) {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for debugging.
func (m *CostMatrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", m.at(i, j))
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// contentHash digests (rows, cols, entries) with xxhash64.
//
// Canonicalization: rows and cols as uint64 little-endian, then every entry
// row-major as its IEEE-754 bit pattern encoded little-endian. Fixed-width
// byte encoding avoids any platform-dependent float formatting drift; the
// digest is stable across processes and architectures.
func contentHash(rows, cols int, data []float64) uint64 {
	d := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(rows))
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(cols))
	_, _ = d.Write(buf[:])

	for _, v := range data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}
