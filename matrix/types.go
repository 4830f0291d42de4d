// SPDX-License-Identifier: MIT

// Package matrix: shared interfaces and shape types.
package matrix

import (
	"fmt"
	"strings"
)

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Shape is the extent of an n-dimensional value with at most two axes.
//   - len 0: scalar
//   - len 1: vector (n,)
//   - len 2: matrix (m, n)
type Shape []int

// MaxRank is the largest number of axes a Shape may carry.
const MaxRank = 2

// Size returns the number of scalar entries (1 for scalars).
// Complexity: O(rank).
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// Validate checks rank ≤ MaxRank and non-negative extents.
func (s Shape) Validate() error {
	if len(s) > MaxRank {
		return fmt.Errorf("Shape%v: rank %d: %w", []int(s), len(s), ErrBadShape)
	}
	for _, d := range s {
		if d < 0 {
			return fmt.Errorf("Shape%v: %w", []int(s), ErrBadShape)
		}
	}

	return nil
}

// Equal reports whether both shapes have identical rank and extents.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}

	return true
}

// IsScalar reports whether the shape holds exactly one entry
// (rank 0, or every extent equal to one).
func (s Shape) IsScalar() bool { return s.Size() == 1 }

// IsVector reports whether the shape has at most one non-unit axis.
func (s Shape) IsVector() bool {
	if len(s) <= 1 {
		return true
	}

	return s[0] == 1 || s[1] == 1
}

// Dims returns (rows, cols) under the column-vector convention:
// scalars are 1×1 and vectors (n,) are n×1.
func (s Shape) Dims() (rows, cols int) {
	switch len(s) {
	case 0:
		return 1, 1
	case 1:
		return s[0], 1
	default:
		return s[0], s[1]
	}
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape { return append(Shape(nil), s...) }

// String renders the shape in tuple notation, e.g. "(3,)" or "(2, 4)".
func (s Shape) String() string {
	switch len(s) {
	case 0:
		return "()"
	case 1:
		return fmt.Sprintf("(%d,)", s[0])
	}
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
