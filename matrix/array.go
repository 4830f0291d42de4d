// SPDX-License-Identifier: MIT

// Package matrix - shaped values in column-major (Fortran) order.
//
// Array is the value type exchanged with callers: variable values, parameter
// values, constants and dual values. Storage is always column-major so that
// Flatten and Unflatten are exact two-sided inverses:
//
//	offset(i, j) = i + j*rows
//
// Scalars have Shape{} and vectors Shape{n}.
package matrix

import (
	"fmt"
	"math"
)

// Array is an immutable-by-convention n-dimensional value (rank ≤ 2)
// stored in column-major order.
type Array struct {
	shape Shape
	data  []float64
}

// NewArray wraps data (column-major) with the given shape.
// The data slice is copied.
// Errors: ErrBadShape for invalid shapes or len(data) != shape.Size().
func NewArray(shape Shape, data []float64) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("NewArray: %w", err)
	}
	if len(data) != shape.Size() {
		return nil, fmt.Errorf("NewArray: %d values for shape %s: %w", len(data), shape, ErrBadShape)
	}
	cp := make([]float64, len(data))
	copy(cp, data)

	return &Array{shape: shape.Clone(), data: cp}, nil
}

// Zeros returns a zero-filled Array of the given shape.
func Zeros(shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("Zeros: %w", err)
	}

	return &Array{shape: shape.Clone(), data: make([]float64, shape.Size())}, nil
}

// Scalar returns a rank-0 Array holding v.
func Scalar(v float64) *Array { return &Array{shape: Shape{}, data: []float64{v}} }

// Vector returns a rank-1 Array holding vs.
func Vector(vs ...float64) *Array {
	cp := make([]float64, len(vs))
	copy(cp, vs)

	return &Array{shape: Shape{len(vs)}, data: cp}
}

// FromRows builds a rank-2 Array from a rectangular row table, converting the
// row-major literal into column-major storage.
// Errors: ErrBadShape for empty or ragged input.
func FromRows(rows [][]float64) (*Array, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("FromRows: empty table: %w", ErrBadShape)
	}
	m, n := len(rows), len(rows[0])
	data := make([]float64, m*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("FromRows: row %d has %d cols, want %d: %w", i, len(row), n, ErrBadShape)
		}
		for j, v := range row {
			data[i+j*m] = v
		}
	}

	return &Array{shape: Shape{m, n}, data: data}, nil
}

// Unflatten reshapes a column-major flat segment into shape. It is the exact
// inverse of Flatten: Unflatten(a.Flatten(), a.Shape()) reproduces a.
// Errors: ErrBadShape when len(flat) != shape.Size().
func Unflatten(flat []float64, shape Shape) (*Array, error) {
	return NewArray(shape, flat)
}

// Shape returns a copy of the shape.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// Size returns the number of entries.
func (a *Array) Size() int { return len(a.data) }

// Flatten returns a copy of the entries in column-major order.
func (a *Array) Flatten() []float64 {
	out := make([]float64, len(a.data))
	copy(out, a.data)

	return out
}

// Item returns the only entry of a size-one Array.
// Errors: ErrBadShape for any other size.
func (a *Array) Item() (float64, error) {
	if len(a.data) != 1 {
		return 0, fmt.Errorf("Array.Item: shape %s: %w", a.shape, ErrBadShape)
	}

	return a.data[0], nil
}

// At returns the entry at the given multi-index (one index per axis).
// Errors: ErrBadShape for a wrong index count, ErrOutOfRange for bad indices.
func (a *Array) At(idx ...int) (float64, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("Array.At%v: rank %d: %w", idx, len(a.shape), ErrBadShape)
	}
	off, stride := 0, 1
	for k, i := range idx {
		if i < 0 || i >= a.shape[k] {
			return 0, fmt.Errorf("Array.At%v: %w", idx, ErrOutOfRange)
		}
		off += i * stride
		stride *= a.shape[k]
	}

	return a.data[off], nil
}

// Reshape returns a copy with a new shape of equal size (column-major order preserved).
func (a *Array) Reshape(shape Shape) (*Array, error) {
	return NewArray(shape, a.data)
}

// Dense materializes the Array as a Dense under the column-vector convention.
// Non-finite entries are allowed.
func (a *Array) Dense() (*Dense, error) {
	r, c := a.shape.Dims()
	d, err := NewDense(r, c, WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("Array.Dense: %w", err)
	}
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			d.data[i*c+j] = a.data[i+j*r]
		}
	}

	return d, nil
}

// AllClose reports whether both arrays share a shape and |aᵢ-bᵢ| ≤ tol for all i.
func (a *Array) AllClose(b *Array, tol float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}

	return true
}

// String renders the shape and column-major data.
func (a *Array) String() string {
	return fmt.Sprintf("Array%s%v", a.shape, a.data)
}
