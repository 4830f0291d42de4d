// SPDX-License-Identifier: MIT

// Package matrix - compressed sparse column (CSC) storage.
//
// Purpose:
//   - Carry the canonical solver matrices P and A.
//   - Keep the column-pointer / row-index / value triple explicit so solvers
//     can consume it without conversion.
//
// Invariants (checked by NewCSC):
//   - len(colPtr) == cols+1, colPtr[0] == 0, colPtr monotone, colPtr[cols] == nnz.
//   - Row indices strictly increase inside each column and lie in [0, rows).
//
// Explicit zeros are legal: a structure built with keepZeros retains entries
// whose value evaluated to 0 so that the nonzero pattern stays stable.
package matrix

import (
	"fmt"
	"sort"
)

// CSC is an immutable compressed sparse column matrix.
type CSC struct {
	r, c   int
	colPtr []int
	rowIdx []int
	vals   []float64
}

// NewCSC validates and wraps a CSC triple. Slices are retained, not copied.
// Errors: ErrInvalidDimensions (negative extents), ErrBadStructure.
// Complexity: O(cols + nnz).
func NewCSC(rows, cols int, colPtr, rowIdx []int, vals []float64) (*CSC, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(colPtr) != cols+1 || colPtr[0] != 0 || len(rowIdx) != len(vals) || colPtr[cols] != len(vals) {
		return nil, fmt.Errorf("NewCSC: %w", ErrBadStructure)
	}
	for j := 0; j < cols; j++ {
		if colPtr[j] > colPtr[j+1] {
			return nil, fmt.Errorf("NewCSC: column %d: %w", j, ErrBadStructure)
		}
		for k := colPtr[j]; k < colPtr[j+1]; k++ {
			if rowIdx[k] < 0 || rowIdx[k] >= rows || (k > colPtr[j] && rowIdx[k] <= rowIdx[k-1]) {
				return nil, fmt.Errorf("NewCSC: column %d entry %d: %w", j, k, ErrBadStructure)
			}
		}
	}

	return &CSC{r: rows, c: cols, colPtr: colPtr, rowIdx: rowIdx, vals: vals}, nil
}

// Rows returns the row count.
func (s *CSC) Rows() int { return s.r }

// Cols returns the column count.
func (s *CSC) Cols() int { return s.c }

// NNZ returns the number of stored entries (explicit zeros included).
func (s *CSC) NNZ() int { return len(s.vals) }

// ColPtr returns the column pointer array. Callers must not mutate it.
func (s *CSC) ColPtr() []int { return s.colPtr }

// RowIdx returns the row index array. Callers must not mutate it.
func (s *CSC) RowIdx() []int { return s.rowIdx }

// Values returns the stored values. Callers must not mutate it.
func (s *CSC) Values() []float64 { return s.vals }

// At returns entry (i, j); absent entries read as 0.
// Complexity: O(log nnz(col j)).
func (s *CSC) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, fmt.Errorf("CSC.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	lo, hi := s.colPtr[j], s.colPtr[j+1]
	k := lo + sort.SearchInts(s.rowIdx[lo:hi], i)
	if k < hi && s.rowIdx[k] == i {
		return s.vals[k], nil
	}

	return 0, nil
}

// MulVec computes y = S·x.
// Errors: ErrDimensionMismatch when len(x) != Cols.
// Complexity: O(nnz).
func (s *CSC) MulVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.c); err != nil {
		return nil, fmt.Errorf("CSC.MulVec: %w", err)
	}
	y := make([]float64, s.r)
	for j := 0; j < s.c; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			y[s.rowIdx[k]] += s.vals[k] * xj
		}
	}

	return y, nil
}

// ToDense materializes the matrix. A 0-extent matrix yields ErrInvalidDimensions.
// Complexity: O(r*c + nnz).
func (s *CSC) ToDense() (*Dense, error) {
	d, err := NewDense(s.r, s.c, WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("CSC.ToDense: %w", err)
	}
	for j := 0; j < s.c; j++ {
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			d.data[s.rowIdx[k]*s.c+j] = s.vals[k]
		}
	}

	return d, nil
}

// Triplets accumulates (row, col, value) entries before compression.
// Duplicates are summed on compression.
type Triplets struct {
	r, c int
	rows []int
	cols []int
	vals []float64
}

// NewTriplets returns an empty accumulator for an r×c matrix.
func NewTriplets(rows, cols int) *Triplets {
	return &Triplets{r: rows, c: cols}
}

// Add appends an entry. Errors: ErrOutOfRange.
func (t *Triplets) Add(i, j int, v float64) error {
	if i < 0 || i >= t.r || j < 0 || j >= t.c {
		return fmt.Errorf("Triplets.Add(%d,%d): %w", i, j, ErrOutOfRange)
	}
	t.rows = append(t.rows, i)
	t.cols = append(t.cols, j)
	t.vals = append(t.vals, v)

	return nil
}

// Len returns the number of accumulated (uncompressed) entries.
func (t *Triplets) Len() int { return len(t.vals) }

// ToCSC compresses the triplets: entries are ordered by (col, row), duplicates
// summed in insertion order, and entries summing to zero dropped unless keepZeros.
// Complexity: O(nnz log nnz).
func (t *Triplets) ToCSC(keepZeros bool) *CSC {
	order := make([]int, len(t.vals))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if t.cols[ka] != t.cols[kb] {
			return t.cols[ka] < t.cols[kb]
		}
		return t.rows[ka] < t.rows[kb]
	})

	colPtr := make([]int, t.c+1)
	rowIdx := make([]int, 0, len(order))
	vals := make([]float64, 0, len(order))
	for n := 0; n < len(order); {
		k := order[n]
		i, j, v := t.rows[k], t.cols[k], t.vals[k]
		n++
		for n < len(order) && t.rows[order[n]] == i && t.cols[order[n]] == j {
			v += t.vals[order[n]]
			n++
		}
		if v == 0 && !keepZeros {
			continue
		}
		rowIdx = append(rowIdx, i)
		vals = append(vals, v)
		colPtr[j+1]++
	}
	for j := 0; j < t.c; j++ {
		colPtr[j+1] += colPtr[j]
	}

	return &CSC{r: t.r, c: t.c, colPtr: colPtr, rowIdx: rowIdx, vals: vals}
}
