package coeff

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/qpcanon/matrix"
)

// CacheMode selects how a ReducedMat treats zeros.
type CacheMode int

const (
	// DropZeros omits structurally zero coefficients and entries that
	// evaluate to exactly zero.
	DropZeros CacheMode = iota
	// KeepZeros retains every tensor coordinate so the nonzero pattern is
	// identical across evaluations.
	KeepZeros
)

// String returns "drop-zeros" or "keep-zeros".
func (m CacheMode) String() string {
	if m == KeepZeros {
		return "keep-zeros"
	}

	return "drop-zeros"
}

// ReducedMat evaluates a ParamTensor repeatedly against different parameter
// vectors, reusing the sparsity structure between calls.
type ReducedMat struct {
	tensor *ParamTensor
	opts   Options

	built bool
	mode  CacheMode

	// CSC structure over all tensor columns.
	colPtr []int
	rowIdx []int
	// contributions of structural entry s live in [start[s], start[s+1]).
	start  []int
	params []int
	values []float64

	builds int
}

// NewReducedMat wraps t. The structure is built by the first Cache or Evaluate call.
func NewReducedMat(t *ParamTensor, opts ...Option) *ReducedMat {
	return &ReducedMat{tensor: t, opts: gatherOptions(opts)}
}

// Tensor returns the wrapped tensor.
func (r *ReducedMat) Tensor() *ParamTensor { return r.tensor }

// Builds returns how many times the structure was (re)built.
func (r *ReducedMat) Builds() int { return r.builds }

// Mode returns the mode of the cached structure.
func (r *ReducedMat) Mode() CacheMode { return r.mode }

// Cache builds the structure when absent or when mode differs from the cached one.
//
// Implementation:
//   - Stage 1: Order tensor entries by (col, row), stable so duplicates keep
//     their insertion order.
//   - Stage 2: Collapse equal coordinates into one structural entry holding
//     its list of (param, value) contributions.
//
// Complexity: O(nnz·log nnz).
func (r *ReducedMat) Cache(mode CacheMode) {
	if r.built && r.mode == mode {
		return
	}
	t := r.tensor
	idx := make([]int, 0, len(t.Entries))
	for i, e := range t.Entries {
		if mode == DropZeros && e.Value == 0 {
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := t.Entries[idx[a]], t.Entries[idx[b]]
		if ea.Col != eb.Col {
			return ea.Col < eb.Col
		}
		return ea.Row < eb.Row
	})

	r.colPtr = make([]int, t.Cols+1)
	r.rowIdx = r.rowIdx[:0:0]
	r.start = r.start[:0:0]
	r.params = make([]int, len(idx))
	r.values = make([]float64, len(idx))
	prevRow, prevCol := -1, -1
	for k, i := range idx {
		e := t.Entries[i]
		if e.Row != prevRow || e.Col != prevCol {
			r.rowIdx = append(r.rowIdx, e.Row)
			r.start = append(r.start, k)
			r.colPtr[e.Col+1]++
			prevRow, prevCol = e.Row, e.Col
		}
		r.params[k] = e.Param
		r.values[k] = e.Value
	}
	r.start = append(r.start, len(idx))
	for c := 0; c < t.Cols; c++ {
		r.colPtr[c+1] += r.colPtr[c]
	}

	r.mode = mode
	r.built = true
	r.builds++
}

// Evaluate computes M(θ) on the cached structure; with withOffset the last
// column is split off as a dense offset of length Rows. Structures larger
// than the chunk size are evaluated in parallel chunks; each entry sums its
// contributions in a fixed order, so results do not depend on scheduling.
//
// Errors: ErrThetaLength.
// Complexity: O(contributions / workers).
func (r *ReducedMat) Evaluate(theta []float64, withOffset bool) (*matrix.CSC, []float64, error) {
	t := r.tensor
	if len(theta) != t.Params {
		return nil, nil, fmt.Errorf("ReducedMat.Evaluate: len(θ)=%d, want %d: %w", len(theta), t.Params, ErrThetaLength)
	}
	if !r.built {
		r.Cache(r.mode)
	}
	for _, p := range r.params {
		if p < 0 || p >= len(theta) {
			return nil, nil, fmt.Errorf("ReducedMat.Evaluate: slot %d: %w", p, ErrThetaLength)
		}
	}

	nnz := len(r.rowIdx)
	vals := make([]float64, nnz)
	fill := func(lo, hi int) {
		for s := lo; s < hi; s++ {
			sum := 0.0
			for k := r.start[s]; k < r.start[s+1]; k++ {
				sum += r.values[k] * theta[r.params[k]]
			}
			vals[s] = sum
		}
	}
	if nnz <= r.opts.chunkSize || r.opts.workers == 1 {
		fill(0, nnz)
	} else {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(r.opts.workers)
		for lo := 0; lo < nnz; lo += r.opts.chunkSize {
			hi := min(lo+r.opts.chunkSize, nnz)
			g.Go(func() error {
				fill(lo, hi)
				return nil
			})
		}
		_ = g.Wait()
	}

	cols := t.Cols
	var offset []float64
	if withOffset {
		cols--
		offset = make([]float64, t.Rows)
		for s := r.colPtr[cols]; s < nnz; s++ {
			offset[r.rowIdx[s]] = vals[s]
		}
	}
	end := r.colPtr[cols]
	colPtr, rowIdx, mvals := r.colPtr[:cols+1], r.rowIdx[:end], vals[:end]
	if r.mode == DropZeros {
		colPtr, rowIdx, mvals = dropZeros(colPtr, rowIdx, mvals)
	}
	m, err := matrix.NewCSC(t.Rows, cols, colPtr, rowIdx, mvals)
	if err != nil {
		return nil, nil, fmt.Errorf("ReducedMat.Evaluate: %w", err)
	}

	return m, offset, nil
}

// dropZeros compacts a CSC triple, removing entries equal to zero.
func dropZeros(colPtr, rowIdx []int, vals []float64) ([]int, []int, []float64) {
	outPtr := make([]int, len(colPtr))
	outRow := make([]int, 0, len(rowIdx))
	outVal := make([]float64, 0, len(vals))
	for c := 0; c+1 < len(colPtr); c++ {
		for s := colPtr[c]; s < colPtr[c+1]; s++ {
			if vals[s] != 0 {
				outRow = append(outRow, rowIdx[s])
				outVal = append(outVal, vals[s])
			}
		}
		outPtr[c+1] = len(outRow)
	}

	return outPtr, outRow, outVal
}
