package coeff

import (
	"fmt"

	"github.com/katalvlaran/qpcanon/matrix"
)

// Entry is one nonzero T[Row, Col, Param] of a ParamTensor.
type Entry struct {
	Row, Col, Param int
	Value           float64
}

// ParamTensor is a sparse 3-way coefficient tensor in coordinate form.
// Duplicate coordinates are summed on evaluation.
type ParamTensor struct {
	Rows, Cols, Params int
	Entries            []Entry
}

// NewParamTensor returns an empty tensor of the given extents.
func NewParamTensor(rows, cols, params int) *ParamTensor {
	return &ParamTensor{Rows: rows, Cols: cols, Params: params}
}

// Add appends one coefficient.
func (t *ParamTensor) Add(row, col, param int, v float64) {
	t.Entries = append(t.Entries, Entry{Row: row, Col: col, Param: param, Value: v})
}

// Scale returns a copy with every coefficient multiplied by alpha.
func (t *ParamTensor) Scale(alpha float64) *ParamTensor {
	out := &ParamTensor{Rows: t.Rows, Cols: t.Cols, Params: t.Params, Entries: make([]Entry, len(t.Entries))}
	for i, e := range t.Entries {
		e.Value *= alpha
		out.Entries[i] = e
	}

	return out
}

// Evaluate computes M(θ) without caching. With withOffset the last column is
// returned separately as a dense offset and the matrix keeps Cols-1 columns;
// otherwise offset is nil.
// Errors: ErrThetaLength.
// Complexity: O(nnz·log nnz).
func (t *ParamTensor) Evaluate(theta []float64, withOffset bool) (*matrix.CSC, []float64, error) {
	if len(theta) != t.Params {
		return nil, nil, fmt.Errorf("ParamTensor.Evaluate: len(θ)=%d, want %d: %w", len(theta), t.Params, ErrThetaLength)
	}
	cols := t.Cols
	var offset []float64
	if withOffset {
		cols--
		offset = make([]float64, t.Rows)
	}
	tr := matrix.NewTriplets(t.Rows, cols)
	for _, e := range t.Entries {
		v := e.Value * theta[e.Param]
		if withOffset && e.Col == cols {
			offset[e.Row] += v
			continue
		}
		if err := tr.Add(e.Row, e.Col, v); err != nil {
			return nil, nil, fmt.Errorf("ParamTensor.Evaluate: %w", err)
		}
	}

	return tr.ToCSC(false), offset, nil
}
