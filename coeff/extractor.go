package coeff

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/qpcanon/expr"
)

// Extractor maps canonical terms onto tensor coordinates for a fixed
// variable and parameter layout.
type Extractor struct {
	varOffsets   map[int]int
	varSizes     map[int]int
	xLength      int
	paramOffsets map[int]int
	paramSizes   map[int]int
	totalParams  int
	opts         Options
}

// NewExtractor binds a layout: variable offsets and sizes over a flattened x
// of length xLength, parameter offsets and sizes over a parameter vector of
// totalParamSize entries (plus the constant slot).
func NewExtractor(varOffsets, varSizes map[int]int, xLength int,
	paramOffsets, paramSizes map[int]int, totalParamSize int, opts ...Option) *Extractor {
	return &Extractor{
		varOffsets:   varOffsets,
		varSizes:     varSizes,
		xLength:      xLength,
		paramOffsets: paramOffsets,
		paramSizes:   paramSizes,
		totalParams:  totalParamSize,
		opts:         gatherOptions(opts),
	}
}

// column maps a variable reference to its x column; One maps to xLength.
func (x *Extractor) column(r expr.Ref) (int, error) {
	if r.IsOne() {
		return x.xLength, nil
	}
	off, ok := x.varOffsets[r.ID]
	if !ok || r.Elem >= x.varSizes[r.ID] {
		return 0, fmt.Errorf("variable %d[%d]: %w", r.ID, r.Elem, ErrUnknownVariable)
	}

	return off + r.Elem, nil
}

// slot maps a parameter reference to its θ slot; One maps to the constant slot.
func (x *Extractor) slot(r expr.Ref) (int, error) {
	if r.IsOne() {
		return x.totalParams, nil
	}
	off, ok := x.paramOffsets[r.ID]
	if !ok || r.Elem >= x.paramSizes[r.ID] {
		return 0, fmt.Errorf("parameter %d[%d]: %w", r.ID, r.Elem, ErrUnknownParameter)
	}

	return off + r.Elem, nil
}

// QuadForm extracts a scalar quadratic expression f(x) = xᵀ·P·x + qᵀ·x + d.
// P is returned as an N×N tensor with symmetric halves of each cross term;
// q is a 1×(N+1) tensor whose last column holds d.
//
// Errors: expr.ErrNotQuadratic, expr.ErrNotDPP, ErrNotScalar,
// ErrUnknownVariable, ErrUnknownParameter.
func (x *Extractor) QuadForm(e expr.Expr) (P, q *ParamTensor, err error) {
	c, err := expr.Canonicalize(e)
	if err != nil {
		return nil, nil, fmt.Errorf("Extractor.QuadForm: %w", err)
	}
	if c.Rows != 1 {
		return nil, nil, fmt.Errorf("Extractor.QuadForm: %d rows: %w", c.Rows, ErrNotScalar)
	}
	n, params := x.xLength, x.totalParams+1
	P = NewParamTensor(n, n, params)
	q = NewParamTensor(1, n+1, params)

	for _, t := range c.Quad {
		i, err := x.column(t.Var1)
		if err != nil {
			return nil, nil, fmt.Errorf("Extractor.QuadForm: %w", err)
		}
		j, err := x.column(t.Var2)
		if err != nil {
			return nil, nil, fmt.Errorf("Extractor.QuadForm: %w", err)
		}
		k, err := x.slot(t.Param)
		if err != nil {
			return nil, nil, fmt.Errorf("Extractor.QuadForm: %w", err)
		}
		if i == j {
			P.Add(i, i, k, t.Coef)
			continue
		}
		P.Add(i, j, k, t.Coef/2)
		P.Add(j, i, k, t.Coef/2)
	}
	for _, t := range c.Lin {
		col, err := x.column(t.Var)
		if err != nil {
			return nil, nil, fmt.Errorf("Extractor.QuadForm: %w", err)
		}
		k, err := x.slot(t.Param)
		if err != nil {
			return nil, nil, fmt.Errorf("Extractor.QuadForm: %w", err)
		}
		q.Add(0, col, k, t.Coef)
	}

	return P, q, nil
}

// Affine extracts the stacked affine map [A | b] of the given expressions:
// rows follow the input order, each expression contributing Size(e) rows,
// and column N holds the constant b. Expressions are canonicalized
// concurrently; the result is independent of scheduling.
//
// Errors: expr.ErrNotAffine, expr.ErrNotDPP, ErrUnknownVariable,
// ErrUnknownParameter, ctx.Err().
func (x *Extractor) Affine(ctx context.Context, es []expr.Expr) (*ParamTensor, error) {
	canons := make([]*expr.Canon, len(es))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.opts.workers)
	for i, e := range es {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := expr.CanonicalizeAffine(e)
			if err != nil {
				return fmt.Errorf("expression %d: %w", i, err)
			}
			canons[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Extractor.Affine: %w", err)
	}

	rows := 0
	for _, c := range canons {
		rows += c.Rows
	}
	out := NewParamTensor(rows, x.xLength+1, x.totalParams+1)
	base := 0
	for _, c := range canons {
		for _, t := range c.Lin {
			col, err := x.column(t.Var)
			if err != nil {
				return nil, fmt.Errorf("Extractor.Affine: %w", err)
			}
			k, err := x.slot(t.Param)
			if err != nil {
				return nil, fmt.Errorf("Extractor.Affine: %w", err)
			}
			out.Add(base+t.Row, col, k, t.Coef)
		}
		base += c.Rows
	}

	return out, nil
}
