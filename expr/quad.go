package expr

import (
	"fmt"

	"github.com/katalvlaran/qpcanon/matrix"
)

// quadExpr is the scalar quadratic form xᵀ·Q·x over the flattened entries of x.
type quadExpr struct {
	x    Expr
	q    Expr
	name string
	curv Curvature
}

// QuadForm returns xᵀ·Q·x for a vector expression x of length n and an
// (n, n) variable-free Q. A constant Q must be symmetric; a parameter Q
// is certified through its PSD/NSD attributes.
//
// Curvature: Convex when Q is PSD, Concave when Q is NSD, Unknown otherwise
// (x must be affine for either certificate).
//
// Errors: ErrNotVector, ErrShapeMismatch, ErrNotSymmetric, ErrNotAffine
// (Q contains variables).
func QuadForm(x, q Expr) (Expr, error) {
	if !x.Shape().IsVector() {
		return nil, fmt.Errorf("QuadForm: x shape %s: %w", x.Shape(), ErrNotVector)
	}
	n := Size(x)
	if r, c := q.Shape().Dims(); r != n || c != n || len(q.Shape()) != 2 && n != 1 {
		return nil, fmt.Errorf("QuadForm: Q shape %s for x of size %d: %w", q.Shape(), n, ErrShapeMismatch)
	}
	if !IsConstant(q) {
		return nil, fmt.Errorf("QuadForm: Q must be variable-free: %w", ErrNotAffine)
	}
	curv, err := quadCurvature(q, n)
	if err != nil {
		return nil, fmt.Errorf("QuadForm: %w", err)
	}
	if !IsAffine(x) {
		curv = Unknown
	}

	return &quadExpr{x: x, q: q, name: "quad_form", curv: curv}, nil
}

// SumSquares returns the sum of squared entries of x.
// Errors: ErrNotAffine when x is not affine.
func SumSquares(x Expr) (Expr, error) {
	if !IsAffine(x) {
		return nil, fmt.Errorf("SumSquares(%s): %w", x, ErrNotAffine)
	}
	n := Size(x)
	id, _ := matrix.Zeros(matrix.Shape{n, n})
	flat := id.Flatten()
	for i := 0; i < n; i++ {
		flat[i+i*n] = 1
	}
	eye, _ := matrix.NewArray(matrix.Shape{n, n}, flat)

	return &quadExpr{x: x, q: NewConstant(eye), name: "sum_squares", curv: Convex}, nil
}

// quadCurvature classifies Q: constants by eigenvalues, parameters by attributes.
func quadCurvature(q Expr, n int) (Curvature, error) {
	if p, ok := q.(*Parameter); ok {
		switch {
		case p.Attributes().Has(AttrPSD):
			return Convex, nil
		case p.Attributes().Has(AttrNSD):
			return Concave, nil
		}
		return Unknown, nil
	}
	if hasParams(q) {
		return Unknown, nil
	}
	v, err := q.Value()
	if err != nil {
		return Unknown, err
	}
	a, err := v.Reshape(matrix.Shape{n, n})
	if err != nil {
		return Unknown, err
	}
	d, err := a.Dense()
	if err != nil {
		return Unknown, err
	}
	if err = matrix.ValidateSymmetric(d, matrix.DefaultEpsilon); err != nil {
		return Unknown, fmt.Errorf("%w: %v", ErrNotSymmetric, err)
	}
	psd, err := matrix.IsPSD(d)
	if err != nil {
		return Unknown, err
	}
	if psd {
		return Convex, nil
	}
	neg := make([]float64, n*n)
	for i, x := range v.Flatten() {
		neg[i] = -x
	}
	nd, _ := matrix.NewArray(matrix.Shape{n, n}, neg)
	ndd, _ := nd.Dense()
	if nsd, err := matrix.IsPSD(ndd); err == nil && nsd {
		return Concave, nil
	}

	return Unknown, nil
}

func (e *quadExpr) Shape() matrix.Shape { return matrix.Shape{} }
func (e *quadExpr) Curvature() Curvature { return e.curv }
func (e *quadExpr) IsQuadratic() bool { return IsAffine(e.x) }
// IsDPP requires a parameter-free x: x enters the form twice.
func (e *quadExpr) IsDPP() bool { return productDPP(e.x, e.q) && !hasParams(e.x) }
func (e *quadExpr) Variables() []*Variable {
	return collectVariables(e.x, e.q)
}
func (e *quadExpr) Parameters() []*Parameter {
	return collectParameters(e.x, e.q)
}
func (e *quadExpr) Value() (*matrix.Array, error) { return evaluate(e) }

func (e *quadExpr) String() string {
	if e.name == "sum_squares" {
		return fmt.Sprintf("sum_squares(%s)", e.x)
	}

	return fmt.Sprintf("quad_form(%s, %s)", e.x, e.q)
}

func (e *quadExpr) sign() sign {
	switch e.curv {
	case Convex:
		return signNonneg
	case Concave:
		return signNonpos
	}

	return signUnknown
}

// canon expands Σ_ij Q[i,j]·x[i]·x[j]. Products of two variable terms become
// quadratic terms; the rest fold into the scalar linear row.
func (e *quadExpr) canon() (*Canon, error) {
	cx, err := e.x.canon()
	if err != nil {
		return nil, err
	}
	cq, err := e.q.canon()
	if err != nil {
		return nil, err
	}
	n := cx.Rows
	rx, rq := byRow(cx.Lin, n), byRow(cq.Lin, n*n)
	out := &Canon{Rows: 1}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			for _, tq := range rq[i+j*n] {
				for _, ti := range rx[i] {
					lhs, err := mulTerms(0, tq, ti)
					if err != nil {
						return nil, fmt.Errorf("%s: %w", e, err)
					}
					for _, tj := range rx[j] {
						if err = appendProduct(out, lhs, tj); err != nil {
							return nil, fmt.Errorf("%s: %w", e, err)
						}
					}
				}
			}
		}
	}

	return out, nil
}

// appendProduct adds a·b to a scalar canon, promoting var·var to a QuadTerm.
func appendProduct(out *Canon, a, b Term) error {
	if a.Var.IsOne() || b.Var.IsOne() {
		t, err := mulTerms(0, a, b)
		if err != nil {
			return err
		}
		out.Lin = append(out.Lin, t)
		return nil
	}
	p, err := mulRef(a.Param, b.Param, ErrNotDPP)
	if err != nil {
		return err
	}
	out.Quad = append(out.Quad, QuadTerm{Var1: a.Var, Var2: b.Var, Param: p, Coef: a.Coef * b.Coef})

	return nil
}
