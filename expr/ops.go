package expr

import (
	"fmt"

	"github.com/katalvlaran/qpcanon/matrix"
)

// broadcastShape returns the shape of an elementwise combination of a and b.
// Equal shapes combine directly; a size-one operand broadcasts.
func broadcastShape(op string, a, b matrix.Shape) (matrix.Shape, error) {
	switch {
	case a.Equal(b):
		return a.Clone(), nil
	case b.IsScalar():
		return a.Clone(), nil
	case a.IsScalar():
		return b.Clone(), nil
	}

	return nil, fmt.Errorf("%s: shapes %s and %s: %w", op, a, b, ErrShapeMismatch)
}

// addExpr is the elementwise sum of two expressions.
type addExpr struct {
	a, b  Expr
	shape matrix.Shape
}

// Add returns a + b. A size-one operand broadcasts over the other.
// Errors: ErrShapeMismatch.
func Add(a, b Expr) (Expr, error) {
	shape, err := broadcastShape("Add", a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}

	return &addExpr{a: a, b: b, shape: shape}, nil
}

// Sub returns a - b. Errors: ErrShapeMismatch.
func Sub(a, b Expr) (Expr, error) {
	return Add(a, Neg(b))
}

// AddAll folds Add over es. Errors: ErrShapeMismatch; ErrShapeMismatch for an empty list.
func AddAll(es ...Expr) (Expr, error) {
	if len(es) == 0 {
		return nil, fmt.Errorf("AddAll: no operands: %w", ErrShapeMismatch)
	}
	acc := es[0]
	for _, e := range es[1:] {
		var err error
		if acc, err = Add(acc, e); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (e *addExpr) Shape() matrix.Shape { return e.shape.Clone() }
func (e *addExpr) Curvature() Curvature { return sumCurvature(e.a.Curvature(), e.b.Curvature()) }
func (e *addExpr) IsDPP() bool { return e.a.IsDPP() && e.b.IsDPP() }
func (e *addExpr) Variables() []*Variable {
	return collectVariables(e.a, e.b)
}
func (e *addExpr) Parameters() []*Parameter {
	return collectParameters(e.a, e.b)
}
func (e *addExpr) Value() (*matrix.Array, error) { return evaluate(e) }
func (e *addExpr) String() string { return fmt.Sprintf("%s + %s", e.a, e.b) }
func (e *addExpr) sign() sign { return addSign(e.a.sign(), e.b.sign()) }

func (e *addExpr) IsQuadratic() bool {
	if !e.a.IsQuadratic() || !e.b.IsQuadratic() {
		return false
	}

	return e.shape.IsScalar() || IsAffine(e.a) && IsAffine(e.b)
}

func (e *addExpr) canon() (*Canon, error) {
	ca, err := e.a.canon()
	if err != nil {
		return nil, err
	}
	cb, err := e.b.canon()
	if err != nil {
		return nil, err
	}
	n := e.shape.Size()
	out := &Canon{Rows: n}
	out.Lin = append(append(out.Lin, broadcastRows(ca, n)...), broadcastRows(cb, n)...)
	out.Quad = append(append(out.Quad, ca.Quad...), cb.Quad...)

	return out, nil
}

// scaleExpr is alpha·e for a real constant alpha.
type scaleExpr struct {
	alpha float64
	arg   Expr
}

// Neg returns -e.
func Neg(e Expr) Expr { return &scaleExpr{alpha: -1, arg: e} }

// Scale returns alpha·e.
func Scale(alpha float64, e Expr) Expr { return &scaleExpr{alpha: alpha, arg: e} }

func (e *scaleExpr) alphaSign() sign {
	switch {
	case e.alpha > 0:
		return signNonneg
	case e.alpha < 0:
		return signNonpos
	}

	return signZero
}

func (e *scaleExpr) Shape() matrix.Shape { return e.arg.Shape() }
func (e *scaleExpr) Curvature() Curvature {
	return scaleCurvature(e.arg.Curvature(), e.alphaSign())
}
func (e *scaleExpr) IsQuadratic() bool { return e.arg.IsQuadratic() }
func (e *scaleExpr) IsDPP() bool { return e.arg.IsDPP() }
func (e *scaleExpr) Variables() []*Variable { return e.arg.Variables() }
func (e *scaleExpr) Parameters() []*Parameter { return e.arg.Parameters() }
func (e *scaleExpr) Value() (*matrix.Array, error) { return evaluate(e) }
func (e *scaleExpr) sign() sign { return mulSign(e.alphaSign(), e.arg.sign()) }

func (e *scaleExpr) String() string {
	if e.alpha == -1 {
		return fmt.Sprintf("-(%s)", e.arg)
	}

	return fmt.Sprintf("%g * (%s)", e.alpha, e.arg)
}

func (e *scaleExpr) canon() (*Canon, error) {
	c, err := e.arg.canon()
	if err != nil {
		return nil, err
	}
	out := &Canon{Rows: c.Rows, Lin: make([]Term, len(c.Lin)), Quad: make([]QuadTerm, len(c.Quad))}
	for i, t := range c.Lin {
		t.Coef *= e.alpha
		out.Lin[i] = t
	}
	for i, q := range c.Quad {
		q.Coef *= e.alpha
		out.Quad[i] = q
	}

	return out, nil
}

// sumExpr is the scalar sum of all entries.
type sumExpr struct {
	arg Expr
}

// Sum returns the sum of all entries of e as a scalar.
func Sum(e Expr) Expr { return &sumExpr{arg: e} }

func (e *sumExpr) Shape() matrix.Shape { return matrix.Shape{} }
func (e *sumExpr) Curvature() Curvature { return e.arg.Curvature() }
func (e *sumExpr) IsQuadratic() bool { return e.arg.IsQuadratic() }
func (e *sumExpr) IsDPP() bool { return e.arg.IsDPP() }
func (e *sumExpr) Variables() []*Variable { return e.arg.Variables() }
func (e *sumExpr) Parameters() []*Parameter { return e.arg.Parameters() }
func (e *sumExpr) Value() (*matrix.Array, error) { return evaluate(e) }
func (e *sumExpr) String() string { return fmt.Sprintf("sum(%s)", e.arg) }
func (e *sumExpr) sign() sign { return e.arg.sign() }

func (e *sumExpr) canon() (*Canon, error) {
	c, err := e.arg.canon()
	if err != nil {
		return nil, err
	}
	out := &Canon{Rows: 1, Lin: make([]Term, len(c.Lin)), Quad: c.Quad}
	for i, t := range c.Lin {
		t.Row = 0
		out.Lin[i] = t
	}

	return out, nil
}

// productCurvature certifies a product where at most one factor has variables.
func productCurvature(a, b Expr) Curvature {
	switch {
	case IsConstant(a) && IsConstant(b):
		return Constant
	case IsConstant(a):
		return scaleCurvature(b.Curvature(), a.sign())
	case IsConstant(b):
		return scaleCurvature(a.Curvature(), b.sign())
	}

	return Unknown
}

// productDPP reports whether a product keeps parameters affine.
func productDPP(a, b Expr) bool {
	return a.IsDPP() && b.IsDPP() && !(hasParams(a) && hasParams(b))
}

// mulExpr is the elementwise product of two expressions.
type mulExpr struct {
	a, b  Expr
	shape matrix.Shape
}

// Multiply returns the elementwise product a ∘ b. A size-one operand broadcasts.
// Errors: ErrShapeMismatch.
func Multiply(a, b Expr) (Expr, error) {
	shape, err := broadcastShape("Multiply", a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}

	return &mulExpr{a: a, b: b, shape: shape}, nil
}

func (e *mulExpr) Shape() matrix.Shape { return e.shape.Clone() }
func (e *mulExpr) Curvature() Curvature { return productCurvature(e.a, e.b) }
func (e *mulExpr) IsDPP() bool { return productDPP(e.a, e.b) }
func (e *mulExpr) Variables() []*Variable {
	return collectVariables(e.a, e.b)
}
func (e *mulExpr) Parameters() []*Parameter {
	return collectParameters(e.a, e.b)
}
func (e *mulExpr) Value() (*matrix.Array, error) { return evaluate(e) }
func (e *mulExpr) String() string { return fmt.Sprintf("multiply(%s, %s)", e.a, e.b) }
func (e *mulExpr) sign() sign { return mulSign(e.a.sign(), e.b.sign()) }

func (e *mulExpr) IsQuadratic() bool {
	if e.Curvature().IsAffine() {
		return true
	}
	switch {
	case IsConstant(e.a):
		return e.b.IsQuadratic() && e.shape.IsScalar()
	case IsConstant(e.b):
		return e.a.IsQuadratic() && e.shape.IsScalar()
	}

	return false
}

func (e *mulExpr) canon() (*Canon, error) {
	ca, err := e.a.canon()
	if err != nil {
		return nil, err
	}
	cb, err := e.b.canon()
	if err != nil {
		return nil, err
	}
	n := e.shape.Size()
	ra, rb := byRow(broadcastRows(ca, n), n), byRow(broadcastRows(cb, n), n)
	out := &Canon{Rows: n}
	for r := 0; r < n; r++ {
		for _, ta := range ra[r] {
			for _, tb := range rb[r] {
				t, err := mulTerms(r, ta, tb)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", e, err)
				}
				out.Lin = append(out.Lin, t)
			}
		}
	}
	if err = crossQuad(out, ca, cb); err != nil {
		return nil, fmt.Errorf("%s: %w", e, err)
	}

	return out, nil
}

// crossQuad appends the products of one side's quadratic terms with the
// other side's scalar linear terms. Both sides quadratic is rejected.
func crossQuad(out *Canon, ca, cb *Canon) error {
	if len(ca.Quad) > 0 && len(cb.Quad) > 0 {
		return ErrNotQuadratic
	}
	for _, pair := range [2][2]*Canon{{ca, cb}, {cb, ca}} {
		q, s := pair[0], pair[1]
		if len(q.Quad) == 0 {
			continue
		}
		for _, qt := range q.Quad {
			for _, t := range s.Lin {
				nq, err := scaleQuad(qt, t)
				if err != nil {
					return err
				}
				out.Quad = append(out.Quad, nq)
			}
		}
	}

	return nil
}

// matmulExpr is the matrix product a·b.
type matmulExpr struct {
	a, b    Expr
	m, k, n int
	shape   matrix.Shape
}

// MatMul returns the matrix product a·b. A vector left operand acts as a
// row vector and a vector right operand as a column vector; the result drops
// the axes contributed by vectors.
// Errors: ErrShapeMismatch for incompatible inner dimensions.
func MatMul(a, b Expr) (Expr, error) {
	sa, sb := a.Shape(), b.Shape()
	if len(sa) == 0 || len(sb) == 0 {
		return nil, fmt.Errorf("MatMul: scalar operand %s @ %s, use Multiply: %w", sa, sb, ErrShapeMismatch)
	}
	var m, k, k2, n int
	if len(sa) == 1 {
		m, k = 1, sa[0]
	} else {
		m, k = sa[0], sa[1]
	}
	k2, n = sb.Dims()
	if k != k2 {
		return nil, fmt.Errorf("MatMul: shapes %s @ %s: %w", sa, sb, ErrShapeMismatch)
	}

	var shape matrix.Shape
	switch {
	case len(sa) == 1 && len(sb) == 1:
		shape = matrix.Shape{}
	case len(sa) == 1:
		shape = matrix.Shape{n}
	case len(sb) == 1:
		shape = matrix.Shape{m}
	default:
		shape = matrix.Shape{m, n}
	}

	return &matmulExpr{a: a, b: b, m: m, k: k, n: n, shape: shape}, nil
}

func (e *matmulExpr) Shape() matrix.Shape { return e.shape.Clone() }
func (e *matmulExpr) Curvature() Curvature { return productCurvature(e.a, e.b) }
func (e *matmulExpr) IsQuadratic() bool { return e.Curvature().IsAffine() }
func (e *matmulExpr) IsDPP() bool { return productDPP(e.a, e.b) }
func (e *matmulExpr) Variables() []*Variable {
	return collectVariables(e.a, e.b)
}
func (e *matmulExpr) Parameters() []*Parameter {
	return collectParameters(e.a, e.b)
}
func (e *matmulExpr) Value() (*matrix.Array, error) { return evaluate(e) }
func (e *matmulExpr) String() string { return fmt.Sprintf("%s @ %s", e.a, e.b) }

func (e *matmulExpr) sign() sign { return mulSign(e.a.sign(), e.b.sign()) }

// canon contracts over the inner axis. Entry (i, l) of a sits at row
// i + l·m and entry (l, j) of b at row l + j·k; output (i, j) is row i + j·m.
func (e *matmulExpr) canon() (*Canon, error) {
	ca, err := e.a.canon()
	if err != nil {
		return nil, err
	}
	cb, err := e.b.canon()
	if err != nil {
		return nil, err
	}
	ra, rb := byRow(ca.Lin, ca.Rows), byRow(cb.Lin, cb.Rows)
	out := &Canon{Rows: e.m * e.n}
	for j := 0; j < e.n; j++ {
		for i := 0; i < e.m; i++ {
			row := i + j*e.m
			for l := 0; l < e.k; l++ {
				for _, ta := range ra[i+l*e.m] {
					for _, tb := range rb[l+j*e.k] {
						t, err := mulTerms(row, ta, tb)
						if err != nil {
							return nil, fmt.Errorf("%s: %w", e, err)
						}
						out.Lin = append(out.Lin, t)
					}
				}
			}
		}
	}

	return out, nil
}
