package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
)

func mustVar(t *testing.T, shape matrix.Shape, opts ...expr.LeafOption) *expr.Variable {
	t.Helper()
	v, err := expr.NewVariable(shape, opts...)
	require.NoError(t, err)

	return v
}

func TestNewVariable_Validation(t *testing.T) {
	_, err := expr.NewVariable(matrix.Shape{2}, expr.WithAttr(expr.AttrNonneg|expr.AttrNonpos))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)

	_, err = expr.NewVariable(matrix.Shape{2}, expr.WithBounds([]float64{0}, nil))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)

	_, err = expr.NewVariable(matrix.Shape{2}, expr.WithBounds([]float64{0, 2}, []float64{1, 1}))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)

	_, err = expr.NewVariable(matrix.Shape{3}, expr.WithBooleanIdx(3))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)

	_, err = expr.NewVariable(matrix.Shape{2, 3}, expr.WithAttr(expr.AttrSymmetric))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)

	_, err = expr.NewVariable(matrix.Shape{-1})
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestVariable_Attributes(t *testing.T) {
	x := mustVar(t, matrix.Shape{3}, expr.WithBooleanIdx(0, 2, 0), expr.WithAttr(expr.AttrNonneg))
	assert.Equal(t, []int{0, 2}, x.BooleanIdx())
	assert.Empty(t, x.IntegerIdx())
	assert.True(t, x.IsMixedInteger())
	assert.Equal(t, expr.AttrNonneg, x.ConvexAttributes())
	assert.True(t, x.Attributes().Has(expr.AttrBoolean))
	assert.True(t, expr.IsNonneg(x))

	z := mustVar(t, matrix.Shape{2}, expr.WithAttr(expr.AttrInteger))
	assert.Equal(t, []int{0, 1}, z.IntegerIdx())

	y := mustVar(t, matrix.Shape{2})
	assert.False(t, y.IsMixedInteger())
	assert.False(t, y.HasBounds())
	assert.Nil(t, y.Lower())
	assert.NotEqual(t, x.ID(), y.ID())
}

func TestParameter_SetValue(t *testing.T) {
	p, err := expr.NewParameter(matrix.Shape{2}, expr.WithAttr(expr.AttrNonneg))
	require.NoError(t, err)
	_, err = p.Value()
	require.ErrorIs(t, err, expr.ErrValueUnset)

	require.ErrorIs(t, p.SetValue(matrix.Vector(1, 2, 3)), expr.ErrShapeMismatch)
	require.ErrorIs(t, p.SetValue(matrix.Vector(1, -2)), expr.ErrInvalidAttr)
	require.NoError(t, p.SetValue(matrix.Vector(1, 2)))
	assert.Equal(t, expr.Constant, p.Curvature())

	_, err = expr.NewParameter(matrix.Shape{2}, expr.WithAttr(expr.AttrBoolean))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)
	_, err = expr.NewParameter(matrix.Shape{2}, expr.WithBounds([]float64{0, 0}, nil))
	require.ErrorIs(t, err, expr.ErrInvalidAttr)
}

func TestMatMul_ValueAndCanon(t *testing.T) {
	x := mustVar(t, matrix.Shape{2}, expr.WithValue(matrix.Vector(1, 1)))
	a, err := expr.ConstMatrix([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	ax, err := expr.MatMul(a, x)
	require.NoError(t, err)
	assert.True(t, ax.Shape().Equal(matrix.Shape{2}))
	assert.Equal(t, expr.Affine, ax.Curvature())

	v, err := ax.Value()
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7}, v.Flatten())

	c, err := expr.CanonicalizeAffine(ax)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Rows)
	assert.Len(t, c.Lin, 4)
	assert.Empty(t, c.Quad)

	_, err = expr.MatMul(a, mustVar(t, matrix.Shape{3}))
	require.ErrorIs(t, err, expr.ErrShapeMismatch)
}

func TestAdd_Broadcast(t *testing.T) {
	x := mustVar(t, matrix.Shape{3}, expr.WithValue(matrix.Vector(1, 2, 3)))
	s, err := expr.Add(x, expr.Const(10))
	require.NoError(t, err)
	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 12, 13}, v.Flatten())

	d, err := expr.Sub(x, expr.ConstVector(1, 1, 1))
	require.NoError(t, err)
	v, err = d.Value()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, v.Flatten())

	_, err = expr.Add(x, mustVar(t, matrix.Shape{2}))
	require.ErrorIs(t, err, expr.ErrShapeMismatch)
}

func TestMultiply_Classification(t *testing.T) {
	x := mustVar(t, matrix.Shape{2})
	y := mustVar(t, matrix.Shape{2})
	p, err := expr.NewParameter(matrix.Shape{2})
	require.NoError(t, err)
	q, err := expr.NewParameter(matrix.Shape{2})
	require.NoError(t, err)

	xy := expr.Must(expr.Multiply(x, y))
	assert.Equal(t, expr.Unknown, xy.Curvature())
	assert.False(t, xy.IsQuadratic())
	_, err = expr.Canonicalize(xy)
	require.ErrorIs(t, err, expr.ErrNotQuadratic)

	px := expr.Must(expr.Multiply(p, x))
	assert.Equal(t, expr.Affine, px.Curvature())
	assert.True(t, px.IsDPP())

	pqx := expr.Must(expr.Multiply(q, px))
	assert.False(t, pqx.IsDPP())
	_, err = pqx.Value()
	require.ErrorIs(t, err, expr.ErrNotDPP)
}

func TestQuadForm(t *testing.T) {
	x := mustVar(t, matrix.Shape{2}, expr.WithValue(matrix.Vector(1, 2)))
	q, err := expr.ConstMatrix([][]float64{{2, 0}, {0, 4}})
	require.NoError(t, err)

	f, err := expr.QuadForm(x, q)
	require.NoError(t, err)
	assert.Equal(t, expr.Convex, f.Curvature())
	assert.True(t, f.IsQuadratic())
	v, err := f.Value()
	require.NoError(t, err)
	assert.InDelta(t, 18.0, v.Flatten()[0], 1e-12)

	c, err := expr.Canonicalize(f)
	require.NoError(t, err)
	assert.Len(t, c.Quad, 2)
	assert.Empty(t, c.Lin)

	negQ, err := expr.ConstMatrix([][]float64{{-1, 0}, {0, -1}})
	require.NoError(t, err)
	g, err := expr.QuadForm(x, negQ)
	require.NoError(t, err)
	assert.Equal(t, expr.Concave, g.Curvature())

	asym, err := expr.ConstMatrix([][]float64{{1, 2}, {0, 1}})
	require.NoError(t, err)
	_, err = expr.QuadForm(x, asym)
	require.ErrorIs(t, err, expr.ErrNotSymmetric)

	_, err = expr.QuadForm(x, expr.ConstVector(1, 2))
	require.ErrorIs(t, err, expr.ErrShapeMismatch)
}

func TestQuadForm_ParametrizedArgumentNotDPP(t *testing.T) {
	x := mustVar(t, matrix.Shape{2})
	p, err := expr.NewParameter(matrix.Shape{}, expr.WithValue(matrix.Scalar(2)))
	require.NoError(t, err)

	f, err := expr.SumSquares(expr.Must(expr.Multiply(p, x)))
	require.NoError(t, err)
	assert.False(t, f.IsDPP())

	g, err := expr.SumSquares(x)
	require.NoError(t, err)
	assert.True(t, g.IsDPP())
}

func TestQuadForm_AffineArgument(t *testing.T) {
	x := mustVar(t, matrix.Shape{1}, expr.WithValue(matrix.Vector(3)))
	shifted := expr.Must(expr.Add(x, expr.Const(1)))
	f, err := expr.SumSquares(shifted)
	require.NoError(t, err)

	v, err := f.Value()
	require.NoError(t, err)
	assert.InDelta(t, 16.0, v.Flatten()[0], 1e-12)

	c, err := expr.Canonicalize(f)
	require.NoError(t, err)
	assert.Len(t, c.Quad, 1)
	// (x+1)² = x² + 2x + 1: two cross terms and one constant.
	assert.Len(t, c.Lin, 3)
}

func TestScaleNeg_Curvature(t *testing.T) {
	x := mustVar(t, matrix.Shape{2})
	f := expr.Must(expr.SumSquares(x))
	assert.Equal(t, expr.Concave, expr.Neg(f).Curvature())
	assert.Equal(t, expr.Convex, expr.Scale(3, f).Curvature())
	assert.Equal(t, expr.Constant, expr.Scale(0, f).Curvature())
	assert.Equal(t, expr.Affine, expr.Sum(x).Curvature())
	assert.True(t, expr.Sum(x).Shape().IsScalar())
}

func TestLength(t *testing.T) {
	x := mustVar(t, matrix.Shape{6}, expr.WithValue(matrix.Vector(0, 0, 3, 0, -2, 0)))
	l, err := expr.Length(x)
	require.NoError(t, err)
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, v.Flatten())
	assert.Nil(t, l.Grad())
	assert.True(t, l.IsQuasiconvex())
	assert.True(t, expr.IsNonneg(l))

	tiny, err := l.Numeric([]*matrix.Array{matrix.Vector(1e-5, -1e-5)})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, tiny.Flatten())

	_, err = expr.Length(mustVar(t, matrix.Shape{2, 2}))
	require.ErrorIs(t, err, expr.ErrNotVector)
}

func TestNormInf(t *testing.T) {
	x := mustVar(t, matrix.Shape{3}, expr.WithValue(matrix.Vector(-4, 1, 2)))
	n := expr.NormInf(x)
	v, err := n.Value()
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, v.Flatten())
	assert.Equal(t, expr.Convex, n.Curvature())
	assert.False(t, n.IsQuadratic())

	_, err = n.ColumnGrad(matrix.Vector(-4, 1, 2))
	require.ErrorIs(t, err, expr.ErrNotImplemented)

	c := expr.NormInf(expr.ConstVector(1, -7))
	assert.Equal(t, expr.Constant, c.Curvature())
	canon, err := expr.CanonicalizeAffine(c)
	require.NoError(t, err)
	require.Len(t, canon.Lin, 1)
	assert.Equal(t, 7.0, canon.Lin[0].Coef)
}

func TestCurvature_String(t *testing.T) {
	assert.Equal(t, "CONVEX", expr.Convex.String())
	assert.Equal(t, "INVALID", expr.Curvature(42).String())
	assert.True(t, expr.Constant.IsConvex())
	assert.True(t, expr.Affine.IsConcave())
	assert.False(t, expr.Unknown.IsAffine())
	assert.Equal(t, "none", expr.Attr(0).String())
	assert.Equal(t, "nonneg|symmetric", (expr.AttrNonneg | expr.AttrSymmetric).String())
}
