package problem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
	"github.com/katalvlaran/qpcanon/problem"
)

func TestProblem_Discovery(t *testing.T) {
	x, err := expr.NewVariable(matrix.Shape{2}, expr.WithName("x"))
	require.NoError(t, err)
	y, err := expr.NewVariable(matrix.Shape{}, expr.WithName("y"), expr.WithAttr(expr.AttrInteger))
	require.NoError(t, err)
	p, err := expr.NewParameter(matrix.Shape{2}, expr.WithName("p"))
	require.NoError(t, err)

	obj := expr.Must(expr.SumSquares(x))
	px := expr.Must(expr.Multiply(p, x))
	c1, err := constraint.NewInequality(expr.Sum(px), y)
	require.NoError(t, err)

	prob, err := problem.Minimize(obj, c1, constraint.NewNonNeg(x))
	require.NoError(t, err)

	vars := prob.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, "x", vars[0].Name())
	assert.Equal(t, "y", vars[1].Name())
	require.Len(t, prob.Parameters(), 1)
	assert.True(t, prob.IsDCP())
	assert.True(t, prob.IsDPP())
	assert.True(t, prob.IsMixedInteger())
	assert.Len(t, prob.Constraints(), 2)
	assert.Contains(t, prob.String(), "subject to")
}

func TestProblem_Curvature(t *testing.T) {
	x, err := expr.NewVariable(matrix.Shape{2})
	require.NoError(t, err)
	f := expr.Must(expr.SumSquares(x))

	mx, err := problem.Maximize(f)
	require.NoError(t, err)
	assert.False(t, mx.IsDCP())

	mx, err = problem.Maximize(expr.Neg(f))
	require.NoError(t, err)
	assert.True(t, mx.IsDCP())
	assert.Equal(t, problem.SenseMaximize, mx.Sense())

	_, err = problem.Minimize(x)
	require.ErrorIs(t, err, problem.ErrObjectiveNotScalar)
}
