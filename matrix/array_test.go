package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/matrix"
)

func TestShape(t *testing.T) {
	tests := []struct {
		shape      matrix.Shape
		size       int
		scalar     bool
		vector     bool
		rows, cols int
		str        string
	}{
		{matrix.Shape{}, 1, true, true, 1, 1, "()"},
		{matrix.Shape{3}, 3, false, true, 3, 1, "(3,)"},
		{matrix.Shape{1, 1}, 1, true, true, 1, 1, "(1, 1)"},
		{matrix.Shape{1, 4}, 4, false, true, 1, 4, "(1, 4)"},
		{matrix.Shape{2, 3}, 6, false, false, 2, 3, "(2, 3)"},
	}
	for _, tc := range tests {
		t.Run(tc.str, func(t *testing.T) {
			require.NoError(t, tc.shape.Validate())
			assert.Equal(t, tc.size, tc.shape.Size())
			assert.Equal(t, tc.scalar, tc.shape.IsScalar())
			assert.Equal(t, tc.vector, tc.shape.IsVector())
			r, c := tc.shape.Dims()
			assert.Equal(t, [2]int{tc.rows, tc.cols}, [2]int{r, c})
			assert.Equal(t, tc.str, tc.shape.String())
			assert.True(t, tc.shape.Equal(tc.shape.Clone()))
		})
	}

	require.ErrorIs(t, matrix.Shape{1, 2, 3}.Validate(), matrix.ErrBadShape)
	require.ErrorIs(t, matrix.Shape{-1}.Validate(), matrix.ErrBadShape)
	assert.False(t, matrix.Shape{2}.Equal(matrix.Shape{2, 1}))
}

func TestFromRows_ColumnMajor(t *testing.T) {
	a, err := matrix.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.True(t, a.Shape().Equal(matrix.Shape{2, 3}))
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, a.Flatten())

	v, err := a.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = a.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = a.At(0)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.FromRows([][]float64{{1}, {2, 3}})
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestUnflatten_InverseOfFlatten(t *testing.T) {
	a, err := matrix.FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	back, err := matrix.Unflatten(a.Flatten(), a.Shape())
	require.NoError(t, err)
	assert.True(t, a.AllClose(back, 0))

	_, err = matrix.Unflatten([]float64{1, 2, 3}, matrix.Shape{2, 2})
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestArray_ItemAndReshape(t *testing.T) {
	v, err := matrix.Scalar(2.5).Item()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = matrix.Vector(1, 2).Item()
	require.ErrorIs(t, err, matrix.ErrBadShape)

	r, err := matrix.Vector(1, 2, 3, 4).Reshape(matrix.Shape{2, 2})
	require.NoError(t, err)
	x, err := r.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, x)

	z, err := matrix.Zeros(matrix.Shape{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, z.Flatten())
}

func TestArray_Dense(t *testing.T) {
	a, err := matrix.FromRows([][]float64{{1, math.Inf(1)}, {3, 4}})
	require.NoError(t, err)
	d, err := a.Dense()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, math.Inf(1), 3, 4}, d.RowMajor())

	col, err := matrix.Vector(7, 8).Dense()
	require.NoError(t, err)
	assert.Equal(t, 2, col.Rows())
	assert.Equal(t, 1, col.Cols())
}

func TestArray_AllClose(t *testing.T) {
	a := matrix.Vector(1, 2)
	assert.True(t, a.AllClose(matrix.Vector(1+1e-10, 2), 1e-9))
	assert.False(t, a.AllClose(matrix.Vector(1.1, 2), 1e-9))
	assert.False(t, a.AllClose(matrix.Scalar(1), 1))
	assert.False(t, a.AllClose(nil, 1))
}
