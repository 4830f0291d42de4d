package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/matrix"
)

// [[1, 0, 2],
//  [0, 3, 0]]
func sample(t *testing.T) *matrix.CSC {
	t.Helper()
	s, err := matrix.NewCSC(2, 3, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{1, 3, 2})
	require.NoError(t, err)

	return s
}

func TestNewCSC_Structure(t *testing.T) {
	tests := []struct {
		name   string
		rows   int
		cols   int
		colPtr []int
		rowIdx []int
		vals   []float64
		want   error
	}{
		{"negative rows", -1, 1, []int{0, 0}, nil, nil, matrix.ErrInvalidDimensions},
		{"short colPtr", 2, 2, []int{0, 0}, nil, nil, matrix.ErrBadStructure},
		{"nnz mismatch", 2, 1, []int{0, 2}, []int{0}, []float64{1}, matrix.ErrBadStructure},
		{"row out of range", 2, 1, []int{0, 1}, []int{2}, []float64{1}, matrix.ErrBadStructure},
		{"unsorted rows", 2, 1, []int{0, 2}, []int{1, 0}, []float64{1, 1}, matrix.ErrBadStructure},
		{"decreasing colPtr", 2, 2, []int{0, 1, 0}, []int{0}, []float64{1}, matrix.ErrBadStructure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matrix.NewCSC(tc.rows, tc.cols, tc.colPtr, tc.rowIdx, tc.vals)
			require.ErrorIs(t, err, tc.want)
		})
	}

	empty, err := matrix.NewCSC(0, 0, []int{0}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NNZ())
}

func TestCSC_At(t *testing.T) {
	s := sample(t)
	v, err := s.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = s.At(1, 0)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = s.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestCSC_MulVec(t *testing.T) {
	s := sample(t)
	y, err := s.MulVec([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 6}, y)

	_, err = s.MulVec([]float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestCSC_ToDense(t *testing.T) {
	d, err := sample(t).ToDense()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 2, 0, 3, 0}, d.RowMajor())
}

func TestTriplets_ToCSC(t *testing.T) {
	tr := matrix.NewTriplets(2, 2)
	require.NoError(t, tr.Add(1, 1, 4))
	require.NoError(t, tr.Add(0, 0, 1))
	require.NoError(t, tr.Add(1, 0, 2))
	require.NoError(t, tr.Add(1, 0, -2))
	require.NoError(t, tr.Add(0, 0, 0.5))
	require.ErrorIs(t, tr.Add(2, 0, 1), matrix.ErrOutOfRange)
	assert.Equal(t, 5, tr.Len())

	s := tr.ToCSC(false)
	assert.Equal(t, []int{0, 1, 2}, s.ColPtr())
	assert.Equal(t, []int{0, 1}, s.RowIdx())
	assert.Equal(t, []float64{1.5, 4}, s.Values())

	kept := tr.ToCSC(true)
	assert.Equal(t, []int{0, 2, 3}, kept.ColPtr())
	assert.Equal(t, []int{0, 1, 1}, kept.RowIdx())
	assert.Equal(t, []float64{1.5, 0, 4}, kept.Values())
}
