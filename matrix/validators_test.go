// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/matrix"
)

func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return m
}

func TestValidateSquare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    matrix.Matrix
		want error
	}{
		{"1x1", dense(t, [][]float64{{1}}), nil},
		{"2x2", dense(t, [][]float64{{1, 2}, {3, 4}}), nil},
		{"2x3", dense(t, [][]float64{{1, 2, 3}, {4, 5, 6}}), matrix.ErrNonSquare},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSquare(tc.m)
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestValidateSymmetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    matrix.Matrix
		eps  float64
		want error
	}{
		{"nil", nil, 0, matrix.ErrNilMatrix},
		{"non-square", dense(t, [][]float64{{1, 2}}), 0, matrix.ErrNonSquare},
		{"symmetric", dense(t, [][]float64{{2, 1}, {1, 3}}), 0, nil},
		{"within eps", dense(t, [][]float64{{2, 1}, {1 + 1e-12, 3}}), 1e-9, nil},
		{"asymmetric", dense(t, [][]float64{{2, 1}, {0, 3}}), 1e-9, matrix.ErrAsymmetry},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSymmetric(tc.m, tc.eps)
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestValidateVecLen(t *testing.T) {
	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.NoError(t, matrix.ValidateVecLen(nil, 0))
	require.ErrorIs(t, matrix.ValidateVecLen(nil, 2), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}

func TestValidateFinite(t *testing.T) {
	require.NoError(t, matrix.ValidateFinite([]float64{0, -1, 1e300}))
	require.ErrorIs(t, matrix.ValidateFinite([]float64{0, math.NaN()}), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateFinite([]float64{math.Inf(-1)}), matrix.ErrNaNInf)
}
