// SPDX-License-Identifier: MIT
package matrix_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/matrix"
)

func TestEigenvalues_Symmetric(t *testing.T) {
	// Eigenvalues of [[2,1],[1,2]] are 1 and 3.
	eigs, err := matrix.Eigenvalues(dense(t, [][]float64{{2, 1}, {1, 2}}))
	require.NoError(t, err)
	sort.Float64s(eigs)
	assert.InDeltaSlice(t, []float64{1, 3}, eigs, 1e-9)

	diag, err := matrix.Eigenvalues(dense(t, [][]float64{{5, 0, 0}, {0, -1, 0}, {0, 0, 2}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, -1, 2}, diag)
}

func TestEigenvalues_Rejects(t *testing.T) {
	_, err := matrix.Eigenvalues(dense(t, [][]float64{{1, 2}, {0, 1}}))
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	_, err = matrix.Eigenvalues(dense(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	big := dense(t, [][]float64{{1, 2, 3}, {2, 1, 4}, {3, 4, 1}})
	_, err = matrix.Eigenvalues(big, matrix.WithEigenMaxIter(1))
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

func TestIsPSD(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want bool
	}{
		{"identity", [][]float64{{1, 0}, {0, 1}}, true},
		{"singular", [][]float64{{1, 1}, {1, 1}}, true},
		{"indefinite", [][]float64{{1, 2}, {2, 1}}, false},
		{"negative", [][]float64{{-1, 0}, {0, -2}}, false},
		{"zero", [][]float64{{0, 0}, {0, 0}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := matrix.IsPSD(dense(t, tc.rows))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}
