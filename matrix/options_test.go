// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/matrix"
)

func TestDefaultOptions_Documented(t *testing.T) {
	o := matrix.NewMatrixOptions()

	require.Equal(t, matrix.DefaultEpsilon, o.Epsilon())
	require.Equal(t, matrix.DefaultValidateNaNInf, o.ValidateNaNInf())
	require.Equal(t, matrix.DefaultEigenMaxIter, o.EigenMaxIter())
}

func TestOptions_LastWriterWins(t *testing.T) {
	o := matrix.NewMatrixOptions(matrix.WithNoValidateNaNInf(), matrix.WithValidateNaNInf())
	require.True(t, o.ValidateNaNInf())

	o = matrix.NewMatrixOptions(matrix.WithValidateNaNInf(), matrix.WithNoValidateNaNInf())
	require.False(t, o.ValidateNaNInf())

	o = matrix.NewMatrixOptions(matrix.WithEpsilon(1e-3), matrix.WithEpsilon(1e-6))
	require.Equal(t, 1e-6, o.Epsilon())

	o = matrix.NewMatrixOptions(matrix.WithEigenMaxIter(7))
	require.Equal(t, 7, o.EigenMaxIter())
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	require.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	require.Panics(t, func() { matrix.WithEpsilon(math.Inf(1)) })
	require.Panics(t, func() { matrix.WithEigenMaxIter(0) })
	require.NotPanics(t, func() { matrix.WithEpsilon(0) })
}
