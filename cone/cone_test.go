package cone_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qpcanon/cone"
	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
)

func v(t *testing.T, shape ...int) *expr.Variable {
	t.Helper()
	x, err := expr.NewVariable(matrix.Shape(shape))
	require.NoError(t, err)

	return x
}

func TestNewDims_Additivity(t *testing.T) {
	z1 := constraint.NewZero(v(t, 2))
	z2 := constraint.NewZero(v(t, 3, 2))
	n1 := constraint.NewNonNeg(v(t, 4))
	soc1, err := constraint.NewSOC(v(t), v(t, 3))
	require.NoError(t, err)
	soc2, err := constraint.NewSOC(v(t, 2), v(t, 5, 2))
	require.NoError(t, err)
	x := v(t, 2)
	ec, err := constraint.NewExpCone(x, x, x)
	require.NoError(t, err)
	psd, err := constraint.NewPSD(v(t, 3, 3))
	require.NoError(t, err)

	groups := constraint.Group([]constraint.Constraint{z1, n1, soc1, z2, ec, soc2, psd})
	d := cone.NewDims(groups)

	want := cone.Dims{Zero: 8, NonNeg: 4, Exp: 2, SOC: []int{4, 6, 6}, PSD: []int{3}}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("NewDims mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDims_Empty(t *testing.T) {
	d := cone.NewDims(nil)
	assert.Zero(t, d.Zero)
	assert.Zero(t, d.NonNeg)
	assert.Zero(t, d.Exp)
	assert.Empty(t, d.SOC)
	assert.NotNil(t, d.SOC)
	assert.Equal(t, "zero:0, nonneg:0, exp:0, soc:[], psd:[]", d.String())
}

func TestDims_Get(t *testing.T) {
	d := cone.Dims{Zero: 1, NonNeg: 2, Exp: 3, SOC: []int{4}, PSD: []int{5}}
	for key, want := range map[cone.DimKey]any{
		cone.EqDim:  1,
		cone.LeqDim: 2,
		cone.ExpDim: 3,
		cone.SOCDim: []int{4},
		cone.PSDDim: []int{5},
	} {
		got, err := d.Get(key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}

	_, err := d.Get("z")
	require.ErrorIs(t, err, cone.ErrUnknownDimKey)
}
