// Package cone summarizes the cone dimensions of a grouped constraint set.
package cone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/qpcanon/constraint"
)

// ErrUnknownDimKey is returned by Dims.Get for a key outside the fixed enumeration.
var ErrUnknownDimKey = errors.New("cone: unknown dimension key")

// DimKey names one field of Dims.
type DimKey string

const (
	// EqDim is the zero-cone dimension.
	EqDim DimKey = "f"
	// LeqDim is the nonnegative-orthant dimension.
	LeqDim DimKey = "l"
	// ExpDim is the number of exponential cones.
	ExpDim DimKey = "ep"
	// SOCDim lists the second-order cone sizes.
	SOCDim DimKey = "q"
	// PSDDim lists the PSD matrix dimensions.
	PSDDim DimKey = "s"
)

// Dims is the immutable cone-dimension summary of a constraint set.
type Dims struct {
	Zero   int
	NonNeg int
	Exp    int
	SOC    []int
	PSD    []int
}

// NewDims sums the per-constraint contributions of each cone kind:
// Zero and NonNeg by size, Exp by cone count, SOC by ordered concatenation of
// cone sizes and PSD by ordered matrix dimension. Kinds absent from groups
// contribute 0 or an empty list; kinds outside the five cones are ignored.
//
// Complexity: O(number of constraints + number of SOC cones).
func NewDims(groups map[constraint.Kind][]constraint.Constraint) Dims {
	d := Dims{SOC: []int{}, PSD: []int{}}
	for _, c := range groups[constraint.KindZero] {
		d.Zero += c.Size()
	}
	for _, c := range groups[constraint.KindNonNeg] {
		d.NonNeg += c.Size()
	}
	for _, c := range groups[constraint.KindExpCone] {
		if ec, ok := c.(*constraint.ExpCone); ok {
			d.Exp += ec.NumCones()
		}
	}
	for _, c := range groups[constraint.KindSOC] {
		if soc, ok := c.(*constraint.SOC); ok {
			d.SOC = append(d.SOC, soc.ConeSizes()...)
		}
	}
	for _, c := range groups[constraint.KindPSD] {
		if psd, ok := c.(*constraint.PSD); ok {
			d.PSD = append(d.PSD, psd.Dim())
		}
	}

	return d
}

// Get returns the field addressed by key: an int for EqDim, LeqDim and
// ExpDim, a []int copy for SOCDim and PSDDim.
// Errors: ErrUnknownDimKey.
func (d Dims) Get(key DimKey) (any, error) {
	switch key {
	case EqDim:
		return d.Zero, nil
	case LeqDim:
		return d.NonNeg, nil
	case ExpDim:
		return d.Exp, nil
	case SOCDim:
		return append([]int{}, d.SOC...), nil
	case PSDDim:
		return append([]int{}, d.PSD...), nil
	}

	return nil, fmt.Errorf("Dims.Get(%q): %w", string(key), ErrUnknownDimKey)
}

// String renders e.g. "zero:1, nonneg:2, exp:0, soc:[], psd:[]".
func (d Dims) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "zero:%d, nonneg:%d, exp:%d, soc:%v, psd:%v", d.Zero, d.NonNeg, d.Exp, d.SOC, d.PSD)

	return b.String()
}
