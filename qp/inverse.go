package qp

import (
	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/matrix"
)

// InverseData is the layout snapshot Apply records for the matching Invert.
type InverseData struct {
	// VarIDs lists variable identifiers in column order.
	VarIDs     []int
	VarOffsets map[int]int
	VarShapes  map[int]matrix.Shape
	// XSize is the length of the flattened variable.
	XSize int
	// XID identifies the flattened variable in solver results.
	XID      int
	Minimize bool
	// MixedInteger disables dual recovery.
	MixedInteger bool
	// Constraints are the lowered constraints in row order of A.
	Constraints []constraint.Constraint
	// ConsIDMap maps every original constraint identifier to the lowered one.
	// Lowering keeps identifiers, so the map is the identity.
	ConsIDMap map[int]int
}

// DualSize returns the total row count of A.
func (d *InverseData) DualSize() int { return constraint.TotalSize(d.Constraints) }
