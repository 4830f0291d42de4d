package constraint

import "github.com/katalvlaran/qpcanon/expr"

// LowerEquality rewrites lhs == rhs as Zero(lhs - rhs), keeping the identifier.
func LowerEquality(c *Equality) *Zero {
	return NewZero(c.arg, WithID(c.id))
}

// LowerInequality rewrites lhs <= rhs as NonNeg(rhs - lhs), keeping the identifier.
func LowerInequality(c *Inequality) *NonNeg {
	return NewNonNeg(expr.Neg(c.arg), WithID(c.id))
}

// LowerNonPos rewrites arg <= 0 as NonNeg(-arg), keeping the identifier.
func LowerNonPos(c *NonPos) *NonNeg {
	return NewNonNeg(expr.Neg(c.arg), WithID(c.id))
}
