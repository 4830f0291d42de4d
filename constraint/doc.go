// Package constraint defines the closed set of constraint kinds a problem may
// carry and the lowering functions that rewrite the user-facing forms into
// the canonical Zero and NonNeg cones.
//
// Kinds:
//
//	Zero        arg == 0                (canonical)
//	NonNeg      arg >= 0                (canonical)
//	NonPos      arg <= 0
//	Equality    lhs == rhs              lowers to Zero(lhs - rhs)
//	Inequality  lhs <= rhs              lowers to NonNeg(rhs - lhs)
//	ExpCone     (x, y, z) in K_exp      cone bookkeeping only
//	SOC         ||x||_2 <= t            cone bookkeeping only
//	PSD         arg is PSD              cone bookkeeping only
//
// Every constraint carries a process-wide identifier drawn from expr.NextID.
// Lowering preserves the identifier so dual values map back to the
// constraint the caller created.
package constraint
