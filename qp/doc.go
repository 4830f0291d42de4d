// SPDX-License-Identifier: MIT

// Package qp lowers a disciplined-convex, parameter-affine quadratic program
// into the numeric form consumed by QP solvers and maps solver results back.
//
// The numeric contract is
//
//	minimize   ½·xᵀ·P·x + qᵀ·x + d
//	subject to A_eq·x + b_eq  = 0      (Zero block, first)
//	           A_in·x + b_in >= 0      (NonNeg block, second)
//	           lower <= x <= upper     (when bounds are present)
//
// where [A_eq; A_in] = A and [b_eq; b_in] = b. P is stored doubled: for an
// objective whose quadratic part is xᵀ·M·x the stored P equals 2·M, so the
// leading ½ of the contract cancels.
//
// Usage:
//
//	s := qp.NewStuffing()
//	if !s.Accepts(prob) { ... route elsewhere ... }
//	pqp, inv, err := s.Apply(ctx, prob)
//	data, err := pqp.ApplyParameters(ctx, qp.StoredValues())
//	raw := solve(data)                  // external
//	sol, err := s.Invert(ctx, raw, inv)
//
// Apply compiles the coefficient maps once; ApplyParameters evaluates them for
// the current parameter values, reusing cached sparsity structure across calls.
// A ParamQuadProg is not safe for concurrent ApplyParameters calls.
package qp
