// Package qpcanon turns parametrized quadratic programs into the matrix form
// QP solvers consume, and maps solver results back onto the original problem.
//
// A problem is built from expressions over variables and parameters:
//
//	expr/         variables, parameters, constants and the affine/quadratic atoms
//	constraint/   Zero, NonNeg, NonPos, Equality, Inequality and the cone kinds
//	problem/      objective sense, objective and constraint list
//	qp/           the matrix-stuffing reduction: Apply, ApplyParameters, Invert
//	coeff/        coefficient extraction and cached sparse evaluation
//	cone/         cone dimension bookkeeping for the lowered constraints
//	solution/     solver status and result containers
//	matrix/       dense, sparse (CSC) and n-d array values
//	problemfile/  YAML problem descriptions
//
// Stuffing a problem yields a ParamQuadProg; each call to ApplyParameters
// evaluates it for one parameter assignment:
//
//	minimize ½·xᵀ·P·x + qᵀ·x + d  subject to  A·x + b ∈ K
//
// where K is a product of a zero cone and a nonnegative orthant.
//
//	go install github.com/katalvlaran/qpcanon/cmd/qpcanon@latest
package qpcanon
