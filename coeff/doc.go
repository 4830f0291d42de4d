// SPDX-License-Identifier: MIT

// Package coeff turns canonical expression terms into parametrized
// coefficient tensors and evaluates them for concrete parameter values.
//
// A ParamTensor T of shape (Rows, Cols, Params) represents the matrix
//
//	M(θ)[r, c] = Σ_k T[r, c, k] · θ[k]
//
// where θ is the parameter vector assembled by ParameterVector. The last
// parameter slot θ[Params-1] is the constant slot: it holds 1 (or 0 with a
// zero offset) so that parameter-free coefficients live in the same tensor.
//
// Column layout follows the flattened decision variable x of length N:
// variable v occupies columns [offset(v), offset(v)+size(v)) in column-major
// element order, and affine maps carry one extra column N for the constant b.
//
// ReducedMat caches the sparsity structure of a tensor so repeated
// evaluation with new parameter values only recomputes numeric values.
// A ReducedMat is not safe for concurrent use.
package coeff
