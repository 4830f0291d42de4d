// Package matrix provides the numeric primitives used by the canonicalization
// pipeline.
//
// The matrix package provides:
//
//   - Dense: row-major float64 matrix with a finite-value numeric policy.
//   - CSC and Triplets: compressed sparse column matrices for the solver-facing
//     P and A, with optional retention of explicit zeros.
//   - Array and Shape: scalar/vector/matrix values in column-major order, with
//     Flatten/Unflatten as exact two-sided inverses.
//   - Eigenvalues and IsPSD: Jacobi-based checks used to certify convexity of
//     quadratic forms.
//
// All exported routines return sentinel errors from errors.go; options follow
// the functional Option pattern in options.go.
package matrix
