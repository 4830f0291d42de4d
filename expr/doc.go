// Package expr is the expression layer consumed by the canonicalization
// pipeline: variables, parameters, constants, affine operations, quadratic
// forms and a few numeric atoms.
//
// 🚀 What it answers
//
//	The reduction never inspects expression trees directly. It asks
//	boolean questions (is it affine? quadratic? parameter-affine?) and
//	requests a canonical term list:
//
//	  out[row] += coef · θ[param] · x[var]          (Term)
//	  out      += coef · θ[param] · x[var1]·x[var2] (QuadTerm)
//
//	where θ is the flattened parameter vector extended with a constant
//	slot (Ref{} / One) and x is the flattened decision vector.
//
// Shapes follow column-major (Fortran) order throughout: entry (i, j) of an
// m×n value sits at row i + j*m of its canonical form.
//
// Construction validates shapes eagerly and returns ErrShapeMismatch (or
// ErrNotVector for atoms that need vectors) instead of deferring to
// evaluation time.
package expr
