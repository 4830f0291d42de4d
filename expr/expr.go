package expr

import (
	"fmt"

	"github.com/katalvlaran/qpcanon/matrix"
)

// Expr is a node of an expression tree. The set of implementations is closed:
// every node lives in this package so canonical extraction stays exhaustive.
type Expr interface {
	// Shape returns the value shape (scalar, vector or matrix).
	Shape() matrix.Shape
	// Curvature returns the certified DCP curvature.
	Curvature() Curvature
	// IsQuadratic reports whether the expression is at most quadratic in the
	// variables and can be canonicalized into Term/QuadTerm lists.
	IsQuadratic() bool
	// IsDPP reports whether parameters enter only affinely.
	IsDPP() bool
	// Variables returns the distinct variables in first-appearance order.
	Variables() []*Variable
	// Parameters returns the distinct parameters in first-appearance order.
	Parameters() []*Parameter
	// Value evaluates the expression from the stored leaf values.
	Value() (*matrix.Array, error)
	// String renders a human-readable form.
	String() string

	sign() sign
	canon() (*Canon, error)
}

// Size returns the number of scalar entries of e.
func Size(e Expr) int { return e.Shape().Size() }

// IsAffine reports whether e is affine in the variables.
func IsAffine(e Expr) bool { return e.Curvature().IsAffine() }

// IsConstant reports whether e involves no variables.
func IsConstant(e Expr) bool { return len(e.Variables()) == 0 }

// IsNonneg reports whether e is certified nonnegative.
func IsNonneg(e Expr) bool { s := e.sign(); return s == signNonneg || s == signZero }

// IsNonpos reports whether e is certified nonpositive.
func IsNonpos(e Expr) bool { s := e.sign(); return s == signNonpos || s == signZero }

// Must panics if err is non-nil and returns e otherwise. Intended for
// package-level fixtures and tests.
func Must(e Expr, err error) Expr {
	if err != nil {
		panic(err)
	}

	return e
}

// Canonicalize returns the canonical term lists of e.
// Errors: ErrNotQuadratic when e is neither affine nor quadratic;
// ErrNotDPP when parameters multiply each other.
func Canonicalize(e Expr) (*Canon, error) {
	if !e.IsQuadratic() {
		return nil, fmt.Errorf("Canonicalize(%s): %w", e, ErrNotQuadratic)
	}

	return e.canon()
}

// CanonicalizeAffine returns the canonical form of an affine expression.
// Errors: ErrNotAffine.
func CanonicalizeAffine(e Expr) (*Canon, error) {
	if !IsAffine(e) {
		return nil, fmt.Errorf("CanonicalizeAffine(%s): %w", e, ErrNotAffine)
	}

	return e.canon()
}

// hasParams reports whether e depends on any parameter.
func hasParams(e Expr) bool { return len(e.Parameters()) > 0 }

// collectVariables merges the variable lists of args, keeping first appearance order.
func collectVariables(args ...Expr) []*Variable {
	var (
		out  []*Variable
		seen = make(map[int]bool)
	)
	for _, a := range args {
		for _, v := range a.Variables() {
			if !seen[v.ID()] {
				seen[v.ID()] = true
				out = append(out, v)
			}
		}
	}

	return out
}

// collectParameters merges the parameter lists of args, keeping first appearance order.
func collectParameters(args ...Expr) []*Parameter {
	var (
		out  []*Parameter
		seen = make(map[int]bool)
	)
	for _, a := range args {
		for _, p := range a.Parameters() {
			if !seen[p.ID()] {
				seen[p.ID()] = true
				out = append(out, p)
			}
		}
	}

	return out
}

// evaluate computes the value of a canonicalizable expression from the
// stored values of its leaves.
func evaluate(e Expr) (*matrix.Array, error) {
	c, err := e.canon()
	if err != nil {
		return nil, err
	}
	vals := make(map[int][]float64)
	for _, v := range e.Variables() {
		a, err := v.Value()
		if err != nil {
			return nil, err
		}
		vals[v.ID()] = a.Flatten()
	}
	for _, p := range e.Parameters() {
		a, err := p.Value()
		if err != nil {
			return nil, err
		}
		vals[p.ID()] = a.Flatten()
	}
	at := func(r Ref) float64 {
		if r.IsOne() {
			return 1
		}
		return vals[r.ID][r.Elem]
	}

	out := make([]float64, c.Rows)
	for _, t := range c.Lin {
		out[t.Row] += t.Coef * at(t.Param) * at(t.Var)
	}
	for _, q := range c.Quad {
		out[0] += q.Coef * at(q.Param) * at(q.Var1) * at(q.Var2)
	}

	return matrix.NewArray(e.Shape(), out)
}
