package qp

import "errors"

var (
	// ErrNotImplemented marks the differentiation hooks of ParamQuadProg.
	ErrNotImplemented = errors.New("qp: not implemented")

	// ErrNotAccepted is returned by Apply for a problem Accepts rejects.
	ErrNotAccepted = errors.New("qp: problem is not a parameter-affine convex QP")

	// ErrUnsupportedConstraint is returned when lowering meets a constraint kind
	// outside {Zero, NonNeg, NonPos, Equality, Inequality}.
	ErrUnsupportedConstraint = errors.New("qp: unsupported constraint kind")

	// ErrInverseMismatch is returned by Invert when the solver vectors do not
	// match the layout recorded by Apply.
	ErrInverseMismatch = errors.New("qp: solution does not match inverse data")

	// ErrMissingParameter is returned when a resolver has no value for a parameter.
	ErrMissingParameter = errors.New("qp: parameter value unavailable")
)
