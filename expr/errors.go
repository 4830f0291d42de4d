package expr

import "errors"

var (
	// ErrShapeMismatch is returned when operand shapes are incompatible.
	ErrShapeMismatch = errors.New("expr: shape mismatch")

	// ErrNotVector is returned by atoms that require a vector argument.
	ErrNotVector = errors.New("expr: argument must be a vector")

	// ErrNotAffine is returned when an affine canonical form is requested from
	// a non-affine expression.
	ErrNotAffine = errors.New("expr: expression is not affine")

	// ErrNotQuadratic is returned when a quadratic canonical form is requested
	// from an expression that is not quadratic.
	ErrNotQuadratic = errors.New("expr: expression is not quadratic")

	// ErrNotDPP is returned when two parameter-dependent factors are multiplied.
	ErrNotDPP = errors.New("expr: expression is not parameter-affine")

	// ErrValueUnset is returned when a variable or parameter has no value.
	ErrValueUnset = errors.New("expr: value is not set")

	// ErrInvalidAttr is returned for attribute combinations a leaf cannot carry.
	ErrInvalidAttr = errors.New("expr: invalid attribute")

	// ErrNotSymmetric is returned by QuadForm for a non-symmetric coefficient matrix.
	ErrNotSymmetric = errors.New("expr: quadratic form matrix is not symmetric")

	// ErrNotImplemented marks capabilities that are deliberately absent.
	ErrNotImplemented = errors.New("expr: not implemented")
)
