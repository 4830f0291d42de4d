package coeff

import "errors"

var (
	// ErrUnknownVariable is returned when a term references a variable without a column offset.
	ErrUnknownVariable = errors.New("coeff: unknown variable")

	// ErrUnknownParameter is returned when a term references a parameter without a column offset.
	ErrUnknownParameter = errors.New("coeff: unknown parameter")

	// ErrParamSize is returned when a resolved parameter value has the wrong length.
	ErrParamSize = errors.New("coeff: parameter value has wrong size")

	// ErrNotScalar is returned by QuadForm for a non-scalar expression.
	ErrNotScalar = errors.New("coeff: objective is not scalar")

	// ErrThetaLength is returned when a parameter vector does not match the tensor.
	ErrThetaLength = errors.New("coeff: parameter vector length mismatch")
)
