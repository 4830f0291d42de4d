package constraint

import "errors"

var (
	// ErrShapeMismatch is returned when constraint operands have incompatible shapes.
	ErrShapeMismatch = errors.New("constraint: shape mismatch")

	// ErrNonSquare is returned when a PSD constraint argument is not square.
	ErrNonSquare = errors.New("constraint: argument must be square")
)
