package expr

import (
	"fmt"
	"math"

	"github.com/katalvlaran/qpcanon/matrix"
)

// AtomEvalTol is the magnitude below which an entry counts as zero when
// atoms evaluate numerically.
const AtomEvalTol = 1e-4

// Atom is a named nonlinear function of its arguments with a numeric rule.
type Atom interface {
	Expr
	// Args returns the atom arguments.
	Args() []Expr
	// Numeric evaluates the atom on concrete argument values.
	Numeric(args []*matrix.Array) (*matrix.Array, error)
}

// atomValue evaluates every argument and applies the numeric rule.
func atomValue(a Atom) (*matrix.Array, error) {
	args := a.Args()
	vals := make([]*matrix.Array, len(args))
	for i, arg := range args {
		v, err := arg.Value()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return a.Numeric(vals)
}

// atomCanon folds an atom over constant arguments into a constant; any
// other atom has no canonical affine or quadratic form.
func atomCanon(a Atom) (*Canon, error) {
	if a.Curvature() != Constant {
		return nil, fmt.Errorf("%s: %w", a, ErrNotQuadratic)
	}
	v, err := atomValue(a)
	if err != nil {
		return nil, err
	}

	return NewConstant(v).canon()
}

// LengthAtom is the index of the last entry of a vector whose magnitude
// exceeds AtomEvalTol, counted from one. Zero vectors have length 0.
//
// It is quasiconvex and nonnegative; it carries no DCP certificate and has
// no gradient.
type LengthAtom struct {
	arg Expr
}

// Length returns the length atom of a vector expression.
// Errors: ErrNotVector.
func Length(x Expr) (*LengthAtom, error) {
	if !x.Shape().IsVector() {
		return nil, fmt.Errorf("Length: argument shape %s: %w", x.Shape(), ErrNotVector)
	}

	return &LengthAtom{arg: x}, nil
}

// Numeric returns the one-based index of the last entry with |x_i| > AtomEvalTol.
func (a *LengthAtom) Numeric(args []*matrix.Array) (*matrix.Array, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Length.Numeric: %d arguments: %w", len(args), ErrShapeMismatch)
	}
	flat := args[0].Flatten()
	for i := len(flat) - 1; i >= 0; i-- {
		if math.Abs(flat[i]) > AtomEvalTol {
			return matrix.Scalar(float64(i + 1)), nil
		}
	}

	return matrix.Scalar(0), nil
}

// Grad returns nil: the length is piecewise constant and has no useful gradient.
func (a *LengthAtom) Grad() []*matrix.Array { return nil }

// IsQuasiconvex reports true.
func (a *LengthAtom) IsQuasiconvex() bool { return true }

// IsQuasiconcave reports false.
func (a *LengthAtom) IsQuasiconcave() bool { return false }

func (a *LengthAtom) Args() []Expr { return []Expr{a.arg} }
func (a *LengthAtom) Shape() matrix.Shape { return matrix.Shape{} }
func (a *LengthAtom) Curvature() Curvature {
	if IsConstant(a.arg) && !hasParams(a.arg) {
		return Constant
	}

	return Unknown
}
func (a *LengthAtom) IsQuadratic() bool { return a.Curvature() == Constant }
func (a *LengthAtom) IsDPP() bool { return a.arg.IsDPP() }
func (a *LengthAtom) Variables() []*Variable { return a.arg.Variables() }
func (a *LengthAtom) Parameters() []*Parameter { return a.arg.Parameters() }
func (a *LengthAtom) Value() (*matrix.Array, error) { return atomValue(a) }
func (a *LengthAtom) String() string { return fmt.Sprintf("length(%s)", a.arg) }
func (a *LengthAtom) sign() sign { return signNonneg }

func (a *LengthAtom) canon() (*Canon, error) { return atomCanon(a) }

// NormInfAtom is the largest absolute entry of its argument.
type NormInfAtom struct {
	arg Expr
}

// NormInf returns the infinity norm of x.
func NormInf(x Expr) *NormInfAtom { return &NormInfAtom{arg: x} }

// Numeric returns max_i |x_i|.
func (a *NormInfAtom) Numeric(args []*matrix.Array) (*matrix.Array, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("NormInf.Numeric: %d arguments: %w", len(args), ErrShapeMismatch)
	}
	m := 0.0
	for _, v := range args[0].Flatten() {
		m = math.Max(m, math.Abs(v))
	}

	return matrix.Scalar(m), nil
}

// ColumnGrad is not available for the infinity norm.
// Errors: ErrNotImplemented.
func (a *NormInfAtom) ColumnGrad(value *matrix.Array) (*matrix.Array, error) {
	return nil, fmt.Errorf("NormInf.ColumnGrad: %w", ErrNotImplemented)
}

// Curvature is Convex for an affine argument, Unknown otherwise.
func (a *NormInfAtom) Curvature() Curvature {
	switch {
	case IsConstant(a.arg) && !hasParams(a.arg):
		return Constant
	case IsAffine(a.arg):
		return Convex
	}

	return Unknown
}

func (a *NormInfAtom) Args() []Expr { return []Expr{a.arg} }
func (a *NormInfAtom) Shape() matrix.Shape { return matrix.Shape{} }
func (a *NormInfAtom) IsQuadratic() bool { return a.Curvature() == Constant }
func (a *NormInfAtom) IsDPP() bool { return a.arg.IsDPP() }
func (a *NormInfAtom) Variables() []*Variable { return a.arg.Variables() }
func (a *NormInfAtom) Parameters() []*Parameter { return a.arg.Parameters() }
func (a *NormInfAtom) Value() (*matrix.Array, error) { return atomValue(a) }
func (a *NormInfAtom) String() string { return fmt.Sprintf("norm_inf(%s)", a.arg) }
func (a *NormInfAtom) sign() sign { return signNonneg }

func (a *NormInfAtom) canon() (*Canon, error) { return atomCanon(a) }
