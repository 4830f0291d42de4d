package constraint

import (
	"fmt"

	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
)

// Constraint is a member of the closed constraint variant.
type Constraint interface {
	// ID returns the process-wide identifier.
	ID() int
	// Kind returns the variant tag.
	Kind() Kind
	// Args returns the operand expressions.
	Args() []expr.Expr
	// Size returns the total scalar dimension.
	Size() int
	// Shape returns the shape of the constrained expression.
	Shape() matrix.Shape
	// IsDCP reports whether the constraint is convex under the DCP rules.
	IsDCP() bool
	// IsDPP reports whether every operand is parameter-affine.
	IsDPP() bool
	String() string

	sealed()
}

// Option configures a constraint at construction.
type Option func(*options)

type options struct {
	id int
}

// WithID reuses an existing identifier instead of drawing a fresh one.
func WithID(id int) Option {
	return func(o *options) { o.id = id }
}

func gatherOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.id == 0 {
		o.id = expr.NextID()
	}

	return o
}

// base carries the identifier shared by every variant.
type base struct {
	id int
}

func (b base) ID() int { return b.id }
func (base) sealed() {}

func allDPP(args ...expr.Expr) bool {
	for _, a := range args {
		if !a.IsDPP() {
			return false
		}
	}

	return true
}

// Zero constrains every entry of its argument to equal zero.
type Zero struct {
	base
	arg expr.Expr
}

// NewZero returns arg == 0.
func NewZero(arg expr.Expr, opts ...Option) *Zero {
	return &Zero{base: base{gatherOptions(opts).id}, arg: arg}
}

// Expr returns the constrained argument.
func (c *Zero) Expr() expr.Expr { return c.arg }
func (c *Zero) Kind() Kind { return KindZero }
func (c *Zero) Args() []expr.Expr { return []expr.Expr{c.arg} }
func (c *Zero) Size() int { return expr.Size(c.arg) }
func (c *Zero) Shape() matrix.Shape { return c.arg.Shape() }
func (c *Zero) IsDCP() bool { return expr.IsAffine(c.arg) }
func (c *Zero) IsDPP() bool { return allDPP(c.arg) }
func (c *Zero) String() string { return fmt.Sprintf("%s == 0", c.arg) }

// NonNeg constrains every entry of its argument to be nonnegative.
type NonNeg struct {
	base
	arg expr.Expr
}

// NewNonNeg returns arg >= 0.
func NewNonNeg(arg expr.Expr, opts ...Option) *NonNeg {
	return &NonNeg{base: base{gatherOptions(opts).id}, arg: arg}
}

// Expr returns the constrained argument.
func (c *NonNeg) Expr() expr.Expr { return c.arg }
func (c *NonNeg) Kind() Kind { return KindNonNeg }
func (c *NonNeg) Args() []expr.Expr { return []expr.Expr{c.arg} }
func (c *NonNeg) Size() int { return expr.Size(c.arg) }
func (c *NonNeg) Shape() matrix.Shape { return c.arg.Shape() }
func (c *NonNeg) IsDCP() bool { return c.arg.Curvature().IsConcave() }
func (c *NonNeg) IsDPP() bool { return allDPP(c.arg) }
func (c *NonNeg) String() string { return fmt.Sprintf("%s >= 0", c.arg) }

// NonPos constrains every entry of its argument to be nonpositive.
type NonPos struct {
	base
	arg expr.Expr
}

// NewNonPos returns arg <= 0.
func NewNonPos(arg expr.Expr, opts ...Option) *NonPos {
	return &NonPos{base: base{gatherOptions(opts).id}, arg: arg}
}

// Expr returns the constrained argument.
func (c *NonPos) Expr() expr.Expr { return c.arg }
func (c *NonPos) Kind() Kind { return KindNonPos }
func (c *NonPos) Args() []expr.Expr { return []expr.Expr{c.arg} }
func (c *NonPos) Size() int { return expr.Size(c.arg) }
func (c *NonPos) Shape() matrix.Shape { return c.arg.Shape() }
func (c *NonPos) IsDCP() bool { return c.arg.Curvature().IsConvex() }
func (c *NonPos) IsDPP() bool { return allDPP(c.arg) }
func (c *NonPos) String() string { return fmt.Sprintf("%s <= 0", c.arg) }

// Equality is lhs == rhs. Its single argument is lhs - rhs.
type Equality struct {
	base
	lhs, rhs expr.Expr
	arg      expr.Expr
}

// NewEquality returns lhs == rhs. A size-one side broadcasts.
// Errors: ErrShapeMismatch.
func NewEquality(lhs, rhs expr.Expr, opts ...Option) (*Equality, error) {
	arg, err := expr.Sub(lhs, rhs)
	if err != nil {
		return nil, fmt.Errorf("NewEquality: %w: %v", ErrShapeMismatch, err)
	}

	return &Equality{base: base{gatherOptions(opts).id}, lhs: lhs, rhs: rhs, arg: arg}, nil
}

// Expr returns lhs - rhs.
func (c *Equality) Expr() expr.Expr { return c.arg }
func (c *Equality) Kind() Kind { return KindEquality }
func (c *Equality) Args() []expr.Expr { return []expr.Expr{c.lhs, c.rhs} }
func (c *Equality) Size() int { return expr.Size(c.arg) }
func (c *Equality) Shape() matrix.Shape { return c.arg.Shape() }
func (c *Equality) IsDCP() bool { return expr.IsAffine(c.arg) }
func (c *Equality) IsDPP() bool { return allDPP(c.lhs, c.rhs) }
func (c *Equality) String() string { return fmt.Sprintf("%s == %s", c.lhs, c.rhs) }

// Inequality is lhs <= rhs. Its single argument is lhs - rhs.
type Inequality struct {
	base
	lhs, rhs expr.Expr
	arg      expr.Expr
}

// NewInequality returns lhs <= rhs. A size-one side broadcasts.
// Errors: ErrShapeMismatch.
func NewInequality(lhs, rhs expr.Expr, opts ...Option) (*Inequality, error) {
	arg, err := expr.Sub(lhs, rhs)
	if err != nil {
		return nil, fmt.Errorf("NewInequality: %w: %v", ErrShapeMismatch, err)
	}

	return &Inequality{base: base{gatherOptions(opts).id}, lhs: lhs, rhs: rhs, arg: arg}, nil
}

// Expr returns lhs - rhs.
func (c *Inequality) Expr() expr.Expr { return c.arg }
func (c *Inequality) Kind() Kind { return KindInequality }
func (c *Inequality) Args() []expr.Expr { return []expr.Expr{c.lhs, c.rhs} }
func (c *Inequality) Size() int { return expr.Size(c.arg) }
func (c *Inequality) Shape() matrix.Shape { return c.arg.Shape() }
func (c *Inequality) IsDCP() bool { return c.arg.Curvature().IsConvex() }
func (c *Inequality) IsDPP() bool { return allDPP(c.lhs, c.rhs) }
func (c *Inequality) String() string { return fmt.Sprintf("%s <= %s", c.lhs, c.rhs) }

// ExpCone constrains each triple (x_i, y_i, z_i) to the exponential cone
// {(x, y, z) : y·exp(x/y) <= z, y > 0}.
type ExpCone struct {
	base
	x, y, z expr.Expr
}

// NewExpCone returns the elementwise exponential cone over equally shaped x, y, z.
// Errors: ErrShapeMismatch.
func NewExpCone(x, y, z expr.Expr, opts ...Option) (*ExpCone, error) {
	if !x.Shape().Equal(y.Shape()) || !x.Shape().Equal(z.Shape()) {
		return nil, fmt.Errorf("NewExpCone: shapes %s, %s, %s: %w", x.Shape(), y.Shape(), z.Shape(), ErrShapeMismatch)
	}

	return &ExpCone{base: base{gatherOptions(opts).id}, x: x, y: y, z: z}, nil
}

// NumCones returns the number of 3-dimensional cones.
func (c *ExpCone) NumCones() int { return expr.Size(c.x) }

// ConeSizes returns 3 for every cone.
func (c *ExpCone) ConeSizes() []int {
	out := make([]int, c.NumCones())
	for i := range out {
		out[i] = 3
	}

	return out
}

func (c *ExpCone) Kind() Kind { return KindExpCone }
func (c *ExpCone) Args() []expr.Expr { return []expr.Expr{c.x, c.y, c.z} }
func (c *ExpCone) Size() int { return 3 * c.NumCones() }
func (c *ExpCone) Shape() matrix.Shape { return matrix.Shape{3, c.NumCones()} }
func (c *ExpCone) IsDCP() bool {
	return expr.IsAffine(c.x) && expr.IsAffine(c.y) && expr.IsAffine(c.z)
}
func (c *ExpCone) IsDPP() bool { return allDPP(c.x, c.y, c.z) }
func (c *ExpCone) String() string { return fmt.Sprintf("ExpCone(%s, %s, %s)", c.x, c.y, c.z) }

// SOC is a second-order cone constraint ||X[:, i]||_2 <= t_i, one cone per
// entry of t. A scalar t pairs with a vector x.
type SOC struct {
	base
	t, x  expr.Expr
	sizes []int
}

// NewSOC returns the second-order cone constraint over (t, x).
// Errors: ErrShapeMismatch when x does not supply one column per entry of t.
func NewSOC(t, x expr.Expr, opts ...Option) (*SOC, error) {
	k := expr.Size(t)
	var m int
	switch {
	case k == 1 && x.Shape().IsVector():
		m = expr.Size(x)
	case len(x.Shape()) == 2 && x.Shape()[1] == k:
		m = x.Shape()[0]
	default:
		return nil, fmt.Errorf("NewSOC: t %s, x %s: %w", t.Shape(), x.Shape(), ErrShapeMismatch)
	}
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = m + 1
	}

	return &SOC{base: base{gatherOptions(opts).id}, t: t, x: x, sizes: sizes}, nil
}

// NumCones returns the number of cones.
func (c *SOC) NumCones() int { return len(c.sizes) }

// ConeSizes returns each cone dimension (1 + column length).
func (c *SOC) ConeSizes() []int { return append([]int(nil), c.sizes...) }

func (c *SOC) Kind() Kind { return KindSOC }
func (c *SOC) Args() []expr.Expr { return []expr.Expr{c.t, c.x} }
func (c *SOC) Size() int {
	n := 0
	for _, s := range c.sizes {
		n += s
	}

	return n
}
func (c *SOC) Shape() matrix.Shape { return matrix.Shape{c.Size()} }
func (c *SOC) IsDCP() bool { return expr.IsAffine(c.t) && expr.IsAffine(c.x) }
func (c *SOC) IsDPP() bool { return allDPP(c.t, c.x) }
func (c *SOC) String() string { return fmt.Sprintf("SOC(%s, %s)", c.t, c.x) }

// PSD constrains a square argument to be positive semidefinite.
type PSD struct {
	base
	arg expr.Expr
}

// NewPSD returns arg ⪰ 0.
// Errors: ErrNonSquare.
func NewPSD(arg expr.Expr, opts ...Option) (*PSD, error) {
	s := arg.Shape()
	if len(s) != 2 || s[0] != s[1] {
		return nil, fmt.Errorf("NewPSD: shape %s: %w", s, ErrNonSquare)
	}

	return &PSD{base: base{gatherOptions(opts).id}, arg: arg}, nil
}

// Dim returns the matrix dimension n of the (n, n) argument.
func (c *PSD) Dim() int { return c.arg.Shape()[0] }

func (c *PSD) Kind() Kind { return KindPSD }
func (c *PSD) Args() []expr.Expr { return []expr.Expr{c.arg} }
func (c *PSD) Size() int { return expr.Size(c.arg) }
func (c *PSD) Shape() matrix.Shape { return c.arg.Shape() }
func (c *PSD) IsDCP() bool { return expr.IsAffine(c.arg) }
func (c *PSD) IsDPP() bool { return allDPP(c.arg) }
func (c *PSD) String() string { return fmt.Sprintf("%s >> 0", c.arg) }
