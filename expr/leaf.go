package expr

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/qpcanon/matrix"
)

// Attr is a bit set of leaf attributes.
type Attr uint16

const (
	// AttrBoolean restricts every entry to {0, 1}.
	AttrBoolean Attr = 1 << iota
	// AttrInteger restricts every entry to the integers.
	AttrInteger
	// AttrNonneg restricts every entry to be ≥ 0.
	AttrNonneg
	// AttrNonpos restricts every entry to be ≤ 0.
	AttrNonpos
	// AttrSymmetric requires a square symmetric matrix.
	AttrSymmetric
	// AttrPSD requires a positive semidefinite matrix.
	AttrPSD
	// AttrNSD requires a negative semidefinite matrix.
	AttrNSD
)

// integrality covers the attributes a convex relaxation drops.
const integrality = AttrBoolean | AttrInteger

var attrNames = []struct {
	a    Attr
	name string
}{
	{AttrBoolean, "boolean"},
	{AttrInteger, "integer"},
	{AttrNonneg, "nonneg"},
	{AttrNonpos, "nonpos"},
	{AttrSymmetric, "symmetric"},
	{AttrPSD, "PSD"},
	{AttrNSD, "NSD"},
}

// Has reports whether all bits of b are set in a.
func (a Attr) Has(b Attr) bool { return a&b == b }

// String lists the set attributes, e.g. "nonneg|symmetric".
func (a Attr) String() string {
	var parts []string
	for _, n := range attrNames {
		if a.Has(n.a) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, "|")
}

// LeafOption configures a Variable or Parameter at construction.
type LeafOption func(*leafOptions)

type leafOptions struct {
	name    string
	attrs   Attr
	boolIdx []int
	intIdx  []int
	lower   []float64
	upper   []float64
	value   *matrix.Array
}

// WithName sets the display name of the leaf.
func WithName(name string) LeafOption {
	return func(o *leafOptions) { o.name = name }
}

// WithAttr adds the given attributes.
func WithAttr(a Attr) LeafOption {
	return func(o *leafOptions) { o.attrs |= a }
}

// WithBooleanIdx marks the given flat (column-major) entries boolean.
func WithBooleanIdx(idx ...int) LeafOption {
	return func(o *leafOptions) { o.boolIdx = append(o.boolIdx, idx...) }
}

// WithIntegerIdx marks the given flat (column-major) entries integer.
func WithIntegerIdx(idx ...int) LeafOption {
	return func(o *leafOptions) { o.intIdx = append(o.intIdx, idx...) }
}

// WithBounds sets elementwise bounds in column-major order. A nil side is
// unbounded; individual entries may be ±Inf.
func WithBounds(lower, upper []float64) LeafOption {
	return func(o *leafOptions) {
		o.lower = append([]float64(nil), lower...)
		o.upper = append([]float64(nil), upper...)
		if lower == nil {
			o.lower = nil
		}
		if upper == nil {
			o.upper = nil
		}
	}
}

// WithValue sets the initial value.
func WithValue(a *matrix.Array) LeafOption {
	return func(o *leafOptions) { o.value = a }
}

func gatherLeafOptions(opts []LeafOption) leafOptions {
	var o leafOptions
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// leaf carries the state shared by variables and parameters.
type leaf struct {
	id    int
	name  string
	shape matrix.Shape
	attrs Attr
	value *matrix.Array
}

func newLeaf(kind string, shape matrix.Shape, o leafOptions) (leaf, error) {
	if err := shape.Validate(); err != nil {
		return leaf{}, err
	}
	if o.attrs.Has(AttrNonneg | AttrNonpos) {
		return leaf{}, fmt.Errorf("%w: nonneg and nonpos are exclusive", ErrInvalidAttr)
	}
	if o.attrs&(AttrSymmetric|AttrPSD|AttrNSD) != 0 {
		r, c := shape.Dims()
		if len(shape) != 2 || r != c {
			return leaf{}, fmt.Errorf("%w: %s requires a square matrix, got %s", ErrInvalidAttr, o.attrs, shape)
		}
	}
	l := leaf{id: NextID(), name: o.name, shape: shape.Clone(), attrs: o.attrs}
	if l.name == "" {
		l.name = fmt.Sprintf("%s%d", kind, l.id)
	}

	return l, nil
}

// ID returns the unique identifier of the leaf.
func (l *leaf) ID() int { return l.id }

// Name returns the display name.
func (l *leaf) Name() string { return l.name }

// Shape returns the leaf shape.
func (l *leaf) Shape() matrix.Shape { return l.shape.Clone() }

// Attributes returns every attribute set on the leaf.
func (l *leaf) Attributes() Attr { return l.attrs }

// String returns the display name.
func (l *leaf) String() string { return l.name }

// Value returns the stored value. Errors: ErrValueUnset.
func (l *leaf) Value() (*matrix.Array, error) {
	if l.value == nil {
		return nil, fmt.Errorf("%s: %w", l.name, ErrValueUnset)
	}

	return l.value, nil
}

// HasValue reports whether a value is stored.
func (l *leaf) HasValue() bool { return l.value != nil }

// SetValue stores a after checking its shape and sign attributes.
func (l *leaf) SetValue(a *matrix.Array) error {
	if a == nil {
		l.value = nil
		return nil
	}
	if !a.Shape().Equal(l.shape) {
		return fmt.Errorf("%s: value shape %s, want %s: %w", l.name, a.Shape(), l.shape, ErrShapeMismatch)
	}
	for _, v := range a.Flatten() {
		if l.attrs.Has(AttrNonneg) && v < 0 || l.attrs.Has(AttrNonpos) && v > 0 {
			return fmt.Errorf("%s: value %g violates %s: %w", l.name, v, l.attrs, ErrInvalidAttr)
		}
	}
	l.value = a

	return nil
}

func (l *leaf) sign() sign {
	switch {
	case l.attrs.Has(AttrNonneg), l.attrs.Has(AttrPSD) && l.shape.IsScalar():
		return signNonneg
	case l.attrs.Has(AttrNonpos), l.attrs.Has(AttrNSD) && l.shape.IsScalar():
		return signNonpos
	}

	return signUnknown
}

// Variable is an optimization variable.
type Variable struct {
	leaf
	boolIdx []int
	intIdx  []int
	lower   []float64
	upper   []float64
}

// NewVariable creates a variable of the given shape.
// Errors: matrix.ErrBadShape, ErrInvalidAttr (conflicting attributes,
// integrality index out of range, bounds of the wrong length or crossing).
func NewVariable(shape matrix.Shape, opts ...LeafOption) (*Variable, error) {
	o := gatherLeafOptions(opts)
	l, err := newLeaf("x", shape, o)
	if err != nil {
		return nil, fmt.Errorf("NewVariable: %w", err)
	}
	v := &Variable{leaf: l}
	n := shape.Size()

	if v.boolIdx, err = integralIdx(o.attrs.Has(AttrBoolean), o.boolIdx, n); err != nil {
		return nil, fmt.Errorf("NewVariable: boolean: %w", err)
	}
	if v.intIdx, err = integralIdx(o.attrs.Has(AttrInteger), o.intIdx, n); err != nil {
		return nil, fmt.Errorf("NewVariable: integer: %w", err)
	}
	if len(v.boolIdx) > 0 {
		v.attrs |= AttrBoolean
	}
	if len(v.intIdx) > 0 {
		v.attrs |= AttrInteger
	}

	for _, b := range [][]float64{o.lower, o.upper} {
		if b != nil && len(b) != n {
			return nil, fmt.Errorf("NewVariable: bounds length %d, want %d: %w", len(b), n, ErrInvalidAttr)
		}
	}
	for i := 0; o.lower != nil && o.upper != nil && i < n; i++ {
		if o.lower[i] > o.upper[i] {
			return nil, fmt.Errorf("NewVariable: bound %d: lower %g > upper %g: %w", i, o.lower[i], o.upper[i], ErrInvalidAttr)
		}
	}
	v.lower, v.upper = o.lower, o.upper

	if o.value != nil {
		if err = v.SetValue(o.value); err != nil {
			return nil, fmt.Errorf("NewVariable: %w", err)
		}
	}

	return v, nil
}

// integralIdx resolves the flat indices covered by an integrality attribute.
func integralIdx(all bool, idx []int, n int) ([]int, error) {
	if all {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	seen := make(map[int]bool, len(idx))
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("index %d of %d: %w", i, n, ErrInvalidAttr)
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}

	return out, nil
}

// BooleanIdx returns the flat indices restricted to {0, 1}.
func (v *Variable) BooleanIdx() []int { return append([]int(nil), v.boolIdx...) }

// IntegerIdx returns the flat indices restricted to the integers.
func (v *Variable) IntegerIdx() []int { return append([]int(nil), v.intIdx...) }

// IsMixedInteger reports whether any entry carries an integrality restriction.
func (v *Variable) IsMixedInteger() bool { return len(v.boolIdx) > 0 || len(v.intIdx) > 0 }

// ConvexAttributes returns the attributes that survive a convex relaxation.
func (v *Variable) ConvexAttributes() Attr { return v.attrs &^ integrality }

// Lower returns the lower bounds, or nil when unbounded below.
func (v *Variable) Lower() []float64 { return append([]float64(nil), v.lower...) }

// Upper returns the upper bounds, or nil when unbounded above.
func (v *Variable) Upper() []float64 { return append([]float64(nil), v.upper...) }

// HasBounds reports whether any finite bound is set.
func (v *Variable) HasBounds() bool {
	for _, b := range [][]float64{v.lower, v.upper} {
		for _, x := range b {
			if !math.IsInf(x, 0) {
				return true
			}
		}
	}

	return false
}

func (v *Variable) Curvature() Curvature { return Affine }
func (v *Variable) IsQuadratic() bool { return true }
func (v *Variable) IsDPP() bool { return true }
func (v *Variable) Variables() []*Variable { return []*Variable{v} }
func (v *Variable) Parameters() []*Parameter { return nil }

func (v *Variable) canon() (*Canon, error) {
	n := v.shape.Size()
	c := &Canon{Rows: n, Lin: make([]Term, n)}
	for i := 0; i < n; i++ {
		c.Lin[i] = Term{Row: i, Var: Ref{ID: v.id, Elem: i}, Param: One, Coef: 1}
	}

	return c, nil
}

// Parameter is a named constant whose value may change between solves.
type Parameter struct {
	leaf
}

// NewParameter creates a parameter of the given shape.
// Errors: matrix.ErrBadShape, ErrInvalidAttr (integrality or bounds given,
// conflicting attributes, value violating the sign attributes).
func NewParameter(shape matrix.Shape, opts ...LeafOption) (*Parameter, error) {
	o := gatherLeafOptions(opts)
	if o.attrs&integrality != 0 || len(o.boolIdx)+len(o.intIdx) > 0 || o.lower != nil || o.upper != nil {
		return nil, fmt.Errorf("NewParameter: integrality and bounds apply to variables only: %w", ErrInvalidAttr)
	}
	l, err := newLeaf("param", shape, o)
	if err != nil {
		return nil, fmt.Errorf("NewParameter: %w", err)
	}
	p := &Parameter{leaf: l}
	if o.value != nil {
		if err = p.SetValue(o.value); err != nil {
			return nil, fmt.Errorf("NewParameter: %w", err)
		}
	}

	return p, nil
}

func (p *Parameter) Curvature() Curvature { return Constant }
func (p *Parameter) IsQuadratic() bool { return true }
func (p *Parameter) IsDPP() bool { return true }
func (p *Parameter) Variables() []*Variable { return nil }
func (p *Parameter) Parameters() []*Parameter { return []*Parameter{p} }

func (p *Parameter) canon() (*Canon, error) {
	n := p.shape.Size()
	c := &Canon{Rows: n, Lin: make([]Term, n)}
	for i := 0; i < n; i++ {
		c.Lin[i] = Term{Row: i, Var: One, Param: Ref{ID: p.id, Elem: i}, Coef: 1}
	}

	return c, nil
}

// ConstantExpr is a fixed numeric array.
type ConstantExpr struct {
	value *matrix.Array
}

// NewConstant wraps a as a constant expression.
func NewConstant(a *matrix.Array) *ConstantExpr { return &ConstantExpr{value: a} }

// Const returns a scalar constant.
func Const(v float64) *ConstantExpr { return NewConstant(matrix.Scalar(v)) }

// ConstVector returns a vector constant.
func ConstVector(vs ...float64) *ConstantExpr { return NewConstant(matrix.Vector(vs...)) }

// ConstMatrix returns a matrix constant from row-major rows.
// Errors: matrix.ErrBadShape for ragged rows.
func ConstMatrix(rows [][]float64) (*ConstantExpr, error) {
	a, err := matrix.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("ConstMatrix: %w", err)
	}

	return NewConstant(a), nil
}

func (c *ConstantExpr) Shape() matrix.Shape { return c.value.Shape() }
func (c *ConstantExpr) Curvature() Curvature { return Constant }
func (c *ConstantExpr) IsQuadratic() bool { return true }
func (c *ConstantExpr) IsDPP() bool { return true }
func (c *ConstantExpr) Variables() []*Variable { return nil }
func (c *ConstantExpr) Parameters() []*Parameter { return nil }
func (c *ConstantExpr) Value() (*matrix.Array, error) { return c.value, nil }

func (c *ConstantExpr) String() string {
	if v, err := c.value.Item(); err == nil {
		return fmt.Sprintf("%g", v)
	}

	return c.value.String()
}

func (c *ConstantExpr) sign() sign {
	s := signZero
	for _, v := range c.value.Flatten() {
		switch {
		case v > 0:
			s = addSign(s, signNonneg)
		case v < 0:
			s = addSign(s, signNonpos)
		}
	}

	return s
}

func (c *ConstantExpr) canon() (*Canon, error) {
	flat := c.value.Flatten()
	out := &Canon{Rows: len(flat)}
	for i, v := range flat {
		if v != 0 {
			out.Lin = append(out.Lin, Term{Row: i, Var: One, Param: One, Coef: v})
		}
	}

	return out, nil
}
