package problemfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
	"github.com/katalvlaran/qpcanon/problem"
)

var (
	// ErrInvalidFile is returned for malformed or schema-violating documents.
	ErrInvalidFile = errors.New("problemfile: invalid problem file")

	// ErrUnknownName is returned when a term references an undeclared variable or parameter.
	ErrUnknownName = errors.New("problemfile: unknown name")

	// ErrDuplicateName is returned when two declarations share a name.
	ErrDuplicateName = errors.New("problemfile: duplicate name")
)

// validate is shared by every Parse call; it carries the custom "shape" rule.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("shape", validateShape)
}

// validateShape accepts up to matrix.MaxRank non-negative extents.
func validateShape(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().([]int)
	if !ok {
		return false
	}

	return matrix.Shape(s).Validate() == nil
}

// Model is a parsed problem together with its name index.
type Model struct {
	Problem     *problem.Problem
	Variables   map[string]*expr.Variable
	Parameters  map[string]*expr.Parameter
	Constraints map[string]constraint.Constraint
	// ConstraintNames follows Problem.Constraints; unnamed entries get "c<i>".
	ConstraintNames []string
}

// Load reads and parses the file at path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load(%s): %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("Load(%s): %w", path, err)
	}

	return m, nil
}

// Parse decodes a YAML document, validates it and builds the problem.
// Unknown fields are rejected.
// Errors: ErrInvalidFile, ErrUnknownName, ErrDuplicateName, and expression
// construction errors from expr and constraint.
func Parse(data []byte) (*Model, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	b := builder{
		m: &Model{
			Variables:   make(map[string]*expr.Variable),
			Parameters:  make(map[string]*expr.Parameter),
			Constraints: make(map[string]constraint.Constraint),
		},
	}

	return b.build(&f)
}

type builder struct {
	m *Model
}

func (b *builder) build(f *File) (*Model, error) {
	for _, vs := range f.Variables {
		if err := b.declareVariable(vs); err != nil {
			return nil, err
		}
	}
	for _, ps := range f.Parameters {
		if err := b.declareParameter(ps); err != nil {
			return nil, err
		}
	}

	obj, err := b.objective(f.Objective)
	if err != nil {
		return nil, fmt.Errorf("objective: %w", err)
	}

	cs := make([]constraint.Constraint, 0, len(f.Constraints))
	for i, spec := range f.Constraints {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("c%d", i)
		}
		if _, dup := b.m.Constraints[name]; dup {
			return nil, fmt.Errorf("constraint %q: %w", name, ErrDuplicateName)
		}
		c, err := b.constraint(spec)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", name, err)
		}
		b.m.Constraints[name] = c
		b.m.ConstraintNames = append(b.m.ConstraintNames, name)
		cs = append(cs, c)
	}

	if f.Objective.Sense == "maximize" {
		b.m.Problem, err = problem.Maximize(obj, cs...)
	} else {
		b.m.Problem, err = problem.Minimize(obj, cs...)
	}
	if err != nil {
		return nil, err
	}

	return b.m, nil
}

func (b *builder) declareVariable(vs VariableSpec) error {
	if _, dup := b.m.Variables[vs.Name]; dup {
		return fmt.Errorf("variable %q: %w", vs.Name, ErrDuplicateName)
	}
	opts := []expr.LeafOption{expr.WithName(vs.Name)}
	if vs.Boolean {
		opts = append(opts, expr.WithAttr(expr.AttrBoolean))
	}
	if vs.Integer {
		opts = append(opts, expr.WithAttr(expr.AttrInteger))
	}
	if len(vs.Lower) > 0 || len(vs.Upper) > 0 {
		opts = append(opts, expr.WithBounds(nilIfEmpty(vs.Lower), nilIfEmpty(vs.Upper)))
	}
	v, err := expr.NewVariable(matrix.Shape(vs.Shape), opts...)
	if err != nil {
		return fmt.Errorf("variable %q: %w", vs.Name, err)
	}
	b.m.Variables[vs.Name] = v

	return nil
}

func (b *builder) declareParameter(ps ParameterSpec) error {
	if _, dup := b.m.Parameters[ps.Name]; dup {
		return fmt.Errorf("parameter %q: %w", ps.Name, ErrDuplicateName)
	}
	if _, clash := b.m.Variables[ps.Name]; clash {
		return fmt.Errorf("parameter %q shadows a variable: %w", ps.Name, ErrDuplicateName)
	}
	opts := []expr.LeafOption{expr.WithName(ps.Name)}
	if ps.Nonneg {
		opts = append(opts, expr.WithAttr(expr.AttrNonneg))
	}
	if len(ps.Value) > 0 {
		a, err := matrix.NewArray(matrix.Shape(ps.Shape), ps.Value)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", ps.Name, err)
		}
		opts = append(opts, expr.WithValue(a))
	}
	p, err := expr.NewParameter(matrix.Shape(ps.Shape), opts...)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", ps.Name, err)
	}
	b.m.Parameters[ps.Name] = p

	return nil
}

func nilIfEmpty(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}

	return v
}

func (b *builder) variable(name string) (*expr.Variable, error) {
	v, ok := b.m.Variables[name]
	if !ok {
		return nil, fmt.Errorf("variable %q: %w", name, ErrUnknownName)
	}

	return v, nil
}

// term builds one TermSpec.
func (b *builder) term(t TermSpec) (expr.Expr, error) {
	v, err := b.variable(t.Var)
	if err != nil {
		return nil, err
	}
	var e expr.Expr = v
	switch {
	case len(t.Coef) == 1 && expr.Size(v) == 1:
		e = expr.Scale(t.Coef[0], v)
	case len(t.Coef) > 0:
		if e, err = expr.MatMul(expr.ConstVector(t.Coef...), v); err != nil {
			return nil, err
		}
	case len(t.Matrix) > 0:
		m, err := expr.ConstMatrix(t.Matrix)
		if err != nil {
			return nil, err
		}
		if e, err = expr.MatMul(m, v); err != nil {
			return nil, err
		}
	}
	if t.Param == "" {
		return e, nil
	}
	p, ok := b.m.Parameters[t.Param]
	if !ok {
		return nil, fmt.Errorf("parameter %q: %w", t.Param, ErrUnknownName)
	}

	return expr.Multiply(p, e)
}

// constant returns a scalar or vector constant; an empty list is nil.
func constant(vs []float64) expr.Expr {
	switch len(vs) {
	case 0:
		return nil
	case 1:
		return expr.Const(vs[0])
	}

	return expr.ConstVector(vs...)
}

func (b *builder) affine(a AffineSpec) (expr.Expr, error) {
	var parts []expr.Expr
	for _, t := range a.Terms {
		e, err := b.term(t)
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	if c := constant(a.Constant); c != nil {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return expr.Const(0), nil
	}

	return expr.AddAll(parts...)
}

// objective sums the quadratic, linear (summed to scalars) and constant parts.
func (b *builder) objective(o ObjectiveSpec) (expr.Expr, error) {
	var parts []expr.Expr
	for _, q := range o.Quad {
		v, err := b.variable(q.Var)
		if err != nil {
			return nil, err
		}
		m, err := expr.ConstMatrix(q.Matrix)
		if err != nil {
			return nil, err
		}
		f, err := expr.QuadForm(v, m)
		if err != nil {
			return nil, fmt.Errorf("quad term %q: %w", q.Var, err)
		}
		if q.Weight != nil {
			f = expr.Scale(*q.Weight, f)
		}
		parts = append(parts, f)
	}
	for _, t := range o.Linear {
		e, err := b.term(t)
		if err != nil {
			return nil, err
		}
		if !e.Shape().IsScalar() {
			e = expr.Sum(e)
		}
		parts = append(parts, e)
	}
	parts = append(parts, expr.Const(o.Constant))

	return expr.AddAll(parts...)
}

func (b *builder) constraint(spec ConstraintSpec) (constraint.Constraint, error) {
	lhs, err := b.affine(spec.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := b.affine(spec.RHS)
	if err != nil {
		return nil, err
	}
	switch spec.Kind {
	case "eq":
		return constraint.NewEquality(lhs, rhs)
	case "le":
		return constraint.NewInequality(lhs, rhs)
	}

	return constraint.NewInequality(rhs, lhs)
}

// ParseAssignment parses "name=v1,v2,..." into a name and its values.
// Errors: ErrInvalidFile.
func ParseAssignment(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("%w: assignment %q, want name=v1,v2", ErrInvalidFile, s)
	}
	fields := strings.Split(list, ",")
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: assignment %q: %v", ErrInvalidFile, s, err)
		}
		vals[i] = v
	}

	return strings.TrimSpace(name), vals, nil
}

// Overrides maps parameter names to parameter identifiers.
// Errors: ErrUnknownName.
func (m *Model) Overrides(byName map[string][]float64) (map[int][]float64, error) {
	out := make(map[int][]float64, len(byName))
	for name, vals := range byName {
		p, ok := m.Parameters[name]
		if !ok {
			return nil, fmt.Errorf("parameter %q: %w", name, ErrUnknownName)
		}
		out[p.ID()] = vals
	}

	return out, nil
}
