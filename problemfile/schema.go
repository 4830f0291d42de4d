// Package problemfile loads quadratic programs from YAML descriptions.
//
// Example:
//
//	variables:
//	  - {name: x, shape: [2], lower: [0, 0]}
//	parameters:
//	  - {name: p, shape: [], value: [2], nonneg: true}
//	objective:
//	  sense: minimize
//	  quad:
//	    - {var: x, matrix: [[2, 0.5], [0.5, 1]]}
//	  linear:
//	    - {var: x, coef: [1, -1], param: p}
//	  constant: 3
//	constraints:
//	  - name: budget
//	    kind: eq
//	    lhs: {terms: [{var: x, coef: [1, 1]}]}
//	    rhs: {constant: [1]}
//
// A term {var, coef} is the inner product coefᵀ·var, {var, matrix} is
// matrix·var, and a bare {var} is the variable itself. An optional scalar
// param multiplies the term. Constants broadcast when they hold one entry.
package problemfile

// File is the top-level YAML document.
type File struct {
	Variables   []VariableSpec   `yaml:"variables" validate:"required,min=1,dive"`
	Parameters  []ParameterSpec  `yaml:"parameters" validate:"dive"`
	Objective   ObjectiveSpec    `yaml:"objective" validate:"required"`
	Constraints []ConstraintSpec `yaml:"constraints" validate:"dive"`
}

// VariableSpec declares one variable.
type VariableSpec struct {
	Name    string    `yaml:"name" validate:"required"`
	Shape   []int     `yaml:"shape" validate:"shape"`
	Boolean bool      `yaml:"boolean"`
	Integer bool      `yaml:"integer"`
	Lower   []float64 `yaml:"lower"`
	Upper   []float64 `yaml:"upper"`
}

// ParameterSpec declares one parameter and its initial value.
type ParameterSpec struct {
	Name   string    `yaml:"name" validate:"required"`
	Shape  []int     `yaml:"shape" validate:"shape"`
	Value  []float64 `yaml:"value"`
	Nonneg bool      `yaml:"nonneg"`
}

// ObjectiveSpec is Σ weight·xᵀ·M·x + Σ linear terms + constant.
type ObjectiveSpec struct {
	Sense    string     `yaml:"sense" validate:"required,oneof=minimize maximize"`
	Quad     []QuadSpec `yaml:"quad" validate:"dive"`
	Linear   []TermSpec `yaml:"linear" validate:"dive"`
	Constant float64    `yaml:"constant"`
}

// QuadSpec is weight·varᵀ·matrix·var; weight defaults to 1.
type QuadSpec struct {
	Var    string      `yaml:"var" validate:"required"`
	Matrix [][]float64 `yaml:"matrix" validate:"required,min=1"`
	Weight *float64    `yaml:"weight"`
}

// TermSpec is one linear term.
type TermSpec struct {
	Var    string      `yaml:"var" validate:"required"`
	Coef   []float64   `yaml:"coef" validate:"excluded_with=Matrix"`
	Matrix [][]float64 `yaml:"matrix"`
	Param  string      `yaml:"param"`
}

// AffineSpec is Σ terms + constant.
type AffineSpec struct {
	Terms    []TermSpec `yaml:"terms" validate:"dive"`
	Constant []float64  `yaml:"constant"`
}

// ConstraintSpec is lhs (==|<=|>=) rhs.
type ConstraintSpec struct {
	Name string     `yaml:"name"`
	Kind string     `yaml:"kind" validate:"required,oneof=eq le ge"`
	LHS  AffineSpec `yaml:"lhs"`
	RHS  AffineSpec `yaml:"rhs"`
}
