// Package problem binds an objective and a constraint list into an
// optimization problem and answers the structural questions reductions ask
// of it: convexity certificate, parameter discipline, variable discovery.
package problem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
)

// ErrObjectiveNotScalar is returned when the objective has more than one entry.
var ErrObjectiveNotScalar = errors.New("problem: objective must be scalar")

// Sense is the optimization direction.
type Sense int

const (
	SenseMinimize Sense = iota
	SenseMaximize
)

// String returns "minimize" or "maximize".
func (s Sense) String() string {
	if s == SenseMaximize {
		return "maximize"
	}

	return "minimize"
}

// Problem is an immutable objective plus constraints.
type Problem struct {
	sense       Sense
	objective   expr.Expr
	constraints []constraint.Constraint
}

// Minimize returns the problem min objective s.t. cs.
// Errors: ErrObjectiveNotScalar.
func Minimize(objective expr.Expr, cs ...constraint.Constraint) (*Problem, error) {
	return newProblem(SenseMinimize, objective, cs)
}

// Maximize returns the problem max objective s.t. cs.
// Errors: ErrObjectiveNotScalar.
func Maximize(objective expr.Expr, cs ...constraint.Constraint) (*Problem, error) {
	return newProblem(SenseMaximize, objective, cs)
}

func newProblem(sense Sense, objective expr.Expr, cs []constraint.Constraint) (*Problem, error) {
	if !objective.Shape().IsScalar() {
		return nil, fmt.Errorf("%s(%s): shape %s: %w", sense, objective, objective.Shape(), ErrObjectiveNotScalar)
	}

	return &Problem{
		sense:       sense,
		objective:   objective,
		constraints: append([]constraint.Constraint(nil), cs...),
	}, nil
}

// Sense returns the optimization direction.
func (p *Problem) Sense() Sense { return p.sense }

// Objective returns the objective expression.
func (p *Problem) Objective() expr.Expr { return p.objective }

// Constraints returns a copy of the constraint list in declaration order.
func (p *Problem) Constraints() []constraint.Constraint {
	return append([]constraint.Constraint(nil), p.constraints...)
}

// Variables returns the distinct variables of the objective and the
// constraints in first-appearance order. This order fixes the column layout
// of every reduction.
func (p *Problem) Variables() []*expr.Variable {
	var (
		out  []*expr.Variable
		seen = make(map[int]bool)
	)
	add := func(e expr.Expr) {
		for _, v := range e.Variables() {
			if !seen[v.ID()] {
				seen[v.ID()] = true
				out = append(out, v)
			}
		}
	}
	add(p.objective)
	for _, c := range p.constraints {
		for _, a := range c.Args() {
			add(a)
		}
	}

	return out
}

// Parameters returns the distinct parameters in first-appearance order.
func (p *Problem) Parameters() []*expr.Parameter {
	var (
		out  []*expr.Parameter
		seen = make(map[int]bool)
	)
	add := func(e expr.Expr) {
		for _, q := range e.Parameters() {
			if !seen[q.ID()] {
				seen[q.ID()] = true
				out = append(out, q)
			}
		}
	}
	add(p.objective)
	for _, c := range p.constraints {
		for _, a := range c.Args() {
			add(a)
		}
	}

	return out
}

// IsDCP reports whether the objective has the curvature its sense requires
// and every constraint is DCP.
func (p *Problem) IsDCP() bool {
	curv := p.objective.Curvature()
	if p.sense == SenseMinimize && !curv.IsConvex() || p.sense == SenseMaximize && !curv.IsConcave() {
		return false
	}
	for _, c := range p.constraints {
		if !c.IsDCP() {
			return false
		}
	}

	return true
}

// IsDPP reports whether parameters enter the objective and every constraint affinely.
func (p *Problem) IsDPP() bool {
	if !p.objective.IsDPP() {
		return false
	}
	for _, c := range p.constraints {
		if !c.IsDPP() {
			return false
		}
	}

	return true
}

// IsMixedInteger reports whether any variable carries an integrality restriction.
func (p *Problem) IsMixedInteger() bool {
	for _, v := range p.Variables() {
		if v.IsMixedInteger() {
			return true
		}
	}

	return false
}

// String renders the problem over several lines.
func (p *Problem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", p.sense, p.objective)
	if len(p.constraints) > 0 {
		b.WriteString("\nsubject to")
		for _, c := range p.constraints {
			fmt.Fprintf(&b, "\n  %s", c)
		}
	}

	return b.String()
}
