// Package solution defines the solver outcome enumeration and the result
// record reductions exchange with solvers.
package solution

import (
	"fmt"
	"math"

	"github.com/katalvlaran/qpcanon/matrix"
)

// Status is the outcome reported by a solver.
type Status int

const (
	Optimal Status = iota
	OptimalInaccurate
	Infeasible
	InfeasibleInaccurate
	Unbounded
	UnboundedInaccurate
	InfeasibleOrUnbounded
	UserLimit
	SolverError
)

var statusNames = [...]string{
	"optimal",
	"optimal_inaccurate",
	"infeasible",
	"infeasible_inaccurate",
	"unbounded",
	"unbounded_inaccurate",
	"infeasible_or_unbounded",
	"user_limit",
	"solver_error",
}

// String returns the snake_case status name.
func (s Status) String() string {
	if s < Optimal || s > SolverError {
		return fmt.Sprintf("status(%d)", int(s))
	}

	return statusNames[s]
}

// ParseStatus maps a snake_case name back to its Status.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}

	return 0, false
}

// HasSolution reports whether the solver returned primal values
// (Optimal, OptimalInaccurate and UserLimit).
func (s Status) HasSolution() bool {
	return s == Optimal || s == OptimalInaccurate || s == UserLimit
}

// IsError reports SolverError.
func (s Status) IsError() bool { return s == SolverError }

// IsInfeasible reports the infeasible family.
func (s Status) IsInfeasible() bool {
	return s == Infeasible || s == InfeasibleInaccurate || s == InfeasibleOrUnbounded
}

// IsUnbounded reports the unbounded family.
func (s Status) IsUnbounded() bool {
	return s == Unbounded || s == UnboundedInaccurate || s == InfeasibleOrUnbounded
}

// DefaultOptVal returns the conventional optimal value for a status without
// a numeric optimum in minimize sense: +Inf when infeasible, -Inf when
// unbounded, NaN on error.
func DefaultOptVal(s Status) float64 {
	switch {
	case s == Infeasible || s == InfeasibleInaccurate:
		return math.Inf(1)
	case s == Unbounded || s == UnboundedInaccurate:
		return math.Inf(-1)
	}

	return math.NaN()
}

// Solution is a solver result in some variable/constraint namespace.
type Solution struct {
	Status     Status
	OptVal     float64
	PrimalVars map[int]*matrix.Array
	DualVars   map[int]*matrix.Array
	Attr       map[string]any
}

// New returns a Solution with empty maps.
func New(status Status, optVal float64) *Solution {
	return &Solution{
		Status:     status,
		OptVal:     optVal,
		PrimalVars: make(map[int]*matrix.Array),
		DualVars:   make(map[int]*matrix.Array),
		Attr:       make(map[string]any),
	}
}

// String renders a one-line summary.
func (s *Solution) String() string {
	return fmt.Sprintf("Solution{status: %s, opt_val: %g, primal: %d, dual: %d}",
		s.Status, s.OptVal, len(s.PrimalVars), len(s.DualVars))
}
