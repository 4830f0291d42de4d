package solution_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/qpcanon/solution"
)

func TestStatus_Sets(t *testing.T) {
	has := map[solution.Status]bool{
		solution.Optimal:           true,
		solution.OptimalInaccurate: true,
		solution.UserLimit:         true,
	}
	for s := solution.Optimal; s <= solution.SolverError; s++ {
		assert.Equal(t, has[s], s.HasSolution(), s.String())
		assert.Equal(t, s == solution.SolverError, s.IsError(), s.String())

		back, ok := solution.ParseStatus(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, back)
	}
	assert.True(t, solution.InfeasibleOrUnbounded.IsInfeasible())
	assert.True(t, solution.InfeasibleOrUnbounded.IsUnbounded())
	assert.Equal(t, "status(42)", solution.Status(42).String())
}

func TestDefaultOptVal(t *testing.T) {
	assert.True(t, math.IsInf(solution.DefaultOptVal(solution.Infeasible), 1))
	assert.True(t, math.IsInf(solution.DefaultOptVal(solution.UnboundedInaccurate), -1))
	assert.True(t, math.IsNaN(solution.DefaultOptVal(solution.SolverError)))
}

func TestNew(t *testing.T) {
	s := solution.New(solution.Optimal, 1.5)
	assert.NotNil(t, s.PrimalVars)
	assert.NotNil(t, s.DualVars)
	assert.NotNil(t, s.Attr)
	assert.Equal(t, "Solution{status: optimal, opt_val: 1.5, primal: 0, dual: 0}", s.String())
}
