package qp_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
	"github.com/katalvlaran/qpcanon/problem"
	"github.com/katalvlaran/qpcanon/qp"
	"github.com/katalvlaran/qpcanon/solution"
)

// ExampleStuffing stuffs min ||x||² s.t. x₀ + x₁ = 1 and maps a solver
// answer back onto x.
func ExampleStuffing() {
	ctx := context.Background()
	x, _ := expr.NewVariable(matrix.Shape{2}, expr.WithName("x"))
	obj := expr.Must(expr.SumSquares(x))
	eq, _ := constraint.NewEquality(expr.Sum(x), expr.Const(1))
	prob, _ := problem.Minimize(obj, eq)

	s := qp.NewStuffing()
	pqp, inv, err := s.Apply(ctx, prob)
	if err != nil {
		fmt.Println(err)
		return
	}
	data, _ := pqp.ApplyParameters(ctx, qp.StoredValues())
	fmt.Println("P:", data.P.Values(), "q:", data.Q, "d:", data.D)
	fmt.Println("A:", data.A.Values(), "b:", data.B)

	raw := solution.New(solution.Optimal, 0.5)
	raw.PrimalVars[pqp.X.ID()] = matrix.Vector(0.5, 0.5)
	sol, _ := s.Invert(ctx, raw, inv)
	fmt.Println("x:", sol.PrimalVars[x.ID()].Flatten(), "opt:", sol.OptVal)

	// Output:
	// P: [2 2] q: [0 0] d: 0
	// A: [1 1] b: [-1]
	// x: [0.5 0.5] opt: 0.5
}
