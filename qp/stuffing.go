package qp

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/katalvlaran/qpcanon/coeff"
	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/internal/ctxlog"
	"github.com/katalvlaran/qpcanon/matrix"
	"github.com/katalvlaran/qpcanon/problem"
	"github.com/katalvlaran/qpcanon/solution"
)

// Stuffing is the QP matrix-stuffing reduction. It holds configuration only
// and may be shared between goroutines.
type Stuffing struct {
	opts Options
}

// NewStuffing returns a reduction configured by opts.
func NewStuffing(opts ...Option) *Stuffing {
	return &Stuffing{opts: gatherOptions(opts)}
}

func (s *Stuffing) logger(ctx context.Context) *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}

	return ctxlog.FromContext(ctx)
}

// acceptedKinds are the constraint kinds lowering handles.
var acceptedKinds = map[constraint.Kind]bool{
	constraint.KindZero:       true,
	constraint.KindNonNeg:     true,
	constraint.KindNonPos:     true,
	constraint.KindEquality:   true,
	constraint.KindInequality: true,
}

// Accepts reports whether p can be stuffed: minimize sense, quadratic
// objective, DCP, no variable with convexity attributes beyond integrality,
// only Zero/NonNeg/NonPos/Equality/Inequality constraints over affine
// arguments, and parameter-affine throughout.
// A false result routes the problem elsewhere; it is not an error.
func (s *Stuffing) Accepts(p *problem.Problem) bool {
	if p.Sense() != problem.SenseMinimize || !p.Objective().IsQuadratic() || !p.IsDCP() {
		return false
	}
	for _, v := range p.Variables() {
		if v.ConvexAttributes() != 0 {
			return false
		}
	}
	for _, c := range p.Constraints() {
		if !acceptedKinds[c.Kind()] {
			return false
		}
		for _, a := range c.Args() {
			if !expr.IsAffine(a) {
				return false
			}
		}
	}

	return p.IsDPP()
}

// lower rewrites c into its canonical Zero or NonNeg form.
// Errors: ErrUnsupportedConstraint.
func lower(c constraint.Constraint) (constraint.Constraint, error) {
	switch c := c.(type) {
	case *constraint.Zero, *constraint.NonNeg:
		return c, nil
	case *constraint.Equality:
		return constraint.LowerEquality(c), nil
	case *constraint.Inequality:
		return constraint.LowerInequality(c), nil
	case *constraint.NonPos:
		return constraint.LowerNonPos(c), nil
	}

	return nil, fmt.Errorf("%s: %w", c.Kind(), ErrUnsupportedConstraint)
}

// argument returns the single argument of a lowered constraint.
func argument(c constraint.Constraint) expr.Expr {
	switch c := c.(type) {
	case *constraint.Zero:
		return c.Expr()
	case *constraint.NonNeg:
		return c.Expr()
	}

	return nil
}

// Apply compiles p into a ParamQuadProg and records the InverseData needed
// to map solver results back.
//
// Implementation:
//   - Stage 1: Lay out variables contiguously in first-appearance order and
//     snapshot offsets and shapes into InverseData.
//   - Stage 2: Extract (P, q) from the objective and double P.
//   - Stage 3: Build the flattened variable X carrying the integrality indices.
//   - Stage 4: Lower every constraint, then order Zero before NonNeg keeping
//     relative order.
//   - Stage 5: Extract [A | b] for all lowered arguments in one batched call.
//   - Stage 6: Collect bounds aligned with X.
//
// Errors: ErrNotAccepted, ErrUnsupportedConstraint, extraction errors,
// ctx.Err().
func (s *Stuffing) Apply(ctx context.Context, p *problem.Problem) (pqp *ParamQuadProg, inv *InverseData, err error) {
	start := time.Now()
	ctx, span := startSpan(ctx, "qp.Stuffing.Apply",
		attribute.Int("qp.constraints", len(p.Constraints())),
	)
	defer func() {
		recordOp(ctx, "apply", start, err)
		endSpan(span, err)
	}()
	log := s.logger(ctx)

	if !s.Accepts(p) {
		return nil, nil, fmt.Errorf("Apply: %w", ErrNotAccepted)
	}

	// Stage 1
	vars := p.Variables()
	inv = &InverseData{
		VarOffsets: make(map[int]int, len(vars)),
		VarShapes:  make(map[int]matrix.Shape, len(vars)),
		Minimize:   p.Sense() == problem.SenseMinimize,
		ConsIDMap:  make(map[int]int),
	}
	varSizes := make(map[int]int, len(vars))
	n := 0
	for _, v := range vars {
		inv.VarIDs = append(inv.VarIDs, v.ID())
		inv.VarOffsets[v.ID()] = n
		inv.VarShapes[v.ID()] = v.Shape()
		varSizes[v.ID()] = expr.Size(v)
		n += expr.Size(v)
	}
	inv.XSize = n

	params := p.Parameters()
	paramCols := make(map[int]int, len(params))
	paramSizes := make(map[int]int, len(params))
	total := 0
	for _, prm := range params {
		paramCols[prm.ID()] = total
		paramSizes[prm.ID()] = expr.Size(prm)
		total += expr.Size(prm)
	}
	ex := coeff.NewExtractor(inv.VarOffsets, varSizes, n, paramCols, paramSizes, total,
		coeff.WithWorkers(s.opts.workers))

	// Stage 2
	P, q, err := ex.QuadForm(p.Objective())
	if err != nil {
		return nil, nil, fmt.Errorf("Apply: objective: %w", err)
	}
	P = P.Scale(2)

	// Stage 3
	var boolIdx, intIdx []int
	for _, v := range vars {
		off := inv.VarOffsets[v.ID()]
		for _, i := range v.BooleanIdx() {
			boolIdx = append(boolIdx, off+i)
		}
		for _, i := range v.IntegerIdx() {
			intIdx = append(intIdx, off+i)
		}
	}
	x, err := expr.NewVariable(matrix.Shape{n}, expr.WithName("x"),
		expr.WithBooleanIdx(boolIdx...), expr.WithIntegerIdx(intIdx...))
	if err != nil {
		return nil, nil, fmt.Errorf("Apply: %w", err)
	}
	inv.XID = x.ID()
	inv.MixedInteger = x.IsMixedInteger()

	// Stage 4
	var zeros, nonnegs []constraint.Constraint
	for _, c := range p.Constraints() {
		lc, err := lower(c)
		if err != nil {
			return nil, nil, fmt.Errorf("Apply: %w", err)
		}
		inv.ConsIDMap[c.ID()] = lc.ID()
		if lc.Kind() == constraint.KindZero {
			zeros = append(zeros, lc)
		} else {
			nonnegs = append(nonnegs, lc)
		}
	}
	ordered := append(zeros, nonnegs...)
	inv.Constraints = ordered

	// Stage 5
	args := make([]expr.Expr, len(ordered))
	for i, c := range ordered {
		args[i] = argument(c)
	}
	A, err := ex.Affine(ctx, args)
	if err != nil {
		return nil, nil, fmt.Errorf("Apply: constraints: %w", err)
	}

	// Stage 6
	lowerB, upperB := extractBounds(vars, inv.VarOffsets, n)

	pqp = &ParamQuadProg{
		P:              P,
		Q:              q,
		X:              x,
		A:              A,
		LowerBounds:    lowerB,
		UpperBounds:    upperB,
		Constraints:    ordered,
		Variables:      vars,
		VarIDToCol:     inv.VarOffsets,
		Parameters:     params,
		ParamIDToCol:   paramCols,
		reducedA:       coeff.NewReducedMat(A, coeff.WithWorkers(s.opts.workers)),
		reducedP:       coeff.NewReducedMat(P, coeff.WithWorkers(s.opts.workers)),
		paramIDToSize:  paramSizes,
		totalParamSize: total,
		logger:         log,
	}
	span.SetAttributes(
		attribute.Int("qp.x_size", n),
		attribute.Int("qp.rows", A.Rows),
		attribute.Int("qp.params", total),
	)
	log.DebugContext(ctx, "problem stuffed",
		slog.Int("x_size", n),
		slog.Int("zero_rows", constraint.TotalSize(zeros)),
		slog.Int("nonneg_rows", constraint.TotalSize(nonnegs)),
		slog.Int("params", total),
		slog.Bool("mixed_integer", inv.MixedInteger),
	)

	return pqp, inv, nil
}

// extractBounds lays out per-variable bounds along x. Unbounded entries get
// ∓Inf; when no variable carries a bound both results are nil.
func extractBounds(vars []*expr.Variable, offsets map[int]int, n int) (lower, upper []float64) {
	bounded := false
	for _, v := range vars {
		if v.Lower() != nil || v.Upper() != nil {
			bounded = true
			break
		}
	}
	if !bounded {
		return nil, nil
	}
	lower, upper = make([]float64, n), make([]float64, n)
	for i := range lower {
		lower[i], upper[i] = math.Inf(-1), math.Inf(1)
	}
	for _, v := range vars {
		off := offsets[v.ID()]
		copy(lower[off:], v.Lower())
		copy(upper[off:], v.Upper())
	}

	return lower, upper
}

// Invert maps a solver result over X back to the variables and constraints
// recorded in inv.
//
// Implementation:
//   - Stage 1: Negate OptVal for a maximize problem whose status carries a
//     solution; every other status passes OptVal through.
//   - Stage 2: Return early without values unless the status carries a solution.
//   - Stage 3: Slice the single primal vector by variable offsets and reshape
//     each segment column-major.
//   - Stage 4: Unless mixed-integer, walk the lowered constraints in A row
//     order slicing the single dual vector the same way.
//
// Errors: ErrInverseMismatch when the vectors do not match the recorded layout.
func (s *Stuffing) Invert(ctx context.Context, sol *solution.Solution, inv *InverseData) (out *solution.Solution, err error) {
	start := time.Now()
	ctx, span := startSpan(ctx, "qp.Stuffing.Invert",
		attribute.String("qp.status", sol.Status.String()),
	)
	defer func() {
		recordOp(ctx, "invert", start, err)
		endSpan(span, err)
	}()

	// Stage 1
	optVal := sol.OptVal
	if !inv.Minimize && sol.Status.HasSolution() {
		optVal = -optVal
	}
	out = solution.New(sol.Status, optVal)
	for k, v := range sol.Attr {
		out.Attr[k] = v
	}

	// Stage 2
	if !sol.Status.HasSolution() {
		s.logger(ctx).DebugContext(ctx, "no solution to invert", slog.String("status", sol.Status.String()))
		return out, nil
	}

	// Stage 3
	xOpt, err := single(sol.PrimalVars, inv.XSize, "primal")
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	for _, id := range inv.VarIDs {
		shape := inv.VarShapes[id]
		off := inv.VarOffsets[id]
		a, err := matrix.Unflatten(xOpt[off:off+shape.Size()], shape)
		if err != nil {
			return nil, fmt.Errorf("Invert: variable %d: %w", id, err)
		}
		out.PrimalVars[id] = a
	}

	// Stage 4
	if len(sol.DualVars) == 0 || inv.MixedInteger {
		return out, nil
	}
	yOpt, err := single(sol.DualVars, inv.DualSize(), "dual")
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	off := 0
	for _, c := range inv.Constraints {
		a, err := matrix.Unflatten(yOpt[off:off+c.Size()], c.Shape())
		if err != nil {
			return nil, fmt.Errorf("Invert: constraint %d: %w", c.ID(), err)
		}
		out.DualVars[c.ID()] = a
		off += c.Size()
	}
	s.logger(ctx).DebugContext(ctx, "solution inverted",
		slog.Int("variables", len(out.PrimalVars)),
		slog.Int("duals", len(out.DualVars)),
	)

	return out, nil
}

// single returns the flattened value of the only entry of m, checking its length.
func single(m map[int]*matrix.Array, want int, what string) ([]float64, error) {
	if len(m) != 1 {
		return nil, fmt.Errorf("%s: %d vectors, want 1: %w", what, len(m), ErrInverseMismatch)
	}
	for _, a := range m {
		if a.Size() != want {
			return nil, fmt.Errorf("%s: length %d, want %d: %w", what, a.Size(), want, ErrInverseMismatch)
		}
		return a.Flatten(), nil
	}

	return nil, nil
}
