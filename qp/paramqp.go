package qp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/katalvlaran/qpcanon/coeff"
	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/expr"
	"github.com/katalvlaran/qpcanon/matrix"
)

// QPData is one numeric instance of a ParamQuadProg:
//
//	minimize ½·xᵀ·P·x + Qᵀ·x + D  subject to  A·x + B (cones as listed by Constraints)
type QPData struct {
	P *matrix.CSC
	Q []float64
	D float64
	A *matrix.CSC
	B []float64
}

// ParamQuadProg is a parametrized QP over a single flattened variable X.
//
// Column offsets in VarIDToCol partition [0, X size) in the order of
// Variables; row blocks of A follow Constraints in order.
type ParamQuadProg struct {
	// P is the N×N quadratic tensor, already doubled.
	P *coeff.ParamTensor
	// Q is the 1×(N+1) linear tensor; its last column is the constant d.
	Q *coeff.ParamTensor
	// X is the flattened decision variable.
	X *expr.Variable
	// A is the M×(N+1) constraint tensor; its last column is b.
	A *coeff.ParamTensor

	// LowerBounds and UpperBounds align with X; nil when no variable is bounded.
	LowerBounds []float64
	UpperBounds []float64

	Constraints  []constraint.Constraint
	Variables    []*expr.Variable
	VarIDToCol   map[int]int
	Parameters   []*expr.Parameter
	ParamIDToCol map[int]int

	// Formatted reports whether solver-specific post-processing was applied.
	Formatted bool

	reducedA *coeff.ReducedMat
	reducedP *coeff.ReducedMat

	paramIDToSize  map[int]int
	totalParamSize int
	logger         *slog.Logger
}

// IsMixedInteger reports whether X carries boolean or integer entries.
func (p *ParamQuadProg) IsMixedInteger() bool { return p.X.IsMixedInteger() }

// SupportsDerivatives reports whether ApplyParamJac, SplitSolution and
// SplitAdjoint are available. They are not.
func (p *ParamQuadProg) SupportsDerivatives() bool { return false }

// ApplyParameters evaluates the compiled maps for the parameter values
// returned by resolve.
//
// Implementation:
//   - Stage 1: Assemble θ from ParamIDToCol and the resolved values; the
//     constant slot is 1, or 0 with WithZeroOffset.
//   - Stage 2: Refresh the P cache for the requested mode and evaluate P
//     (no offset column).
//   - Stage 3: Evaluate Q with offset extraction into q and d.
//   - Stage 4: Refresh the A cache and evaluate A with offset extraction into b.
//
// Only the first call (or a mode change) rebuilds sparsity structure; later
// calls recompute values.
//
// Errors: ErrMissingParameter or resolver errors, coeff.ErrParamSize.
func (p *ParamQuadProg) ApplyParameters(ctx context.Context, resolve ParamResolver, opts ...ApplyOption) (data *QPData, err error) {
	o := gatherApplyOptions(opts)
	start := time.Now()
	ctx, span := startSpan(ctx, "qp.ParamQuadProg.ApplyParameters",
		attribute.Int("qp.params", p.totalParamSize),
		attribute.Bool("qp.zero_offset", o.zeroOffset),
		attribute.String("qp.cache_mode", o.mode.String()),
	)
	defer func() {
		recordOp(ctx, "apply_parameters", start, err)
		endSpan(span, err)
	}()

	byID := make(map[int]*expr.Parameter, len(p.Parameters))
	for _, prm := range p.Parameters {
		byID[prm.ID()] = prm
	}
	theta, err := coeff.ParameterVector(p.totalParamSize, p.ParamIDToCol, p.paramIDToSize,
		func(id int) ([]float64, error) { return resolve(byID[id]) }, o.zeroOffset)
	if err != nil {
		return nil, fmt.Errorf("ApplyParameters: %w", err)
	}

	pBuilds, aBuilds := p.reducedP.Builds(), p.reducedA.Builds()
	p.reducedP.Cache(o.mode)
	P, _, err := p.reducedP.Evaluate(theta, false)
	if err != nil {
		return nil, fmt.Errorf("ApplyParameters: P: %w", err)
	}

	qm, d, err := p.Q.Evaluate(theta, true)
	if err != nil {
		return nil, fmt.Errorf("ApplyParameters: q: %w", err)
	}
	q, err := denseRow(qm)
	if err != nil {
		return nil, fmt.Errorf("ApplyParameters: q: %w", err)
	}

	p.reducedA.Cache(o.mode)
	A, b, err := p.reducedA.Evaluate(theta, true)
	if err != nil {
		return nil, fmt.Errorf("ApplyParameters: A: %w", err)
	}
	if b == nil {
		b = []float64{}
	}
	recordCacheBuilds(ctx, "P", p.reducedP.Builds()-pBuilds)
	recordCacheBuilds(ctx, "A", p.reducedA.Builds()-aBuilds)

	p.logger.DebugContext(ctx, "parameters applied",
		slog.Int("p_nnz", P.NNZ()),
		slog.Int("a_nnz", A.NNZ()),
		slog.Int("rows", A.Rows()),
		slog.String("cache_mode", o.mode.String()),
	)

	return &QPData{P: P, Q: q, D: d[0], A: A, B: b}, nil
}

// denseRow expands a 1×N CSC into a dense slice.
func denseRow(m *matrix.CSC) ([]float64, error) {
	out := make([]float64, m.Cols())
	for j := range out {
		v, err := m.At(0, j)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}

	return out, nil
}

// ApplyParamJac would return the Jacobian of (P, q, A, b) with respect to the
// parameters. Errors: ErrNotImplemented.
func (p *ParamQuadProg) ApplyParamJac(dP, dq, dA, db []float64) (map[int][]float64, error) {
	return nil, fmt.Errorf("ApplyParamJac: %w", ErrNotImplemented)
}

// SplitSolution would map a flat primal vector to per-variable values.
// Invert covers the forward direction. Errors: ErrNotImplemented.
func (p *ParamQuadProg) SplitSolution(x []float64) (map[int]*matrix.Array, error) {
	return nil, fmt.Errorf("SplitSolution: %w", ErrNotImplemented)
}

// SplitAdjoint would flatten per-variable adjoints into one vector.
// Errors: ErrNotImplemented.
func (p *ParamQuadProg) SplitAdjoint(delVars map[int]*matrix.Array) ([]float64, error) {
	return nil, fmt.Errorf("SplitAdjoint: %w", ErrNotImplemented)
}
