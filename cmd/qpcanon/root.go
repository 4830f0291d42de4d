package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/qpcanon/coeff"
	"github.com/katalvlaran/qpcanon/cone"
	"github.com/katalvlaran/qpcanon/constraint"
	"github.com/katalvlaran/qpcanon/internal/ctxlog"
	"github.com/katalvlaran/qpcanon/matrix"
	"github.com/katalvlaran/qpcanon/problemfile"
	"github.com/katalvlaran/qpcanon/qp"
)

// flags shared by the subcommands.
type flags struct {
	params     []string
	keepZeros  bool
	zeroOffset bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:          "qpcanon",
		Short:        "Canonicalize quadratic programs into solver matrices",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if f.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug records to stderr")
	root.PersistentFlags().StringArrayVar(&f.params, "param", nil, "override a parameter, name=v1,v2 (repeatable)")

	stuff := &cobra.Command{
		Use:   "stuff FILE",
		Short: "Print P, q, d, A, b and the cone dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStuff(cmd.Context(), cmd.OutOrStdout(), args[0], f)
		},
	}
	stuff.Flags().BoolVar(&f.keepZeros, "keep-zeros", false, "keep explicit zeros in P and A")
	stuff.Flags().BoolVar(&f.zeroOffset, "zero-offset", false, "evaluate only the parameter-linear part")

	dims := &cobra.Command{
		Use:   "dims FILE",
		Short: "Print the cone dimensions of the lowered constraints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDims(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	root.AddCommand(stuff, dims)

	return root
}

// compile loads path and stuffs it.
func compile(ctx context.Context, path string) (*problemfile.Model, *qp.ParamQuadProg, error) {
	m, err := problemfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	s := qp.NewStuffing()
	if !s.Accepts(m.Problem) {
		return nil, nil, fmt.Errorf("%s: %w", path, qp.ErrNotAccepted)
	}
	pqp, _, err := s.Apply(ctx, m.Problem)
	if err != nil {
		return nil, nil, err
	}

	return m, pqp, nil
}

func runDims(ctx context.Context, w io.Writer, path string) error {
	_, pqp, err := compile(ctx, path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, cone.NewDims(constraint.Group(pqp.Constraints)))

	return err
}

func runStuff(ctx context.Context, w io.Writer, path string, f flags) error {
	m, pqp, err := compile(ctx, path)
	if err != nil {
		return err
	}

	byName := make(map[string][]float64, len(f.params))
	for _, a := range f.params {
		name, vals, err := problemfile.ParseAssignment(a)
		if err != nil {
			return err
		}
		byName[name] = vals
	}
	overrides, err := m.Overrides(byName)
	if err != nil {
		return err
	}

	var opts []qp.ApplyOption
	if f.keepZeros {
		opts = append(opts, qp.WithCacheMode(coeff.KeepZeros))
	}
	if f.zeroOffset {
		opts = append(opts, qp.WithZeroOffset())
	}
	data, err := pqp.ApplyParameters(ctx, qp.Overrides(overrides), opts...)
	if err != nil {
		return err
	}

	P, err := render(data.P)
	if err != nil {
		return err
	}
	A, err := render(data.A)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "dims: %s\n", cone.NewDims(constraint.Group(pqp.Constraints)))
	fmt.Fprintf(w, "P:\n%s", P)
	fmt.Fprintf(w, "q: %v\n", data.Q)
	fmt.Fprintf(w, "d: %g\n", data.D)
	fmt.Fprintf(w, "A:\n%s", A)
	_, err = fmt.Fprintf(w, "b: %v\n", data.B)

	return err
}

// render prints one matrix row per line; a matrix with no rows or columns
// renders as "(empty)".
func render(s *matrix.CSC) (string, error) {
	if s.Rows() == 0 || s.Cols() == 0 {
		return "(empty)\n", nil
	}
	d, err := s.ToDense()
	if err != nil {
		return "", err
	}

	return d.String(), nil
}
