package qp

import (
	"log/slog"
	"runtime"

	"github.com/katalvlaran/qpcanon/coeff"
)

// Option configures a Stuffing.
type Option func(*Options)

// Options holds the Stuffing configuration.
//   - logger: nil means the logger attached to the context (see ctxlog).
//   - workers: goroutine bound for coefficient extraction; default GOMAXPROCS.
type Options struct {
	logger  *slog.Logger
	workers int
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithWorkers bounds extraction and evaluation concurrency. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("qp: WithWorkers requires n >= 1")
	}

	return func(o *Options) { o.workers = n }
}

func gatherOptions(opts []Option) Options {
	o := Options{workers: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// ApplyOption configures one ApplyParameters call.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	zeroOffset bool
	mode       coeff.CacheMode
}

// WithZeroOffset zeroes the constant slot of the parameter vector so only the
// parameter-linear part of each coefficient map is evaluated.
func WithZeroOffset() ApplyOption {
	return func(o *applyOptions) { o.zeroOffset = true }
}

// WithCacheMode selects the sparsity policy of the cached evaluators.
// Default: coeff.DropZeros.
func WithCacheMode(m coeff.CacheMode) ApplyOption {
	return func(o *applyOptions) { o.mode = m }
}

func gatherApplyOptions(opts []ApplyOption) applyOptions {
	o := applyOptions{mode: coeff.DropZeros}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
