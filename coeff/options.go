package coeff

import "runtime"

// DefaultChunkSize is the number of structural nonzeros a single worker
// evaluates; smaller structures are evaluated sequentially.
const DefaultChunkSize = 4096

// Option configures an Extractor or a ReducedMat.
type Option func(*Options)

// Options holds the concurrency policy.
type Options struct {
	workers   int
	chunkSize int
}

// WithWorkers bounds the number of goroutines. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("coeff: WithWorkers requires n >= 1")
	}

	return func(o *Options) { o.workers = n }
}

// WithChunkSize sets the per-worker nonzero count. Panics if n < 1.
func WithChunkSize(n int) Option {
	if n < 1 {
		panic("coeff: WithChunkSize requires n >= 1")
	}

	return func(o *Options) { o.chunkSize = n }
}

func gatherOptions(opts []Option) Options {
	o := Options{workers: runtime.GOMAXPROCS(0), chunkSize: DefaultChunkSize}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
