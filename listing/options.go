package listing

import "github.com/datatrails/go-datatrails-common/logger"

// options holds the iterator's tunables: a private struct, built from
// defaults and mutated by functional Options passed to New.
type options struct {
	maxListSize         int
	useParallelListing  bool
	numWorkers          int
	numParallelRequests int
	shrinkFactor        float64
	log                 logger.Logger
}

func defaultOptions() options {
	return options{
		maxListSize:         1000,
		useParallelListing:  true,
		numWorkers:          8,
		numParallelRequests: 4,
		shrinkFactor:        0.9,
	}
}

// Option configures an Iterator at construction time.
type Option func(*options)

// WithMaxListSize sets list_object_keys_size: the max keys requested per
// endpoint call, live or speculative.
func WithMaxListSize(n int) Option {
	return func(o *options) {
		o.maxListSize = n
	}
}

// WithParallelListing is the use_parallel_listing master switch; when
// disabled the iterator degrades to pure sequential paging and never builds
// a cache.
func WithParallelListing(enabled bool) Option {
	return func(o *options) {
		o.useParallelListing = enabled
	}
}

// WithNumWorkers bounds the per-iterator worker pool size.
func WithNumWorkers(n int) Option {
	return func(o *options) {
		o.numWorkers = n
	}
}

// WithNumParallelRequests sets how many sub-ranges a single prefetch cycle
// schedules; it may exceed WithNumWorkers, in which case excess windows
// queue on the bounded pool.
func WithNumParallelRequests(n int) Option {
	return func(o *options) {
		o.numParallelRequests = n
	}
}

// WithShrinkFactor sets alpha, the factor applied to the observed key
// density when sizing prefetch windows.
func WithShrinkFactor(alpha float64) Option {
	return func(o *options) {
		o.shrinkFactor = alpha
	}
}

// WithLogger supplies a logger; if omitted, New falls back to
// logger.Sugar.WithServiceName.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}
