// Package listing implements the public forward iterator over a
// (bucket, prefix) listing: it alternates between draining a speculatively
// built ordercache.Cache and issuing a live page against the object store,
// deciding when to trigger a prefetch cycle. This is the client-visible
// surface of the parallel prefix-range listing accelerator.
package listing

import (
	"context"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
	"github.com/datatrails/go-prefixlist-accelerator/ordercache"
	"github.com/datatrails/go-prefixlist-accelerator/prefetch"
)

// state is the iterator's position in the three-state machine: LIVE, CACHE,
// or EXHAUSTED.
type state int

const (
	stateLive state = iota
	stateCache
	stateExhausted
)

// Iterator is the public forward iterator over (bucket, prefix). It is not
// safe for concurrent use: NextBatch is synchronous from the consumer's
// perspective, a single-threaded foreground call.
type Iterator struct {
	lister objectstore.Lister
	bucket string
	prefix string
	opts   options
	log    logger.Logger

	cache *ordercache.Cache

	state          state
	nextStartAfter string

	// cacheReady starts true so the first truncated live page triggers the
	// first prefetch cycle, and flips false after that cycle, never reset:
	// one prefetch cycle per iterator lifetime.
	cacheReady       bool
	prefetchInFlight bool

	closed bool
}

// New builds an Iterator over (bucket, prefix) using lister for both live
// and speculative listings.
func New(lister objectstore.Lister, bucket, prefix string, opts ...Option) *Iterator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		log = logger.Sugar.WithServiceName("listingiterator")
	}

	return &Iterator{
		lister:     lister,
		bucket:     bucket,
		prefix:     prefix,
		opts:       o,
		log:        log,
		cache:      ordercache.New(),
		state:      stateLive,
		cacheReady: true,
	}
}

// NextBatch returns the next batch of objects. The returned bool is true if
// more data may exist (the state machine has not proven exhaustion), false
// once exhaustion is proven. Once NextBatch returns an error, the iterator
// enters its closed state and must not be called again.
func (it *Iterator) NextBatch(ctx context.Context) ([]objectstore.Object, bool, error) {
	if it.closed {
		return nil, false, ErrClosed
	}

	var batch []objectstore.Object
	var err error

	switch it.state {
	case stateCache:
		batch = it.drainCache()
	case stateExhausted:
		return nil, false, nil
	default:
		batch, err = it.nextLivePage(ctx)
	}

	if err != nil {
		it.closed = true
		return batch, false, err
	}

	return batch, it.state != stateExhausted, nil
}

// drainCache serves one batch from the cache, emitting objects with key
// strictly greater than the last one this iterator emitted. A batch shorter
// than the configured page size means the cache has nothing left past the
// cursor, so the iterator falls back to live paging.
func (it *Iterator) drainCache() []objectstore.Object {
	batch := it.cache.GetBatchFrom(it.nextStartAfter, it.opts.maxListSize)
	if len(batch) > 0 {
		it.nextStartAfter = batch[len(batch)-1].Key
	}
	if len(batch) < it.opts.maxListSize {
		it.state = stateLive
	}
	return batch
}

// nextLivePage issues one page against the object store, advances the
// cursor, and decides whether to trigger a prefetch cycle or declare
// exhaustion.
func (it *Iterator) nextLivePage(ctx context.Context) ([]objectstore.Object, error) {
	page, err := it.lister.List(ctx, it.bucket, it.prefix, it.nextStartAfter, it.opts.maxListSize)
	if err != nil {
		return nil, fmt.Errorf("listing iterator: %w", err)
	}

	if len(page.Objects) > 0 {
		it.nextStartAfter = page.Objects[len(page.Objects)-1].Key
	}

	if !page.Truncated {
		if len(it.cache.GetBatchFrom(it.nextStartAfter, 1)) == 0 {
			it.state = stateExhausted
		}
		return page.Objects, nil
	}

	if it.opts.useParallelListing && !it.prefetchInFlight && it.cacheReady {
		if err := it.runPrefetchCycle(ctx, page); err != nil {
			return page.Objects, err
		}
	}

	return page.Objects, nil
}

// runPrefetchCycle dispatches a PrefetchPlanner cycle over the window
// beyond the just-observed page and, on success, switches the iterator into
// the CACHE state.
func (it *Iterator) runPrefetchCycle(ctx context.Context, page objectstore.Page) error {
	first := page.Objects[0].Key
	last := page.Objects[len(page.Objects)-1].Key

	planner := prefetch.New(prefetch.Config{
		Bucket:              it.bucket,
		Prefix:              it.prefix,
		MaxListSize:         it.opts.maxListSize,
		NumWorkers:          it.opts.numWorkers,
		NumParallelRequests: it.opts.numParallelRequests,
		ShrinkFactor:        it.opts.shrinkFactor,
	}, it.lister, it.cache, it.log)

	it.prefetchInFlight = true
	err := planner.Run(ctx, first, last)
	it.prefetchInFlight = false
	if err != nil {
		return fmt.Errorf("listing iterator: prefetch cycle failed: %w", err)
	}

	it.cacheReady = false
	it.state = stateCache
	return nil
}

// Close releases the iterator. It is idempotent; an iterator in its error
// state is already effectively closed. There is no separate worker pool to
// deactivate before Close returns: each prefetch cycle's worker pool is an
// errgroup scoped to a single Run call, not a long-lived pool the iterator
// owns across calls, so there is no long-lived pool requiring explicit
// teardown ordering before the iterator itself goes away.
func (it *Iterator) Close() {
	it.closed = true
}
