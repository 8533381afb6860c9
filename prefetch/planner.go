// Package prefetch computes speculative sub-range windows from an observed
// page boundary and dispatches a bounded pool of subrange.Workers to fill
// the shared cache in parallel: errgroup.WithContext for fail-fast
// cancellation, SetLimit to bound concurrency independent of how many
// sub-ranges a cycle schedules.
package prefetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"golang.org/x/sync/errgroup"

	"github.com/datatrails/go-prefixlist-accelerator/keynumber"
	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
	"github.com/datatrails/go-prefixlist-accelerator/ordercache"
	"github.com/datatrails/go-prefixlist-accelerator/subrange"
)

// Config parameterises a prefetch cycle.
type Config struct {
	Bucket      string
	Prefix      string
	MaxListSize int

	// NumWorkers bounds how many sub-range workers run at once.
	NumWorkers int
	// NumParallelRequests is how many sub-ranges a single cycle schedules;
	// it may exceed NumWorkers, in which case excess windows queue.
	NumParallelRequests int
	// ShrinkFactor (alpha) biases windows narrower than the observed
	// density implies, trading a higher chance of inter-window gaps
	// (patched by live paging) for a lower chance of deep, wasted overlap.
	ShrinkFactor float64
}

// Planner runs prefetch cycles against a shared lister and cache.
type Planner struct {
	cfg    Config
	lister objectstore.Lister
	cache  *ordercache.Cache
	log    logger.Logger
}

// New builds a Planner.
func New(cfg Config, lister objectstore.Lister, cache *ordercache.Cache, log logger.Logger) *Planner {
	return &Planner{cfg: cfg, lister: lister, cache: cache, log: log}
}

// Run computes NumParallelRequests contiguous windows beyond the last key of
// the observed page, dispatches a subrange.Worker per window on a pool
// bounded to NumWorkers, waits for all of them, and builds the cache. If any
// worker fails, the first captured error is returned after every worker has
// finished, and the cache is left cleared for the caller to retry.
func (p *Planner) Run(ctx context.Context, firstPageFirstKey, firstPageLastKey string) error {
	p.cache.Clear()

	firstRelative := strings.TrimPrefix(firstPageFirstKey, p.cfg.Prefix)
	lastRelative := strings.TrimPrefix(firstPageLastKey, p.cfg.Prefix)

	first, err := keynumber.FromKey(firstRelative)
	if err != nil {
		return fmt.Errorf("prefetch planner: %w", err)
	}
	last, err := keynumber.FromKey(lastRelative)
	if err != nil {
		return fmt.Errorf("prefetch planner: %w", err)
	}

	observed, err := last.Sub(first)
	if err != nil {
		return fmt.Errorf("prefetch planner: observed page boundaries out of order: %w", err)
	}
	windowWidth := observed.MulFloat(p.cfg.ShrinkFactor)

	// +1 guarantees the first worker's probe key is strictly past the last
	// key already emitted, so its probe can't re-fetch a page directly
	// adjacent to live progress.
	cursor := last.Add(keynumber.FromInt(1))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.NumWorkers)

	workerCfg := subrange.Config{
		Bucket:      p.cfg.Bucket,
		Prefix:      p.cfg.Prefix,
		MaxListSize: p.cfg.MaxListSize,
	}

	for i := 0; i < p.cfg.NumParallelRequests; i++ {
		start := cursor.Add(windowWidth.MulScalar(int64(i)))
		end := start.Add(windowWidth)

		w := subrange.New(workerCfg, p.lister, p.cache, p.log)
		g.Go(func() error {
			return w.Run(gctx, start, end)
		})
	}

	if err := g.Wait(); err != nil {
		p.cache.Clear()
		return fmt.Errorf("prefetch planner: %w", err)
	}

	p.cache.Build()
	if p.log != nil {
		p.log.Debugf("prefetch planner: cycle built cache with %d objects", p.cache.Len())
	}
	return nil
}
