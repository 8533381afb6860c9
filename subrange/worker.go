// Package subrange implements the speculative sub-range listing protocol:
// given a [start, end) window in key-number space, page through the
// endpoint depositing objects into the shared cache until the window is
// exhausted, truncation ends, or the worker crosses into the next worker's
// territory.
package subrange

import (
	"context"
	"fmt"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/datatrails/go-prefixlist-accelerator/keynumber"
	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
	"github.com/datatrails/go-prefixlist-accelerator/ordercache"
)

// probePageSize is the page size used for the first listing of a window: a
// cheap single-key probe to confirm whether the window holds anything
// before paying for a full page, which matters most when neighbouring
// windows overlap.
const probePageSize = 1

// Config parameterises a Worker's target store and paging behaviour.
type Config struct {
	Bucket      string
	Prefix      string
	MaxListSize int
}

// Worker lists a single speculative sub-range into a shared cache.
type Worker struct {
	cfg    Config
	lister objectstore.Lister
	cache  *ordercache.Cache
	log    logger.Logger
}

// New builds a Worker against the given lister and destination cache.
func New(cfg Config, lister objectstore.Lister, cache *ordercache.Cache, log logger.Logger) *Worker {
	return &Worker{cfg: cfg, lister: lister, cache: cache, log: log}
}

// Run pages the endpoint across [start, end) relative to cfg.Prefix,
// inserting every returned object into the cache, until one of the
// termination conditions in the package doc is met. A non-success response
// from the endpoint aborts the worker and is returned with bucket/prefix
// context attached.
func (w *Worker) Run(ctx context.Context, start, end keynumber.Number) error {
	startAfter := w.cfg.Prefix + start.Key()
	maxKeys := probePageSize

	for {
		page, err := w.lister.List(ctx, w.cfg.Bucket, w.cfg.Prefix, startAfter, maxKeys)
		if err != nil {
			return fmt.Errorf("subrange worker for prefix %q bucket %q: %w", w.cfg.Prefix, w.cfg.Bucket, err)
		}

		w.cache.Insert(page.Objects)

		if len(page.Objects) == 0 {
			if w.log != nil {
				w.log.Debugf("subrange: empty page at start_after=%q, terminating", startAfter)
			}
			return nil
		}

		if !page.Truncated {
			if w.log != nil {
				w.log.Debugf("subrange: store exhausted at start_after=%q, terminating", startAfter)
			}
			return nil
		}

		last := page.Objects[len(page.Objects)-1].Key
		relative := strings.TrimPrefix(last, w.cfg.Prefix)
		lastNumber, err := keynumber.FromKey(relative)
		if err != nil {
			return fmt.Errorf("subrange worker for prefix %q: %w", w.cfg.Prefix, err)
		}

		if end.LessEq(lastNumber) {
			if w.log != nil {
				w.log.Debugf("subrange: crossed into neighbouring window at %q, terminating", last)
			}
			return nil
		}

		startAfter = last
		maxKeys = w.cfg.MaxListSize
	}
}
