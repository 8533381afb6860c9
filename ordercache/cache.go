// Package ordercache implements the client-side staging and sorted index
// that the prefetch workers feed and the sequential iterator drains: many
// producers contribute unordered observations, a single consumer turns them
// into a deterministic, duplicate-free view.
package ordercache

import (
	"sort"
	"sync/atomic"

	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
)

// node is one link in the lock-free MPSC staging stack. Each insert call
// pushes one node holding the whole batch it was given, so a worker
// delivering a full page only performs a single CAS.
type node struct {
	next    *node
	objects []objectstore.Object
}

// Cache collects objects contributed concurrently by sub-range workers and,
// once Build is called, exposes them as a sorted, de-duplicated index.
// Insert may be called from any number of goroutines; Build, GetBatchFrom
// and Clear are only ever called from the foreground iterator goroutine and
// need no locking against each other.
type Cache struct {
	head atomic.Pointer[node]

	keys  []string
	byKey map[string]objectstore.Object
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Insert stages objects for the next Build. Safe for concurrent use by any
// number of worker goroutines; contributes no visible state until Build
// runs.
func (c *Cache) Insert(objects []objectstore.Object) {
	if len(objects) == 0 {
		return
	}
	n := &node{objects: objects}
	for {
		head := c.head.Load()
		n.next = head
		if c.head.CompareAndSwap(head, n) {
			return
		}
	}
}

// Build drains the staging stack into a sorted, de-duplicated index. It must
// be called between an insertion burst and a drain burst, never
// concurrently with Insert from the perspective of correctness of the
// resulting view (Insert arriving after Build simply stages for the *next*
// Build).
func (c *Cache) Build() {
	byKey := make(map[string]objectstore.Object)

	for n := c.head.Swap(nil); n != nil; n = n.next {
		for _, obj := range n.objects {
			// Overlapping workers can contribute the same key; content is
			// identical within a listing epoch so keeping either copy is
			// fine.
			byKey[obj.Key] = obj
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.keys = keys
	c.byKey = byKey
}

// GetBatchFrom returns up to n objects in ascending key order with key
// strictly greater than after. A result shorter than n means the cache is
// exhausted past after.
func (c *Cache) GetBatchFrom(after string, n int) []objectstore.Object {
	if n <= 0 || len(c.keys) == 0 {
		return nil
	}

	start := sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i] > after
	})
	if start >= len(c.keys) {
		return nil
	}

	end := start + n
	if end > len(c.keys) {
		end = len(c.keys)
	}

	batch := make([]objectstore.Object, 0, end-start)
	for _, k := range c.keys[start:end] {
		batch = append(batch, c.byKey[k])
	}
	return batch
}

// Len reports how many objects are available in the built index.
func (c *Cache) Len() int {
	return len(c.keys)
}

// Clear resets all state: staged, built, and future Insert calls start a
// fresh epoch.
func (c *Cache) Clear() {
	c.head.Store(nil)
	c.keys = nil
	c.byKey = nil
}
