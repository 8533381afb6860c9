package prefetch

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
	"github.com/datatrails/go-prefixlist-accelerator/ordercache"
)

// memStore is an in-memory object store fake: a sorted key set under a
// fixed prefix, served page by page the way a real ListObjectsV2-style
// endpoint would. Safe for concurrent List calls, as the real client
// contract requires.
type memStore struct {
	mu   sync.Mutex
	keys []string // sorted, full keys (prefix included)
}

func newMemStore(keys []string) *memStore {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return &memStore{keys: sorted}
}

func (m *memStore) List(ctx context.Context, bucket, prefix, startAfter string, maxKeys int) (objectstore.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := sort.Search(len(m.keys), func(i int) bool {
		return m.keys[i] > startAfter
	})

	var page objectstore.Page
	end := start + maxKeys
	if end > len(m.keys) {
		end = len(m.keys)
	}
	for _, k := range m.keys[start:end] {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		page.Objects = append(page.Objects, objectstore.Object{Key: k})
	}
	page.Truncated = end < len(m.keys)
	return page, nil
}

func denseKeys(prefix string, n int, width int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = prefixPad(prefix, i, width)
	}
	return keys
}

func prefixPad(prefix string, i, width int) string {
	digits := "0123456789"
	s := make([]byte, width)
	for p := width - 1; p >= 0; p-- {
		s[p] = digits[i%10]
		i /= 10
	}
	return prefix + string(s)
}

func TestPlannerFillsCacheFromDenseRange(t *testing.T) {
	keys := append(denseKeys("p/a", 1000, 3), denseKeys("p/b", 1000, 3)...)
	store := newMemStore(keys)
	cache := ordercache.New()

	cfg := Config{
		Bucket:              "bucket",
		Prefix:              "p/",
		MaxListSize:         1000,
		NumWorkers:          4,
		NumParallelRequests: 1,
		ShrinkFactor:        0.9,
	}
	planner := New(cfg, store, cache, nil)

	err := planner.Run(context.Background(), "p/a000", "p/a999")
	require.NoError(t, err)

	// The window starts strictly after a999 and is narrower than the full
	// b-range (shrink factor < 1), so the cache should hold a prefix of the
	// b-keys without necessarily reaching b999.
	assert.Greater(t, cache.Len(), 0)
	batch := cache.GetBatchFrom("p/a999", cache.Len())
	for _, o := range batch {
		assert.True(t, strings.HasPrefix(o.Key, "p/b"))
	}
}

func TestPlannerPropagatesFirstWorkerError(t *testing.T) {
	store := &failingStore{err: errors.New("AccessDenied")}
	cache := ordercache.New()

	cfg := Config{
		Bucket:              "bucket",
		Prefix:              "p/",
		MaxListSize:         1000,
		NumWorkers:          4,
		NumParallelRequests: 4,
		ShrinkFactor:        0.9,
	}
	planner := New(cfg, store, cache, nil)

	err := planner.Run(context.Background(), "p/a000", "p/a999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.Equal(t, 0, cache.Len())
}

type failingStore struct {
	err error
}

func (f *failingStore) List(ctx context.Context, bucket, prefix, startAfter string, maxKeys int) (objectstore.Page, error) {
	return objectstore.Page{}, f.err
}
