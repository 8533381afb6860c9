package ordercache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/datatrails/go-prefixlist-accelerator/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objs(keys ...string) []objectstore.Object {
	out := make([]objectstore.Object, len(keys))
	for i, k := range keys {
		out[i] = objectstore.Object{Key: k}
	}
	return out
}

func keysOf(batch []objectstore.Object) []string {
	keys := make([]string, len(batch))
	for i, o := range batch {
		keys[i] = o.Key
	}
	return keys
}

func TestBuildSortsAndDeduplicates(t *testing.T) {
	c := New()
	c.Insert(objs("b", "a", "c"))
	c.Insert(objs("b", "d")) // "b" contributed twice, by an overlapping worker
	c.Build()

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"a", "b", "c", "d"}, c.keys)
}

func TestGetBatchFromOrderingAndBound(t *testing.T) {
	c := New()
	c.Insert(objs("a", "b", "c", "d", "e"))
	c.Build()

	batch := c.GetBatchFrom("b", 2)
	require.Len(t, batch, 2)
	assert.Equal(t, []string{"c", "d"}, keysOf(batch))

	// Strictly greater than "e": nothing left.
	assert.Empty(t, c.GetBatchFrom("e", 10))

	// A short batch signals exhaustion past the cursor.
	tail := c.GetBatchFrom("c", 10)
	assert.Equal(t, []string{"d", "e"}, keysOf(tail))
}

func TestGetBatchFromBeforeBuildIsEmpty(t *testing.T) {
	c := New()
	c.Insert(objs("a"))
	assert.Empty(t, c.GetBatchFrom("", 10))
}

func TestClearResetsEverything(t *testing.T) {
	c := New()
	c.Insert(objs("a", "b"))
	c.Build()
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.GetBatchFrom("", 10))
}

// TestConcurrentInsert exercises the lock-free staging path from many
// goroutines at once, then checks Build recovers every contributed key
// exactly once.
func TestConcurrentInsert(t *testing.T) {
	c := New()
	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				c.Insert(objs(fmt.Sprintf("w%02d-%03d", w, i)))
			}
		}()
	}
	wg.Wait()

	c.Build()
	assert.Equal(t, workers*perWorker, c.Len())
}
