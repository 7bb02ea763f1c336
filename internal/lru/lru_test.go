package lru

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2, time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)

	// touch a so b becomes the eviction candidate
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestCacheExpiresEntries(t *testing.T) {
	c := New[string, int](4, 20*time.Millisecond)
	c.Put("k", 7)
	time.Sleep(60 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheStatsAndCompute(t *testing.T) {
	c := New[string, int](4, 0)
	calls := 0
	compute := func(k string) int {
		calls++
		return len(k)
	}
	assert.Equal(t, 3, c.GetOrCompute("abc", compute))
	assert.Equal(t, 3, c.GetOrCompute("abc", compute))
	assert.Equal(t, 1, calls)

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, 4, st.Cap)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(0), c.Stats().Hits)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int, int](64, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				c.GetOrCompute((i+g)%100, func(k int) int { return k * 2 })
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}

func TestStatsString(t *testing.T) {
	assert.Equal(t, "0/4 entries, 0 hits, 0 misses (0%)", Stats{Cap: 4}.String())
	assert.Equal(t, "2/4 entries, 3 hits, 1 misses (75%)", Stats{Size: 2, Cap: 4, Hits: 3, Misses: 1}.String())
}
