package overlay

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickdnj/TempestWeather/internal/observability"
)

func newTestCache(maxEntries int) *Cache {
	return NewCache(maxEntries, observability.NewMetricsForTesting())
}

func TestCache_RendersOncePerFingerprint(t *testing.T) {
	cache := newTestCache(16)
	var calls atomic.Int64

	render := func() ([]byte, error) {
		calls.Add(1)
		return []byte("image"), nil
	}

	img1, err := cache.GetOrRender("fp", render)
	require.NoError(t, err)
	img2, err := cache.GetOrRender("fp", render)
	require.NoError(t, err)

	assert.Equal(t, img1, img2)
	assert.Equal(t, int64(1), calls.Load())
}

func TestCache_ConcurrentRequestsShareOneRender(t *testing.T) {
	cache := newTestCache(16)
	var calls atomic.Int64

	start := make(chan struct{})
	render := func() ([]byte, error) {
		calls.Add(1)
		return []byte("image"), nil
	}

	const workers = 32
	results := make([][]byte, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			img, err := cache.GetOrRender("fp", render)
			assert.NoError(t, err)
			results[i] = img
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "all concurrent callers share one render")
	for _, img := range results {
		assert.Equal(t, []byte("image"), img)
	}
}

func TestCache_DistinctFingerprints(t *testing.T) {
	cache := newTestCache(16)
	var calls atomic.Int64

	render := func() ([]byte, error) {
		calls.Add(1)
		return []byte("image"), nil
	}

	_, _ = cache.GetOrRender("a", render)
	_, _ = cache.GetOrRender("b", render)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newTestCache(2)
	counts := map[string]int{}
	renderFor := func(key string) func() ([]byte, error) {
		return func() ([]byte, error) {
			counts[key]++
			return []byte(key), nil
		}
	}

	_, _ = cache.GetOrRender("a", renderFor("a"))
	_, _ = cache.GetOrRender("b", renderFor("b"))
	// Touch "a" so "b" is the eviction candidate.
	_, _ = cache.GetOrRender("a", renderFor("a"))
	_, _ = cache.GetOrRender("c", renderFor("c"))

	assert.Equal(t, 2, cache.lru.len())

	_, _ = cache.GetOrRender("a", renderFor("a"))
	assert.Equal(t, 1, counts["a"], "a survived eviction")
	_, _ = cache.GetOrRender("b", renderFor("b"))
	assert.Equal(t, 2, counts["b"], "b was evicted and re-rendered")
}

func TestCache_RenderErrorsAreNotCached(t *testing.T) {
	cache := newTestCache(16)
	calls := 0

	failing := func() ([]byte, error) {
		calls++
		return nil, errors.New("encode failed")
	}

	_, err := cache.GetOrRender("fp", failing)
	require.Error(t, err)

	img, err := cache.GetOrRender("fp", func() ([]byte, error) {
		calls++
		return []byte("image"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), img)
	assert.Equal(t, 2, calls)
}
