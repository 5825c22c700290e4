package overlay

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nickdnj/TempestWeather/internal/observability"
)

// Cache memoizes rendered bitmaps by request fingerprint. A singleflight
// group guarantees at most one render in flight per fingerprint; concurrent
// requesters for the same key share the first render's bytes.
type Cache struct {
	group   singleflight.Group
	lru     *lruCache
	metrics *observability.Metrics
}

// NewCache creates a render cache bounded to maxEntries bitmaps.
func NewCache(maxEntries int, metrics *observability.Metrics) *Cache {
	return &Cache{
		lru:     newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// GetOrRender returns the cached bitmap for the fingerprint, invoking
// render only when no entry exists. The render result is inserted before
// any waiting requester observes it, so a fingerprint never maps to two
// different bitmaps.
func (c *Cache) GetOrRender(fingerprint string, render func() ([]byte, error)) ([]byte, error) {
	if img, ok := c.lru.get(fingerprint); ok {
		c.metrics.RenderCache.WithLabelValues("hit").Inc()
		return img, nil
	}

	img, err, shared := c.group.Do(fingerprint, func() (interface{}, error) {
		// Re-check under the flight: another caller may have completed the
		// render between our lookup and joining the group.
		if img, ok := c.lru.get(fingerprint); ok {
			return img, nil
		}
		img, err := render()
		if err != nil {
			return nil, err
		}
		c.lru.put(fingerprint, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.metrics.RenderCache.WithLabelValues("shared").Inc()
	} else {
		c.metrics.RenderCache.WithLabelValues("miss").Inc()
	}
	return img.([]byte), nil
}

// lruCache is a thread-safe LRU over encoded bitmap payloads.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
