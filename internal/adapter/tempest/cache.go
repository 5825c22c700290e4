package tempest

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/observability"
)

// Fetcher is the forecast fetch surface the cache decorates.
type Fetcher interface {
	Fetch(ctx context.Context, units domain.Units) domain.ForecastBundle
}

// CachedClient wraps a Fetcher with a per-unit-system TTL cache. Error
// bundles are never cached, so a failed fetch is retried on the next call.
type CachedClient struct {
	inner Fetcher
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[domain.Units]cachedBundle

	metrics *observability.Metrics
}

type cachedBundle struct {
	bundle    domain.ForecastBundle
	expiresAt time.Time
}

// NewCachedClient creates a TTL cache decorator around a forecast fetcher.
func NewCachedClient(inner Fetcher, ttl time.Duration, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		inner:   inner,
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		entries: make(map[domain.Units]cachedBundle),
		metrics: metrics,
	}
}

// SetClock replaces the cache's time source. Call before use.
func (c *CachedClient) SetClock(clock clockwork.Clock) {
	c.clock = clock
}

func (c *CachedClient) Fetch(ctx context.Context, units domain.Units) domain.ForecastBundle {
	c.mu.Lock()
	if e, ok := c.entries[units]; ok && c.clock.Now().Before(e.expiresAt) {
		c.mu.Unlock()
		c.metrics.FetchCache.WithLabelValues("forecast", "hit").Inc()
		return e.bundle
	}
	c.mu.Unlock()

	c.metrics.FetchCache.WithLabelValues("forecast", "miss").Inc()
	bundle := c.inner.Fetch(ctx, units)
	if bundle.OK() {
		c.mu.Lock()
		c.entries[units] = cachedBundle{
			bundle:    bundle,
			expiresAt: c.clock.Now().Add(c.ttl),
		}
		c.mu.Unlock()
	}
	return bundle
}
