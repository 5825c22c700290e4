package noaa

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/observability"
)

// Fetcher is the tide fetch surface the cache decorates.
type Fetcher interface {
	Fetch(ctx context.Context, stationID string) domain.TidePrediction
}

// CachedClient wraps a Fetcher with a per-station TTL cache. Predictions
// with no events are not cached, so an unreachable station is retried on
// the next overlay request.
type CachedClient struct {
	inner Fetcher
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]cachedPrediction

	metrics *observability.Metrics
}

type cachedPrediction struct {
	prediction domain.TidePrediction
	expiresAt  time.Time
}

// NewCachedClient creates a TTL cache decorator around a tide fetcher.
func NewCachedClient(inner Fetcher, ttl time.Duration, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		inner:   inner,
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		entries: make(map[string]cachedPrediction),
		metrics: metrics,
	}
}

// SetClock replaces the cache's time source. Call before use.
func (c *CachedClient) SetClock(clock clockwork.Clock) {
	c.clock = clock
}

func (c *CachedClient) Fetch(ctx context.Context, stationID string) domain.TidePrediction {
	c.mu.Lock()
	if e, ok := c.entries[stationID]; ok && c.clock.Now().Before(e.expiresAt) {
		c.mu.Unlock()
		c.metrics.FetchCache.WithLabelValues("tide", "hit").Inc()
		return e.prediction
	}
	c.mu.Unlock()

	c.metrics.FetchCache.WithLabelValues("tide", "miss").Inc()
	p := c.inner.Fetch(ctx, stationID)
	if len(p.Events) > 0 {
		c.mu.Lock()
		c.entries[stationID] = cachedPrediction{
			prediction: p,
			expiresAt:  c.clock.Now().Add(c.ttl),
		}
		c.mu.Unlock()
	}
	return p
}
