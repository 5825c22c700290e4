package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// overlay service.
type Metrics struct {
	// Broadcast listener metrics.
	PacketsReceived  prometheus.Counter
	PacketsDiscarded prometheus.Counter
	ObservationsSeen prometheus.Counter
	ListenerRunning  prometheus.Gauge

	// Render pipeline metrics.
	RendersTotal   prometheus.Counter
	RenderDuration prometheus.Histogram
	RenderCache    *prometheus.CounterVec // labels: result={hit,miss,shared}

	// Upstream client metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: service={forecast,tide}, outcome={success,upstream_error,network_error}
	UpstreamDuration *prometheus.HistogramVec // labels: service={forecast,tide}
	FetchCache       *prometheus.CounterVec   // labels: service={forecast,tide}, result={hit,miss,stale}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PacketsReceived,
		m.PacketsDiscarded,
		m.ObservationsSeen,
		m.ListenerRunning,
		m.RendersTotal,
		m.RenderDuration,
		m.RenderCache,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.FetchCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PacketsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "packets_received_total",
			Help:      "Total UDP broadcast packets received.",
		}),
		PacketsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "packets_discarded_total",
			Help:      "Total packets dropped as malformed.",
		}),
		ObservationsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "observations_total",
			Help:      "Total station observations decoded and stored.",
		}),
		ListenerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tempest_overlay",
			Name:      "listener_running",
			Help:      "1 when the broadcast listener loop is active, 0 when shut down.",
		}),
		RendersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "renders_total",
			Help:      "Total overlay bitmaps rendered (cache misses).",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tempest_overlay",
			Name:      "render_duration_seconds",
			Help:      "Duration of layout plus rasterization for one overlay.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "render_cache_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "upstream_requests_total",
			Help:      "Forecast and tide API requests by service and outcome.",
		}, []string{"service", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tempest_overlay",
			Name:      "upstream_duration_seconds",
			Help:      "Forecast and tide API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tempest_overlay",
			Name:      "fetch_cache_total",
			Help:      "Upstream data cache lookups by service and result.",
		}, []string{"service", "result"}),
	}
}
