// Package metrics implements driven.Metrics with Prometheus collectors.
//
// The HTTP server exposes them on /metrics:
//
//	# TYPE archivo_search_duration_seconds histogram
//	archivo_search_duration_seconds_bucket{le="0.01"} 118
//	# TYPE archivo_ai_calls_total counter
//	archivo_ai_calls_total{capability="embed",outcome="cached"} 42
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Namespace prefixes every metric name.
const Namespace = "archivo"

// Ensure Collector implements the interface.
var _ driven.Metrics = (*Collector)(nil)

// Collector records search, chat and AI provider events.
type Collector struct {
	registry *prometheus.Registry

	searches       prometheus.Counter
	searchResults  prometheus.Histogram
	searchDuration prometheus.Histogram
	turns          *prometheus.CounterVec
	turnDuration   *prometheus.HistogramVec
	aiCalls        *prometheus.CounterVec
	aiDuration     *prometheus.HistogramVec
	sessions       prometheus.Gauge
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	registry        *prometheus.Registry
	durationBuckets []float64
	runtime         bool
}

// WithRegistry registers the collectors on an existing registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithDurationBuckets sets the buckets for every duration histogram.
func WithDurationBuckets(buckets []float64) Option {
	return func(o *options) {
		o.durationBuckets = buckets
	}
}

// WithoutRuntimeMetrics leaves out the Go runtime and process collectors.
func WithoutRuntimeMetrics() Option {
	return func(o *options) {
		o.runtime = false
	}
}

// New creates a collector on a fresh registry that also carries the Go
// runtime and process collectors.
func New(opts ...Option) *Collector {
	o := options{
		durationBuckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		runtime:         true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: o.registry,
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "searches_total",
			Help:      "Ranking runs.",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Documents returned per ranking run.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 10, 20},
		}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Ranking run latency.",
			Buckets:   o.durationBuckets,
		}),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns by reply kind.",
		}, []string{"kind"}),
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "chat_turn_duration_seconds",
			Help:      "Chat turn latency by reply kind.",
			Buckets:   o.durationBuckets,
		}, []string{"kind"}),
		aiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ai_calls_total",
			Help:      "AI provider calls by capability and outcome.",
		}, []string{"capability", "outcome"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "ai_call_duration_seconds",
			Help:      "AI provider call latency by capability.",
			Buckets:   o.durationBuckets,
		}, []string{"capability"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sessions",
			Help:      "Live chat sessions.",
		}),
	}

	c.registry.MustRegister(
		c.searches, c.searchResults, c.searchDuration,
		c.turns, c.turnDuration,
		c.aiCalls, c.aiDuration,
		c.sessions,
	)
	if o.runtime {
		c.registry.MustRegister(collectors.NewGoCollector())
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return c
}

// ObserveSearch records one ranking run.
func (c *Collector) ObserveSearch(results int, elapsed time.Duration) {
	c.searches.Inc()
	c.searchResults.Observe(float64(results))
	c.searchDuration.Observe(elapsed.Seconds())
}

// ObserveTurn records one chat turn.
func (c *Collector) ObserveTurn(kind string, elapsed time.Duration) {
	c.turns.WithLabelValues(kind).Inc()
	c.turnDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveAICall records one AI provider call. Cache hits are counted but
// left out of the latency histogram.
func (c *Collector) ObserveAICall(capability, outcome string, elapsed time.Duration) {
	c.aiCalls.WithLabelValues(capability, outcome).Inc()
	if outcome != "cached" {
		c.aiDuration.WithLabelValues(capability).Observe(elapsed.Seconds())
	}
}

// SetSessions records the number of live sessions.
func (c *Collector) SetSessions(n int) {
	c.sessions.Set(float64(n))
}

// Handler returns an HTTP handler for Prometheus scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
