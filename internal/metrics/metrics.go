// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Resolution metrics
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fireportal_resolutions_total",
			Help: "Domain resolutions by strategy and result",
		},
		[]string{"strategy", "result"},
	)

	DoTFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fireportal_dot_fallbacks_total",
			Help: "DNS-over-TLS lookups answered by the DoH fallback",
		},
	)

	// Cache metrics
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fireportal_cache_lookups_total",
			Help: "Cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	CacheInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fireportal_cache_invalidations_total",
			Help: "Entries removed by explicit refresh requests",
		},
		[]string{"cache"},
	)

	// Upstream metrics
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fireportal_upstream_duration_seconds",
			Help:    "Upstream call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	GatewayFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fireportal_gateway_fetches_total",
			Help: "Content fetches by namespace, source and result",
		},
		[]string{"namespace", "source", "result"},
	)

	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fireportal_http_requests_total",
			Help: "HTTP requests by routing mode and status",
		},
		[]string{"mode", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fireportal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(DoTFallbacksTotal)
	prometheus.MustRegister(CacheLookupsTotal)
	prometheus.MustRegister(CacheInvalidationsTotal)
	prometheus.MustRegister(UpstreamDuration)
	prometheus.MustRegister(GatewayFetchesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the time elapsed since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed seconds in o.
func (t *Timer) ObserveDuration(o prometheus.Observer) {
	o.Observe(t.Duration().Seconds())
}

// CacheResult returns the label value for a cache lookup outcome.
func CacheResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
