// Package metrics holds the server's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelfnote"

var (
	// Registry holds the application collectors. It is separate from the
	// global default registry so tests can read it without interference.
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by route pattern and status.",
	}, []string{"method", "route", "status"})

	httpDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	// Labels: calculator (velocity, forecast, combo, community, goals, dashboard)
	insightRuns = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "insights",
		Name:      "runs_total",
		Help:      "Insight computations served.",
	}, []string{"calculator"})

	insightDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "insights",
		Name:      "duration_seconds",
		Help:      "Time to fetch rows and compute an insight.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"calculator"})

	// Labels: endpoint (search, work), result (ok, not_found, error)
	metadataRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metadata",
		Name:      "requests_total",
		Help:      "Upstream metadata requests, by endpoint and result.",
	}, []string{"endpoint", "result"})

	metadataRetries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metadata",
		Name:      "retries_total",
		Help:      "Upstream metadata requests retried after a transient failure.",
	})

	// Labels: result (hit, miss)
	cacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metadata_cache",
		Name:      "lookups_total",
		Help:      "Metadata cache lookups, by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// Middleware records request counts and latency by chi route pattern, so
// IDs in paths do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveInsight records one insight computation.
func ObserveInsight(calculator string, d time.Duration) {
	insightRuns.WithLabelValues(calculator).Inc()
	insightDuration.WithLabelValues(calculator).Observe(d.Seconds())
}

// MetadataRequest records the outcome of one upstream call.
func MetadataRequest(endpoint, result string) {
	metadataRequests.WithLabelValues(endpoint, result).Inc()
}

// MetadataRetry records a retried upstream call.
func MetadataRetry() {
	metadataRetries.Inc()
}

// CacheLookup records a metadata cache hit or miss.
func CacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
