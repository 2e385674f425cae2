// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the progress ledger on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registered collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	ledgerWrites    *prometheus.CounterVec
	conflictRetries prometheus.Counter
}

// New registers the core collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	ledgerWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "progress_ledger_writes_total",
		Help: "Progress ledger writes by operation and outcome",
	}, []string{"op", "outcome"})

	conflictRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_ledger_conflict_retries_total",
		Help: "Progress upserts retried after a concurrent insert of the same key",
	})

	registry.MustRegister(
		requestDuration, requestTotal, ledgerWrites, conflictRetries,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		ledgerWrites:    ledgerWrites,
		conflictRetries: conflictRetries,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware observes method, route pattern and status for every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveHTTPRequest(r.Method, path, status, time.Since(start))
	})
}

// ObserveHTTPRequest records one request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveLedgerWrite counts one ledger write ("upsert", "toggle",
// "delete_by_task") with outcome "ok" or "error".
func (m *Metrics) ObserveLedgerWrite(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ledgerWrites.WithLabelValues(op, outcome).Inc()
}

// ObserveConflictRetry counts one retried upsert.
func (m *Metrics) ObserveConflictRetry() {
	if m == nil {
		return
	}
	m.conflictRetries.Inc()
}

// RegisterGaugeFunc adds a gauge evaluated on every scrape.
func (m *Metrics) RegisterGaugeFunc(name, help string, fn func() float64) error {
	if m == nil {
		return nil
	}
	return m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
