// Package metrics exposes Prometheus metrics of the planned price job, list
// price changes and HTTP requests on a dedicated registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name. Names read
// <namespace>_<subject>_<measure>, counters end in _total and durations in
// _seconds; InstrumentNames lists them.
const Namespace = "productext"

// InstrumentNames are the fully qualified names of the service collectors.
var InstrumentNames = []string{
	Namespace + "_job_runs_total",
	Namespace + "_job_run_duration_seconds",
	Namespace + "_job_products_processed_total",
	Namespace + "_job_list_prices_updated_total",
	Namespace + "_job_cursor",
	Namespace + "_list_price_changes_total",
	Namespace + "_http_requests_total",
	Namespace + "_http_request_duration_seconds",
}

// Job run outcomes used as the status label
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Metrics holds the service collectors.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	jobRuns           *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
	productsProcessed *prometheus.CounterVec
	listPricesUpdated *prometheus.CounterVec
	jobCursor         *prometheus.GaugeVec
	listPriceChanges  *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry. Go runtime and process
// collectors are registered too.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "job_runs_total",
			Help:      "Total number of background job runs by outcome.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "job_run_duration_seconds",
			Help:      "Duration of background job runs in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
		productsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "job_products_processed_total",
			Help:      "Product templates examined by background jobs.",
		}, []string{"job"}),
		listPricesUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "job_list_prices_updated_total",
			Help:      "List prices rewritten by background jobs.",
		}, []string{"job"}),
		jobCursor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "job_cursor",
			Help:      "Cursor left by the last successful run; 0 when the last batch completed.",
		}, []string{"job"}),
		listPriceChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "list_price_changes_total",
			Help:      "List price changes by source.",
		}, []string{"source"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.jobRuns,
		m.jobDuration,
		m.productsProcessed,
		m.listPricesUpdated,
		m.jobCursor,
		m.listPriceChanges,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveRun records one job run. A run refused because another one holds
// the lock counts as skipped.
func (m *Metrics) ObserveRun(job string, result *catalogapp.BatchResult, duration time.Duration, err error) {
	status := StatusSuccess
	switch {
	case errors.Is(err, shared.ErrJobRunning):
		status = StatusSkipped
	case err != nil:
		status = StatusError
	}
	m.jobRuns.WithLabelValues(job, status).Inc()
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())

	if err != nil || result == nil {
		return
	}
	m.productsProcessed.WithLabelValues(job).Add(float64(result.Processed))
	m.listPricesUpdated.WithLabelValues(job).Add(float64(result.Updated))
	m.jobCursor.WithLabelValues(job).Set(float64(result.NextCursor))
}

// RecordListPriceChange counts one list price change
func (m *Metrics) RecordListPriceChange(source string) {
	m.listPriceChanges.WithLabelValues(source).Inc()
}

// ObserveHTTPRequest records one served request. route is the gin route
// pattern so path parameters do not explode cardinality.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

var _ catalogapp.JobMetrics = (*Metrics)(nil)
