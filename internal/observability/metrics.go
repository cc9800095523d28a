// Package observability holds the Prometheus collectors shared by the HTTP
// layer and the import pipeline.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nayna"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ImportRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "import_records_total", Help: "Rows seen by imports."},
		[]string{"kind", "outcome"}, // outcome: accepted|skipped
	)
	ImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "imports_total", Help: "Import uploads by result."},
		[]string{"kind", "status"},
	)
	ImportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "import_duration_seconds",
			Help:    "Import duration seconds, parse and persist.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "upload_rate_limited_total", Help: "Uploads rejected by the rate limiter."},
	)
)

// InitRegistry registers every collector on a fresh registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ImportRecords, ImportsTotal, ImportDuration, RateLimited)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveImport records the outcome of one upload.
func ObserveImport(kind, status string, accepted, skipped int, dur time.Duration) {
	ImportsTotal.WithLabelValues(kind, status).Inc()
	ImportRecords.WithLabelValues(kind, "accepted").Add(float64(accepted))
	ImportRecords.WithLabelValues(kind, "skipped").Add(float64(skipped))
	ImportDuration.WithLabelValues(kind).Observe(dur.Seconds())
}

func ObserveRateLimited() { RateLimited.Inc() }
