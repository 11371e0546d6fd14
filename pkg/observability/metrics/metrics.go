package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query operation labels. One per paginator operation plus the standalone
// count, matching the timings the API reports per request.
const (
	OpCount     = "count"
	OpFirstPage = "first_page"
	OpNextPage  = "next_page"
	OpPrevPage  = "prev_page"
	OpLastPage  = "last_page"
	OpSummary   = "provider_summary"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claims_query_duration_seconds",
			Help:    "Claims query engine operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_queries_total",
			Help: "Total claims query engine operations",
		},
		[]string{"operation", "outcome"},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

// RecordQuery records one engine operation with its outcome.
func RecordQuery(operation string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	queryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	queriesTotal.WithLabelValues(operation, outcome).Inc()
}
