// Package metrics provides Prometheus metrics collection for the loan request service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// SubmissionBatchesTotal counts dispatched batches by result (success, failed).
	SubmissionBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_submission_batches_total",
			Help: "Total number of loan request batches dispatched",
		},
		[]string{"result", "attempt"},
	)

	// SubmissionItemsTotal counts individual loan POSTs by result (accepted, rejected).
	SubmissionItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_submission_items_total",
			Help: "Total number of loan request items posted upstream",
		},
		[]string{"result"},
	)

	// SubmissionBatchDuration tracks the wall time of a whole batch.
	SubmissionBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_submission_batch_duration_seconds",
			Help:    "Loan request batch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// SubmissionRejectionsTotal counts submissions stopped before any network call.
	SubmissionRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_submission_rejections_total",
			Help: "Total number of submissions rejected by validation",
		},
		[]string{"field"},
	)

	// CatalogProducts tracks the number of products in the cached inventory.
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_catalog_products",
			Help: "Number of products in the cached inventory",
		},
	)

	// CatalogLoadsTotal counts inventory loads by result.
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_catalog_loads_total",
			Help: "Total number of inventory loads",
		},
		[]string{"result"},
	)

	// UpstreamRequestDuration tracks calls to the inventory/loan API.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status_code"},
	)

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// SessionStoreOperationsTotal tracks session store operations.
	SessionStoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"operation", "result"},
	)

	// RecoveredPanicsTotal counts handler panics turned into 500s, by route.
	RecoveredPanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_recovered_panics_total",
			Help: "Total number of handler panics recovered",
		},
		[]string{"path"},
	)

	// ActiveSessions tracks sessions held by the in-memory store.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "composer_sessions_active",
			Help: "Number of composer sessions currently held in memory",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordSubmissionBatch records a finished batch and its items.
func RecordSubmissionBatch(duration time.Duration, accepted, rejected int, retry bool) {
	result := "success"
	if rejected > 0 {
		result = "failed"
	}
	attempt := "first"
	if retry {
		attempt = "retry"
	}
	SubmissionBatchDuration.Observe(duration.Seconds())
	SubmissionBatchesTotal.WithLabelValues(result, attempt).Inc()
	SubmissionItemsTotal.WithLabelValues("accepted").Add(float64(accepted))
	SubmissionItemsTotal.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordSubmissionRejection records a submission stopped by the validator.
func RecordSubmissionRejection(field string) {
	SubmissionRejectionsTotal.WithLabelValues(field).Inc()
}

// RecordCatalogLoad records an inventory load attempt and the resulting size.
func RecordCatalogLoad(size int, err error) {
	if err != nil {
		CatalogLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogLoadsTotal.WithLabelValues("success").Inc()
	CatalogProducts.Set(float64(size))
}

// RecordUpstreamRequest records one call to the inventory/loan API.
// A zero status code means the request never got a response.
func RecordUpstreamRequest(operation string, status int, duration time.Duration) {
	UpstreamRequestDuration.WithLabelValues(operation, strconv.Itoa(status)).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes a breaker state transition.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordSessionOperation records metrics for a session store operation.
func RecordSessionOperation(operation, result string) {
	SessionStoreOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateActiveSessions sets the in-memory session gauge.
func UpdateActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

// RecordRecoveredPanic counts a recovered handler panic.
func RecordRecoveredPanic(path string) {
	RecoveredPanicsTotal.WithLabelValues(path).Inc()
}
