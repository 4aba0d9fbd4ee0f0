package prometheus

import (
	"time"

	"quote-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Quote metrics
	QuoteComputationsCounter prometheus.CounterVec
	QuoteComputationDuration prometheus.HistogramVec

	// Pricing guard metrics
	RateCoercionsCounter prometheus.CounterVec

	// Catalog metrics
	CatalogReloadsCounter  prometheus.CounterVec
	CatalogFallbackCounter prometheus.Counter

	// Lead metrics
	LeadSubmissionsCounter prometheus.CounterVec
	LeadDeliveryCounter    prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	initialized bool
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Quote metrics
	QuoteComputationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_quote_computations_total",
			Help: "Total number of quote computations",
		},
		[]string{"archetype"},
	)

	QuoteComputationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_quote_computation_duration_seconds",
			Help:    "Duration of quote computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"archetype"},
	)

	// Pricing guard metrics
	RateCoercionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_rate_coercions_total",
			Help: "Total number of missing or invalid rates coerced to zero",
		},
		[]string{"product_id", "table"},
	)

	// Catalog metrics
	CatalogReloadsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_reloads_total",
			Help: "Total number of catalog reloads",
		},
		[]string{"source"},
	)

	CatalogFallbackCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_fallback_total",
			Help: "Total number of loads served from the embedded catalog",
		},
	)

	// Lead metrics
	LeadSubmissionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_lead_submissions_total",
			Help: "Total number of lead submissions",
		},
		[]string{"status"},
	)

	LeadDeliveryCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_lead_deliveries_total",
			Help: "Total number of lead delivery attempts by channel",
		},
		[]string{"channel", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	initialized = true
}

// RecordHTTPRequest records one served request with its duration
func RecordHTTPRequest(method, path, status string, duration float64) {
	if !initialized {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
}

// RecordAuthAttempt increments the counter for authentication attempts
func RecordAuthAttempt() {
	if !initialized {
		return
	}
	AuthAttemptsCounter.Inc()
}

// RecordAuthSuccess increments the counter for successful authentications
func RecordAuthSuccess() {
	if !initialized {
		return
	}
	AuthSuccessCounter.Inc()
}

// RecordAuthError increments the counter for authentication failures
func RecordAuthError() {
	if !initialized {
		return
	}
	AuthErrorsCounter.Inc()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if !initialized {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordQuoteComputation increments the counter for quote computations
func RecordQuoteComputation(archetype string, startTime time.Time) {
	if !initialized {
		return
	}
	QuoteComputationsCounter.WithLabelValues(archetype).Inc()
	QuoteComputationDuration.WithLabelValues(archetype).Observe(time.Since(startTime).Seconds())
}

// RecordRateCoercion increments the counter for rate guard coercions
func RecordRateCoercion(productID, table string) {
	if !initialized {
		return
	}
	RateCoercionsCounter.WithLabelValues(productID, table).Inc()
}

// RecordCatalogReload increments the counter for catalog reloads
func RecordCatalogReload(source string) {
	if !initialized {
		return
	}
	CatalogReloadsCounter.WithLabelValues(source).Inc()
}

// RecordCatalogFallback increments the counter for embedded catalog loads
func RecordCatalogFallback() {
	if !initialized {
		return
	}
	CatalogFallbackCounter.Inc()
}

// RecordLeadSubmission increments the counter for lead submissions
func RecordLeadSubmission(status string) {
	if !initialized {
		return
	}
	LeadSubmissionsCounter.WithLabelValues(status).Inc()
}

// RecordLeadDelivery increments the counter for lead delivery attempts
func RecordLeadDelivery(channel, status string) {
	if !initialized {
		return
	}
	LeadDeliveryCounter.WithLabelValues(channel, status).Inc()
}
