package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds, labelled by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Document store operation latency in seconds.
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		},
		[]string{"op", "driver"},
	)

	UserRegistrationCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "user_registration_count",
			Help: "Total number of registered users",
		},
	)

	LoginAttemptCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempt_count",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"}, // outcome: success, failure
	)

	PostMutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_mutation_count",
			Help: "Total number of post mutations",
		},
		[]string{"action"}, // action: create, replace, patch, delete
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordStoreOpDuration(op, driver string, duration time.Duration) {
	StoreOpDuration.WithLabelValues(op, driver).Observe(duration.Seconds())
}

func IncrementUserRegistration() {
	UserRegistrationCount.Inc()
}

func IncrementLoginAttempt(outcome string) {
	LoginAttemptCount.WithLabelValues(outcome).Inc()
}

func IncrementPostMutation(action string) {
	PostMutationCount.WithLabelValues(action).Inc()
}
