package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginTotal counts login attempts by outcome (ok, invalid_credentials, error).
	LoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TokenRejectedTotal counts tokens rejected by the auth gate by reason
	// (missing, malformed, signature, expired).
	TokenRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_rejected_total",
			Help: "Total number of bearer tokens rejected by reason",
		},
		[]string{"reason"},
	)

	// ReminderDigestTotal counts reminder digests produced by the scheduler.
	ReminderDigestTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_digests_total",
			Help: "Total number of holiday reminder digests produced",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginTotal, TokenRejectedTotal, ReminderDigestTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /lists/123/gifts/45 -> /lists/{id}/gifts/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncLogin increments the login counter for the given outcome.
func IncLogin(outcome string) {
	LoginTotal.WithLabelValues(outcome).Inc()
}

// IncTokenRejected increments the rejected-token counter for the given reason.
func IncTokenRejected(reason string) {
	TokenRejectedTotal.WithLabelValues(reason).Inc()
}
