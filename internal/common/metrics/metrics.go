// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_submissions_total",
			Help: "Total number of submissions handled by the relay",
		},
		[]string{"mode", "outcome"},
	)

	SubmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_submission_failures_total",
			Help: "Failed submissions by error code",
		},
		[]string{"mode", "error_code"},
	)

	DeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_deletes_total",
			Help: "Total number of candidate deletions handled by the relay",
		},
		[]string{"outcome"},
	)

	DeleteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_delete_failures_total",
			Help: "Failed candidate deletions by error code",
		},
		[]string{"error_code"},
	)

	OrphanedCandidates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_orphaned_candidates_total",
			Help: "Candidates created whose application step then failed",
		},
	)

	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_remote_calls_total",
			Help: "Outbound calls to the applicant service by step and status",
		},
		[]string{"step", "status"},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_remote_call_duration_seconds",
			Help:    "Duration of outbound calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	RequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "relay_requests_in_flight",
			Help: "Number of inbound requests currently being processed",
		},
		[]string{"route"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_rate_limited_total",
			Help: "Inbound requests rejected by the rate limiter",
		},
	)
)
