// metrics/metrics.go - Prometheus collectors
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamhub_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teamhub_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ReviewsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamhub_reviews_saved_total",
		Help: "Reviews persisted through the review service.",
	})

	ReviewsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamhub_reviews_rejected_total",
		Help: "Review writes rejected before persisting, by reason.",
	}, []string{"reason"})

	MembershipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamhub_membership_changes_total",
		Help: "Project membership transitions.",
	}, []string{"change"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamhub_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)

// Reasons for ReviewsRejected.
const (
	ReasonInvalidRating = "invalid_rating"
	ReasonValidation    = "validation"
	ReasonInconsistent  = "inconsistent_association"
)

// Labels for MembershipChanges.
const (
	ChangeJoined   = "joined"
	ChangeRejoined = "rejoined"
	ChangeLeft     = "left"
)
