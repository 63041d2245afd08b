// README: Prometheus metrics for matching, joins, trust and HTTP traffic.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hopper"

var (
	MatchEvaluations = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "match_evaluations_total", Help: "Ride proposals evaluated for matches"})
	MatchesFound     = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "matches_found_total", Help: "Matching rides surfaced to proposers"})
	MatchLatency     = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "match_latency_seconds", Help: "Match lookup latency seconds"})

	JoinRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "join_requests_total", Help: "Join requests by result"},
		[]string{"result"},
	)
	SeatAccepts = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "seat_accepts_total", Help: "Host accept attempts by result"},
		[]string{"result"},
	)
	TrustAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "trust_adjustments_total", Help: "Trust score adjustments by reason"},
		[]string{"reason"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
