// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "unma"

var (
	matchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_requests_total",
		Help:      "Match requests by domain and outcome.",
	}, []string{"domain", "outcome"})

	matchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_duration_seconds",
		Help:      "Time spent serving a match request, repository fetch included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"domain"})

	candidatesEvaluated = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_candidates_evaluated",
		Help:      "Size of the candidate set fetched per match request.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"domain"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "method", "code"})
)

// ObserveMatch records one finished match request.
func ObserveMatch(domain, outcome string, started time.Time, candidates int) {
	matchRequests.WithLabelValues(domain, outcome).Inc()
	matchDuration.WithLabelValues(domain).Observe(time.Since(started).Seconds())
	if candidates >= 0 {
		candidatesEvaluated.WithLabelValues(domain).Observe(float64(candidates))
	}
}

// ObserveHTTP counts one served HTTP request.
func ObserveHTTP(route, method, code string) {
	httpRequests.WithLabelValues(route, method, code).Inc()
}
