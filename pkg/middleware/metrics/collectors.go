package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	unitInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "unit_invocations_total", Help: "unit invocations by unit and outcome"},
		[]string{"unit", "outcome"},
	)

	unitLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unit_invocation_seconds",
			Help:    "unit invocation latency by outcome.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		unitInvocations,
		unitLatency,
	)
}

// ObserveUnit records one unit invocation. Unknown names are folded into a
// single label value so arbitrary request paths cannot grow the series set.
func ObserveUnit(name, outcome string, elapsed time.Duration) {
	if outcome == "not_found" {
		name = "_unknown"
	}
	unitInvocations.WithLabelValues(name, outcome).Inc()
	unitLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
