// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AuthGateDecisions counts session gate outcomes: continue, login_redirect,
	// unauthorized_redirect.
	AuthGateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_auth_gate_decisions_total",
		Help: "Total session gate decisions by outcome",
	}, []string{"outcome"})

	// ListQueryLatency records list composer latency per collection and phase
	// (page or stats).
	ListQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdesk_list_query_latency_seconds",
		Help:    "List query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "phase"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdesk_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackListQuery returns a function that records list query latency when
// called (e.g. defer).
func TrackListQuery(collection, phase string) func() {
	start := time.Now()
	return func() {
		ListQueryLatency.WithLabelValues(collection, phase).Observe(time.Since(start).Seconds())
	}
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
