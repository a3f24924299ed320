// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StorageOperations counts object storage operations by kind and outcome.
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_storage_operations_total",
		Help: "Total number of object storage operations",
	}, []string{"operation", "outcome"})

	// ModerationTransitions counts moderation state transitions by content kind.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_moderation_transitions_total",
		Help: "Total number of moderation transitions",
	}, []string{"kind", "transition"})

	// LikeToggles counts like toggles by content kind and direction.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_like_toggles_total",
		Help: "Total number of like toggles",
	}, []string{"kind", "direction"})

	// CounterReconciliations counts denormalized like-counter recounts.
	CounterReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_counter_reconciliations_total",
		Help: "Total number of like-counter reconciliations after a failed increment/decrement",
	}, []string{"kind"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aura_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
