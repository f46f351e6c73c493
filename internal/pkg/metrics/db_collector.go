package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordDBPoolMetrics updates database pool metrics.
func RecordDBPoolMetrics(pool *pgxpool.Pool) {
	stats := pool.Stat()

	DBPoolConnections.WithLabelValues("in_use").Set(float64(stats.AcquiredConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stats.IdleConns()))
	DBPoolConnections.WithLabelValues("max").Set(float64(stats.MaxConns()))
}

// RecordSubscriberCounts updates the subscriber population gauges.
func RecordSubscriberCounts(active, expiring, expired int) {
	SubscribersByStatus.WithLabelValues("active").Set(float64(active))
	SubscribersByStatus.WithLabelValues("expiring").Set(float64(expiring))
	SubscribersByStatus.WithLabelValues("expired").Set(float64(expired))
}
