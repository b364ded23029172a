package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Notification dispatch metrics
	EventsPublished *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	PublishLatency  prometheus.Histogram
	QueueDepth      prometheus.Gauge

	// Audit trail metrics
	AuditWrites      prometheus.Counter
	AuditWriteFailed prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_events_published_total",
			Help:      "Total number of notification events published to the broker",
		}, []string{"event_type"}),
		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_events_dropped_total",
			Help:      "Total number of notification events dropped (queue full or publish failure)",
		}, []string{"event_type"}),
		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_publish_duration_seconds",
			Help:      "Time spent publishing notification events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_queue_depth",
			Help:      "Current number of events waiting in the dispatch queue",
		}),
		AuditWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_writes_total",
			Help:      "Total number of audit log entries written",
		}),
		AuditWriteFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Total number of audit log writes that failed and were dropped",
		}),
	}
}
