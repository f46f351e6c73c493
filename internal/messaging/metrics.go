package messaging

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "streammanager"

var (
	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "sent_total",
			Help:      "Total message deliveries processed",
		},
		[]string{"channel", "status"},
	)

	messageSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "send_duration_seconds",
			Help:      "Time to deliver a message",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"channel"},
	)

	queueFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "queue_fetched_total",
			Help:      "Total delivery items fetched from the queue",
		},
	)

	remindersScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "reminders_scheduled_total",
			Help:      "Reminder messages enqueued by the scheduler",
		},
		[]string{"type"},
	)
)

// recordMessageSent records a processed delivery.
func recordMessageSent(channel, status string) {
	messagesSent.WithLabelValues(channel, status).Inc()
}

// recordSendDuration records delivery duration.
func recordSendDuration(channel string, duration time.Duration) {
	messageSendDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// recordQueueFetched records fetched queue items.
func recordQueueFetched(count int) {
	queueFetched.Add(float64(count))
}

// recordReminderScheduled records a scheduled reminder.
func recordReminderScheduled(msgType string) {
	remindersScheduled.WithLabelValues(msgType).Inc()
}
