package messaging

import "time"

// QueueStatus represents the status of a delivery queue item.
type QueueStatus string

// Queue statuses.
const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusSent       QueueStatus = "sent"
	QueueStatusFailed     QueueStatus = "failed"
)

// QueueItem represents one message delivery in the queue.
type QueueItem struct {
	ID            string
	SubscriberID  string
	MessageType   string
	Channel       ChannelType
	Recipient     string
	Subject       string
	Body          string
	Status        QueueStatus
	Attempts      int
	MaxAttempts   int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SentAt        *time.Time
}
