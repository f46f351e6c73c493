package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/streamops/streammanager/internal/domain"
)

// Module errors.
var (
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Repository defines the interface for message log and delivery queue access.
type Repository interface {
	// CreateLog persists a message log entry and fills its ID and SentAt.
	CreateLog(ctx context.Context, log *domain.MessageLog) error
	// CountLogsSince returns how many messages of the given type were
	// logged for the subscriber at or after the given time.
	CountLogsSince(ctx context.Context, subscriberID string, msgType domain.MessageType, since time.Time) (int, error)

	// Enqueue adds a delivery item in pending state.
	Enqueue(ctx context.Context, item *QueueItem) error
	// FetchPendingDeliveries claims up to limit due pending items,
	// marking them processing.
	FetchPendingDeliveries(ctx context.Context, limit int) ([]*QueueItem, error)
	// MarkAsSent finalizes a delivered item.
	MarkAsSent(ctx context.Context, id string) error
	// MarkAsFailed finalizes an item that will not be retried.
	MarkAsFailed(ctx context.Context, id string, cause error) error
	// MarkForRetry reschedules an item after a transient failure.
	MarkForRetry(ctx context.Context, id string, cause error, nextAttempt time.Time) error
}
