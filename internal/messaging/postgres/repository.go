// Package postgres provides PostgreSQL implementation of messaging repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/messaging"
)

// Repository implements messaging.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateLog persists a message log entry.
func (r *Repository) CreateLog(ctx context.Context, log *domain.MessageLog) error {
	query := `
		INSERT INTO message_logs (subscriber_id, message_type, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sent_at
	`
	err := r.db.QueryRow(ctx, query,
		log.SubscriberID,
		log.MessageType,
		log.Message,
		log.Status,
	).Scan(&log.ID, &log.SentAt)
	if err != nil {
		return fmt.Errorf("create message log: %w", err)
	}
	return nil
}

// CountLogsSince counts messages of a type logged for a subscriber since a point in time.
func (r *Repository) CountLogsSince(ctx context.Context, subscriberID string, msgType domain.MessageType, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM message_logs
		WHERE subscriber_id = $1 AND message_type = $2 AND sent_at >= $3
	`
	var count int
	if err := r.db.QueryRow(ctx, query, subscriberID, msgType, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count message logs: %w", err)
	}
	return count, nil
}

// Enqueue adds a delivery item in pending state.
func (r *Repository) Enqueue(ctx context.Context, item *messaging.QueueItem) error {
	query := `
		INSERT INTO message_queue (subscriber_id, message_type, channel, recipient, subject, body, status, max_attempts, next_attempt_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, next_attempt_at, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		item.SubscriberID,
		item.MessageType,
		item.Channel,
		item.Recipient,
		item.Subject,
		item.Body,
		messaging.QueueStatusPending,
		item.MaxAttempts,
	).Scan(&item.ID, &item.NextAttemptAt, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("enqueue delivery: %w", err)
	}
	item.Status = messaging.QueueStatusPending
	return nil
}

// FetchPendingDeliveries claims up to limit due pending items and marks them processing.
// SKIP LOCKED lets multiple workers poll the queue without contending on the same rows.
func (r *Repository) FetchPendingDeliveries(ctx context.Context, limit int) ([]*messaging.QueueItem, error) {
	query := `
		UPDATE message_queue
		SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM message_queue
			WHERE status = $2 AND next_attempt_at <= NOW()
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, subscriber_id, message_type, channel, recipient, subject, body,
		          status, attempts, max_attempts, next_attempt_at, last_error,
		          created_at, updated_at, sent_at
	`
	rows, err := r.db.Query(ctx, query, messaging.QueueStatusProcessing, messaging.QueueStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending deliveries: %w", err)
	}
	defer rows.Close()

	items := make([]*messaging.QueueItem, 0)
	for rows.Next() {
		var item messaging.QueueItem
		err := rows.Scan(
			&item.ID,
			&item.SubscriberID,
			&item.MessageType,
			&item.Channel,
			&item.Recipient,
			&item.Subject,
			&item.Body,
			&item.Status,
			&item.Attempts,
			&item.MaxAttempts,
			&item.NextAttemptAt,
			&item.LastError,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

// MarkAsSent finalizes a delivered item.
func (r *Repository) MarkAsSent(ctx context.Context, id string) error {
	query := `
		UPDATE message_queue
		SET status = $2, attempts = attempts + 1, sent_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, id, messaging.QueueStatusSent); err != nil {
		return fmt.Errorf("mark as sent: %w", err)
	}
	return nil
}

// MarkAsFailed finalizes an item that will not be retried.
func (r *Repository) MarkAsFailed(ctx context.Context, id string, cause error) error {
	query := `
		UPDATE message_queue
		SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, id, messaging.QueueStatusFailed, cause.Error()); err != nil {
		return fmt.Errorf("mark as failed: %w", err)
	}
	return nil
}

// MarkForRetry reschedules an item after a transient failure.
func (r *Repository) MarkForRetry(ctx context.Context, id string, cause error, nextAttempt time.Time) error {
	query := `
		UPDATE message_queue
		SET status = $2, attempts = attempts + 1, last_error = $3, next_attempt_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, id, messaging.QueueStatusPending, cause.Error(), nextAttempt); err != nil {
		return fmt.Errorf("mark for retry: %w", err)
	}
	return nil
}
