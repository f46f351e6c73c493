// Package postgres provides the PostgreSQL implementation of the
// subscribers repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/subscribers"
)

// Repository implements the subscribers.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a subscriber and fills its ID and timestamps.
func (r *Repository) Create(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (service, name, phone, email, expiration_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		string(sub.Service),
		sub.Name,
		sub.Phone,
		sub.Email,
		sub.ExpirationDate.Time,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	return nil
}

// GetByID retrieves a subscriber by its ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	query := `
		SELECT id, service, name, phone, email, expiration_date, created_at, updated_at
		FROM subscribers
		WHERE id = $1
	`
	sub, err := scanSubscriber(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscribers.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("get subscriber by id: %w", err)
	}
	return sub, nil
}

// List retrieves all subscribers ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]domain.Subscriber, error) {
	query := `
		SELECT id, service, name, phone, email, expiration_date, created_at, updated_at
		FROM subscribers
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subs, nil
}

// Update persists the mutable fields of a subscriber.
func (r *Repository) Update(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		UPDATE subscribers
		SET service = $2, name = $3, phone = $4, email = $5, expiration_date = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		sub.ID,
		string(sub.Service),
		sub.Name,
		sub.Phone,
		sub.Email,
		sub.ExpirationDate.Time,
	).Scan(&sub.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subscribers.ErrSubscriberNotFound
		}
		return fmt.Errorf("update subscriber: %w", err)
	}
	return nil
}

// Delete removes a subscriber.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return subscribers.ErrSubscriberNotFound
	}
	return nil
}

func scanSubscriber(row pgx.Row) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	var service string
	var expiration time.Time

	err := row.Scan(
		&sub.ID,
		&service,
		&sub.Name,
		&sub.Phone,
		&sub.Email,
		&expiration,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Service = domain.StreamingService(service)
	sub.ExpirationDate = domain.DateOf(expiration)
	return &sub, nil
}
