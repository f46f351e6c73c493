// Package subscribers provides HTTP handlers and business logic for
// managing streaming-service subscribers.
package subscribers

import (
	"context"
	"errors"

	"github.com/streamops/streammanager/internal/domain"
)

// Module errors.
var (
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrUnknownService     = errors.New("unknown streaming service")
	ErrInvalidPhone       = errors.New("phone number must have at least 9 digits")
)

// Repository defines the interface for subscriber data access.
type Repository interface {
	// Create inserts a subscriber and fills its ID and timestamps.
	Create(ctx context.Context, sub *domain.Subscriber) error
	// GetByID returns a subscriber or ErrSubscriberNotFound.
	GetByID(ctx context.Context, id string) (*domain.Subscriber, error)
	// List returns all subscribers ordered by creation time.
	List(ctx context.Context) ([]domain.Subscriber, error)
	// Update persists the mutable fields of a subscriber.
	Update(ctx context.Context, sub *domain.Subscriber) error
	// Delete removes a subscriber or returns ErrSubscriberNotFound.
	Delete(ctx context.Context, id string) error
}
