package subscribers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/pkg/metrics"
)

// Service provides subscriber business logic.
type Service struct {
	repo      Repository
	unitPrice float64
	now       func() time.Time
}

// NewService creates a new subscribers service.
// unitPrice is the assumed monthly price used for revenue computation.
func NewService(repo Repository, unitPrice float64) *Service {
	return &Service{
		repo:      repo,
		unitPrice: unitPrice,
		now:       time.Now,
	}
}

// CreateInput contains the fields accepted when creating a subscriber.
type CreateInput struct {
	Service        string
	Name           string
	Phone          string
	Email          string
	ExpirationDate domain.Date
}

// UpdateInput contains the optional fields of a partial update.
type UpdateInput struct {
	Service        *string
	Name           *string
	Phone          *string
	Email          *string
	ExpirationDate *domain.Date
}

// Create validates and normalizes the input, stores the subscriber and
// returns it with derived fields populated.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Subscriber, error) {
	service := domain.StreamingService(input.Service)
	if !service.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, input.Service)
	}

	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	sub := &domain.Subscriber{
		Service:        service,
		Name:           normalizeName(input.Name),
		Phone:          phone,
		Email:          strings.TrimSpace(input.Email),
		ExpirationDate: input.ExpirationDate,
	}
	sub.Refresh(s.now())

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	return sub, nil
}

// GetByID returns a subscriber with derived fields recomputed for today.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Refresh(s.now())
	return sub, nil
}

// List returns all subscribers with derived fields recomputed for today.
func (s *Service) List(ctx context.Context) ([]domain.Subscriber, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	now := s.now()
	for i := range subs {
		subs[i].Refresh(now)
	}
	return subs, nil
}

// Update applies a partial update and returns the updated subscriber.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Subscriber, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Service != nil {
		service := domain.StreamingService(*input.Service)
		if !service.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownService, *input.Service)
		}
		sub.Service = service
	}
	if input.Name != nil {
		sub.Name = normalizeName(*input.Name)
	}
	if input.Phone != nil {
		phone, err := normalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		sub.Phone = phone
	}
	if input.Email != nil {
		sub.Email = strings.TrimSpace(*input.Email)
	}
	if input.ExpirationDate != nil {
		sub.ExpirationDate = *input.ExpirationDate
	}

	sub.Refresh(s.now())

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update subscriber: %w", err)
	}
	return sub, nil
}

// Delete removes a subscriber.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Stats contains dashboard statistics over the whole subscriber list.
type Stats struct {
	Total    int     `json:"total"`
	Expiring int     `json:"expiring"`
	Active   int     `json:"active"`
	Expired  int     `json:"expired"`
	Revenue  float64 `json:"revenue"`
}

// GetStats aggregates subscriber counts and projected revenue.
// Revenue counts only subscriptions that have not expired.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := Aggregate(subs, s.unitPrice)
	metrics.RecordSubscriberCounts(stats.Active, stats.Expiring, stats.Expired)
	return &stats, nil
}

// Aggregate computes statistics over a subscriber list. Pure function.
func Aggregate(subs []domain.Subscriber, unitPrice float64) Stats {
	stats := Stats{Total: len(subs)}
	for _, sub := range subs {
		switch sub.Status {
		case domain.SubscriberStatusExpiring:
			stats.Expiring++
		case domain.SubscriberStatusExpired:
			stats.Expired++
		default:
			stats.Active++
		}
	}
	stats.Revenue = float64(stats.Active+stats.Expiring) * unitPrice
	return stats
}

// normalizeName trims surrounding whitespace and upper-cases the name.
// Full Unicode case mapping, so names like "große" become "GROSSE".
func normalizeName(name string) string {
	return cases.Upper(language.Spanish).String(strings.TrimSpace(name))
}

// normalizePhone strips every non-digit character and requires at least
// nine digits, matching the historical data format.
func normalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() < 9 {
		return "", ErrInvalidPhone
	}
	return b.String(), nil
}
