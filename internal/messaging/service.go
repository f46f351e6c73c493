package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/pkg/ctxlog"
)

// SubscriberSource provides read access to subscriber records.
type SubscriberSource interface {
	GetByID(ctx context.Context, id string) (*domain.Subscriber, error)
	List(ctx context.Context) ([]domain.Subscriber, error)
}

// Service provides message sending business logic.
type Service struct {
	repo        Repository
	subscribers SubscriberSource
	renderer    *Renderer
	dispatcher  *Dispatcher
	maxAttempts int
	now         func() time.Time
}

// NewService creates a new messaging service.
func NewService(repo Repository, subscribers SubscriberSource, renderer *Renderer, dispatcher *Dispatcher, maxAttempts int) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Service{
		repo:        repo,
		subscribers: subscribers,
		renderer:    renderer,
		dispatcher:  dispatcher,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// SendResult is the outcome of a send-message request.
type SendResult struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	MessageLog *domain.MessageLog `json:"messageLog,omitempty"`
}

// SendMessage renders the message for the subscriber, persists a message
// log entry, and enqueues the delivery. Actual delivery happens
// asynchronously in the worker.
func (s *Service) SendMessage(ctx context.Context, subscriberID string, msgType domain.MessageType, custom string) (*SendResult, error) {
	if !msgType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msgType)
	}

	sub, err := s.subscribers.GetByID(ctx, subscriberID)
	if err != nil {
		return nil, err
	}

	subject, body, err := s.renderer.Render(sub, msgType, custom)
	if err != nil {
		return nil, err
	}

	log := &domain.MessageLog{
		SubscriberID: sub.ID,
		MessageType:  msgType,
		Message:      body,
		Status:       domain.MessageStatusSent,
	}
	if err := s.repo.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("create message log: %w", err)
	}

	item := &QueueItem{
		SubscriberID: sub.ID,
		MessageType:  string(msgType),
		Channel:      s.dispatcher.DefaultChannel(),
		Recipient:    sub.Email,
		Subject:      subject,
		Body:         body,
		MaxAttempts:  s.maxAttempts,
	}
	if err := s.repo.Enqueue(ctx, item); err != nil {
		return nil, fmt.Errorf("enqueue delivery: %w", err)
	}

	ctxlog.FromContext(ctx).Info("message queued",
		"subscriber_id", sub.ID,
		"message_type", msgType,
		"channel", item.Channel,
	)

	return &SendResult{
		Success:    true,
		Message:    fmt.Sprintf("Mensaje enviado exitosamente a %s", sub.Name),
		MessageLog: log,
	}, nil
}

// SendIfNotSentSince sends a message unless one of the same type was
// already logged for the subscriber at or after the given time. Used by
// the scheduler to avoid duplicate reminders. Reports whether a message
// was sent.
func (s *Service) SendIfNotSentSince(ctx context.Context, subscriberID string, msgType domain.MessageType, since time.Time) (bool, error) {
	count, err := s.repo.CountLogsSince(ctx, subscriberID, msgType, since)
	if err != nil {
		return false, fmt.Errorf("count message logs: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.SendMessage(ctx, subscriberID, msgType, ""); err != nil {
		return false, err
	}
	return true, nil
}
