package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamops/streammanager/internal/domain"
)

// SchedulerConfig contains expiry reminder scheduler configuration.
type SchedulerConfig struct {
	// Interval between scans of the subscriber list.
	Interval time.Duration
	// ReminderDays is the window for recordatorio messages.
	ReminderDays int
	// DueSoonDays is the window for vencimiento messages.
	DueSoonDays int
}

// DefaultSchedulerConfig returns default scheduler configuration.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:     6 * time.Hour,
		ReminderDays: 7,
		DueSoonDays:  3,
	}
}

// Scheduler periodically scans subscribers and enqueues expiry reminders.
// A subscriber entering the reminder window gets a recordatorio; one
// entering the due-soon window gets a vencimiento. At most one message
// per type per subscriber per day.
type Scheduler struct {
	config      SchedulerConfig
	service     *Service
	subscribers SubscriberSource
	now         func() time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates a new reminder scheduler.
func NewScheduler(config SchedulerConfig, service *Service, subscribers SubscriberSource) *Scheduler {
	return &Scheduler{
		config:      config,
		service:     service,
		subscribers: subscribers,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}
}

// Start launches the scheduler goroutine. The first scan runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("starting reminder scheduler",
		"interval", s.config.Interval,
		"reminder_days", s.config.ReminderDays,
		"due_soon_days", s.config.DueSoonDays,
	)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("reminder scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan enqueues reminders for every subscriber inside a warning window.
// Each scan carries its own ID to correlate log lines.
func (s *Scheduler) scan(ctx context.Context) {
	scanID := uuid.New().String()

	subs, err := s.subscribers.List(ctx)
	if err != nil {
		slog.Error("scheduler failed to list subscribers", "scan_id", scanID, "error", err)
		return
	}

	startOfDay := domain.DateOf(s.now()).Time
	var scheduled int

	for _, sub := range subs {
		msgType, ok := s.classify(sub.DaysRemaining)
		if !ok {
			continue
		}

		sent, err := s.service.SendIfNotSentSince(ctx, sub.ID, msgType, startOfDay)
		if err != nil {
			slog.Error("scheduler failed to send reminder",
				"scan_id", scanID,
				"subscriber_id", sub.ID,
				"message_type", msgType,
				"error", err,
			)
			continue
		}
		if sent {
			scheduled++
			recordReminderScheduled(string(msgType))
		}
	}

	if scheduled > 0 {
		slog.Info("reminders scheduled", "scan_id", scanID, "count", scheduled)
	}
}

// classify maps days remaining to the reminder type for that window.
// Expired subscriptions get no automatic messages.
func (s *Scheduler) classify(daysRemaining int) (domain.MessageType, bool) {
	switch {
	case daysRemaining < 0:
		return "", false
	case daysRemaining <= s.config.DueSoonDays:
		return domain.MessageTypeVencimiento, true
	case daysRemaining <= s.config.ReminderDays:
		return domain.MessageTypeRecordatorio, true
	default:
		return "", false
	}
}
