package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/messaging"
	"github.com/streamops/streammanager/internal/subscribers"
	"github.com/streamops/streammanager/pkg/client"
)

// API is the backend surface the controller drives.
type API interface {
	ListSubscribers(ctx context.Context) (*client.ListSubscribersResponse, error)
	GetStats(ctx context.Context) (*subscribers.Stats, error)
	ListServices(ctx context.Context) (*client.ServicesResponse, error)
	CreateSubscriber(ctx context.Context, req client.CreateSubscriberRequest) (*domain.Subscriber, error)
	SendMessage(ctx context.Context, req client.SendMessageRequest) (*messaging.SendResult, error)
}

// ValidationError carries the per-field messages of a rejected draft.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft validation failed on %d field(s)", len(e.Fields))
}

// Controller owns the dashboard view state and orchestrates API calls.
// The subscriber list is only ever replaced wholesale after a full
// reload, never mutated in place.
type Controller struct {
	api       API
	unitPrice float64
	now       func() time.Time
	notify    func(Notice)

	mu       sync.Mutex
	closed   bool
	phase    Phase
	err      error
	subs     []domain.Subscriber
	stats    subscribers.Stats
	hasStats bool
	services []domain.StreamingService
	criteria Criteria
	inFlight map[SendKey]bool
}

// Option customizes the controller.
type Option func(*Controller)

// WithUnitPrice sets the unit price for the local stats fallback.
func WithUnitPrice(price float64) Option {
	return func(c *Controller) { c.unitPrice = price }
}

// WithClock injects the time source used for date validation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithNotify registers a sink for transient notifications.
func WithNotify(fn func(Notice)) Option {
	return func(c *Controller) { c.notify = fn }
}

// NewController creates a controller in the Loading phase.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		unitPrice: DefaultUnitPrice,
		now:       time.Now,
		notify:    func(Notice) {},
		phase:     PhaseLoading,
		criteria:  Criteria{Service: FilterAll, Status: StatusFilterAll},
		inFlight:  make(map[SendKey]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load performs the initial fan-out of the three view resources. All
// must succeed before the view becomes Ready; any failure moves the
// view to Failed and the caller retries by calling Load again.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseLoading
	c.err = nil
	c.mu.Unlock()

	subs, stats, services, err := c.fetchAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}

	if err != nil {
		c.phase = PhaseFailed
		c.err = err
		slog.Warn("dashboard initial load failed", "error", err)
		return err
	}

	c.subs = subs
	c.stats = stats
	c.hasStats = true
	c.services = services
	c.phase = PhaseReady
	return nil
}

// Refresh re-runs the three-resource fetch. Unlike Load, a failure
// here keeps the currently displayed data and returns the view to
// Ready, surfacing the failure as a transient notice only.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.phase != PhaseReady {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseRefreshing
	c.mu.Unlock()

	subs, stats, services, err := c.fetchAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if err == nil {
		c.subs = subs
		c.stats = stats
		c.hasStats = true
		c.services = services
	} else {
		slog.Warn("dashboard refresh failed", "error", err)
		c.notify(Notice{Level: NoticeError, Message: fmt.Sprintf("No se pudo actualizar: %s", err)})
	}
	c.phase = PhaseReady
}

// fetchAll is the fan-out, join-all bundle over the three resources.
func (c *Controller) fetchAll(ctx context.Context) ([]domain.Subscriber, subscribers.Stats, []domain.StreamingService, error) {
	var (
		subs     []domain.Subscriber
		stats    subscribers.Stats
		services []domain.StreamingService
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := c.api.ListSubscribers(gctx)
		if err != nil {
			return fmt.Errorf("list subscribers: %w", err)
		}
		subs = resp.Subscribers
		return nil
	})

	g.Go(func() error {
		resp, err := c.api.GetStats(gctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		stats = *resp
		return nil
	})

	g.Go(func() error {
		resp, err := c.api.ListServices(gctx)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		services = resp.Services
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, subscribers.Stats{}, nil, err
	}
	return subs, stats, services, nil
}

// SetSearch updates the free-text search term.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Search = term
}

// SetServiceFilter updates the service filter dimension.
func (c *Controller) SetServiceFilter(service string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Service = service
}

// SetStatusFilter updates the status filter dimension.
func (c *Controller) SetStatusFilter(status StatusFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Status = status
}

// CreateSubscriber validates the draft and submits it. On success the
// whole view reloads and the caller closes the form. On any error the
// caller keeps the form open and surfaces the error.
func (c *Controller) CreateSubscriber(ctx context.Context, draft Draft) (*domain.Subscriber, error) {
	if fields := ValidateDraft(draft, c.now()); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	sub, err := c.api.CreateSubscriber(ctx, client.CreateSubscriberRequest{
		Service:        domain.StreamingService(draft.Service),
		Name:           draft.Name,
		Phone:          draft.Phone,
		Email:          draft.Email,
		ExpirationDate: draft.ExpirationDate,
	})
	if err != nil {
		return nil, err
	}

	c.Refresh(ctx)
	c.notify(Notice{Level: NoticeInfo, Message: fmt.Sprintf("Suscriptor %s creado", sub.Name)})
	return sub, nil
}

// SendMessage triggers a per-row send action. Rows send independently:
// each key has its own busy marker and completion order is unspecified.
// Reports false when a send for the same key is already running.
func (c *Controller) SendMessage(ctx context.Context, subscriberID string, msgType domain.MessageType, custom string) bool {
	key := SendKey{SubscriberID: subscriberID, MessageType: msgType}

	c.mu.Lock()
	if c.closed || c.inFlight[key] {
		c.mu.Unlock()
		return false
	}
	c.inFlight[key] = true
	c.mu.Unlock()

	go func() {
		result, err := c.api.SendMessage(ctx, client.SendMessageRequest{
			SubscriberID: subscriberID,
			MessageType:  msgType,
			Message:      custom,
		})

		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.inFlight, key)
		if c.closed {
			return
		}

		if err != nil {
			c.notify(Notice{Level: NoticeError, Message: fmt.Sprintf("No se pudo enviar el mensaje: %s", err)})
			return
		}
		c.notify(Notice{Level: NoticeInfo, Message: result.Message})
	}()

	return true
}

// IsSending reports whether a send for the given row and type is running.
func (c *Controller) IsSending(subscriberID string, msgType domain.MessageType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[SendKey{SubscriberID: subscriberID, MessageType: msgType}]
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	if !c.hasStats {
		stats = ComputeStats(c.subs, c.unitPrice)
	}

	inFlight := make(map[SendKey]bool, len(c.inFlight))
	for k, v := range c.inFlight {
		inFlight[k] = v
	}

	return State{
		Phase:       c.phase,
		Err:         c.err,
		Subscribers: append([]domain.Subscriber(nil), c.subs...),
		Visible:     Filter(c.subs, c.criteria),
		Stats:       stats,
		Services:    append([]domain.StreamingService(nil), c.services...),
		Criteria:    c.criteria,
		InFlight:    inFlight,
	}
}

// Close detaches the controller. Late completions of in-flight requests
// no longer mutate state or emit notices.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
