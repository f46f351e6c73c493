package dashboard

import (
	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/subscribers"
)

// Phase is the lifecycle phase of the dashboard view.
type Phase string

// View phases. Failed is terminal until a retry re-enters Loading.
const (
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseRefreshing Phase = "refreshing"
	PhaseFailed     Phase = "failed"
)

// SendKey identifies one in-flight send-message action. Tracking per
// (subscriber, message type) lets multiple rows send concurrently.
type SendKey struct {
	SubscriberID string
	MessageType  domain.MessageType
}

// NoticeLevel classifies a transient notification.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient, dismissible notification surfaced to the user.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// State is a point-in-time snapshot of the dashboard view.
type State struct {
	Phase       Phase
	Err         error
	Subscribers []domain.Subscriber
	Visible     []domain.Subscriber
	Stats       subscribers.Stats
	Services    []domain.StreamingService
	Criteria    Criteria
	// InFlight holds the send actions currently running.
	InFlight map[SendKey]bool
}
