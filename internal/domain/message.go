package domain

import "time"

// MessageType defines the kind of message sent to a subscriber.
type MessageType string

// Message types. The names are user-facing and kept in Spanish,
// matching the message templates.
const (
	MessageTypeRecordatorio  MessageType = "recordatorio"  // renewal reminder
	MessageTypeVencimiento   MessageType = "vencimiento"   // expiration notice
	MessageTypePersonalizado MessageType = "personalizado" // free-form message
)

// IsValid checks if the message type is known.
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeRecordatorio, MessageTypeVencimiento, MessageTypePersonalizado:
		return true
	}
	return false
}

// MessageStatus represents the delivery status of a logged message.
type MessageStatus string

// Message statuses.
const (
	MessageStatusSent   MessageStatus = "sent"
	MessageStatusFailed MessageStatus = "failed"
)

// MessageLog records a message sent (or attempted) to a subscriber.
type MessageLog struct {
	ID           string        `json:"id"`
	SubscriberID string        `json:"subscriberId"`
	MessageType  MessageType   `json:"messageType"`
	Message      string        `json:"message"`
	Status       MessageStatus `json:"status"`
	SentAt       time.Time     `json:"sentAt"`
}
