// Package messaging provides reminder and expiration message handling:
// rendering, logging, queueing and delivery to subscribers.
package messaging

import (
	"context"
	"log/slog"
)

// ChannelType identifies a delivery channel.
type ChannelType string

// Delivery channels.
const (
	ChannelTypeEmail ChannelType = "email"
	ChannelTypeLog   ChannelType = "log"
)

// Notification is a rendered message ready for delivery.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notifications over one channel.
type Sender interface {
	Type() ChannelType
	Send(ctx context.Context, notification Notification) error
}

// LogSender writes notifications to the log instead of delivering them.
// Used in development and as the default when no channel is configured.
type LogSender struct{}

// Type returns the channel type.
func (LogSender) Type() ChannelType { return ChannelTypeLog }

// Send logs the notification.
func (LogSender) Send(ctx context.Context, notification Notification) error {
	slog.InfoContext(ctx, "message delivered (log channel)",
		"to", notification.To,
		"subject", notification.Subject,
		"body", notification.Body,
	)
	return nil
}
