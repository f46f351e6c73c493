package messaging

import (
	"context"
	"fmt"
)

// Dispatcher routes notifications to the sender for their channel.
type Dispatcher struct {
	senders map[ChannelType]Sender
}

// NewDispatcher creates a dispatcher over the given senders.
func NewDispatcher(senders ...Sender) *Dispatcher {
	senderMap := make(map[ChannelType]Sender, len(senders))
	for _, s := range senders {
		senderMap[s.Type()] = s
	}
	return &Dispatcher{senders: senderMap}
}

// DefaultChannel returns the preferred delivery channel: email when an
// email sender is registered, the log channel otherwise.
func (d *Dispatcher) DefaultChannel() ChannelType {
	if _, ok := d.senders[ChannelTypeEmail]; ok {
		return ChannelTypeEmail
	}
	return ChannelTypeLog
}

// SendToChannel delivers a notification over the given channel.
func (d *Dispatcher) SendToChannel(ctx context.Context, channel ChannelType, notification Notification) error {
	sender, ok := d.senders[channel]
	if !ok {
		return fmt.Errorf("no sender for channel %q", channel)
	}
	return sender.Send(ctx, notification)
}
