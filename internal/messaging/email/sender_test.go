package email

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/streamops/streammanager/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_Validation(t *testing.T) {
	t.Run("enabled without host fails", func(t *testing.T) {
		_, err := NewSender(Config{Enabled: true, FromAddress: "noreply@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SMTP host")
	})

	t.Run("enabled without from address fails", func(t *testing.T) {
		_, err := NewSender(Config{Enabled: true, SMTPHost: "smtp.example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "from address")
	})

	t.Run("disabled needs no config", func(t *testing.T) {
		s, err := NewSender(Config{})
		require.NoError(t, err)
		assert.Equal(t, messaging.ChannelTypeEmail, s.Type())
	})

	t.Run("default port", func(t *testing.T) {
		s, err := NewSender(Config{})
		require.NoError(t, err)
		assert.Equal(t, 587, s.config.SMTPPort)
	})
}

func TestSender_Disabled_SkipsSend(t *testing.T) {
	s, err := NewSender(Config{Enabled: false})
	require.NoError(t, err)

	err = s.Send(context.Background(), messaging.Notification{
		To:      "maria@example.com",
		Subject: "Recordatorio",
		Body:    "Hola",
	})
	assert.NoError(t, err)
}

func TestBuildMessage(t *testing.T) {
	s, err := NewSender(Config{FromAddress: "StreamManager <noreply@example.com>"})
	require.NoError(t, err)

	msg := string(s.buildMessage("maria@example.com", "Recordatorio de renovación", "Hola MARIA"))

	assert.Contains(t, msg, "From: StreamManager <noreply@example.com>\r\n")
	assert.Contains(t, msg, "To: maria@example.com\r\n")
	assert.Contains(t, msg, "Subject: Recordatorio de renovación\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	assert.Contains(t, msg, "\r\n\r\nHola MARIA")
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare address", "noreply@example.com", "noreply@example.com"},
		{"with display name", "StreamManager <noreply@example.com>", "noreply@example.com"},
		{"unclosed bracket", "Broken <noreply@example.com", "Broken <noreply@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractEmail(tt.input))
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"network timeout", timeoutError{}, true},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"service not available 421", errors.New("421 Service not available"), true},
		{"mailbox unavailable 450", errors.New("450 Mailbox unavailable"), true},
		{"local error 451", errors.New("451 Local error in processing"), true},
		{"insufficient storage 452", errors.New("452 Insufficient system storage"), true},
		{"mailbox full 552", errors.New("552 Mailbox full"), true},
		{"no such user 550", errors.New("550 No such user"), false},
		{"auth failure 535", errors.New("535 Authentication credentials invalid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	retryable := classify(errors.New("421 Service not available"))
	var re *messaging.RetryableError
	require.ErrorAs(t, retryable, &re)
	assert.True(t, re.IsRetryable())

	permanent := classify(errors.New("550 No such user"))
	require.ErrorAs(t, permanent, &re)
	assert.False(t, re.IsRetryable())
}
