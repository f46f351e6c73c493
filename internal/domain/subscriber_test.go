package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		days int
		want SubscriberStatus
	}{
		{-1, SubscriberStatusExpired},
		{0, SubscriberStatusExpiring},
		{3, SubscriberStatusExpiring},
		{7, SubscriberStatusExpiring},
		{8, SubscriberStatusActive},
		{30, SubscriberStatusActive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.days), "days=%d", tt.days)
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		days int
		want Severity
	}{
		{-5, SeverityCritical},
		{0, SeverityCritical},
		{3, SeverityCritical},
		{4, SeverityWarning},
		{7, SeverityWarning},
		{8, SeverityOK},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFor(tt.days), "days=%d", tt.days)
	}
}

func TestDate_DaysUntil(t *testing.T) {
	now := time.Date(2025, 8, 13, 17, 45, 12, 0, time.UTC)

	tests := []struct {
		name string
		date Date
		want int
	}{
		{"ten days out", NewDate(2025, 8, 23), 10},
		{"today", NewDate(2025, 8, 13), 0},
		{"yesterday", NewDate(2025, 8, 12), -1},
		{"next month", NewDate(2025, 9, 8), 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.DaysUntil(now))
		})
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 8, 23)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-08-23"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, d.Equal(parsed.Time))
}

func TestDate_UnmarshalTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-08-23T00:00:00Z"`), &d))
	assert.Equal(t, "2025-08-23", d.String())
}

func TestSubscriber_Refresh(t *testing.T) {
	now := time.Date(2025, 8, 13, 9, 0, 0, 0, time.UTC)

	sub := Subscriber{ExpirationDate: NewDate(2025, 8, 18)}
	sub.Refresh(now)
	assert.Equal(t, 5, sub.DaysRemaining)
	assert.Equal(t, SubscriberStatusExpiring, sub.Status)

	sub.ExpirationDate = NewDate(2025, 8, 10)
	sub.Refresh(now)
	assert.Equal(t, -3, sub.DaysRemaining)
	assert.Equal(t, SubscriberStatusExpired, sub.Status)
}

func TestStreamingService_IsValid(t *testing.T) {
	for _, s := range StreamingServices() {
		assert.True(t, s.IsValid(), "service %q", s)
	}
	assert.False(t, StreamingService("BLOCKBUSTER").IsValid())
}
