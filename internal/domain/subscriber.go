// Package domain contains the core domain model shared by all modules.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StreamingService identifies one of the supported streaming platforms.
type StreamingService string

// Supported streaming services.
const (
	ServiceNetflix        StreamingService = "NETFLIX"
	ServiceAmazonPrime    StreamingService = "AMAZON PRIME"
	ServiceDisneyPlus     StreamingService = "DISNEY+"
	ServiceHBOMax         StreamingService = "HBO MAX"
	ServiceSpotify        StreamingService = "SPOTIFY"
	ServiceYoutubePremium StreamingService = "YOUTUBE PREMIUM"
	ServiceAppleTVPlus    StreamingService = "APPLE TV+"
	ServiceParamountPlus  StreamingService = "PARAMOUNT+"
)

// StreamingServices returns the supported services in display order.
func StreamingServices() []StreamingService {
	return []StreamingService{
		ServiceNetflix,
		ServiceAmazonPrime,
		ServiceDisneyPlus,
		ServiceHBOMax,
		ServiceSpotify,
		ServiceYoutubePremium,
		ServiceAppleTVPlus,
		ServiceParamountPlus,
	}
}

// IsValid checks if the service belongs to the supported enumeration.
func (s StreamingService) IsValid() bool {
	for _, known := range StreamingServices() {
		if s == known {
			return true
		}
	}
	return false
}

// SubscriberStatus represents the lifecycle status of a subscription.
type SubscriberStatus string

// Subscriber statuses, derived from days remaining until expiration.
const (
	SubscriberStatusActive   SubscriberStatus = "active"
	SubscriberStatusExpiring SubscriberStatus = "expiring"
	SubscriberStatusExpired  SubscriberStatus = "expired"
)

// ExpiringWindowDays is the threshold below which a subscription counts as expiring.
const ExpiringWindowDays = 7

// StatusFor classifies a subscription by its days remaining.
// Negative values mean the subscription already expired.
func StatusFor(daysRemaining int) SubscriberStatus {
	switch {
	case daysRemaining < 0:
		return SubscriberStatusExpired
	case daysRemaining <= ExpiringWindowDays:
		return SubscriberStatusExpiring
	default:
		return SubscriberStatusActive
	}
}

// Severity represents the display urgency of a subscription.
type Severity string

// Display severities.
const (
	SeverityCritical Severity = "critical" // 3 days or less
	SeverityWarning  Severity = "warning"  // expiring window
	SeverityOK       Severity = "ok"
)

// SeverityFor maps days remaining to a display severity.
func SeverityFor(daysRemaining int) Severity {
	switch {
	case daysRemaining <= 3:
		return SeverityCritical
	case daysRemaining <= ExpiringWindowDays:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without time-of-day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String returns the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON serializes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a YYYY-MM-DD string, trimming any time component.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Tolerate RFC3339 timestamps from older clients.
	if idx := strings.IndexByte(s, 'T'); idx != -1 {
		s = s[:idx]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// DaysUntil returns the number of whole days from now's calendar date to d.
func (d Date) DaysUntil(now time.Time) int {
	today := DateOf(now)
	return int(d.Time.Sub(today.Time) / (24 * time.Hour))
}

// Subscriber is a tracked customer record for a streaming subscription.
type Subscriber struct {
	ID             string           `json:"id"`
	Service        StreamingService `json:"service"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	ExpirationDate Date             `json:"expirationDate"`
	DaysRemaining  int              `json:"daysRemaining"`
	Status         SubscriberStatus `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Refresh recomputes the derived DaysRemaining and Status fields
// relative to the given point in time.
func (s *Subscriber) Refresh(now time.Time) {
	s.DaysRemaining = s.ExpirationDate.DaysUntil(now)
	s.Status = StatusFor(s.DaysRemaining)
}
