// Package dashboard implements the admin view logic: filtering,
// validation, local statistics and the view state controller that
// orchestrates API calls for a dashboard front-end.
package dashboard

import (
	"strings"

	"github.com/streamops/streammanager/internal/domain"
)

// FilterAll is the sentinel that disables a filter dimension.
const FilterAll = "all"

// StatusFilter selects subscribers by their expiry classification.
type StatusFilter string

// Status filter values.
const (
	StatusFilterAll      StatusFilter = "all"
	StatusFilterActive   StatusFilter = "active"
	StatusFilterExpiring StatusFilter = "expiring"
)

// Criteria are the three filter dimensions applied to the subscriber list.
type Criteria struct {
	// Search matches case-insensitively against name and email, and
	// literally against phone.
	Search string
	// Service is an exact service name or FilterAll.
	Service string
	// Status is a StatusFilter value.
	Status StatusFilter
}

// Filter returns the subscribers matching all criteria, preserving the
// original order. Pure function, runs on every keystroke.
func Filter(subs []domain.Subscriber, c Criteria) []domain.Subscriber {
	out := make([]domain.Subscriber, 0, len(subs))
	for _, sub := range subs {
		if matches(sub, c) {
			out = append(out, sub)
		}
	}
	return out
}

func matches(sub domain.Subscriber, c Criteria) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(sub.Name), term) &&
			!strings.Contains(strings.ToLower(sub.Email), term) &&
			!strings.Contains(sub.Phone, c.Search) {
			return false
		}
	}

	if c.Service != "" && c.Service != FilterAll && string(sub.Service) != c.Service {
		return false
	}

	switch c.Status {
	case StatusFilterExpiring:
		return sub.DaysRemaining <= domain.ExpiringWindowDays
	case StatusFilterActive:
		return sub.DaysRemaining > domain.ExpiringWindowDays
	default:
		return true
	}
}
