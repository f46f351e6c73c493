package dashboard

import (
	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/subscribers"
)

// DefaultUnitPrice is the assumed monthly price per subscription when
// no configured value is available.
const DefaultUnitPrice = 15

// ComputeStats derives statistics locally from a subscriber list.
// Used as an offline fallback when the stats endpoint is unreachable;
// the server-computed stats are preferred when available. Revenue here
// is total times the unit price, the historical display formula.
func ComputeStats(subs []domain.Subscriber, unitPrice float64) subscribers.Stats {
	stats := subscribers.Stats{Total: len(subs)}
	for _, sub := range subs {
		if sub.DaysRemaining <= domain.ExpiringWindowDays {
			stats.Expiring++
		} else {
			stats.Active++
		}
	}
	stats.Revenue = float64(stats.Total) * unitPrice
	return stats
}
