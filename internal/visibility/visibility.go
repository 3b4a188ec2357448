// Package visibility decides whether an announcement should be shown at a
// given instant. Bounds are inclusive and a nil bound is open.
package visibility

import "time"

func InWindow(startsAt, endsAt *time.Time, now time.Time) bool {
	if startsAt != nil && now.Before(*startsAt) {
		return false
	}
	if endsAt != nil && now.After(*endsAt) {
		return false
	}
	return true
}

// IsVisible mirrors the store's active-window predicate.
func IsVisible(active bool, startsAt, endsAt *time.Time, now time.Time) bool {
	return active && InWindow(startsAt, endsAt, now)
}
