package aggregate

import (
	"time"

	"painel/internal/core"
)

// Default business thresholds. Both can be overridden through configuration.
const (
	// ContractExpiryWindowDays is how far ahead a contract end date counts
	// as expiring.
	ContractExpiryWindowDays = 90
	// MaintenanceOverdueMonths is how old a last maintenance date may be
	// before the asset counts as overdue.
	MaintenanceOverdueMonths = 6
)

// DueWithin counts records whose date is present and falls on or before
// today plus days. Dates already past are included.
func DueWithin[T any](records []T, date func(T) core.Date, now time.Time, days int) int {
	limit := core.DateOf(now).AddDate(0, 0, days)
	return CountMatching(records, func(r T) bool {
		d := date(r)
		return !d.IsEmpty() && !d.After(limit)
	})
}

// OverdueBefore counts records whose date is present and strictly before
// today minus months.
func OverdueBefore[T any](records []T, date func(T) core.Date, now time.Time, months int) int {
	limit := core.DateOf(now).AddDate(0, -months, 0)
	return CountMatching(records, func(r T) bool {
		d := date(r)
		return !d.IsEmpty() && d.Before(limit)
	})
}

// MonthsActive counts calendar months from since to now, both inclusive.
// An installation in the current month counts as one. Absent or future
// dates yield 0.
func MonthsActive(since core.Date, now time.Time) int {
	today := core.DateOf(now)
	if since.IsEmpty() || since.After(today.Time) {
		return 0
	}
	months := (today.Year()-since.Year())*12 + int(today.Month()-since.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}

// ProjectRevenue sums value times MonthsActive over records. Records with a
// zero value or an absent or future date contribute nothing.
func ProjectRevenue[T any](records []T, date func(T) core.Date, value func(T) float64, now time.Time) float64 {
	return Sum(records, func(r T) float64 {
		v := value(r)
		if v == 0 {
			return 0
		}
		return v * float64(MonthsActive(date(r), now))
	})
}
