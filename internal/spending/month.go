// Package spending summarises tracked expenses per month: totals, category
// breakdowns, recent history and an end-of-month projection.
package spending

import (
	"fmt"
	"time"
)

// MonthLayout is the "YYYY-MM" month key format.
const MonthLayout = "2006-01"

// MonthKey returns the "YYYY-MM" key of t.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonth parses a "YYYY-MM" key into the first day of that month, UTC.
func ParseMonth(key string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", key, err)
	}
	return t, nil
}

// MonthRange returns the first day of the month and the first day of the next.
func MonthRange(key string) (time.Time, time.Time, error) {
	start, err := ParseMonth(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// PreviousMonth returns the key of the month before key.
func PreviousMonth(key string) (string, error) {
	start, err := ParseMonth(key)
	if err != nil {
		return "", err
	}
	return MonthKey(start.AddDate(0, -1, 0)), nil
}

// DaysIn returns the number of days of the month containing t.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
