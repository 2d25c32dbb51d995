package util

import (
	"strconv"
	"time"
)

// StartOfMonth truncates t to the first day of its month, UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the first day of the month n months after t.
// Negative n walks backwards.
func AddMonths(t time.Time, n int) time.Time {
	s := StartOfMonth(t)
	return time.Date(s.Year(), s.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween counts whole months from `from` to `to` at month
// granularity; same month is 0, earlier `to` is negative.
func MonthsBetween(from, to time.Time) int {
	f, t := StartOfMonth(from), StartOfMonth(to)
	return (t.Year()-f.Year())*12 + int(t.Month()-f.Month())
}

// ParseTime tries RFC3339, a plain date, year-month, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns def if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}
