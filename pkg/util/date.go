package util

import (
	"time"
)

// DateLayout is the calendar-date form used across the service. Dates carry
// no time component; ISO ordering makes string sort equal to date sort.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. Returns (t, true) on success.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaysBetween returns the whole-day distance from a to b (negative when b
// precedes a). Both must be YYYY-MM-DD; malformed input returns (0, false).
func DaysBetween(a, b string) (int, bool) {
	ta, ok := ParseDate(a)
	if !ok {
		return 0, false
	}
	tb, ok := ParseDate(b)
	if !ok {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}
