package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a Brazilian holiday calendar.
type CalendarID string

const (
	// Settlement is the ANBIMA calendar used for du counts in bond pricing.
	Settlement CalendarID = "ANBIMA"
	// Exchange is the B3 trading calendar.
	Exchange CalendarID = "B3"
)

// ParseCalendarID accepts either the institution name or the variant name.
func ParseCalendarID(value string) (CalendarID, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ANBIMA", "SETTLEMENT":
		return Settlement, nil
	case "B3", "EXCHANGE":
		return Exchange, nil
	default:
		return "", fmt.Errorf("unknown calendar %q", value)
	}
}

// IsBusinessDay checks weekends and the holiday rules of cal.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	t = dateOnly(t)
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	t = dateOnly(t)
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// NextBusinessDay returns the first business day strictly after t.
func NextBusinessDay(cal CalendarID, t time.Time) time.Time {
	return AddBusinessDays(cal, t, 1)
}

// PreviousBusinessDay returns the last business day strictly before t.
func PreviousBusinessDay(cal CalendarID, t time.Time) time.Time {
	return AddBusinessDays(cal, t, -1)
}

// BusinessDaysBetween counts business days in (start, end]. The count is
// negated when start is after end, so swapping the arguments flips the sign.
func BusinessDaysBetween(cal CalendarID, start, end time.Time) int {
	start, end = dateOnly(start), dateOnly(end)
	if start.Equal(end) {
		return 0
	}
	if start.After(end) {
		return -BusinessDaysBetween(cal, end, start)
	}

	n := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(cal, d) {
			n++
		}
	}
	return n
}

// Supports reports whether t falls inside the years the holiday rules cover.
// Every other function in this package panics outside that range.
func Supports(t time.Time) bool {
	y := t.Year()
	return y >= minYear && y <= maxYear
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
