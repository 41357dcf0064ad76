package utils

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout is the ISO calendar date layout used across inputs and outputs.
const DateLayout = "2006-01-02"

// ParseDate converts YYYY-MM-DD to a UTC midnight time.Time. Impossible dates
// such as 2025-02-30 are rejected.
func ParseDate(value string) (time.Time, error) {
	d, err := civil.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d.In(time.UTC), nil
}

// CivilDate drops the clock and location from t.
func CivilDate(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// FormatDate renders t as YYYY-MM-DD, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization surprises.
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	// Day overflowed into the following month: clamp to the target month's last day.
	return time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
