package timespec

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by record fields and form inputs.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date into the instant of its midnight in loc.
// Supports two formats:
//   - Calendar date: "2026-10-14"
//   - ISO timestamps: "2026-10-14T05:00:00.000Z" (only the date part is used)
//
// The time-of-day of a timestamp is discarded rather than converted, so a date
// stored as UTC midnight never shifts to the previous day in a negative offset.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	spec := strings.TrimSpace(value)
	if spec == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if i := strings.IndexByte(spec, 'T'); i >= 0 {
		spec = spec[:i]
	}

	t, err := time.ParseInLocation(DateLayout, spec, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s (use a calendar date like '2026-10-14')", value)
	}

	return t, nil
}

// Midnight returns the start of t's calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AddYears moves t by n calendar years keeping month and day.
// A Feb 29 that does not exist in the target year normalizes to Mar 1.
func AddYears(t time.Time, n int) time.Time {
	return t.AddDate(n, 0, 0)
}

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate reduces a date or timestamp string to its calendar-date form.
// Values that do not parse are returned unchanged so validation can report them.
func NormalizeDate(value string) string {
	t, err := ParseDate(value, time.UTC)
	if err != nil {
		return value
	}
	return FormatDate(t)
}
