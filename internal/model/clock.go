package model

import (
	"fmt"
	"time"
)

// MinutesPerDay bounds wall-clock minute values; valid times are [0, 1440].
const MinutesPerDay = 24 * 60

const dateLayout = "2006-01-02"

// ParseClock parses an "HH:MM" wall-clock value into minutes from midnight.
// "24:00" is accepted as the exclusive end of day (1440).
func ParseClock(s string) (int, error) {
	if s == "24:00" {
		return MinutesPerDay, nil
	}
	// time.Parse is lenient about padding and maps "24:00" to midnight, so
	// require the exact five-character form.
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes from midnight as "HH:MM". A value of 1440
// renders as "24:00" (exclusive end of day).
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseDate parses a "YYYY-MM-DD" calendar date to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// NormalizeDate truncates t to its calendar date at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}

// Weekday returns the calendar weekday of date, 0-6 with Sunday = 0.
func Weekday(date time.Time) int {
	return int(NormalizeDate(date).Weekday())
}
