package utils

import (
	"fmt"
	"time"
)

const (
	// DateFormat is the canonical date layout used across the app.
	DateFormat = "2006-01-02"
	// ClockFormat is the canonical time-of-day layout.
	ClockFormat = "15:04"
	// ClockFormatSeconds is accepted on input for template rows that
	// carry seconds.
	ClockFormatSeconds = "15:04:05"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// "Local" or empty resolves to the system timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseClock parses a wall-clock time of day (HH:MM or HH:MM:SS).
func ParseClock(clock string) (time.Time, error) {
	t, err := time.Parse(ClockFormat, clock)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(ClockFormatSeconds, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return t, nil
}

// ParseDateInLocation parses a YYYY-MM-DD date string as midnight in loc.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// CombineDateAndClock anchors a wall-clock time of day onto the calendar
// date of day, in day's location.
func CombineDateAndClock(day time.Time, clock string) (time.Time, error) {
	tod, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0,
		day.Location(),
	), nil
}

// SameDate reports whether a and b fall on the same calendar date,
// compared in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateKey returns the canonical YYYY-MM-DD key for t's calendar date.
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// HasTimeOfDay reports whether t carries an explicit time-of-day
// component. A timestamp at exactly midnight is treated as date-only.
func HasTimeOfDay(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0
}

// ValidateTimezone checks if the timezone name resolves.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
