package models

import (
	"fmt"
	"time"
)

// SlotTemplate is one row of the weekly availability template.
//
// A row either recurs weekly (DayOfWeek holds the weekday name in the
// workspace's native language) or applies to one specific date
// (ExceptionDate set, YYYY-MM-DD). A date that has exception rows uses
// those rows exclusively; the weekly template is never merged in.
type SlotTemplate struct {
	DayOfWeek     string `json:"day_of_week,omitempty"`
	StartTime     string `json:"start_time"` // HH:MM or HH:MM:SS wall clock
	EndTime       string `json:"end_time"`
	ExceptionDate string `json:"exception_date,omitempty"`
}

// IsException reports whether the row overrides one specific date.
func (s SlotTemplate) IsException() bool {
	return s.ExceptionDate != ""
}

// Interval is a contiguous open time window available for work.
// The packer consumes intervals in place: they shrink or disappear as
// parts are carved out of them.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("interval start %s is not before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
