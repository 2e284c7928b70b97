package models

import "time"

// RunStats summarizes one scheduling run. Derived data, not authoritative:
// everything here can be recomputed from the run's parts and slots.
type RunStats struct {
	TasksLoaded     int             `json:"tasks_loaded"`
	TasksSkipped    int             `json:"tasks_skipped"`
	PartsScheduled  int             `json:"parts_scheduled"`
	Unscheduled     int             `json:"unscheduled"`
	AvailableHours  float64         `json:"available_hours"`
	CommittedHours  float64         `json:"committed_hours"`
	FreeHours       float64         `json:"free_hours"`
	ScheduledDays   int             `json:"scheduled_days"` // distinct calendar days with parts
	FreeHoursByWeek map[int]float64 `json:"free_hours_by_week,omitempty"`
	ExceptionDays   int             `json:"exception_days"`
	ExceptionSlots  int             `json:"exception_slots"`
	Insertions      int             `json:"insertions"`
	DeletedEntries  int             `json:"deleted_entries"`
}

// RunRecord is a persisted scheduling run: what was placed, what was not,
// and what availability remained. The TUI and exporters read the most
// recent record instead of refetching from Notion.
type RunRecord struct {
	ID             string          `json:"id"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	DryRun         bool            `json:"dry_run"`
	InputHash      uint64          `json:"input_hash"`
	Stats          RunStats        `json:"stats"`
	Parts          []ScheduledPart `json:"parts"`
	Unscheduled    []Task          `json:"unscheduled"`
	RemainingSlots []Interval      `json:"remaining_slots"`
}
