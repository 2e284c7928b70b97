package models

import (
	"fmt"
	"time"
)

// Task is one unit of work to place on the calendar: either a standalone
// activity or a topic belonging to one. Topics inherit the parent
// activity's due date and are scheduled independently.
type Task struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Duration   time.Duration `json:"duration"`
	DueDate    time.Time     `json:"due_date"`
	IsTopic    bool          `json:"is_topic"`
	ActivityID string        `json:"activity_id,omitempty"` // set only when IsTopic
}

func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task has no id")
	}
	if t.Name == "" {
		return fmt.Errorf("task %s has no name", t.ID)
	}
	if t.Duration <= 0 {
		return fmt.Errorf("task %q has non-positive duration", t.Name)
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("task %q has no due date", t.Name)
	}
	return nil
}

// ScheduledPart is one contiguous placement of (part of) a task.
// Parts are created by the packer and never modified afterwards.
type ScheduledPart struct {
	TaskID     string    `json:"task_id"`
	Name       string    `json:"name"`
	IsTopic    bool      `json:"is_topic"`
	ActivityID string    `json:"activity_id,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DueDate    time.Time `json:"due_date"`
}

func (p ScheduledPart) Duration() time.Duration {
	return p.End.Sub(p.Start)
}
