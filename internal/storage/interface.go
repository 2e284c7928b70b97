package storage

import (
	"errors"
	"time"

	"github.com/vmartins/studysync/internal/models"
)

// ErrNotFound is returned when a requested record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// TemplateCache holds the weekly slot template rows fetched from the
// workspace, together with the dates the template marks as fully excluded.
type TemplateCache struct {
	FetchedAt     time.Time             `json:"fetched_at"`
	Rows          []models.SlotTemplate `json:"rows"`
	ExcludedDates []string              `json:"excluded_dates"`
}

// Fresh reports whether the cache was fetched within maxAge of now.
func (c TemplateCache) Fresh(now time.Time, maxAge time.Duration) bool {
	if c.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(c.FetchedAt) <= maxAge
}

// TopicSet holds the cached topic breakdown for a single activity.
type TopicSet struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Topics    []models.Task `json:"topics"`
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Template cache
	GetTemplates() (TemplateCache, error)
	SaveTemplates(TemplateCache) error

	// Topic cache
	GetTopics(activityID string) (TopicSet, error)
	SaveTopics(activityID string, set TopicSet) error
	ClearTopics() error

	// Run history
	SaveRun(models.RunRecord) error
	GetLastRun() (models.RunRecord, error)
	GetRuns(limit int) ([]models.RunRecord, error)

	// Utils
	Path() string
}
