package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/vmartins/studysync/internal/models"
)

func newTestProviders(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	providers := map[string]Provider{
		"json":   NewJSONStore(filepath.Join(dir, "store.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "store.db")),
	}
	for name, p := range providers {
		if err := p.Init(); err != nil {
			t.Fatalf("%s: Init() error: %v", name, err)
		}
		t.Cleanup(func() { p.Close() })
	}
	return providers
}

func TestTemplateCacheRoundTrip(t *testing.T) {
	fetched := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	cache := TemplateCache{
		FetchedAt: fetched,
		Rows: []models.SlotTemplate{
			{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"},
			{StartTime: "14:00", EndTime: "16:00", ExceptionDate: "2026-03-12"},
		},
		ExcludedDates: []string{"2026-03-13"},
	}

	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := p.GetTemplates(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("GetTemplates() on empty store error = %v, want ErrNotFound", err)
			}
			if err := p.SaveTemplates(cache); err != nil {
				t.Fatalf("SaveTemplates() error: %v", err)
			}

			got, err := p.GetTemplates()
			if err != nil {
				t.Fatalf("GetTemplates() error: %v", err)
			}
			if !got.FetchedAt.Equal(fetched) {
				t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fetched)
			}
			if len(got.Rows) != 2 {
				t.Fatalf("got %d rows, want 2", len(got.Rows))
			}
			if got.Rows[0].DayOfWeek != "segunda" || got.Rows[0].StartTime != "09:00" {
				t.Errorf("first row = %+v", got.Rows[0])
			}
			if got.Rows[1].ExceptionDate != "2026-03-12" {
				t.Errorf("second row exception date = %q, want 2026-03-12", got.Rows[1].ExceptionDate)
			}
			if len(got.ExcludedDates) != 1 || got.ExcludedDates[0] != "2026-03-13" {
				t.Errorf("excluded dates = %v", got.ExcludedDates)
			}
		})
	}
}

func TestTemplateCacheOverwrite(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			first := TemplateCache{
				FetchedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
				Rows:      []models.SlotTemplate{{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"}},
			}
			second := TemplateCache{
				FetchedAt: time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC),
				Rows: []models.SlotTemplate{
					{DayOfWeek: "terça", StartTime: "10:00", EndTime: "12:00"},
					{DayOfWeek: "quarta", StartTime: "10:00", EndTime: "12:00"},
				},
			}
			if err := p.SaveTemplates(first); err != nil {
				t.Fatalf("SaveTemplates(first) error: %v", err)
			}
			if err := p.SaveTemplates(second); err != nil {
				t.Fatalf("SaveTemplates(second) error: %v", err)
			}
			got, err := p.GetTemplates()
			if err != nil {
				t.Fatalf("GetTemplates() error: %v", err)
			}
			if len(got.Rows) != 2 {
				t.Fatalf("got %d rows after overwrite, want 2", len(got.Rows))
			}
			if got.Rows[0].DayOfWeek != "terça" {
				t.Errorf("first row after overwrite = %+v", got.Rows[0])
			}
		})
	}
}

func TestTopicSetRoundTrip(t *testing.T) {
	set := TopicSet{
		FetchedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Topics: []models.Task{
			{ID: "t1", Name: "Capítulo 1", Duration: 90 * time.Minute, IsTopic: true, ActivityID: "a1"},
			{ID: "t2", Name: "Capítulo 2", Duration: time.Hour, IsTopic: true, ActivityID: "a1"},
		},
	}

	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := p.GetTopics("a1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("GetTopics() on empty store error = %v, want ErrNotFound", err)
			}
			if err := p.SaveTopics("a1", set); err != nil {
				t.Fatalf("SaveTopics() error: %v", err)
			}
			got, err := p.GetTopics("a1")
			if err != nil {
				t.Fatalf("GetTopics() error: %v", err)
			}
			if len(got.Topics) != 2 {
				t.Fatalf("got %d topics, want 2", len(got.Topics))
			}
			if got.Topics[0].Duration != 90*time.Minute {
				t.Errorf("topic duration = %v, want 90m", got.Topics[0].Duration)
			}
			if !got.Topics[1].IsTopic || got.Topics[1].ActivityID != "a1" {
				t.Errorf("second topic = %+v", got.Topics[1])
			}

			if err := p.ClearTopics(); err != nil {
				t.Fatalf("ClearTopics() error: %v", err)
			}
			if _, err := p.GetTopics("a1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetTopics() after clear error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRunHistory(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := p.GetLastRun(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("GetLastRun() on empty store error = %v, want ErrNotFound", err)
			}

			base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
			for i := 0; i < 3; i++ {
				run := models.RunRecord{
					ID:        fmt.Sprintf("run-%d", i),
					StartedAt: base.Add(time.Duration(i) * time.Hour),
					InputHash: uint64(100 + i),
					Stats:     models.RunStats{PartsScheduled: i},
				}
				if err := p.SaveRun(run); err != nil {
					t.Fatalf("SaveRun(%d) error: %v", i, err)
				}
			}

			last, err := p.GetLastRun()
			if err != nil {
				t.Fatalf("GetLastRun() error: %v", err)
			}
			if last.ID != "run-2" {
				t.Errorf("GetLastRun() ID = %q, want run-2", last.ID)
			}
			if last.InputHash != 102 {
				t.Errorf("GetLastRun() InputHash = %d, want 102", last.InputHash)
			}

			runs, err := p.GetRuns(2)
			if err != nil {
				t.Fatalf("GetRuns(2) error: %v", err)
			}
			if len(runs) != 2 {
				t.Fatalf("GetRuns(2) returned %d runs", len(runs))
			}
			if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
				t.Errorf("GetRuns(2) order = %q, %q", runs[0].ID, runs[1].ID)
			}
		})
	}
}

func TestRunHistoryCapped(t *testing.T) {
	for name, p := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < maxRunHistory+5; i++ {
				run := models.RunRecord{
					ID:        fmt.Sprintf("run-%02d", i),
					StartedAt: base.Add(time.Duration(i) * time.Hour),
				}
				if err := p.SaveRun(run); err != nil {
					t.Fatalf("SaveRun(%d) error: %v", i, err)
				}
			}
			runs, err := p.GetRuns(0)
			if err != nil {
				t.Fatalf("GetRuns(0) error: %v", err)
			}
			if len(runs) != maxRunHistory {
				t.Fatalf("kept %d runs, want %d", len(runs), maxRunHistory)
			}
			if runs[0].ID != fmt.Sprintf("run-%02d", maxRunHistory+4) {
				t.Errorf("newest kept run = %q", runs[0].ID)
			}
		})
	}
}

func TestJSONStoreReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	first := NewJSONStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	run := models.RunRecord{ID: "r1", StartedAt: time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)}
	if err := first.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() error: %v", err)
	}
	first.Close()

	second := NewJSONStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got, err := second.GetLastRun()
	if err != nil {
		t.Fatalf("GetLastRun() after reload error: %v", err)
	}
	if got.ID != "r1" {
		t.Errorf("reloaded run ID = %q, want r1", got.ID)
	}
}

func TestJSONStoreLoadMissing(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "absent.json"))
	if err := s.Load(); err == nil {
		t.Fatal("Load() on missing file should fail")
	}
}

func TestTemplateCacheFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		fetched time.Time
		want    bool
	}{
		{"recent", now.Add(-time.Hour), true},
		{"exact boundary", now.Add(-24 * time.Hour), true},
		{"stale", now.Add(-25 * time.Hour), false},
		{"zero", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := TemplateCache{FetchedAt: tc.fetched}
			if got := c.Fresh(now, 24*time.Hour); got != tc.want {
				t.Errorf("Fresh() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFingerprintStability(t *testing.T) {
	snap := Snapshot{
		Tasks: []models.Task{
			{ID: "a", Name: "Prova", Duration: 2 * time.Hour, DueDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)},
		},
		Rows:          []models.SlotTemplate{{DayOfWeek: "segunda", StartTime: "09:00", EndTime: "11:00"}},
		ExcludedDates: []string{"2026-03-13"},
	}

	h1, err := Fingerprint(snap)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	h2, err := Fingerprint(snap)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("same snapshot hashed to %d and %d", h1, h2)
	}

	snap.Tasks[0].Duration = 3 * time.Hour
	h3, err := Fingerprint(snap)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if h3 == h1 {
		t.Error("changed snapshot produced identical hash")
	}
}
