package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// Period is an inclusive calendar date window a schedule view is rendered
// for. Start and End are midnights in the scheduling timezone.
type Period struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether t's calendar day falls inside the period.
func (p Period) Contains(t time.Time) bool {
	day := utils.Midnight(t.In(p.Start.Location()))
	return !day.Before(p.Start) && !day.After(p.End)
}

// Exporter renders schedule views into Dir, one file per period and format.
type Exporter struct {
	Dir string
	Now time.Time
}

// Periods returns the three standard windows relative to Now's date:
// today, the next seven days, and the month beyond that.
func (e *Exporter) Periods() []Period {
	today := utils.Midnight(e.Now)
	day := func(n int) time.Time { return today.AddDate(0, 0, n) }
	return []Period{
		{Name: "today", Start: day(0), End: day(0)},
		{Name: "next_7_days", Start: day(1), End: day(7)},
		{Name: "next_30_days", Start: day(8), End: day(37)},
	}
}

type renderer struct {
	ext    string
	render func(Period, []models.ScheduledPart, []models.Task) ([]byte, error)
}

// WriteAll renders every period in every format and returns the written
// file paths. Unscheduled tasks are filtered by due date per period.
func (e *Exporter) WriteAll(parts []models.ScheduledPart, unscheduled []models.Task) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	renderers := []renderer{
		{ext: "txt", render: renderText},
		{ext: "md", render: renderMarkdown},
		{ext: "csv", render: renderCSV},
		{ext: "ics", render: renderICS},
	}

	var paths []string
	for _, period := range e.Periods() {
		periodParts := filterParts(period, parts)
		periodUnscheduled := filterUnscheduled(period, unscheduled)

		for _, r := range renderers {
			data, err := r.render(period, periodParts, periodUnscheduled)
			if err != nil {
				return paths, fmt.Errorf("rendering %s for %s: %w", r.ext, period.Name, err)
			}
			path := filepath.Join(e.Dir, fmt.Sprintf("schedule_%s.%s", period.Name, r.ext))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return paths, fmt.Errorf("writing %s: %w", path, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func filterParts(period Period, parts []models.ScheduledPart) []models.ScheduledPart {
	var out []models.ScheduledPart
	for _, part := range parts {
		if period.Contains(part.Start) {
			out = append(out, part)
		}
	}
	return out
}

func filterUnscheduled(period Period, tasks []models.Task) []models.Task {
	var out []models.Task
	for _, task := range tasks {
		if period.Contains(task.DueDate) {
			out = append(out, task)
		}
	}
	return out
}
