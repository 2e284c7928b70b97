package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// renderCSV writes one row per session plus trailing rows for tasks that
// did not fit, marked by an empty start and end.
func renderCSV(_ Period, parts []models.ScheduledPart, unscheduled []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "start", "end", "task", "due", "hours"}); err != nil {
		return nil, err
	}
	for _, part := range parts {
		row := []string{
			utils.DateKey(part.Start),
			part.Start.Format(utils.ClockFormat),
			part.End.Format(utils.ClockFormat),
			part.Name,
			utils.DateKey(part.DueDate),
			fmt.Sprintf("%.2f", part.Duration().Hours()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, task := range unscheduled {
		row := []string{
			"", "", "",
			task.Name,
			utils.DateKey(task.DueDate),
			fmt.Sprintf("%.2f", task.Duration.Hours()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
