package export

import (
	"fmt"
	"strings"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// renderMarkdown writes the period as a markdown table, one row per
// session, chronological.
func renderMarkdown(period Period, parts []models.ScheduledPart, unscheduled []models.Task) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Schedule: %s\n\n", period.Name)
	fmt.Fprintf(&b, "%s to %s\n\n", utils.DateKey(period.Start), utils.DateKey(period.End))

	if len(parts) == 0 {
		b.WriteString("Nothing scheduled in this period.\n")
	} else {
		b.WriteString("| Date | Start | End | Task | Due |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, part := range parts {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				part.Start.Format("Mon 2006-01-02"),
				part.Start.Format(utils.ClockFormat),
				part.End.Format(utils.ClockFormat),
				escapePipes(part.Name),
				utils.DateKey(part.DueDate))
		}
	}

	if len(unscheduled) > 0 {
		b.WriteString("\n## Did not fit before their deadline\n\n")
		for _, task := range unscheduled {
			fmt.Fprintf(&b, "- %s (%.1fh, due %s)\n",
				escapePipes(task.Name), task.Duration.Hours(), utils.DateKey(task.DueDate))
		}
	}

	return []byte(b.String()), nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
