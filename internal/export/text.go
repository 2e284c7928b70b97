package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// renderText writes a plain-text view grouped by task, sessions in
// chronological order under each heading.
func renderText(period Period, parts []models.ScheduledPart, unscheduled []models.Task) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Schedule: %s (%s to %s)\n",
		period.Name, utils.DateKey(period.Start), utils.DateKey(period.End))
	b.WriteString(strings.Repeat("=", 50) + "\n")

	if len(parts) == 0 {
		b.WriteString("\nNothing scheduled in this period.\n")
	}

	groups, order := groupByTask(parts)
	for _, name := range order {
		fmt.Fprintf(&b, "\n%s\n", name)
		for _, part := range groups[name] {
			fmt.Fprintf(&b, "  %s  %s - %s  (%.1fh)\n",
				part.Start.Format("Mon 2006-01-02"),
				part.Start.Format(utils.ClockFormat),
				part.End.Format(utils.ClockFormat),
				part.Duration().Hours())
		}
	}

	if len(unscheduled) > 0 {
		b.WriteString("\nDid not fit before their deadline:\n")
		for _, task := range unscheduled {
			fmt.Fprintf(&b, "  - %s (%.1fh, due %s)\n",
				task.Name, task.Duration.Hours(), utils.DateKey(task.DueDate))
		}
	}

	return []byte(b.String()), nil
}

// groupByTask buckets parts by display name, keeping groups ordered by
// their earliest session.
func groupByTask(parts []models.ScheduledPart) (map[string][]models.ScheduledPart, []string) {
	groups := make(map[string][]models.ScheduledPart)
	var order []string
	for _, part := range parts {
		if _, ok := groups[part.Name]; !ok {
			order = append(order, part.Name)
		}
		groups[part.Name] = append(groups[part.Name], part)
	}
	for _, name := range order {
		g := groups[name]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Start.Before(g[j].Start) })
	}
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]][0].Start.Before(groups[order[j]][0].Start)
	})
	return groups, order
}
