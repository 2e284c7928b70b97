package scheduler

import (
	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// Summarize derives run statistics from a packing result. Free hours are
// broken down by ISO week number of the remaining intervals so the user
// can see at a glance where slack is left.
func Summarize(pack PackResult) models.RunStats {
	stats := models.RunStats{
		PartsScheduled:  len(pack.Parts),
		Unscheduled:     len(pack.Unscheduled),
		FreeHoursByWeek: make(map[int]float64),
	}

	for _, slot := range pack.OriginalSlots {
		stats.AvailableHours += slot.Duration().Hours()
	}
	for _, part := range pack.Parts {
		stats.CommittedHours += part.Duration().Hours()
	}
	stats.FreeHours = stats.AvailableHours - stats.CommittedHours

	days := make(map[string]bool)
	for _, part := range pack.Parts {
		days[utils.DateKey(part.Start)] = true
	}
	stats.ScheduledDays = len(days)

	for _, slot := range pack.RemainingSlots {
		_, week := slot.Start.ISOWeek()
		stats.FreeHoursByWeek[week] += slot.Duration().Hours()
	}

	return stats
}
