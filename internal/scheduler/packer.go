package scheduler

import (
	"sort"
	"time"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// PackOptions carries the two scheduling knobs.
type PackOptions struct {
	// MaxPartDuration caps one contiguous session.
	MaxPartDuration time.Duration
	// RestDuration is the idle gap inserted after a session when the
	// task still has work left and the interval has enough slack.
	RestDuration time.Duration
}

// PackResult is everything one packing run produces.
type PackResult struct {
	// Parts are the placements, in the order they were made. Parts of a
	// task that could not be fully placed are still included.
	Parts []models.ScheduledPart

	// OriginalSlots is a snapshot of the availability before packing;
	// RemainingSlots is what is left of it afterwards.
	OriginalSlots  []models.Interval
	RemainingSlots []models.Interval

	// Unscheduled holds tasks that could not be placed in full before
	// their deadline. Not an error: it is reported to the user.
	Unscheduled []models.Task
}

// PackTasks greedily assigns tasks to availability intervals in ascending
// due-date order (ties keep input order). Each task is split across as
// many intervals as needed before the next task is attempted; the slots
// slice is consumed in place.
//
// A due date without a time-of-day component (exactly midnight) excludes
// its whole calendar day: the task must finish on an earlier day. A due
// date with an explicit time keeps its day eligible up to that time.
func PackTasks(tasks []models.Task, slots []models.Interval, opts PackOptions) PackResult {
	result := PackResult{
		OriginalSlots: append([]models.Interval(nil), slots...),
	}

	ordered := append([]models.Task(nil), tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DueDate.Before(ordered[j].DueDate)
	})

	scheduled := make(map[string]bool)

	for _, task := range ordered {
		if scheduled[task.ID] {
			continue
		}

		deadline := task.DueDate
		dayEligible := utils.HasTimeOfDay(deadline)
		remaining := task.Duration
		var parts []models.ScheduledPart

		for remaining > 0 {
			i := findEligibleSlot(slots, deadline, dayEligible)
			if i < 0 {
				result.Unscheduled = append(result.Unscheduled, task)
				break
			}

			slot := slots[i]
			clippedEnd := slot.End
			if clippedEnd.After(deadline) {
				clippedEnd = deadline
			}

			available := clippedEnd.Sub(slot.Start)
			partDuration := remaining
			if opts.MaxPartDuration < partDuration {
				partDuration = opts.MaxPartDuration
			}
			if available < partDuration {
				partDuration = available
			}
			partEnd := slot.Start.Add(partDuration)

			parts = append(parts, models.ScheduledPart{
				TaskID:     task.ID,
				Name:       task.Name,
				IsTopic:    task.IsTopic,
				ActivityID: task.ActivityID,
				Start:      slot.Start,
				End:        partEnd,
				DueDate:    task.DueDate,
			})
			remaining -= partDuration

			// Shrink or drop the interval in place. Anything past the
			// deadline clip is discarded with it.
			switch {
			case !partEnd.Before(clippedEnd):
				slots = append(slots[:i], slots[i+1:]...)
			case clippedEnd.Sub(partEnd) >= opts.RestDuration && remaining > 0:
				restEnd := partEnd.Add(opts.RestDuration)
				if restEnd.Before(clippedEnd) {
					slots[i] = models.Interval{Start: restEnd, End: clippedEnd}
				} else {
					slots = append(slots[:i], slots[i+1:]...)
				}
			default:
				slots[i] = models.Interval{Start: partEnd, End: clippedEnd}
			}
		}

		result.Parts = append(result.Parts, parts...)
		if remaining <= 0 {
			scheduled[task.ID] = true
		}
	}

	result.RemainingSlots = slots
	return result
}

// findEligibleSlot returns the index of the first interval that can hold
// any amount of work before the deadline, or -1.
func findEligibleSlot(slots []models.Interval, deadline time.Time, dayEligible bool) int {
	for i, slot := range slots {
		if !dayEligible && utils.SameDate(slot.Start, deadline) {
			continue
		}
		if !slot.Start.Before(deadline) {
			continue
		}
		clippedEnd := slot.End
		if clippedEnd.After(deadline) {
			clippedEnd = deadline
		}
		if clippedEnd.Sub(slot.Start) <= 0 {
			continue
		}
		return i
	}
	return -1
}
