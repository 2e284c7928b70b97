package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// GenerateOptions configures one availability expansion.
type GenerateOptions struct {
	// Now is the frozen clock for the run. Its location is the timezone
	// all intervals are produced in, and its calendar date is day zero
	// of the horizon.
	Now time.Time

	// HorizonDays is the number of calendar days to expand, starting on
	// Now's date. Must be positive.
	HorizonDays int

	// Weekdays maps native weekday names (lowercased) to weekdays.
	// Regular rows whose name is not in the map are dropped.
	Weekdays map[string]time.Weekday

	// ExcludedDates (YYYY-MM-DD keys) are omitted from the output
	// entirely, before exception rows are consulted.
	ExcludedDates map[string]bool
}

// GenerateResult is the expanded availability plus bookkeeping counts.
type GenerateResult struct {
	// Slots is the chronologically sorted list of open intervals.
	Slots []models.Interval

	// ExceptionDays counts dates within the horizon that were governed
	// by exception rows; ExceptionSlots counts the intervals those rows
	// produced.
	ExceptionDays  int
	ExceptionSlots int

	// Dropped holds template rows that could not be used (untranslatable
	// weekday, unparseable clock, empty range). The caller decides how
	// loudly to report them.
	Dropped []models.SlotTemplate
}

// GenerateAvailableSlots expands the weekly availability template plus its
// date-specific exception rows into concrete intervals over the horizon.
//
// A date with exception rows uses those rows exclusively: the weekly
// template is never consulted for it. On day zero, intervals whose start
// is at or before Now are withheld. The generator does not deduplicate
// overlapping template rows.
func GenerateAvailableSlots(rows []models.SlotTemplate, opts GenerateOptions) (GenerateResult, error) {
	var result GenerateResult

	if opts.HorizonDays <= 0 {
		return result, fmt.Errorf("horizon must be positive, got %d days", opts.HorizonDays)
	}
	if opts.Now.IsZero() {
		return result, fmt.Errorf("generate: no reference clock supplied")
	}

	loc := opts.Now.Location()
	today := utils.Midnight(opts.Now)

	type clockRange struct {
		start string
		end   string
	}

	exceptionsByDate := make(map[string][]models.Interval)
	regularByWeekday := make(map[time.Weekday][]clockRange)

	for _, row := range rows {
		if row.IsException() {
			day, err := utils.ParseDateInLocation(row.ExceptionDate, loc)
			if err != nil {
				result.Dropped = append(result.Dropped, row)
				continue
			}
			iv, err := localizeRange(day, row.StartTime, row.EndTime)
			if err != nil {
				result.Dropped = append(result.Dropped, row)
				continue
			}
			key := utils.DateKey(day)
			exceptionsByDate[key] = append(exceptionsByDate[key], iv)
			continue
		}

		wd, ok := opts.Weekdays[strings.ToLower(row.DayOfWeek)]
		if !ok {
			result.Dropped = append(result.Dropped, row)
			continue
		}
		// Validate the clocks once up front so a bad row is reported
		// instead of silently producing nothing on its weekday.
		if _, err := utils.ParseClock(row.StartTime); err != nil {
			result.Dropped = append(result.Dropped, row)
			continue
		}
		if _, err := utils.ParseClock(row.EndTime); err != nil {
			result.Dropped = append(result.Dropped, row)
			continue
		}
		regularByWeekday[wd] = append(regularByWeekday[wd], clockRange{row.StartTime, row.EndTime})
	}

	for day := 0; day < opts.HorizonDays; day++ {
		date := today.AddDate(0, 0, day)
		key := utils.DateKey(date)

		if opts.ExcludedDates[key] {
			continue
		}

		if exceptions, ok := exceptionsByDate[key]; ok {
			result.ExceptionDays++
			for _, iv := range exceptions {
				if day == 0 && !iv.Start.After(opts.Now) {
					continue
				}
				result.Slots = append(result.Slots, iv)
				result.ExceptionSlots++
			}
			continue
		}

		for _, cr := range regularByWeekday[date.Weekday()] {
			iv, err := localizeRange(date, cr.start, cr.end)
			if err != nil {
				continue
			}
			if day == 0 && !iv.Start.After(opts.Now) {
				continue
			}
			result.Slots = append(result.Slots, iv)
		}
	}

	sort.SliceStable(result.Slots, func(i, j int) bool {
		return result.Slots[i].Start.Before(result.Slots[j].Start)
	})

	return result, nil
}

// localizeRange anchors a wall-clock range onto a concrete date.
func localizeRange(day time.Time, startClock, endClock string) (models.Interval, error) {
	start, err := utils.CombineDateAndClock(day, startClock)
	if err != nil {
		return models.Interval{}, err
	}
	end, err := utils.CombineDateAndClock(day, endClock)
	if err != nil {
		return models.Interval{}, err
	}
	return models.NewInterval(start, end)
}
