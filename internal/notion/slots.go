package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"

	"github.com/vmartins/studysync/internal/logger"
	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// FetchTimeSlots loads the weekly availability template. Exception rows
// carrying a date but no start or end time mark the whole date as excluded
// and are returned separately. When dayNames is non-nil, exception rows
// missing their weekday select are back-filled with the native weekday name
// of the exception date, best effort.
func (c *Client) FetchTimeSlots(ctx context.Context, dayNames map[time.Weekday]string) ([]models.SlotTemplate, []string, error) {
	pages, err := c.queryAll(ctx, c.cfg.TimeSlotsDB, nil)
	if err != nil {
		return nil, nil, err
	}

	p := c.cfg.Properties
	var rows []models.SlotTemplate
	var excluded []string

	for _, page := range pages {
		start := textOf(page, p.StartTime)
		end := textOf(page, p.EndTime)
		day := selectOf(page, p.DayOfWeek)

		exceptionDate := ""
		if exc, ok := dateOf(page, p.ExceptionDate, c.loc); ok {
			exceptionDate = utils.DateKey(exc)
		}

		if exceptionDate != "" {
			if start == "" || end == "" {
				logger.Info("date fully excluded by exception row", "date", exceptionDate)
				excluded = append(excluded, exceptionDate)
				continue
			}
			if day == "" && dayNames != nil {
				c.backfillWeekday(ctx, page, exceptionDate, dayNames)
			}
		} else if day == "" {
			logger.Error("template row without a weekday, skipping", "id", page.ID)
			continue
		}

		if start == "" || end == "" {
			logger.Error("template row without start or end time, skipping", "id", page.ID, "day", day)
			continue
		}

		rows = append(rows, models.SlotTemplate{
			DayOfWeek:     day,
			StartTime:     start,
			EndTime:       end,
			ExceptionDate: exceptionDate,
		})
	}

	return rows, excluded, nil
}

func (c *Client) backfillWeekday(ctx context.Context, page notionapi.Page, exceptionDate string, dayNames map[time.Weekday]string) {
	date, err := utils.ParseDateInLocation(exceptionDate, c.loc)
	if err != nil {
		return
	}
	name, ok := dayNames[date.Weekday()]
	if !ok {
		return
	}
	props := notionapi.Properties{
		c.cfg.Properties.DayOfWeek: selectProp(name),
	}
	if err := c.updatePage(ctx, page.ID, props); err != nil {
		logger.Warn("could not back-fill weekday on exception row", "id", page.ID, "error", err)
	}
}
