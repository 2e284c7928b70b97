package notion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jomei/notionapi"

	"github.com/vmartins/studysync/internal/logger"
	"github.com/vmartins/studysync/internal/models"
)

// maxShortName caps the base of a schedule entry title, not counting a
// bracketed type prefix or the part suffix.
const maxShortName = 12

// ClearSchedules archives every page in the schedules database and returns
// how many were archived.
func (c *Client) ClearSchedules(ctx context.Context) (int, error) {
	pages, err := c.queryAll(ctx, c.cfg.SchedulesDB, nil)
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, nil
	}

	archived := 0
	for i := 0; i < len(pages); i += c.cfg.BatchSize {
		end := i + c.cfg.BatchSize
		if end > len(pages) {
			end = len(pages)
		}
		if err := forEachConcurrently(pages[i:end], func(page notionapi.Page) error {
			return c.archivePage(ctx, page.ID)
		}); err != nil {
			return archived, err
		}
		archived = end
		logger.Debug("archived schedule batch", "done", archived, "total", len(pages))
	}
	return archived, nil
}

// CreateSchedules writes one page per scheduled part, in batches. Parts of
// a task that was split get a "...N" suffix with their 1-based index.
func (c *Client) CreateSchedules(ctx context.Context, parts []models.ScheduledPart) (int, error) {
	if len(parts) == 0 {
		return 0, nil
	}

	partTotals := make(map[string]int)
	for _, part := range parts {
		partTotals[part.TaskID]++
	}

	partIndex := make(map[string]int)
	requests := make([]*notionapi.PageCreateRequest, 0, len(parts))
	for _, part := range parts {
		partIndex[part.TaskID]++
		requests = append(requests, c.scheduleRequest(part, partIndex[part.TaskID], partTotals[part.TaskID]))
	}

	created := 0
	for i := 0; i < len(requests); i += c.cfg.BatchSize {
		end := i + c.cfg.BatchSize
		if end > len(requests) {
			end = len(requests)
		}
		if err := forEachConcurrently(requests[i:end], func(req *notionapi.PageCreateRequest) error {
			return c.createPage(ctx, req)
		}); err != nil {
			return created, err
		}
		created = end
		logger.Debug("created schedule batch", "done", created, "total", len(requests))
	}
	return created, nil
}

func (c *Client) scheduleRequest(part models.ScheduledPart, index, total int) *notionapi.PageCreateRequest {
	p := c.cfg.Properties

	title := shortName(part.Name)
	if total > 1 {
		title = fmt.Sprintf("%s...%d", title, index)
	}

	props := notionapi.Properties{
		p.ScheduleTitle: titleProp(title),
		p.ScheduleDate:  dateRangeProp(part.Start, part.End),
	}
	if part.IsTopic {
		props[p.TopicRel] = relationProp(part.TaskID)
		if part.ActivityID != "" {
			props[p.ActivityRel] = relationProp(part.ActivityID)
		}
	} else {
		props[p.ActivityRel] = relationProp(part.TaskID)
	}

	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(c.cfg.SchedulesDB),
		},
		Properties: props,
	}
}

// forEachConcurrently runs fn for every item and returns the first error.
func forEachConcurrently[T any](items []T, fn func(T) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(item); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// shortName shortens a task name for the calendar view. A bracketed type
// prefix like "[Prova]" survives intact; the remainder is cut to
// maxShortName runes.
func shortName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "(sem nome)"
	}

	prefix := ""
	rest := name
	if strings.HasPrefix(name, "[") {
		if i := strings.Index(name, "]"); i >= 0 {
			prefix = name[:i+1]
			rest = strings.TrimSpace(name[i+1:])
		}
	}

	runes := []rune(rest)
	if len(runes) > maxShortName {
		rest = string(runes[:maxShortName])
	}

	if prefix == "" {
		return rest
	}
	if rest == "" {
		return prefix
	}
	return prefix + " " + rest
}
