package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/vmartins/studysync/internal/config"
	"github.com/vmartins/studysync/internal/logger"
)

const (
	maxAttempts  = 3
	initialDelay = time.Second
)

// Client wraps the Notion API with the database layout from the config.
// All calls retry transient failures with exponential backoff.
type Client struct {
	api *notionapi.Client
	cfg config.NotionConfig
	loc *time.Location
}

func NewClient(token string, cfg config.NotionConfig, loc *time.Location) *Client {
	return &Client{
		api: notionapi.NewClient(notionapi.Token(token)),
		cfg: cfg,
		loc: loc,
	}
}

func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	delay := initialDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("%s: %w", op, err)
		}
		logger.Warn("notion call failed, retrying", "op", op, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// queryAll pages through a database query until the API reports no more
// results.
func (c *Client) queryAll(ctx context.Context, dbID string, filter notionapi.Filter) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			Filter:      filter,
			StartCursor: cursor,
			PageSize:    100,
		}
		var resp *notionapi.DatabaseQueryResponse
		err := c.withRetry(ctx, "database query", func() error {
			var qerr error
			resp, qerr = c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
			return qerr
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) createPage(ctx context.Context, req *notionapi.PageCreateRequest) error {
	return c.withRetry(ctx, "page create", func() error {
		_, err := c.api.Page.Create(ctx, req)
		return err
	})
}

func (c *Client) archivePage(ctx context.Context, id notionapi.ObjectID) error {
	return c.withRetry(ctx, "page archive", func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
			Properties: notionapi.Properties{},
			Archived:   true,
		})
		return err
	})
}

func (c *Client) updatePage(ctx context.Context, id notionapi.ObjectID, props notionapi.Properties) error {
	return c.withRetry(ctx, "page update", func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
			Properties: props,
		})
		return err
	})
}

// notDoneFilter matches pages whose status formula differs from the
// configured completed value.
func (c *Client) notDoneFilter() notionapi.Filter {
	p := c.cfg.Properties
	if p.Status == "" || p.StatusDone == "" {
		return nil
	}
	return notionapi.PropertyFilter{
		Property: p.Status,
		Formula: &notionapi.FormulaFilterCondition{
			String: &notionapi.TextFilterCondition{
				DoesNotEqual: p.StatusDone,
			},
		},
	}
}

func relationContains(property, id string) notionapi.Filter {
	return notionapi.PropertyFilter{
		Property: property,
		Relation: &notionapi.RelationFilterCondition{Contains: id},
	}
}

func andFilters(filters ...notionapi.Filter) notionapi.Filter {
	var kept notionapi.AndCompoundFilter
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return kept
}
