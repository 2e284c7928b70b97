package notion

import (
	"context"
	"errors"
	"time"

	"github.com/vmartins/studysync/internal/logger"
	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/storage"
)

// TopicCache caches the per-activity topic breakdown between runs. A nil
// cache disables caching. storage.Provider satisfies this interface.
type TopicCache interface {
	GetTopics(activityID string) (storage.TopicSet, error)
	SaveTopics(activityID string, set storage.TopicSet) error
}

// FetchTasks loads every pending activity from the tasks database and
// expands activities with topic relations into one task per topic. Topics
// inherit the activity's due date. Activities missing a due date or a
// duration are counted in skipped and left out.
func (c *Client) FetchTasks(ctx context.Context, cache TopicCache, now time.Time, maxAge time.Duration) ([]models.Task, int, error) {
	pages, err := c.queryAll(ctx, c.cfg.TasksDB, c.notDoneFilter())
	if err != nil {
		return nil, 0, err
	}

	p := c.cfg.Properties
	var tasks []models.Task
	skipped := 0
	seen := make(map[string]bool)

	for _, page := range pages {
		id := string(page.ID)
		if seen[id] {
			logger.Warn("duplicate activity dropped", "id", id)
			continue
		}
		seen[id] = true

		name := titleOf(page, p.TaskTitle)
		if name == "" {
			logger.Error("activity without a name, skipping", "id", id)
			continue
		}

		due, ok := dateOf(page, p.DueDate, c.loc)
		if !ok {
			logger.Warn("activity without a due date, skipping", "name", name)
			skipped++
			continue
		}

		topics, err := c.topicsFor(ctx, id, cache, now, maxAge)
		if err != nil {
			return nil, 0, err
		}

		if len(topics) == 0 {
			hours, ok := numberOf(page, p.DurationHours)
			if !ok {
				logger.Warn("activity without a duration, skipping", "name", name)
				skipped++
				continue
			}
			tasks = append(tasks, models.Task{
				ID:       id,
				Name:     name,
				Duration: time.Duration(hours * float64(time.Hour)),
				DueDate:  due,
			})
			continue
		}

		seenTopics := make(map[string]bool)
		for _, topic := range topics {
			if seenTopics[topic.ID] {
				logger.Debug("duplicate topic dropped", "id", topic.ID, "activity", name)
				continue
			}
			seenTopics[topic.ID] = true
			if topic.Duration <= 0 {
				logger.Warn("topic without a duration, skipping", "name", topic.Name, "activity", name)
				skipped++
				continue
			}
			topic.DueDate = due
			topic.ActivityID = id
			topic.IsTopic = true
			tasks = append(tasks, topic)
		}
	}

	return tasks, skipped, nil
}

// topicsFor returns the pending topics of one activity, from the cache when
// fresh, otherwise from the topics database.
func (c *Client) topicsFor(ctx context.Context, activityID string, cache TopicCache, now time.Time, maxAge time.Duration) ([]models.Task, error) {
	if cache != nil {
		set, err := cache.GetTopics(activityID)
		if err == nil && now.Sub(set.FetchedAt) <= maxAge {
			logger.Debug("topics served from cache", "activity", activityID, "count", len(set.Topics))
			return set.Topics, nil
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("topic cache read failed, refetching", "activity", activityID, "error", err)
		}
	}

	topics, err := c.fetchTopics(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		set := storage.TopicSet{FetchedAt: now, Topics: topics}
		if err := cache.SaveTopics(activityID, set); err != nil {
			logger.Warn("topic cache write failed", "activity", activityID, "error", err)
		}
	}
	return topics, nil
}

func (c *Client) fetchTopics(ctx context.Context, activityID string) ([]models.Task, error) {
	if c.cfg.TopicsDB == "" {
		return nil, nil
	}

	p := c.cfg.Properties
	filter := andFilters(c.notDoneFilter(), relationContains(p.TopicRelation, activityID))

	pages, err := c.queryAll(ctx, c.cfg.TopicsDB, filter)
	if err != nil {
		return nil, err
	}

	var topics []models.Task
	for _, page := range pages {
		name := titleOf(page, p.TopicTitle)
		if name == "" {
			logger.Error("topic without a name, skipping", "id", page.ID)
			continue
		}
		hours, _ := numberOf(page, p.DurationHours)
		topics = append(topics, models.Task{
			ID:       string(page.ID),
			Name:     name,
			Duration: time.Duration(hours * float64(time.Hour)),
			IsTopic:  true,
		})
	}
	return topics, nil
}
