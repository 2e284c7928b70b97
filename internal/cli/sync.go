package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vmartins/studysync/internal/export"
	"github.com/vmartins/studysync/internal/keyring"
	"github.com/vmartins/studysync/internal/logger"
	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/notion"
	"github.com/vmartins/studysync/internal/scheduler"
	"github.com/vmartins/studysync/internal/storage"
)

type SyncCmd struct {
	DryRun    bool `help:"Compute the schedule and report, without writing to Notion."`
	Days      int  `help:"Override the scheduling horizon in days."`
	NoClear   bool `help:"Keep existing schedule entries instead of archiving them."`
	IfChanged bool `help:"Skip the rewrite when inputs match the previous run."`
	NoCache   bool `help:"Bypass the local cache and refetch everything."`
	Export    bool `help:"Write export files after the run."`
}

func (c *SyncCmd) Run(ctx *Context) error {
	return RunSync(ctx, c)
}

// RunSync executes a full scheduling pass. The watch command reuses it on
// a timer, which is why it is exported from this package.
func RunSync(ctx *Context, c *SyncCmd) error {
	cfg := ctx.Config
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	token, err := keyring.ResolveToken()
	if err != nil {
		return fmt.Errorf("no Notion token: %w (set one with 'studysync token set' or %s)", err, keyring.EnvToken)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	horizon := cfg.DaysToSchedule
	if c.Days > 0 {
		horizon = c.Days
	}

	now := time.Now().In(loc)
	started := now
	bg := context.Background()
	client := notion.NewClient(token, cfg.Notion, loc)
	useCache := cfg.Cache.Enabled && !c.NoCache

	logger.Info("starting sync", "horizon_days", horizon, "dry_run", c.DryRun, "cache", useCache)

	rows, excludedDates, err := loadTemplates(bg, ctx, client, now, useCache)
	if err != nil {
		return err
	}

	var topicCache notion.TopicCache
	if useCache {
		topicCache = ctx.Store
	}
	tasks, skipped, err := client.FetchTasks(bg, topicCache, now, ctx.cacheMaxAge())
	if err != nil {
		return err
	}
	logger.Info("loaded pending work", "tasks", len(tasks), "skipped", skipped)

	hash, err := storage.Fingerprint(storage.Snapshot{
		Tasks:         tasks,
		Rows:          rows,
		ExcludedDates: excludedDates,
	})
	if err != nil {
		return err
	}
	if c.IfChanged {
		if last, err := ctx.Store.GetLastRun(); err == nil && !last.DryRun && last.InputHash == hash {
			logger.Info("inputs unchanged since last run, skipping", "last_run", last.StartedAt)
			return nil
		}
	}

	weekdays, err := cfg.Weekdays()
	if err != nil {
		return err
	}
	excluded := make(map[string]bool, len(excludedDates))
	for _, d := range excludedDates {
		excluded[d] = true
	}

	gen, err := scheduler.GenerateAvailableSlots(rows, scheduler.GenerateOptions{
		Now:           now,
		HorizonDays:   horizon,
		Weekdays:      weekdays,
		ExcludedDates: excluded,
	})
	if err != nil {
		return err
	}
	for _, row := range gen.Dropped {
		logger.Error("unusable template row",
			"day", row.DayOfWeek, "start", row.StartTime, "end", row.EndTime, "exception", row.ExceptionDate)
	}

	pack := scheduler.PackTasks(tasks, gen.Slots, scheduler.PackOptions{
		MaxPartDuration: cfg.MaxPartDuration(),
		RestDuration:    cfg.RestDuration(),
	})
	for _, task := range pack.Unscheduled {
		logger.Warn("did not fit before its deadline",
			"task", task.Name, "hours", task.Duration.Hours(), "due", task.DueDate.Format("2006-01-02"))
	}

	stats := scheduler.Summarize(pack)
	stats.TasksLoaded = len(tasks)
	stats.TasksSkipped = skipped
	stats.ExceptionDays = gen.ExceptionDays
	stats.ExceptionSlots = gen.ExceptionSlots

	if !c.DryRun {
		if cfg.Notion.ClearSchedules && !c.NoClear {
			deleted, err := client.ClearSchedules(bg)
			if err != nil {
				return fmt.Errorf("clearing schedules: %w", err)
			}
			stats.DeletedEntries = deleted
			logger.Info("cleared previous schedule", "entries", deleted)
		}

		created, err := client.CreateSchedules(bg, pack.Parts)
		if err != nil {
			return fmt.Errorf("writing schedules: %w", err)
		}
		stats.Insertions = created
		logger.Info("wrote schedule", "entries", created)
	}

	run := models.RunRecord{
		ID:             uuid.NewString(),
		StartedAt:      started,
		FinishedAt:     time.Now().In(loc),
		DryRun:         c.DryRun,
		InputHash:      hash,
		Stats:          stats,
		Parts:          pack.Parts,
		Unscheduled:    pack.Unscheduled,
		RemainingSlots: pack.RemainingSlots,
	}
	if err := ctx.Store.SaveRun(run); err != nil {
		return fmt.Errorf("saving run record: %w", err)
	}

	logger.Info("sync finished",
		"parts", stats.PartsScheduled,
		"unscheduled", stats.Unscheduled,
		"committed_hours", fmt.Sprintf("%.1f", stats.CommittedHours),
		"free_hours", fmt.Sprintf("%.1f", stats.FreeHours),
		"took", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	if c.Export {
		exporter := &export.Exporter{Dir: cfg.ExportDir, Now: now}
		paths, err := exporter.WriteAll(pack.Parts, pack.Unscheduled)
		if err != nil {
			return err
		}
		logger.Info("wrote export files", "count", len(paths), "dir", cfg.ExportDir)
	}

	return nil
}

// loadTemplates returns the availability template, from the cache when it
// is fresh enough, otherwise from Notion.
func loadTemplates(bg context.Context, ctx *Context, client *notion.Client, now time.Time, useCache bool) ([]models.SlotTemplate, []string, error) {
	if useCache {
		cache, err := ctx.Store.GetTemplates()
		if err == nil && cache.Fresh(now, ctx.cacheMaxAge()) {
			logger.Debug("template served from cache", "rows", len(cache.Rows), "fetched_at", cache.FetchedAt)
			return cache.Rows, cache.ExcludedDates, nil
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("template cache read failed, refetching", "error", err)
		}
	}

	rows, excluded, err := client.FetchTimeSlots(bg, invertDayNames(ctx.Config))
	if err != nil {
		return nil, nil, err
	}

	if useCache {
		cache := storage.TemplateCache{FetchedAt: now, Rows: rows, ExcludedDates: excluded}
		if err := ctx.Store.SaveTemplates(cache); err != nil {
			logger.Warn("template cache write failed", "error", err)
		}
	}
	return rows, excluded, nil
}
