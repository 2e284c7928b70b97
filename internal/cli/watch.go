package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/vmartins/studysync/internal/logger"
)

type WatchCmd struct {
	Schedule string  `help:"Cron expression for sync runs." default:"0 */4 * * *"`
	Sync     SyncCmd `embed:""`
}

// Run syncs on a cron schedule until interrupted. Each tick behaves like a
// 'sync --if-changed' invocation unless flags say otherwise.
func (c *WatchCmd) Run(ctx *Context) error {
	opts := c.Sync
	opts.IfChanged = true

	runner := cron.New()
	_, err := runner.AddFunc(c.Schedule, func() {
		if err := RunSync(ctx, &opts); err != nil {
			logger.Error("scheduled sync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", c.Schedule, err)
	}

	logger.Info("watching", "schedule", c.Schedule)
	if err := RunSync(ctx, &opts); err != nil {
		logger.Error("initial sync failed", "error", err)
	}

	runner.Start()
	defer runner.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("stopping", "signal", s)
	return nil
}
