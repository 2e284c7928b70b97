package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmartins/studysync/internal/export"
	"github.com/vmartins/studysync/internal/storage"
)

type ExportCmd struct {
	Dir string `help:"Destination directory." type:"path"`
}

// Run renders the most recent run into the export formats. It never talks
// to Notion; 'sync' must have produced a run record first.
func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	run, err := ctx.Store.GetLastRun()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errors.New("no scheduling run recorded yet, run 'studysync sync' first")
		}
		return err
	}

	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}

	dir := c.Dir
	if dir == "" {
		dir = ctx.Config.ExportDir
	}

	exporter := &export.Exporter{Dir: dir, Now: time.Now().In(loc)}
	paths, err := exporter.WriteAll(run.Parts, run.Unscheduled)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d files to %s (run from %s)\n",
		len(paths), dir, run.StartedAt.Format("2006-01-02 15:04"))
	return nil
}
