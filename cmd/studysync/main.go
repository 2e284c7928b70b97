package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/vmartins/studysync/internal/cli"
	"github.com/vmartins/studysync/internal/config"
	"github.com/vmartins/studysync/internal/errors"
	"github.com/vmartins/studysync/internal/logger"
	"github.com/vmartins/studysync/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Interactive first-time setup."`
	Sync   cli.SyncCmd   `cmd:"" help:"Fetch tasks and availability from Notion and write the schedule back." default:"1"`
	Export cli.ExportCmd `cmd:"" help:"Render the last run to txt, markdown, csv and ics files."`
	Tui    cli.TuiCmd    `cmd:"" help:"Browse the last run interactively."`
	Watch  cli.WatchCmd  `cmd:"" help:"Sync on a cron schedule until interrupted."`
	Doctor cli.DoctorCmd `cmd:"" help:"Check config, token, store and clock."`
	Token  struct {
		Set   cli.TokenSetCmd   `cmd:"" help:"Store the Notion API token in the OS keyring."`
		Clear cli.TokenClearCmd `cmd:"" help:"Remove the stored token."`
	} `cmd:"" help:"Manage the Notion API token."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("studysync"),
		kong.Description("Notion study planner: packs pending tasks into your weekly availability."),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.Format(err))
		os.Exit(1)
	}

	configDir := filepath.Dir(configPath)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.Format(err))
		os.Exit(1)
	}

	var store storage.Provider
	if cfg.Cache.Backend == "json" {
		store = storage.NewJSONStore(filepath.Join(configDir, "store.json"))
	} else {
		store = storage.NewSQLiteStore(filepath.Join(configDir, "store.db"))
	}
	defer store.Close()

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
		Debug:      CLI.Debug,
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}
