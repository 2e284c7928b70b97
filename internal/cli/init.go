package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/vmartins/studysync/internal/config"
	"github.com/vmartins/studysync/internal/keyring"
	"github.com/vmartins/studysync/internal/utils"
)

type InitCmd struct {
	NoPrompt bool `help:"Write defaults without the interactive form."`
}

// Run walks through first-time setup: timezone, horizon, database IDs and
// the Notion token, then initializes the local store.
func (c *InitCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	if !c.NoPrompt {
		if err := runSetupForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(ctx.ConfigPath, cfg); err != nil {
		return err
	}
	if err := ctx.Store.Init(); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", ctx.ConfigPath)
	fmt.Printf("Local store initialized at %s\n", ctx.Store.Path())
	return nil
}

func runSetupForm(cfg *config.Config) error {
	days := strconv.Itoa(cfg.DaysToSchedule)
	token := ""
	saveToken := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, e.g. America/Sao_Paulo").
				Value(&cfg.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("unknown timezone %q", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Days to schedule").
				Value(&days).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Cache backend").
				Options(huh.NewOptions("sqlite", "json")...).
				Value(&cfg.Cache.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Tasks database ID").
				Value(&cfg.Notion.TasksDB),
			huh.NewInput().
				Title("Topics database ID").
				Description("Leave empty if activities are not broken into topics").
				Value(&cfg.Notion.TopicsDB),
			huh.NewInput().
				Title("Time slots database ID").
				Value(&cfg.Notion.TimeSlotsDB),
			huh.NewInput().
				Title("Schedules database ID").
				Value(&cfg.Notion.SchedulesDB),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Notion API token").
				Description("Stored in the OS keyring, never in the config file").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewConfirm().
				Title("Save token to keyring?").
				Value(&saveToken),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DaysToSchedule, _ = strconv.Atoi(days)

	if saveToken && token != "" {
		if err := keyring.SetToken(token); err != nil {
			return err
		}
		fmt.Println("Token stored in the OS keyring.")
	}
	return nil
}
