package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmartins/studysync/internal/storage"
	"github.com/vmartins/studysync/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
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

	p := tea.NewProgram(tui.NewModel(run), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
