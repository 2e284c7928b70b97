package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/tui/components/schedule"
	"github.com/vmartins/studysync/internal/tui/components/unscheduled"
)

type SessionState int

const (
	StateSchedule SessionState = iota
	StateUnscheduled
	StateStats

	tabCount = 3
)

type Model struct {
	run           models.RunRecord
	state         SessionState
	keys          KeyMap
	help          help.Model
	scheduleModel schedule.Model
	unschedModel  unscheduled.Model
	quitting      bool
	width         int
	height        int
}

// NewModel builds the viewer over the most recent scheduling run.
func NewModel(run models.RunRecord) Model {
	sm := schedule.New(0, 0)
	sm.SetParts(run.Parts)
	um := unscheduled.New(run.Unscheduled, 0, 0)

	return Model{
		run:           run,
		state:         StateSchedule,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		scheduleModel: sm,
		unschedModel:  um,
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Up, m.keys.Down, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
