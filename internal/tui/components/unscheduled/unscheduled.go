package unscheduled

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	if i.Task.IsTopic {
		return "◦ " + i.Task.Name
	}
	return i.Task.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%.1fh | due %s", i.Task.Duration.Hours(), utils.DateKey(i.Task.DueDate))
}

func (i Item) FilterValue() string { return i.Task.Name }

type Model struct {
	list list.Model
}

func New(tasks []models.Task, width, height int) Model {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Unscheduled"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{list: l}
}

func (m *Model) SetTasks(tasks []models.Task) {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Everything fit before its deadline."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
