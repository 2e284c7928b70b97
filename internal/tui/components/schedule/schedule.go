package schedule

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	parts    []models.ScheduledPart
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.parts) == 0 {
		return "\n  Nothing scheduled. Run 'studysync sync' first."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetParts(parts []models.ScheduledPart) {
	m.parts = parts
	m.render()
}

func (m *Model) render() {
	var b strings.Builder
	lastDay := ""
	for _, part := range m.parts {
		day := utils.DateKey(part.Start)
		if day != lastDay {
			if lastDay != "" {
				b.WriteString("\n")
			}
			b.WriteString(dayStyle.Render(part.Start.Format("Monday, 2006-01-02")) + "\n")
			lastDay = day
		}

		timeStr := fmt.Sprintf("%s - %s", part.Start.Format(utils.ClockFormat), part.End.Format(utils.ClockFormat))
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			timeStyle.Render(timeStr),
			taskStyle.Render(part.Name),
			dueStyle.Render("due "+utils.DateKey(part.DueDate)),
		))
	}
	m.viewport.SetContent(b.String())
}
