package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmartins/studysync/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSchedule:
		content = m.scheduleModel.View()
	case StateUnscheduled:
		content = m.unschedModel.View()
	case StateStats:
		content = docStyle.Render(m.viewStats())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Schedule", "Unscheduled", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStats() string {
	s := m.run.Stats
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(statLabelStyle.Render(label) + statValueStyle.Render(value) + "\n")
	}

	run := "live"
	if m.run.DryRun {
		run = "dry run"
	}
	row("Run", fmt.Sprintf("%s (%s)", m.run.StartedAt.Format("2006-01-02 15:04"), run))
	row("Tasks loaded", fmt.Sprintf("%d", s.TasksLoaded))
	row("Tasks skipped", fmt.Sprintf("%d", s.TasksSkipped))
	row("Sessions placed", fmt.Sprintf("%d", s.PartsScheduled))
	row("Did not fit", fmt.Sprintf("%d", s.Unscheduled))
	row("Available hours", fmt.Sprintf("%.1f", s.AvailableHours))
	row("Committed hours", fmt.Sprintf("%.1f", s.CommittedHours))
	row("Free hours", fmt.Sprintf("%.1f", s.FreeHours))
	row("Days with sessions", fmt.Sprintf("%d", s.ScheduledDays))
	row("Exception days", fmt.Sprintf("%d", s.ExceptionDays))

	if len(s.FreeHoursByWeek) > 0 {
		b.WriteString("\n" + statLabelStyle.Render("Free hours by week") + "\n")
		for _, week := range sortedWeeks(s.FreeHoursByWeek) {
			b.WriteString(fmt.Sprintf("  week %d: %.1fh\n", week, s.FreeHoursByWeek[week]))
		}
	}

	if len(m.run.RemainingSlots) > 0 {
		b.WriteString("\n" + statLabelStyle.Render("Next free interval") + "\n")
		iv := m.run.RemainingSlots[0]
		b.WriteString(fmt.Sprintf("  %s %s - %s\n",
			utils.DateKey(iv.Start),
			iv.Start.Format(utils.ClockFormat),
			iv.End.Format(utils.ClockFormat)))
	}

	return b.String()
}

func sortedWeeks(byWeek map[int]float64) []int {
	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}
