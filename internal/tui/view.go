package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/calendar"
	"github.com/julianstephens/habitgrid/internal/habits"
	"github.com/julianstephens/habitgrid/internal/tui/components/grid"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewMain()
	}

	var status string
	if m.status != "" {
		style := statusStyle
		if m.statusIsError {
			style = dangerStyle
		}
		status = docStyle.Render(style.Render(m.status))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewMain() string {
	list := m.list.View()
	detail := m.viewDetail()
	if m.width >= wideLayout {
		return lipgloss.JoinHorizontal(lipgloss.Top, docStyle.Render(list), detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, docStyle.Render(list), detail)
}

func (m Model) viewDetail() string {
	h, ok := m.selected()
	if !ok {
		return panelStyle.Render("No habits yet. Press 'a' to add one.")
	}

	year := m.years.Year()
	header := titleStyle.Render(h.Name) + "  " + yearStyle.Render(m.yearNav())

	cursor := ""
	if m.state == StateGrid {
		cursor = m.day
	}
	cells := m.cells(h)
	lines := []string{
		header,
		"",
		grid.Render(cells, grid.Options{Cursor: cursor}),
		"",
		fmt.Sprintf("Streak %d · %d in %d · %d all time", h.Streak, habits.YearTotal(h, year), year, habits.AllTimeTotal(h)),
	}

	if m.state == StateGrid {
		if c, ok := calendar.Find(cells, m.day); ok {
			state := "not done"
			if c.Completed {
				state = "done"
			}
			lines = append(lines, fmt.Sprintf("%s %s: %s", c.Date.Weekday().String()[:3], c.Key, state))
		}
	}
	if msg, ok := m.store.CurrentMessage(h.ID); ok {
		lines = append(lines, "", messageStyle.Render("“"+msg.Text+"”"))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) yearNav() string {
	nav := fmt.Sprintf("[ %d", m.years.Year())
	if m.years.CanNext() {
		return nav + " ]"
	}
	return nav
}

func (m Model) viewConfirmDelete() string {
	h, ok := m.store.Habit(m.deleteID)
	if !ok {
		return ""
	}
	return docStyle.Render(
		dangerStyle.Render(fmt.Sprintf("Delete %q?", h.Name)) + "\n\n" +
			fmt.Sprintf("%d completed days and %d messages will be lost.\n\n", len(h.CompletedDates), len(h.MotivationalMessages)) +
			"Press y to delete, n to cancel.",
	)
}
