package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/datebook/internal/agenda"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAdding:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewCalendar()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		if m.statusIsError {
			parts = append(parts, warningStyle.Render(m.status))
		} else {
			parts = append(parts, statusStyle.Render(m.status))
		}
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Calendar", "Day"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCalendar() string {
	grid := m.grid()
	month := panelStyle.Render(RenderMonth(grid, CountByDate(m.events), m.selected.Day()))

	left := lipgloss.JoinVertical(lipgloss.Left, month, m.viewUpcoming())
	day := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.selected.Format("Monday, January 2")),
		m.dayList.View(),
	))

	return docStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", day))
}

func (m Model) viewUpcoming() string {
	now := m.opts.Now()
	upcoming := agenda.UpcomingEvents(m.events, now, m.opts.UpcomingLimit, m.opts.Location)

	lines := []string{titleStyle.Render("Upcoming")}
	if len(upcoming) == 0 {
		lines = append(lines, "No upcoming events.")
	}
	for _, ev := range upcoming {
		lines = append(lines, fmt.Sprintf("%s %s  %s\n  %s", ev.Date, ev.Time, ev.Title,
			agenda.CountdownLabel(ev, now, m.opts.Location)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.toDelete != nil {
		title = m.toDelete.Title
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q?", title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
