package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/datebook/internal/tui/components/daylist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dayList.SetSize(msg.Width/2, msg.Height/2)
		return m, nil

	case tickMsg:
		m.reload()
		return m, tick()
	}

	switch m.state {
	case StateAdding:
		return m, m.updateAdding(msg)
	case StateConfirmDelete:
		m.updateConfirmDelete(msg)
		return m, nil
	}

	switch msg := msg.(type) {
	case daylist.AddEventMsg:
		return m, m.startAdd()

	case daylist.DeleteEventMsg:
		m.toDelete = &msg
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateDay {
				m.state = StateCalendar
			} else {
				m.state = StateDay
			}
			return m, nil
		}

		if m.state == StateDay {
			var cmd tea.Cmd
			m.dayList, cmd = m.dayList.Update(msg)
			return m, cmd
		}
		return m, m.updateCalendar(msg)
	}

	return m, nil
}

func (m *Model) updateCalendar(msg tea.KeyMsg) tea.Cmd {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Left):
		m.selectDate(m.selected.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Right):
		m.selectDate(m.selected.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Up):
		m.selectDate(m.selected.AddDate(0, 0, -7))
	case key.Matches(msg, m.keys.Down):
		m.selectDate(m.selected.AddDate(0, 0, 7))
	case key.Matches(msg, m.keys.PrevMonth):
		m.shiftMonth(-1)
	case key.Matches(msg, m.keys.NextMonth):
		m.shiftMonth(1)
	case key.Matches(msg, m.keys.Today):
		m.selectDate(m.opts.Now().In(m.opts.Location))
	case key.Matches(msg, m.keys.Add):
		return m.startAdd()
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.dayList.Selected(); ok {
			m.toDelete = &daylist.DeleteEventMsg{ID: item.Event.ID, Title: item.Event.Title}
			m.state = StateConfirmDelete
		}
	}
	return nil
}
