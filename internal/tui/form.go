package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/datebook/internal/constants"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse("2006-1-2", strings.TrimSpace(s)); err != nil {
		return errors.New("expected YYYY-MM-DD")
	}
	return nil
}

func validTime(s string) error {
	if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s)); err != nil {
		return errors.New("expected HH:MM (24-hour)")
	}
	return nil
}

// NewEventForm builds the add-event form bound to f.
func NewEventForm(f *EventFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&f.Date).
				Validate(validDate),
			huh.NewInput().
				Title("Time").
				Description("HH:MM, 24-hour").
				Value(&f.Time).
				Validate(validTime),
			huh.NewInput().
				Title("Reminder email").
				Value(&f.Email).
				Validate(required("email")),
		),
	)
}

// startAdd opens the form with the selected day filled in.
func (m *Model) startAdd() tea.Cmd {
	m.addForm = &EventFormModel{
		Date:  m.selected.Format(constants.DateFormat),
		Time:  "09:00",
		Email: m.lastEmail,
	}
	m.form = NewEventForm(m.addForm)
	m.state = StateAdding
	return m.form.Init()
}

func (m *Model) updateAdding(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateCalendar
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitAdd()
	case huh.StateAborted:
		m.state = StateCalendar
	}
	return cmd
}

// submitAdd creates the event described by the form and returns to the
// calendar focused on its date.
func (m *Model) submitAdd() {
	m.state = StateCalendar

	f := m.addForm
	ev, err := m.opts.Store.Create(f.Title, f.Date, f.Time, f.Email)
	if err != nil {
		m.setStatus("❌ "+err.Error(), true)
		return
	}

	m.lastEmail = ev.Email
	m.setStatus("✓ Added "+ev.Title, false)
	if day, err := time.ParseInLocation(constants.DateFormat, ev.Date, m.opts.Location); err == nil {
		m.selected = day
	}
	m.reload()
	m.afterChange()
}

func (m *Model) updateConfirmDelete(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}

	switch keyMsg.String() {
	case "y", "Y":
		if m.toDelete != nil {
			if m.opts.Store.Delete(m.toDelete.ID) {
				m.setStatus("✓ Deleted "+m.toDelete.Title, false)
			} else {
				m.setStatus("Event already deleted", true)
			}
			m.reload()
			m.afterChange()
		}
		m.toDelete = nil
		m.state = StateDay
	case "n", "N", "esc", "q":
		m.toDelete = nil
		m.state = StateDay
	}
}
