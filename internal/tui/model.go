// Package tui is the interactive month view: a calendar grid, the selected
// day's events and an upcoming panel.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/datebook/internal/agenda"
	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/models"
	"github.com/julianstephens/datebook/internal/monthgrid"
	"github.com/julianstephens/datebook/internal/tui/components/daylist"
)

const refreshInterval = time.Minute

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDay
	StateAdding
	StateConfirmDelete
)

// EventStore is the part of the event store the view reads and changes.
type EventStore interface {
	All() []models.Event
	Create(title, date, tm, email string) (models.Event, error)
	Delete(id string) bool
	PersistErr() error
}

// Options configures NewModel.
type Options struct {
	Store         EventStore
	Location      *time.Location
	Now           func() time.Time
	UpcomingLimit int
	// OnChange is called after an event is added or deleted.
	OnChange func()
}

type EventFormModel struct {
	Title string
	Date  string
	Time  string
	Email string
}

type tickMsg time.Time

type Model struct {
	opts Options

	state    SessionState
	keys     KeyMap
	help     help.Model
	dayList  daylist.Model
	form     *huh.Form
	addForm  *EventFormModel
	quitting bool
	width    int
	height   int

	// selected is the highlighted calendar day, midnight in opts.Location.
	selected      time.Time
	events        []models.Event
	lastEmail     string
	toDelete      *daylist.DeleteEventMsg
	status        string
	statusIsError bool
}

func NewModel(opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = constants.DefaultUpcomingMax
	}

	m := Model{
		opts:    opts,
		state:   StateCalendar,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		dayList: daylist.New(0, 0),
	}
	m.selected = midnight(opts.Now().In(opts.Location))
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Add}
	if m.state == StateDay {
		keys = append(keys, m.keys.Delete)
	} else {
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Today)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// Selected returns the highlighted day.
func (m Model) Selected() time.Time {
	return m.selected
}

// State returns the current screen.
func (m Model) State() SessionState {
	return m.state
}

// reload refreshes the snapshot and the selected day's list.
func (m *Model) reload() {
	m.events = m.opts.Store.All()

	now := m.opts.Now()
	onDay := agenda.EventsOnDate(m.events, m.selected.Year(), m.selected.Month(), m.selected.Day())
	agenda.SortByTime(onDay)

	items := make([]daylist.Item, len(onDay))
	for i, ev := range onDay {
		items[i] = daylist.Item{Event: ev, Countdown: agenda.CountdownLabel(ev, now, m.opts.Location)}
	}
	m.dayList.SetItems(items)
}

func (m *Model) grid() monthgrid.Grid {
	return monthgrid.Build(m.selected.Year(), m.selected.Month(), m.opts.Now().In(m.opts.Location))
}

func (m *Model) selectDate(t time.Time) {
	m.selected = midnight(t)
	m.reload()
}

// shiftMonth moves the selection by delta months, clamping the day to the
// target month's length.
func (m *Model) shiftMonth(delta int) {
	year, month := m.selected.Year(), m.selected.Month()
	for ; delta < 0; delta++ {
		year, month = monthgrid.PreviousMonth(year, month)
	}
	for ; delta > 0; delta-- {
		year, month = monthgrid.NextMonth(year, month)
	}
	day := m.selected.Day()
	if last := monthgrid.DaysInMonth(year, month); day > last {
		day = last
	}
	m.selectDate(time.Date(year, month, day, 0, 0, 0, 0, m.opts.Location))
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusIsError = isError
}

// afterChange reports unsaved writes and nudges the reminder scheduler.
func (m *Model) afterChange() {
	if err := m.opts.Store.PersistErr(); err != nil {
		m.setStatus("⚠ Changes could not be saved: "+err.Error(), true)
	}
	if m.opts.OnChange != nil {
		m.opts.OnChange()
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
