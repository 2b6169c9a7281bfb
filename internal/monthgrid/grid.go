// Package monthgrid lays out a month as a Sunday-first grid of weeks.
package monthgrid

import "time"

// Cell is one day in the grid.
type Cell struct {
	Year    int
	Month   time.Month
	Day     int
	InMonth bool
	IsToday bool
	Weekday time.Weekday
	DateKey string // YYYY-MM-DD
}

// Grid is a month view. Cells always holds whole weeks.
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// Weeks splits the grid into rows of seven cells.
func (g Grid) Weeks() [][]Cell {
	var weeks [][]Cell
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

// Title returns e.g. "February 2026".
func (g Grid) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the first day of month.
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// IsToday reports whether the given day is the calendar date of now.
func IsToday(year int, month time.Month, day int, now time.Time) bool {
	y, m, d := now.Date()
	return y == year && m == month && d == day
}

// PreviousMonth returns the month before month, wrapping into the prior year.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth returns the month after month, wrapping into the next year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// Build lays out month with the previous month's trailing days before the
// first and the next month's leading days after the last, so every week is
// complete.
func Build(year int, month time.Month, now time.Time) Grid {
	g := Grid{Year: year, Month: month}

	lead := int(FirstWeekday(year, month))
	py, pm := PreviousMonth(year, month)
	prevDays := DaysInMonth(py, pm)
	for i := lead - 1; i >= 0; i-- {
		g.Cells = append(g.Cells, newCell(py, pm, prevDays-i, false, now))
	}

	for day := 1; day <= DaysInMonth(year, month); day++ {
		g.Cells = append(g.Cells, newCell(year, month, day, true, now))
	}

	ny, nm := NextMonth(year, month)
	trail := 0
	if rem := len(g.Cells) % 7; rem != 0 {
		trail = 7 - rem
	}
	for day := 1; day <= trail; day++ {
		g.Cells = append(g.Cells, newCell(ny, nm, day, false, now))
	}

	return g
}

func newCell(year int, month time.Month, day int, inMonth bool, now time.Time) Cell {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Cell{
		Year:    year,
		Month:   month,
		Day:     day,
		InMonth: inMonth,
		IsToday: inMonth && IsToday(year, month, day, now),
		Weekday: d.Weekday(),
		DateKey: d.Format("2006-01-02"),
	}
}
