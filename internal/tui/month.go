package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/datebook/internal/models"
	"github.com/julianstephens/datebook/internal/monthgrid"
)

const (
	cellWidth   = 4
	eventMarker = "•"
)

var weekdayNames = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// CountByDate returns how many events fall on each YYYY-MM-DD key.
func CountByDate(events []models.Event) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Date]++
	}
	return counts
}

// RenderMonth draws grid with a marker on days that have events. The
// in-month day equal to selected is highlighted; pass -1 for none.
func RenderMonth(grid monthgrid.Grid, counts map[string]int, selected int) string {
	var rows []string
	rows = append(rows, titleStyle.Render(grid.Title()))

	var header []string
	for _, name := range weekdayNames {
		header = append(header, weekdayStyle.Render(name))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range grid.Weeks() {
		var cells []string
		for _, c := range week {
			cells = append(cells, renderCell(c, counts[c.DateKey] > 0, c.InMonth && c.Day == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(rows, "\n")
}

func renderCell(c monthgrid.Cell, hasEvents, selected bool) string {
	marker := " "
	if hasEvents {
		marker = eventMarker
	}
	text := fmt.Sprintf("%2d%s", c.Day, marker)

	switch {
	case selected:
		return selectedCellStyle.Render(text)
	case !c.InMonth:
		return outsideCellStyle.Render(text)
	case c.IsToday:
		return todayCellStyle.Render(text)
	case hasEvents:
		return eventCellStyle.Render(text)
	default:
		return cellStyle.Render(text)
	}
}
