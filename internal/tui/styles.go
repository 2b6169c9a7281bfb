package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	weekdayStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Foreground(lipgloss.Color("245"))

	cellStyle = lipgloss.NewStyle().Width(cellWidth)

	outsideCellStyle = cellStyle.
				Foreground(lipgloss.Color("238"))

	eventCellStyle = cellStyle.
			Foreground(lipgloss.Color("86"))

	todayCellStyle = cellStyle.
			Bold(true).
			Underline(true)

	selectedCellStyle = cellStyle.
				Reverse(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)
