package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ShadowedStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// newTable returns a bordered table with the shared header and cell styles.
// Rows for which highlight returns true use ShadowedStyle.
func newTable(headers []string, rows [][]string, highlight func(row int) bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle
			case highlight != nil && highlight(row):
				return ShadowedStyle
			default:
				return CellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
}
