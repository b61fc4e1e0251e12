package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	colorText    lipgloss.Color = "#cdd6f4"
	colorOverlay lipgloss.Color = "#7f849c"
	colorGreen   lipgloss.Color = "#a6e3a1"
	colorRed     lipgloss.Color = "#f38ba8"
	colorYellow  lipgloss.Color = "#f9e2af"
	colorMauve   lipgloss.Color = "#cba6f7"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorOverlay)
	incomeStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	expenseStyle = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func printTitle(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

// printTable renders rows under headers with a rounded border. An empty
// table prints the muted placeholder instead.
func printTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(empty))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// printKV prints aligned label/value pairs.
func printKV(w io.Writer, pairs ...[2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%s%s  %s\n", p[0], strings.Repeat(" ", width-lipgloss.Width(p[0])), p[1])
	}
}

// progressBar draws percent (0-100) in width cells.
func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return incomeStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}
