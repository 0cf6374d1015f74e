package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one text-table column. A zero maxWidth means unbounded.
type column struct {
	title    string
	right    bool
	maxWidth int
}

// sessionColumns is the layout used by RenderSessions.
var sessionColumns = []column{
	{title: "Session", maxWidth: 9},
	{title: "Ended"},
	{title: "Points", right: true},
	{title: "Correct", right: true},
	{title: "Wrong", right: true},
	{title: "Duration", right: true},
}

// renderTable lays out rows under cols with a dashed rule below the header.
// Cells are measured in terminal cells and cut to maxWidth with an ellipsis.
func renderTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, len(rows))
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, col := range cols {
			if i >= len(row) {
				continue
			}
			cell := row[i]
			if col.maxWidth > 0 && runewidth.StringWidth(cell) > col.maxWidth {
				cell = runewidth.Truncate(cell, col.maxWidth, "…")
			}
			cells[r][i] = cell
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	titles := make([]string, len(cols))
	rule := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = col.title
		rule[i] = strings.Repeat("-", widths[i])
	}
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinCells(cols, widths, titles), strings.Join(rule, "  "))
	for _, row := range cells {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, cells []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cells[i]))
		if col.right {
			parts[i] = pad + cells[i]
		} else {
			parts[i] = cells[i] + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
