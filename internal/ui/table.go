package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows under a header line with columns padded to the widest
// cell. Rows shorter than the header are padded with empty cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render returns the table, or an empty string when there are no rows.
func (t *Table) Render() string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(row[i]))
			}
		}
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, t.line(t.Headers, widths, TableHeaderStyle))
	for _, row := range t.Rows {
		lines = append(lines, t.line(row, widths, TableCellStyle))
	}
	return strings.Join(lines, "\n")
}

func (t *Table) line(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = style.Width(w).Render(cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// String implements fmt.Stringer
func (t *Table) String() string {
	return t.Render()
}
