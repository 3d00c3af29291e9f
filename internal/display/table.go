package display

import (
	"strings"
	"unicode/utf8"
)

// Table renders an aligned text table. Widths count runes, so Hijri month
// names such as "Ramaḍān" line up.
type Table struct {
	headers   []string
	rows      [][]string
	// highlight is the 0-based row index to highlight (today's row). -1 = none.
	highlight int
}

// NewTable creates a new table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, highlight: -1}
}

// AddRow appends a row of values. Missing trailing values render as empty
// cells; values beyond the header count are ignored.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Highlight sets which row index (0-based) is rendered in the accent color.
func (t *Table) Highlight(idx int) {
	t.highlight = idx
}

// Render produces the formatted table with a two-space indent: a bold
// header, a dim separator and one line per row.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Column widths in runes.
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder

	// Header row.
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	// Separator row using Unicode box-drawing dashes.
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sep, "  ")) + "\n")

	// Data rows.
	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlight {
			line = Accent(line)
		}
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

// formatRow pads each cell to its column width and joins them with two
// spaces. Trailing padding is trimmed so the last column has no tail.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", w-utf8.RuneCountInString(cell))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
