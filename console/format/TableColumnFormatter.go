package format

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TableColumnFormatter lays out rows of cells in fixed-width columns.
// Cells wider than their column are word-wrapped onto continuation lines,
// except in columns marked with KeepWhole.
type TableColumnFormatter struct {
	widths []int
	spacer string
	whole  map[int]bool
}

// NewTableColumnFormatter creates a formatter for columns of the given widths
// separated by spacer
func NewTableColumnFormatter(spacer string, widths ...int) *TableColumnFormatter {
	return &TableColumnFormatter{widths: widths, spacer: spacer}
}

// KeepWhole marks columns whose cells are never wrapped. A longer cell
// overflows to the right and shifts the rest of its line.
func (f *TableColumnFormatter) KeepWhole(columns ...int) *TableColumnFormatter {
	if f.whole == nil {
		f.whole = make(map[int]bool, len(columns))
	}
	for _, c := range columns {
		f.whole[c] = true
	}
	return f
}

// Width returns the total width of a formatted line
func (f *TableColumnFormatter) Width() int {
	total := 0
	for _, w := range f.widths {
		total += w
	}
	if len(f.widths) > 1 {
		total += Width(f.spacer) * (len(f.widths) - 1)
	}
	return total
}

// FillLine returns a line of ch spanning the whole table
func (f *TableColumnFormatter) FillLine(ch rune) string {
	return strings.Repeat(string(ch), f.Width())
}

// FormatLine lays out one row. Cells may carry escape sequences; only their
// visible width counts. Missing cells are left blank and extra cells are dropped.
func (f *TableColumnFormatter) FormatLine(cells ...string) []string {
	columns := make([][]string, len(f.widths))
	height := 1
	for i, width := range f.widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if f.whole[i] {
			columns[i] = []string{cell}
		} else {
			columns[i] = wrapCell(cell, width)
		}
		height = max(height, len(columns[i]))
	}

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		var sb strings.Builder
		for i, width := range f.widths {
			if i > 0 {
				sb.WriteString(f.spacer)
			}
			part := ""
			if row < len(columns[i]) {
				part = columns[i][row]
			}
			sb.WriteString(PadRight(part, width))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}

func wrapCell(cell string, width int) []string {
	if width <= 0 {
		return nil
	}
	if Width(cell) <= width {
		return []string{cell}
	}
	wrapped := ansi.Wrap(cell, width, "")
	parts := strings.Split(wrapped, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimRight(p, " ")
	}
	return parts
}
