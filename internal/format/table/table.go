// Package table lays out rows of cells in aligned columns for terminal
// output.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column configures one column. Max truncates wider cells; zero means no
// limit.
type Column struct {
	Align Alignment
	Max   int
}

// Format returns the rows padded according to the widest entry in each column.
// The last column is never padded.
func Format(rows [][]string, columns []Column) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	cells := make([][]string, len(rows))
	widths := make([]int, colCount)
	for r, row := range rows {
		cells[r] = make([]string, len(row))
		for c, cell := range row {
			cell = strings.ReplaceAll(cell, "\n", " ")
			if c < len(columns) && columns[c].Max > 0 && ansi.StringWidth(cell) > columns[c].Max {
				cell = ansi.Truncate(cell, columns[c].Max, "…")
			}
			cells[r][c] = cell
			widths[c] = max(widths[c], ansi.StringWidth(cell))
		}
	}
	out := make([]string, len(rows))
	for i, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - ansi.StringWidth(cell)
			if c < len(columns) && columns[c].Align == AlignRight {
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			if c < len(row)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		out[i] = b.String()
	}
	return out
}
