// Package textfmt renders aligned text columns for CLI output. Column
// widths are computed with display width, not byte or rune counts, so CJK
// text lines up in a terminal.
package textfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderColumns lays the rows out as space-separated columns, padding each
// cell to the widest display width in its column. Rows may have differing
// lengths; missing cells render empty.
func RenderColumns(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)

	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	out := make([]string, 0, len(rows))

	for _, row := range rows {
		var b strings.Builder

		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			if i > 0 {
				b.WriteString("  ")
			}

			b.WriteString(cell)

			// No trailing padding on the last column.
			if i < colCount-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}

		out = append(out, strings.TrimRight(b.String(), " "))
	}

	return out
}
