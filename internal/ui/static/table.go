// Package static renders non-interactive terminal output.
//
// The interactive browser draws its own rows; this package covers the
// scripted surfaces (ghm list) where repository data goes straight to
// stdout without a program loop.
package static

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// RenderTable formats repository rows as a borderless aligned table.
// Column widths follow the widest cell; the header row is bold. An empty
// row set renders nothing so callers can print a message instead.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	cellStyle := lipgloss.NewStyle().PaddingRight(2)
	headerStyle := cellStyle.Bold(true)

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String() + "\n"
}
