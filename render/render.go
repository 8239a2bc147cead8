// Package render draws an evaluated grid as a lipgloss table.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"datagrid/engine"
	nt "datagrid/entity"
	"datagrid/registry"
	"datagrid/style"
)

// Cursor is the selected line and column; -1 for none.
type Cursor struct {
	Line   int
	Column int
}

// NoCursor selects nothing.
var NoCursor = Cursor{Line: -1, Column: -1}

// Lines flattens a result into display lines: group header lines
// (nil row) followed by their rows, or just the rows when ungrouped.
func Lines(result engine.Result) (lines []Line) {

	if len(result.Groups) == 0 {
		for _, row := range result.Rows {
			lines = append(lines, Line{Row: row})
		}
		return
	}

	for _, grp := range result.Groups {
		lines = append(lines, Line{Group: fmt.Sprintf("%s (%d)", grp.Label, len(grp.Rows))})
		for _, row := range grp.Rows {
			lines = append(lines, Line{Row: row})
		}
	}
	return
}

// Line is a row or a group header.
type Line struct {
	Group string
	Row   nt.Row
}

// Table renders lines under headers marked with sort priority and direction.
func Table(reg *registry.Registry, sorts []nt.SortKey, lines []Line, cursor Cursor) string {

	columns := reg.Columns()

	tbl := table.New()
	style.StyleTable(tbl)
	tbl.Headers(Headers(columns, sorts)...)

	groupRows := map[int]bool{}
	for i, line := range lines {
		if line.Row == nil {
			groupRows[i] = true
			tbl.Row(groupCells(line.Group, len(columns))...)
			continue
		}
		tbl.Row(Cells(reg, columns, line.Row)...)
	}

	tbl.StyleFunc(style.CellStyler(cursor.Line, cursor.Column, groupRows))
	return tbl.Render()
}

// Headers returns column titles with a "↑1" / "↓2" sort marker.
func Headers(columns []nt.Column, sorts []nt.SortKey) []string {

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Title()
		for priority, key := range sorts {
			if key.Column != col.Id {
				continue
			}

			arrow := "↑"
			if key.Desc {
				arrow = "↓"
			}
			headers[i] = fmt.Sprintf("%s %s%d", col.Title(), arrow, priority+1)
		}
	}
	return headers
}

// Cells formats a row, showing option labels for enumerated columns.
func Cells(reg *registry.Registry, columns []nt.Column, row nt.Row) []string {

	cells := make([]string, len(columns))
	for i, col := range columns {
		val := row.Get(col.Id).String()
		if lbl := reg.OptionLabel(col.Id, val); lbl != "" {
			val = lbl
		}
		if col.Width > 0 {
			val = fmt.Sprintf("%-*.*s", col.Width, col.Width, val)
		}
		cells[i] = val
	}
	return cells
}

func groupCells(label string, count int) []string {

	cells := make([]string, count)
	if count > 0 {
		cells[0] = "▸ " + label
	}
	return cells
}

// Footer renders counts on the left and a note on the right.
func Footer(shown, total int, note string, width int) string {

	left := fmt.Sprintf("%d/%d", shown, total)

	padding := width - lipgloss.Width(left) - lipgloss.Width(note)
	if padding < 1 {
		padding = 1
	}

	return style.MutedStyle.Render(left + strings.Repeat(" ", padding) + note)
}
