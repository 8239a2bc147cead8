// Package detail shows every column of a single row.
package detail

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	nt "datagrid/entity"
	"datagrid/message"
	"datagrid/registry"
	"datagrid/style"
)

// SizeMsg tells the panel how much room it has.
type SizeMsg struct {
	Width  int
	Height int
}

// RowMsg sets the row to display.
type RowMsg struct {
	Row nt.Row
}

// Panel handles the record detail display state.
type Panel struct {
	reg *registry.Registry

	row          nt.Row
	contentLines []string // rendered content split into lines (cached)

	width        int
	height       int
	ScrollOffset int
}

func New(reg *registry.Registry) Panel {
	return Panel{
		reg: reg,
	}
}

func (pnl Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {

	switch msg := msg.(type) {

	case RowMsg:
		pnl.row = msg.Row
		pnl.contentLines = pnl.render()
		pnl.ScrollOffset = 0

	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height
		pnl.ScrollOffset = 0

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return pnl, func() tea.Msg {
				return message.ClosePanelMsg{}
			}

		case "up", "k":
			if pnl.ScrollOffset > 0 {
				pnl.ScrollOffset--
			}

		case "down", "j":
			if pnl.height > 0 && len(pnl.contentLines) > pnl.height {
				maxScroll := len(pnl.contentLines) - pnl.height
				if pnl.ScrollOffset < maxScroll {
					pnl.ScrollOffset++
				}
			}
		}
	}

	return pnl, nil
}

// Render draws the visible portion of the row.
func (pnl Panel) Render() string {

	if pnl.contentLines == nil {
		return "No row selected"
	}

	visibleLines := pnl.contentLines[pnl.ScrollOffset:]
	if pnl.height > 0 && len(visibleLines) > pnl.height {
		visibleLines = visibleLines[:pnl.height]
	}

	return strings.Join(visibleLines, "\n")
}

// unexported

// render lays out one column per line, expanding json cells in place.
func (pnl Panel) render() (lines []string) {

	if pnl.row == nil {
		return nil
	}

	columns := pnl.reg.Columns()

	pad := 0
	for _, col := range columns {
		pad = max(pad, len(col.Title()))
	}

	for _, col := range columns {
		title := style.HeaderStyle.Render(fmt.Sprintf("%-*s", pad, col.Title()))
		cell := pnl.cell(col)

		first, rest, _ := strings.Cut(cell, "\n")
		lines = append(lines, title+"  "+first)
		if rest == "" {
			continue
		}
		for _, line := range strings.Split(rest, "\n") {
			lines = append(lines, strings.Repeat(" ", pad+2)+line)
		}
	}

	return
}

func (pnl Panel) cell(col nt.Column) string {

	val := pnl.row.Get(col.Id)
	if val.Kind() == nt.Null {
		return style.MutedStyle.Render("-")
	}

	str := val.String()
	if label := pnl.reg.OptionLabel(col.Id, str); label != "" {
		return label
	}

	return indentJson(str)
}

// indentJson pretty-prints object and array strings, leaving anything else as is.
func indentJson(str string) string {

	trimmed := strings.TrimSpace(str)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return str
	}

	var parsed any
	err := json.Unmarshal([]byte(trimmed), &parsed)
	if err != nil {
		return str
	}

	var buf strings.Builder
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	err = encoder.Encode(parsed)
	if err != nil {
		return str
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
