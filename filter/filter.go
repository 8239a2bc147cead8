// Package filter is a modal editor for a grid's ad-hoc rule list.
// Every keystroke that changes a rule is committed to the grid straight away;
// the panel itself only tracks which rule and field are selected.
package filter

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"datagrid"
	nt "datagrid/entity"
	"datagrid/message"
	"datagrid/style"
)

const dialogWidth = 64 // approximate, with border

// SizeMsg tells the panel how much room it has.
type SizeMsg struct {
	Width  int
	Height int
}

// Panel displays the rule list and edits the selected rule.
type Panel struct {
	grid     *datagrid.Grid
	selected int       // which rule is selected
	field    fieldType // which field within the rule is selected

	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

type fieldType int

const (
	fieldJoiner fieldType = iota
	fieldColumn
	fieldOperator
	fieldValue
	fieldCount
)

var opNames = map[nt.Operator]string{
	nt.Equals:     "==",
	nt.NotEquals:  "!=",
	nt.Contains:   "contains",
	nt.NotContain: "!contains",
	nt.StartsWith: "starts",
	nt.EndsWith:   "ends",
	nt.IsEmpty:    "empty",
	nt.IsNotEmpty: "!empty",
}

// New creates a panel editing grd's rules.
func New(ctx context.Context, grd *datagrid.Grid, lgr nt.Logger) Panel {
	return Panel{
		grid:   grd,
		ctx:    ctx,
		logger: lgr,
		field:  fieldColumn,
	}
}

// Selected returns the index of the selected rule.
func (pnl Panel) Selected() int {
	return pnl.selected
}

func (pnl Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {

	switch msg := msg.(type) {
	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height

	case tea.KeyPressMsg:
		return pnl.handleKey(msg)
	}

	return pnl, nil
}

// Render draws the dialog.
func (pnl Panel) Render() string {

	var content strings.Builder

	rules := pnl.rules()
	if len(rules) == 0 {
		content.WriteString("No rules, ctrl+n adds one.\n")
	} else {
		content.WriteString("Rules:\n")
	}

	for i, rule := range rules {
		isSelected := i == pnl.selected

		joiner := string(rule.Joiner)
		if i == 0 {
			joiner = "where"
		}

		cells := []string{
			fmt.Sprintf("%-5s", joiner),
			fmt.Sprintf("%-12s", pnl.columnTitle(rule.Column)),
			fmt.Sprintf("%-9s", opNames[rule.Operator]),
			fmt.Sprintf("%q", rule.Value),
		}
		if rule.Operator.Unary() {
			cells[fieldValue] = style.MutedStyle.Render("-")
		}
		if isSelected {
			cells[pnl.field] = style.HlCellStyle.Render(cells[pnl.field])
		}

		rowPrefix := "  "
		if isSelected {
			rowPrefix = "> "
		}

		content.WriteString(rowPrefix + strings.Join(cells, " ") + "\n")
	}

	content.WriteString("\n" + style.MutedStyle.Render(pnl.help()))

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Width(dialogWidth - 4)

	return dialogStyle.Render(content.String())
}

// Position returns where the dialog sits to be centered.
func (pnl Panel) Position(dialog string) (x, y int) {

	dialogHeight := strings.Count(dialog, "\n") + 1

	x = (pnl.width - dialogWidth) / 2
	y = (pnl.height - dialogHeight) / 2

	return max(x, 0), max(y, 0)
}

// unexported

func (pnl Panel) handleKey(msg tea.KeyPressMsg) (Panel, tea.Cmd) {

	rules := pnl.rules()

	switch key := msg.String(); key {
	case "esc":
		return pnl, func() tea.Msg {
			return message.ClosePanelMsg{}
		}

	case "ctrl+n":
		_, err := pnl.grid.AddDefaultRule()
		if err != nil {
			return pnl, message.ErrorCmd(err)
		}
		pnl.selected = len(rules)
		pnl.field = fieldColumn
		return pnl, nil

	case "tab":
		pnl.field = (pnl.field + 1) % fieldCount
		return pnl, nil

	case "shift+tab":
		pnl.field = (pnl.field + fieldCount - 1) % fieldCount
		return pnl, nil

	case "up":
		if pnl.selected > 0 {
			pnl.selected--
		}
		return pnl, nil

	case "down":
		if pnl.selected < len(rules)-1 {
			pnl.selected++
		}
		return pnl, nil
	}

	if pnl.selected < 0 || pnl.selected >= len(rules) {
		return pnl, nil
	}
	return pnl.edit(msg.String(), rules)
}

// edit changes the selected rule.
func (pnl Panel) edit(key string, rules []nt.Rule) (Panel, tea.Cmd) {

	rule := rules[pnl.selected]

	var err error
	switch key {
	case "ctrl+d":
		_, err = pnl.grid.DuplicateRule(rule.Id)
		if err == nil {
			pnl.selected = len(rules)
		}

	case "ctrl+x", "delete":
		err = pnl.grid.DeleteRule(rule.Id)
		if err == nil && pnl.selected > 0 && pnl.selected >= len(rules)-1 {
			pnl.selected--
		}

	case "left", "right":
		dir := 1
		if key == "left" {
			dir = -1
		}
		err = pnl.step(rule, dir)

	case "backspace":
		if pnl.field == fieldValue {
			if runes := []rune(rule.Value); len(runes) > 0 {
				rule.Value = string(runes[:len(runes)-1])
				err = pnl.grid.UpdateRule(rule)
			}
		}

	case "space":
		if pnl.field == fieldValue {
			rule.Value += " "
			err = pnl.grid.UpdateRule(rule)
		}

	default:
		if pnl.field == fieldValue && len([]rune(key)) == 1 {
			rule.Value += key
			err = pnl.grid.UpdateRule(rule)
		}
	}

	if err != nil {
		return pnl, message.ErrorCmd(err)
	}
	return pnl, nil
}

// step cycles the selected field of a rule through its legal choices.
func (pnl Panel) step(rule nt.Rule, dir int) (err error) {

	switch pnl.field {
	case fieldJoiner:
		switch rule.Joiner {
		case nt.Or:
			rule.Joiner = nt.And
		default:
			rule.Joiner = nt.Or
		}
		return pnl.grid.UpdateRule(rule)

	case fieldColumn:
		var ids []string
		for _, col := range pnl.grid.Registry().Columns() {
			if col.Filterable {
				ids = append(ids, col.Id)
			}
		}
		return pnl.grid.RetargetRule(rule.Id, cycle(ids, rule.Column, dir))

	case fieldOperator:
		var ops []nt.Operator
		ops, err = pnl.grid.Registry().Operators(rule.Column)
		if err != nil {
			return
		}
		rule.Operator = cycle(ops, rule.Operator, dir)
		return pnl.grid.UpdateRule(rule)
	}

	return
}

func (pnl Panel) rules() []nt.Rule {
	return pnl.grid.Snapshot().Query.Filters.Rules()
}

func (pnl Panel) columnTitle(id string) string {

	col, err := pnl.grid.Registry().Column(id)
	if err != nil {
		return id
	}
	return col.Title()
}

func (pnl Panel) help() string {

	switch pnl.field {
	case fieldJoiner:
		return "←→: and/or  Tab: next field  ↑↓: change rule  Esc: close"
	case fieldColumn:
		return "←→: column  Tab: next field  ↑↓: change rule  Esc: close"
	case fieldOperator:
		return "←→: operator  Tab: next field  ↑↓: change rule  Esc: close"
	}
	return "type to edit  ^n: add  ^d: duplicate  ^x: delete  Esc: close"
}

// cycle returns the option step places away from current, wrapping around.
func cycle[T comparable](options []T, current T, step int) T {

	if len(options) == 0 {
		return current
	}

	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}

	count := len(options)
	return options[((idx+step)%count+count)%count]
}
