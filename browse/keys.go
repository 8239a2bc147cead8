package browse

import (
	tea "charm.land/bubbletea/v2"

	"datagrid/detail"
	nt "datagrid/entity"
	"datagrid/message"
)

// Help lists the browser's keys.
const Help = `up/down j/k   move between rows
left/right h/l  move between columns
s  cycle sort on column (first direction, other, off)
t  flip sort direction on column
[  raise column's sort priority
]  lower column's sort priority
x  clear all sorts
/  quick filter column (enter applies, esc cancels)
a  add a rule matching the selected cell
f  edit rules (esc closes)
enter  show every column of the selected row
c  clear filters
g  group by column (again to ungroup)
q  quit`

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {

	col := m.selectedColumn()

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		m.cursor.Line--
		return m.scroll(), nil

	case "down", "j":
		m.cursor.Line++
		return m.scroll(), nil

	case "pgup", "ctrl+u":
		m.cursor.Line -= m.pageSize()
		return m.scroll(), nil

	case "pgdown", "ctrl+d":
		m.cursor.Line += m.pageSize()
		return m.scroll(), nil

	case "left", "h":
		if m.cursor.Column > 0 {
			m.cursor.Column--
		}
		return m, nil

	case "right", "l":
		if m.cursor.Column < len(m.columns)-1 {
			m.cursor.Column++
		}
		return m, nil

	case "s":
		return m.edit(m.grid.CycleSort(col.Id))

	case "t":
		return m.edit(m.grid.ToggleSort(col.Id, col.SortDescFirst))

	case "[", "]":
		idx := m.grid.Snapshot().Query.Sorts.Index(col.Id)
		if idx < 0 {
			return m, nil
		}
		to := idx - 1
		if msg.String() == "]" {
			to = idx + 1
		}
		if to < 0 || to >= m.grid.Snapshot().Query.Sorts.Len() {
			return m, nil
		}
		return m.edit(m.grid.MoveSort(idx, to))

	case "x":
		return m.edit(m.grid.ClearSort())

	case "/":
		m.editing = true
		m.input = m.grid.Snapshot().Query.Filters.QuickValue(col.Id)
		return m, nil

	case "a":
		return m.addCellRule()

	case "f":
		m.showRules = true
		return m, nil

	case "enter":
		if m.cursor.Line >= len(m.lines) || m.lines[m.cursor.Line].Row == nil {
			return m, nil
		}
		m.detail, _ = m.detail.Update(detail.RowMsg{Row: m.lines[m.cursor.Line].Row})
		m.showDetail = true
		return m, nil

	case "c":
		err := m.grid.ClearFilters()
		if err != nil {
			return m, message.ErrorCmd(err)
		}
		return m, m.load()

	case "g":
		groupBy := col.Id
		if m.grid.Snapshot().Query.GroupBy == col.Id {
			groupBy = ""
		}
		return m.edit(m.grid.SetGroupBy(groupBy))
	}

	return m, nil
}

// handleInput edits the quick filter being typed.
func (m Model) handleInput(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {

	switch key := msg.String(); key {
	case "esc":
		m.editing = false
		m.input = ""

	case "enter":
		m.editing = false
		err := m.grid.SetQuick(m.selectedColumn().Id, m.input)
		m.input = ""
		if err != nil {
			return m, message.ErrorCmd(err)
		}
		return m, m.load()

	case "backspace":
		if runes := []rune(m.input); len(runes) > 0 {
			m.input = string(runes[:len(runes)-1])
		}

	case "space":
		m.input += " "

	default:
		if len([]rune(key)) == 1 {
			m.input += key
		}
	}

	return m, nil
}

// addCellRule adds an equals rule for the value under the cursor.
func (m Model) addCellRule() (tea.Model, tea.Cmd) {

	if m.cursor.Line >= len(m.lines) || m.lines[m.cursor.Line].Row == nil {
		return m, nil
	}

	col := m.selectedColumn()
	val := m.lines[m.cursor.Line].Row.Get(col.Id).String()

	_, err := m.grid.AddRule(col.Id, nt.Equals, val, nt.And)
	return m.edit(err)
}

// edit reports a failed grid edit or re-evaluates after a successful one.
func (m Model) edit(err error) (tea.Model, tea.Cmd) {

	if err != nil {
		return m, message.ErrorCmd(err)
	}
	return m.refresh(), nil
}
