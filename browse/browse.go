// Package browse is an interactive terminal grid.
// Every keystroke that edits the grid goes through datagrid.Grid, and the
// engine re-evaluates synchronously afterwards.
package browse

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"datagrid"
	"datagrid/detail"
	"datagrid/engine"
	nt "datagrid/entity"
	"datagrid/filter"
	"datagrid/message"
	"datagrid/render"
	"datagrid/style"
)

const (
	footerHeight = 2
	headerHeight = 2
)

// Model is the bubbletea model for the grid browser.
type Model struct {
	grid   *datagrid.Grid
	source datagrid.Source
	ctx    context.Context
	logger nt.Logger

	rows    []nt.Row
	total   int
	result  engine.Result
	lines   []render.Line
	columns []nt.Column

	cursor render.Cursor
	offset int

	editing bool
	input   string

	rules     filter.Panel
	showRules bool

	detail     detail.Panel
	showDetail bool

	errorString string

	width  int
	height int
}

// New creates a browser over a grid and its row source.
func New(ctx context.Context, grd *datagrid.Grid, src datagrid.Source, lgr nt.Logger) Model {
	return Model{
		grid:    grd,
		source:  src,
		ctx:     ctx,
		logger:  lgr,
		columns: grd.Registry().Columns(),
		cursor:  render.Cursor{Line: 0, Column: 0},
		rules:   filter.New(ctx, grd, lgr),
		detail:  detail.New(grd.Registry()),
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {

	switch msg := msg.(type) {

	case message.RowsMsg:
		m.rows = msg.Rows
		m.total = msg.Total
		return m.refresh(), nil

	case message.ErrorMsg:
		m.logger.Error(m.ctx, "error msg", msg.Err)
		m.errorString = msg.Err.Error()
		return m, nil

	case message.ClosePanelMsg:
		m.showRules = false
		m.showDetail = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rules, _ = m.rules.Update(filter.SizeMsg{Width: msg.Width, Height: msg.Height})
		m.detail, _ = m.detail.Update(detail.SizeMsg{Width: msg.Width, Height: msg.Height - footerHeight})
		return m.scroll(), nil

	case tea.KeyPressMsg:
		m.errorString = ""
		if m.showRules {
			var cmd tea.Cmd
			m.rules, cmd = m.rules.Update(msg)
			return m.refresh(), cmd
		}
		if m.showDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		if m.editing {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() tea.View {

	if m.width == 0 {
		return tea.NewView("Loading...")
	}

	snap := m.grid.Snapshot()

	end := m.offset + m.pageSize()
	if end > len(m.lines) {
		end = len(m.lines)
	}
	cursor := render.Cursor{Line: m.cursor.Line - m.offset, Column: m.cursor.Column}
	content := render.Table(m.grid.Registry(), snap.Query.Sorts.Keys(), m.lines[m.offset:end], cursor)
	if m.showDetail {
		content = m.detail.Render()
	}

	footer := render.Footer(len(m.result.Rows), m.result.Total, m.note(snap), m.width)
	switch {
	case m.editing:
		footer = fmt.Sprintf("filter %s: %s▏", m.selectedColumn().Title(), m.input)
	case m.errorString != "":
		footer = style.ErrorStyle.Render(m.errorString)
	}

	screen := lipgloss.NewLayer("screen", content)
	bottom := lipgloss.NewLayer("footer", footer).Y(m.height - footerHeight)

	canvas := lipgloss.NewCanvas(m.width, m.height)
	canvas.Compose(screen)
	canvas.Compose(bottom)

	if m.showRules {
		dialog := m.rules.Render()
		x, y := m.rules.Position(dialog)
		canvas.Compose(lipgloss.NewLayer("rules", dialog).X(x).Y(y))
	}

	view := tea.NewView(canvas)
	view.AltScreen = true
	return view
}

// unexported

func (m Model) load() tea.Cmd {
	return message.LoadRowsCmd(m.ctx, m.source, m.grid.Registry(), m.grid.Snapshot().Query.Filters.Quick())
}

// refresh re-evaluates the grid over the loaded rows.
func (m Model) refresh() Model {

	result, err := m.grid.Evaluate(m.rows)
	if err != nil {
		m.logger.Error(m.ctx, "failed to evaluate", err)
		m.errorString = err.Error()
		return m
	}

	// the source may have narrowed rows by quick filter already
	result.Total = max(result.Total, m.total)

	m.result = result
	m.lines = render.Lines(result)
	return m.scroll()
}

// scroll clamps the cursor and keeps it on the visible page.
func (m Model) scroll() Model {

	if m.cursor.Line >= len(m.lines) {
		m.cursor.Line = len(m.lines) - 1
	}
	if m.cursor.Line < 0 {
		m.cursor.Line = 0
	}

	page := m.pageSize()
	if m.cursor.Line < m.offset {
		m.offset = m.cursor.Line
	} else if m.cursor.Line >= m.offset+page {
		m.offset = m.cursor.Line - page + 1
	}
	if m.offset > len(m.lines) {
		m.offset = len(m.lines)
	}
	if m.offset < 0 {
		m.offset = 0
	}

	return m
}

func (m Model) pageSize() int {
	size := m.height - footerHeight - headerHeight
	if size < 1 {
		return 1
	}
	return size
}

func (m Model) selectedColumn() nt.Column {
	if len(m.columns) == 0 {
		return nt.Column{}
	}
	return m.columns[m.cursor.Column]
}

func (m Model) note(snap datagrid.Snapshot) string {

	note := m.source.Name()
	if snap.Query.GroupBy != "" {
		note = fmt.Sprintf("grouped by %s  %s", snap.Query.GroupBy, note)
	}
	return fmt.Sprintf("%s  v%d", note, snap.Version)
}
