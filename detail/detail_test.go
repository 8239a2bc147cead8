package detail

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "datagrid/entity"
	"datagrid/message"
	"datagrid/registry"
)

func newPanel(t *testing.T, height int) Panel {
	t.Helper()

	reg, err := registry.New([]nt.Column{
		{Id: "name", Label: "Name"},
		{Id: "status", Filter: nt.Enumerated, Options: []nt.Option{{Value: "active", Label: "Active"}}},
		{Id: "tags"},
		{Id: "region"},
	})
	require.NoError(t, err)

	row, err := reg.NewRow(map[string]any{
		"name":   "Acme",
		"status": "active",
		"tags":   `{"tier":"gold","regions":["west","east"]}`,
	})
	require.NoError(t, err)

	pnl, _ := New(reg).Update(SizeMsg{Width: 80, Height: height})
	pnl, _ = pnl.Update(RowMsg{Row: row})
	return pnl
}

func TestRender(t *testing.T) {

	assert.Equal(t, "No row selected", New(nil).Render())

	pnl := newPanel(t, 0)
	lines := strings.Split(pnl.Render(), "\n")

	// keys come out sorted
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "Acme")
	assert.Contains(t, lines[1], "Active")
	assert.Contains(t, lines[2], "{")
	assert.Equal(t, strings.Repeat(" ", 8)+`    "west",`, lines[4])
	assert.Contains(t, lines[7], `"tier": "gold"`)
	assert.Contains(t, lines[9], "-")
}

func TestIndentJson(t *testing.T) {

	assert.Equal(t, "plain", indentJson("plain"))
	assert.Equal(t, "{broken", indentJson("{broken"))
	assert.Equal(t, "[\n  1,\n  2\n]", indentJson("[1,2]"))
}

func TestScrollAndClose(t *testing.T) {

	down := tea.KeyPressMsg{Code: tea.KeyDown}
	up := tea.KeyPressMsg{Code: tea.KeyUp}

	pnl := newPanel(t, 4)
	assert.Len(t, strings.Split(pnl.Render(), "\n"), 4)

	for range 20 {
		pnl, _ = pnl.Update(down)
	}
	assert.Equal(t, 6, pnl.ScrollOffset)

	pnl, _ = pnl.Update(up)
	assert.Equal(t, 5, pnl.ScrollOffset)

	_, cmd := pnl.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, message.ClosePanelMsg{}, cmd())
}
