package message

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"datagrid"
	nt "datagrid/entity"
	"datagrid/registry"
)

// LoadRowsCmd returns a command loading rows from a source.
func LoadRowsCmd(ctx context.Context, src datagrid.Source, reg *registry.Registry, quick []nt.QuickFilter) tea.Cmd {
	return func() tea.Msg {
		rows, err := src.Rows(ctx, reg, quick)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		total, err := src.Count(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return RowsMsg{Rows: rows, Total: total}
	}
}

// ErrorCmd returns a command reporting err.
func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
