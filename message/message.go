package message

import nt "datagrid/entity"

// RowsMsg carries freshly loaded rows and the source's unfiltered count.
type RowsMsg struct {
	Rows  []nt.Row
	Total int
}

// ErrorMsg contains an error
type ErrorMsg struct {
	Err error
}

// ClosePanelMsg asks the browser to close a modal panel.
type ClosePanelMsg struct{}
