package entity

// Row maps column ids to cell values.
// Rows are built by the registry, which rejects unregistered keys.
type Row map[string]Value

// Get returns the cell for a column, null when absent.
func (row Row) Get(id string) Value {
	return row[id]
}
