// Package registry validates column configuration and checks everything that
// references a column against it.
package registry

import (
	"github.com/pkg/errors"

	nt "datagrid/entity"
)

var (
	// ErrUnknownColumn indicates a column id not present in the registry.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateColumn indicates two columns sharing an id or accessor.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrInvalidColumn indicates a descriptor that breaks its own invariants.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrIllegalOperator indicates an operator the column's filter kind does not accept.
	ErrIllegalOperator = errors.New("illegal operator")

	// ErrNotSortable indicates a sort on a column with sorting disabled.
	ErrNotSortable = errors.New("column not sortable")

	// ErrNotFilterable indicates a filter on a column with filtering disabled.
	ErrNotFilterable = errors.New("column not filterable")

	// ErrUnknownField indicates a raw record key that no column reads.
	ErrUnknownField = errors.New("unknown field")
)

// Registry is an immutable, validated set of columns.
type Registry struct {
	columns []nt.Column
	byId    map[string]int
	byKey   map[string]int
}

// New validates columns and builds a registry.
func New(columns []nt.Column) (reg *Registry, err error) {

	reg = &Registry{
		columns: make([]nt.Column, 0, len(columns)),
		byId:    make(map[string]int, len(columns)),
		byKey:   make(map[string]int, len(columns)),
	}

	for _, col := range columns {
		err = validate(col)
		if err != nil {
			return nil, err
		}

		if _, ok := reg.byId[col.Id]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "id %q", col.Id)
		}
		if _, ok := reg.byKey[col.Key()]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "accessor %q", col.Key())
		}

		col.Options = append([]nt.Option(nil), col.Options...)
		if col.Filter == "" {
			col.Filter = nt.Text
		}

		reg.byId[col.Id] = len(reg.columns)
		reg.byKey[col.Key()] = len(reg.columns)
		reg.columns = append(reg.columns, col)
	}

	return
}

func validate(col nt.Column) (err error) {

	if col.Id == "" {
		return errors.Wrapf(ErrInvalidColumn, "empty id")
	}

	switch col.Filter {
	case "", nt.Text:
	case nt.Enumerated:
		if len(col.Options) == 0 {
			return errors.Wrapf(ErrInvalidColumn, "enumerated column %q has no options", col.Id)
		}

		seen := map[string]bool{}
		for _, opt := range col.Options {
			if seen[opt.Value] {
				return errors.Wrapf(ErrInvalidColumn, "column %q repeats option %q", col.Id, opt.Value)
			}
			seen[opt.Value] = true
		}
	default:
		return errors.Wrapf(ErrInvalidColumn, "column %q has unknown filter kind %q", col.Id, col.Filter)
	}

	return
}

// Columns returns the columns in configuration order.
func (reg *Registry) Columns() []nt.Column {
	return append([]nt.Column(nil), reg.columns...)
}

// Has reports whether id is registered.
func (reg *Registry) Has(id string) bool {
	_, ok := reg.byId[id]
	return ok
}

// Column looks up a column by id.
func (reg *Registry) Column(id string) (col nt.Column, err error) {

	idx, ok := reg.byId[id]
	if !ok {
		err = errors.Wrapf(ErrUnknownColumn, "column %q", id)
		return
	}

	col = reg.columns[idx]
	return
}

// CheckColumns returns an error for the first unregistered id.
func (reg *Registry) CheckColumns(ids ...string) error {
	for _, id := range ids {
		if !reg.Has(id) {
			return errors.Wrapf(ErrUnknownColumn, "column %q", id)
		}
	}
	return nil
}

// CheckSortable returns an error unless the column exists and is sortable.
func (reg *Registry) CheckSortable(id string) (err error) {

	col, err := reg.Column(id)
	if err != nil {
		return
	}
	if !col.Sortable {
		err = errors.Wrapf(ErrNotSortable, "column %q", id)
	}
	return
}

// CheckFilterable returns an error unless the column exists and is filterable.
func (reg *Registry) CheckFilterable(id string) (err error) {

	col, err := reg.Column(id)
	if err != nil {
		return
	}
	if !col.Filterable {
		err = errors.Wrapf(ErrNotFilterable, "column %q", id)
	}
	return
}

// CheckOperator returns an error unless op may filter the column.
func (reg *Registry) CheckOperator(id string, op nt.Operator) (err error) {

	err = reg.CheckFilterable(id)
	if err != nil {
		return
	}

	if !Legal(reg.columns[reg.byId[id]], op) {
		err = errors.Wrapf(ErrIllegalOperator, "operator %q on column %q", op, id)
	}
	return
}

// Operators returns the operators legal for a column.
func (reg *Registry) Operators(id string) (ops []nt.Operator, err error) {

	col, err := reg.Column(id)
	if err != nil {
		return
	}

	if col.Filter == nt.Enumerated {
		ops = append(ops, nt.EnumOperators...)
		return
	}
	ops = append(ops, nt.Operators...)
	return
}

// OptionLabel returns the label for an enumerated value, or "" if none.
func (reg *Registry) OptionLabel(id, value string) string {

	idx, ok := reg.byId[id]
	if !ok {
		return ""
	}

	for _, opt := range reg.columns[idx].Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return ""
}

// Legal reports whether op is accepted by the column's filter kind.
func Legal(col nt.Column, op nt.Operator) bool {

	if !op.Known() {
		return false
	}
	if col.Filter != nt.Enumerated {
		return true
	}

	for _, legal := range nt.EnumOperators {
		if op == legal {
			return true
		}
	}
	return false
}
