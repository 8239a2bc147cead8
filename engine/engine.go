// Package engine turns rows plus filter, sort and group-by state into the
// visible row sequence.
//
// Evaluate is pure and synchronous: it holds no state between calls and
// never mutates the rows it is given.
package engine

import (
	"slices"

	"github.com/pkg/errors"

	nt "datagrid/entity"
	"datagrid/filterstate"
	"datagrid/registry"
	"datagrid/sortlist"
)

// Uncategorized labels the group-by bucket of empty values.
const Uncategorized = "Uncategorized"

// Query is the filter, sort and group-by state to evaluate.
type Query struct {
	Filters filterstate.State
	Sorts   sortlist.List
	GroupBy string
}

// Group is a contiguous bucket of rows sharing a group-by value.
type Group struct {
	Key   string
	Label string
	Rows  []nt.Row
}

// Result is the evaluated grid.
type Result struct {
	Rows   []nt.Row
	Groups []Group
	Total  int
}

// Evaluate filters, stably sorts and optionally groups rows.
// Any column reference the registry does not know is returned as an error
// wrapping registry.ErrUnknownColumn.
func Evaluate(rows []nt.Row, reg *registry.Registry, qry Query) (result Result, err error) {

	keys := qry.Sorts.Keys()

	err = validate(reg, qry, keys)
	if err != nil {
		return
	}

	visible := make([]nt.Row, 0, len(rows))
	for _, row := range rows {
		if qry.Filters.Visible(row) {
			visible = append(visible, row)
		}
	}

	if len(keys) > 0 {
		slices.SortStableFunc(visible, func(a, b nt.Row) int {
			return compareRows(a, b, keys)
		})
	}

	result = Result{
		Rows:  visible,
		Total: len(rows),
	}
	if qry.GroupBy != "" {
		result.Groups = partition(visible, reg, qry.GroupBy)
	}

	return
}

func validate(reg *registry.Registry, qry Query, keys []nt.SortKey) (err error) {

	if reg == nil {
		return errors.Wrapf(registry.ErrUnknownColumn, "no registry")
	}

	err = reg.CheckColumns(qry.Filters.ColumnIds()...)
	if err != nil {
		return errors.Wrapf(err, "failed to validate filters")
	}

	for _, key := range keys {
		err = reg.CheckColumns(key.Column)
		if err != nil {
			return errors.Wrapf(err, "failed to validate sorts")
		}
	}

	if qry.GroupBy != "" {
		err = reg.CheckColumns(qry.GroupBy)
		err = errors.Wrapf(err, "failed to validate group by")
	}
	return
}

// partition buckets rows by coerced group-by value in order of first appearance.
func partition(rows []nt.Row, reg *registry.Registry, columnId string) (groups []Group) {

	index := map[string]int{}
	for _, row := range rows {
		key := row.Get(columnId).String()

		idx, ok := index[key]
		if !ok {
			idx = len(groups)
			index[key] = idx
			groups = append(groups, Group{
				Key:   key,
				Label: label(reg, columnId, key),
			})
		}
		groups[idx].Rows = append(groups[idx].Rows, row)
	}

	return
}

func label(reg *registry.Registry, columnId, key string) string {

	if lbl := reg.OptionLabel(columnId, key); lbl != "" {
		return lbl
	}
	if key != "" {
		return key
	}
	return Uncategorized
}
