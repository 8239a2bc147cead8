package datagrid

import (
	"sort"

	"github.com/pkg/errors"

	"datagrid/engine"
	nt "datagrid/entity"
)

// View is a declarative grid state, as found in a config file.
type View struct {
	Quick   map[string]string `yaml:"quick,omitempty"`
	Rules   []nt.Rule         `yaml:"rules,omitempty"`
	Groups  []nt.Group        `yaml:"groups,omitempty"`
	Sorts   []nt.SortKey      `yaml:"sorts,omitempty"`
	GroupBy string            `yaml:"group_by,omitempty"`
}

// Apply replaces filters, sorts and group-by with the view in a single edit.
// Rule and group ids in the view are ignored; fresh ones are generated.
func (grd *Grid) Apply(view View) error {

	return grd.commit("apply view", func(qry engine.Query) (next engine.Query, err error) {

		next.Filters = qry.Filters.ClearAll()
		for _, grp := range next.Filters.Groups() {
			next.Filters, err = next.Filters.DeleteGroup(grp.Id)
			if err != nil {
				return
			}
		}

		columns := make([]string, 0, len(view.Quick))
		for col := range view.Quick {
			columns = append(columns, col)
		}
		sort.Strings(columns)

		for _, col := range columns {
			next.Filters, err = next.Filters.SetQuick(col, view.Quick[col])
			if err != nil {
				return qry, errors.Wrapf(err, "failed to set quick filter")
			}
		}

		for _, rule := range view.Rules {
			next.Filters, err = next.Filters.AddRule(rule.Column, rule.Operator, rule.Value, rule.Joiner)
			if err != nil {
				return qry, errors.Wrapf(err, "failed to add rule")
			}
		}

		for _, grp := range view.Groups {
			next.Filters, err = next.Filters.AddGroup(grp.Joiner)
			if err != nil {
				return qry, errors.Wrapf(err, "failed to add group")
			}

			groups := next.Filters.Groups()
			groupId := groups[len(groups)-1].Id
			for _, rule := range grp.Rules {
				next.Filters, err = next.Filters.AddGroupRule(groupId, rule.Column, rule.Operator, rule.Value, rule.Joiner)
				if err != nil {
					return qry, errors.Wrapf(err, "failed to add group rule")
				}
			}
		}

		next.Sorts = qry.Sorts.Clear()
		for _, key := range view.Sorts {
			next.Sorts, err = next.Sorts.Set(key.Column, key.Desc)
			if err != nil {
				return qry, errors.Wrapf(err, "failed to sort")
			}
		}

		err = grd.checkGroupBy(view.GroupBy)
		if err != nil {
			return qry, err
		}
		next.GroupBy = view.GroupBy

		return
	})
}

// View exports the current state as a View.
func (grd *Grid) View() (view View) {

	snap := grd.Snapshot()
	filters := snap.Query.Filters

	if quick := filters.Quick(); len(quick) > 0 {
		view.Quick = make(map[string]string, len(quick))
		for _, qf := range quick {
			view.Quick[qf.Column] = qf.Value
		}
	}

	view.Rules = filters.Rules()
	view.Groups = filters.Groups()
	view.Sorts = snap.Query.Sorts.Keys()
	view.GroupBy = snap.Query.GroupBy
	return
}

func (view View) empty() bool {
	return len(view.Quick) == 0 &&
		len(view.Rules) == 0 &&
		len(view.Groups) == 0 &&
		len(view.Sorts) == 0 &&
		view.GroupBy == ""
}
