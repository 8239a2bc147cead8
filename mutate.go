package datagrid

import (
	"datagrid/engine"
	nt "datagrid/entity"
	"datagrid/filterstate"
	"datagrid/sortlist"
)

// quick filters

// SetQuick sets a column's quick filter; an empty value clears it.
func (grd *Grid) SetQuick(columnId, value string) error {
	return grd.filters("set quick filter", func(st filterstate.State) (filterstate.State, error) {
		return st.SetQuick(columnId, value)
	})
}

// ClearQuick clears a column's quick filter.
func (grd *Grid) ClearQuick(columnId string) error {
	return grd.SetQuick(columnId, "")
}

// ClearFilters drops quick filters and ad-hoc rules.
func (grd *Grid) ClearFilters() error {
	return grd.filters("clear filters", func(st filterstate.State) (filterstate.State, error) {
		return st.ClearAll(), nil
	})
}

// ad-hoc rules

// AddRule appends an ad-hoc rule and returns its id.
func (grd *Grid) AddRule(columnId string, op nt.Operator, value string, joiner nt.Joiner) (ruleId string, err error) {

	err = grd.filters("add rule", func(st filterstate.State) (next filterstate.State, err error) {
		next, err = st.AddRule(columnId, op, value, joiner)
		if err == nil {
			ruleId = lastRule(next.Rules())
		}
		return
	})
	return
}

// AddDefaultRule appends an empty rule on the first filterable column and returns its id.
func (grd *Grid) AddDefaultRule() (ruleId string, err error) {

	err = grd.filters("add default rule", func(st filterstate.State) (next filterstate.State, err error) {
		next, err = st.AddDefaultRule()
		if err == nil {
			ruleId = lastRule(next.Rules())
		}
		return
	})
	return
}

// UpdateRule replaces an ad-hoc rule by id.
func (grd *Grid) UpdateRule(rule nt.Rule) error {
	return grd.filters("update rule", func(st filterstate.State) (filterstate.State, error) {
		return st.UpdateRule(rule)
	})
}

// RetargetRule points an ad-hoc rule at another column.
func (grd *Grid) RetargetRule(ruleId, columnId string) error {
	return grd.filters("retarget rule", func(st filterstate.State) (filterstate.State, error) {
		return st.RetargetRule(ruleId, columnId)
	})
}

// DeleteRule removes an ad-hoc rule.
func (grd *Grid) DeleteRule(ruleId string) error {
	return grd.filters("delete rule", func(st filterstate.State) (filterstate.State, error) {
		return st.DeleteRule(ruleId)
	})
}

// DuplicateRule copies an ad-hoc rule and returns the copy's id.
func (grd *Grid) DuplicateRule(ruleId string) (dupId string, err error) {

	err = grd.filters("duplicate rule", func(st filterstate.State) (next filterstate.State, err error) {
		next, err = st.DuplicateRule(ruleId)
		if err == nil {
			dupId = lastRule(next.Rules())
		}
		return
	})
	return
}

// ClearRules empties the ad-hoc rule list.
func (grd *Grid) ClearRules() error {
	return grd.filters("clear rules", func(st filterstate.State) (filterstate.State, error) {
		return st.ClearRules(), nil
	})
}

// groups

// AddGroup appends an empty rule group and returns its id.
func (grd *Grid) AddGroup(joiner nt.Joiner) (groupId string, err error) {

	err = grd.filters("add group", func(st filterstate.State) (next filterstate.State, err error) {
		next, err = st.AddGroup(joiner)
		if groups := next.Groups(); err == nil && len(groups) > 0 {
			groupId = groups[len(groups)-1].Id
		}
		return
	})
	return
}

// DeleteGroup removes a rule group.
func (grd *Grid) DeleteGroup(groupId string) error {
	return grd.filters("delete group", func(st filterstate.State) (filterstate.State, error) {
		return st.DeleteGroup(groupId)
	})
}

// SetGroupJoiner changes how a group joins the one before it.
func (grd *Grid) SetGroupJoiner(groupId string, joiner nt.Joiner) error {
	return grd.filters("set group joiner", func(st filterstate.State) (filterstate.State, error) {
		return st.SetGroupJoiner(groupId, joiner)
	})
}

// AddGroupRule appends a rule to a group and returns its id.
func (grd *Grid) AddGroupRule(groupId, columnId string, op nt.Operator, value string, joiner nt.Joiner) (ruleId string, err error) {

	err = grd.filters("add group rule", func(st filterstate.State) (next filterstate.State, err error) {
		next, err = st.AddGroupRule(groupId, columnId, op, value, joiner)
		if err == nil {
			ruleId = lastRule(groupRules(next, groupId))
		}
		return
	})
	return
}

// UpdateGroupRule replaces a grouped rule by id.
func (grd *Grid) UpdateGroupRule(groupId string, rule nt.Rule) error {
	return grd.filters("update group rule", func(st filterstate.State) (filterstate.State, error) {
		return st.UpdateGroupRule(groupId, rule)
	})
}

// RetargetGroupRule points a grouped rule at another column.
func (grd *Grid) RetargetGroupRule(groupId, ruleId, columnId string) error {
	return grd.filters("retarget group rule", func(st filterstate.State) (filterstate.State, error) {
		return st.RetargetGroupRule(groupId, ruleId, columnId)
	})
}

// DeleteGroupRule removes a grouped rule.
func (grd *Grid) DeleteGroupRule(groupId, ruleId string) error {
	return grd.filters("delete group rule", func(st filterstate.State) (filterstate.State, error) {
		return st.DeleteGroupRule(groupId, ruleId)
	})
}

// DuplicateGroupRule copies a grouped rule and returns the copy's id.
func (grd *Grid) DuplicateGroupRule(groupId, ruleId string) (dupId string, err error) {

	err = grd.filters("duplicate group rule", func(st filterstate.State) (next filterstate.State, err error) {
		next, err = st.DuplicateGroupRule(groupId, ruleId)
		if err == nil {
			dupId = lastRule(groupRules(next, groupId))
		}
		return
	})
	return
}

// sorting

// ToggleSort adds a column to the sort or flips its direction.
func (grd *Grid) ToggleSort(columnId string, descFirst bool) error {
	return grd.sorts("toggle sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.Toggle(columnId, descFirst)
	})
}

// SetSort sorts a column in a given direction.
func (grd *Grid) SetSort(columnId string, desc bool) error {
	return grd.sorts("set sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.Set(columnId, desc)
	})
}

// CycleSort steps a column through its first direction, the other and unsorted.
func (grd *Grid) CycleSort(columnId string) error {
	return grd.sorts("cycle sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.Cycle(columnId)
	})
}

// RemoveSort un-sorts a column.
func (grd *Grid) RemoveSort(columnId string) error {
	return grd.sorts("remove sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.Remove(columnId), nil
	})
}

// MoveSort changes the priority of the sort key at from to to.
func (grd *Grid) MoveSort(from, to int) error {
	return grd.sorts("move sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.Move(from, to)
	})
}

// DropSort moves the active column's sort key onto the over column's slot.
func (grd *Grid) DropSort(activeId, overId string) error {
	return grd.sorts("drop sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.MoveColumn(activeId, overId), nil
	})
}

// ClearSort removes every sort key.
func (grd *Grid) ClearSort() error {
	return grd.sorts("clear sort", func(lst sortlist.List) (sortlist.List, error) {
		return lst.Clear(), nil
	})
}

// grouping

// SetGroupBy partitions output by a column; "" turns grouping off.
func (grd *Grid) SetGroupBy(columnId string) error {

	return grd.commit("set group by", func(qry engine.Query) (engine.Query, error) {
		if err := grd.checkGroupBy(columnId); err != nil {
			return qry, err
		}

		qry.GroupBy = columnId
		return qry, nil
	})
}

// unexported

func lastRule(rules []nt.Rule) string {
	if len(rules) == 0 {
		return ""
	}
	return rules[len(rules)-1].Id
}

func groupRules(st filterstate.State, groupId string) []nt.Rule {
	for _, grp := range st.Groups() {
		if grp.Id == groupId {
			return grp.Rules
		}
	}
	return nil
}
