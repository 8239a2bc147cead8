package filterstate

import (
	"github.com/pkg/errors"

	nt "datagrid/entity"
)

// AddGroup appends an empty rule group.
func (st State) AddGroup(joiner nt.Joiner) (State, error) {

	joiner, err := normalize(joiner)
	if err != nil {
		return st, err
	}

	groups := append(make([]nt.Group, 0, len(st.groups)+1), st.groups...)
	st.groups = append(groups, nt.Group{Id: st.id(), Joiner: joiner})
	return st, nil
}

// DeleteGroup removes a group and its rules.
func (st State) DeleteGroup(groupId string) (State, error) {

	idx, err := st.findGroup(groupId)
	if err != nil {
		return st, err
	}

	groups := make([]nt.Group, 0, len(st.groups)-1)
	groups = append(groups, st.groups[:idx]...)
	st.groups = append(groups, st.groups[idx+1:]...)
	return st, nil
}

// SetGroupJoiner sets how a group relates to the previous one.
func (st State) SetGroupJoiner(groupId string, joiner nt.Joiner) (State, error) {

	joiner, err := normalize(joiner)
	if err != nil {
		return st, err
	}

	return st.editGroup(groupId, func(grp nt.Group) (nt.Group, error) {
		grp.Joiner = joiner
		return grp, nil
	})
}

// AddGroupRule appends a rule to a group.
func (st State) AddGroupRule(groupId, columnId string, op nt.Operator, value string, joiner nt.Joiner) (State, error) {

	return st.editGroup(groupId, func(grp nt.Group) (nt.Group, error) {
		rules, err := st.addRule(grp.Rules, columnId, op, value, joiner)
		grp.Rules = rules
		return grp, err
	})
}

// UpdateGroupRule replaces a rule in a group by id.
func (st State) UpdateGroupRule(groupId string, rule nt.Rule) (State, error) {

	return st.editGroup(groupId, func(grp nt.Group) (nt.Group, error) {
		rules, err := st.updateRule(grp.Rules, rule)
		grp.Rules = rules
		return grp, err
	})
}

// RetargetGroupRule points a grouped rule at another column.
func (st State) RetargetGroupRule(groupId, ruleId, columnId string) (State, error) {

	return st.editGroup(groupId, func(grp nt.Group) (nt.Group, error) {
		rules, err := st.retargetRule(grp.Rules, ruleId, columnId)
		grp.Rules = rules
		return grp, err
	})
}

// DeleteGroupRule removes a rule from a group.
func (st State) DeleteGroupRule(groupId, ruleId string) (State, error) {

	return st.editGroup(groupId, func(grp nt.Group) (nt.Group, error) {
		rules, err := deleteRule(grp.Rules, ruleId)
		grp.Rules = rules
		return grp, err
	})
}

// DuplicateGroupRule appends a copy of a grouped rule under a fresh id.
func (st State) DuplicateGroupRule(groupId, ruleId string) (State, error) {

	return st.editGroup(groupId, func(grp nt.Group) (nt.Group, error) {
		rules, err := st.duplicateRule(grp.Rules, ruleId)
		grp.Rules = rules
		return grp, err
	})
}

// unexported

func (st State) findGroup(groupId string) (int, error) {

	for i, grp := range st.groups {
		if grp.Id == groupId {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownGroup, "group %q", groupId)
}

// editGroup applies edit to a copy of one group and swaps it into a copy of the group list.
func (st State) editGroup(groupId string, edit func(nt.Group) (nt.Group, error)) (State, error) {

	idx, err := st.findGroup(groupId)
	if err != nil {
		return st, err
	}

	grp, err := edit(st.groups[idx])
	if err != nil {
		return st, err
	}

	groups := append([]nt.Group(nil), st.groups...)
	groups[idx] = grp
	st.groups = groups
	return st, nil
}
