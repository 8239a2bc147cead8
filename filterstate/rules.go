package filterstate

import (
	"github.com/pkg/errors"

	nt "datagrid/entity"
	"datagrid/registry"
)

// AddRule appends a rule to the ad-hoc list.
func (st State) AddRule(columnId string, op nt.Operator, value string, joiner nt.Joiner) (State, error) {

	rules, err := st.addRule(st.rules, columnId, op, value, joiner)
	if err != nil {
		return st, err
	}

	st.rules = rules
	return st, nil
}

// AddDefaultRule appends an empty rule on the first filterable column.
func (st State) AddDefaultRule() (State, error) {

	if err := st.ready(); err != nil {
		return st, err
	}

	for _, col := range st.reg.Columns() {
		if !col.Filterable {
			continue
		}

		op := nt.Contains
		if col.Filter == nt.Enumerated {
			op = nt.Equals
		}
		return st.AddRule(col.Id, op, "", nt.And)
	}

	return st, errors.Wrapf(registry.ErrNotFilterable, "no filterable columns")
}

// UpdateRule replaces the rule carrying the same id, keeping its position.
func (st State) UpdateRule(rule nt.Rule) (State, error) {

	rules, err := st.updateRule(st.rules, rule)
	if err != nil {
		return st, err
	}

	st.rules = rules
	return st, nil
}

// RetargetRule points a rule at another column, resetting its value and
// falling back to equals when the operator is illegal there.
func (st State) RetargetRule(ruleId, columnId string) (State, error) {

	rules, err := st.retargetRule(st.rules, ruleId, columnId)
	if err != nil {
		return st, err
	}

	st.rules = rules
	return st, nil
}

// DeleteRule removes a rule by id.
func (st State) DeleteRule(ruleId string) (State, error) {

	rules, err := deleteRule(st.rules, ruleId)
	if err != nil {
		return st, err
	}

	st.rules = rules
	return st, nil
}

// DuplicateRule appends a copy of a rule under a fresh id.
func (st State) DuplicateRule(ruleId string) (State, error) {

	rules, err := st.duplicateRule(st.rules, ruleId)
	if err != nil {
		return st, err
	}

	st.rules = rules
	return st, nil
}

// ClearRules empties the ad-hoc list.
func (st State) ClearRules() State {
	st.rules = nil
	return st
}

// unexported

func (st State) checkRule(rule nt.Rule) (nt.Rule, error) {

	if err := st.ready(); err != nil {
		return rule, err
	}

	joiner, err := normalize(rule.Joiner)
	if err != nil {
		return rule, err
	}
	rule.Joiner = joiner

	err = st.reg.CheckOperator(rule.Column, rule.Operator)
	return rule, err
}

func normalize(joiner nt.Joiner) (nt.Joiner, error) {

	switch joiner {
	case "", nt.And:
		return nt.And, nil
	case nt.Or:
		return nt.Or, nil
	}
	return joiner, errors.Wrapf(ErrInvalidJoiner, "joiner %q", joiner)
}

func findRule(rules []nt.Rule, ruleId string) (int, error) {

	for i, rule := range rules {
		if rule.Id == ruleId {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownRule, "rule %q", ruleId)
}

func (st State) addRule(rules []nt.Rule, columnId string, op nt.Operator, value string, joiner nt.Joiner) ([]nt.Rule, error) {

	rule, err := st.checkRule(nt.Rule{
		Column:   columnId,
		Operator: op,
		Value:    value,
		Joiner:   joiner,
	})
	if err != nil {
		return nil, err
	}
	rule.Id = st.id()

	return append(append(make([]nt.Rule, 0, len(rules)+1), rules...), rule), nil
}

func (st State) updateRule(rules []nt.Rule, rule nt.Rule) ([]nt.Rule, error) {

	idx, err := findRule(rules, rule.Id)
	if err != nil {
		return nil, err
	}

	rule, err = st.checkRule(rule)
	if err != nil {
		return nil, err
	}

	updated := append([]nt.Rule(nil), rules...)
	updated[idx] = rule
	return updated, nil
}

func (st State) retargetRule(rules []nt.Rule, ruleId, columnId string) ([]nt.Rule, error) {

	if err := st.ready(); err != nil {
		return nil, err
	}

	idx, err := findRule(rules, ruleId)
	if err != nil {
		return nil, err
	}

	if err = st.reg.CheckFilterable(columnId); err != nil {
		return nil, err
	}
	col, _ := st.reg.Column(columnId)

	rule := rules[idx]
	rule.Column = columnId
	rule.Value = ""
	if !registry.Legal(col, rule.Operator) {
		rule.Operator = nt.Equals
	}

	return st.updateRule(rules, rule)
}

func deleteRule(rules []nt.Rule, ruleId string) ([]nt.Rule, error) {

	idx, err := findRule(rules, ruleId)
	if err != nil {
		return nil, err
	}

	kept := make([]nt.Rule, 0, len(rules)-1)
	kept = append(kept, rules[:idx]...)
	kept = append(kept, rules[idx+1:]...)
	return kept, nil
}

func (st State) duplicateRule(rules []nt.Rule, ruleId string) ([]nt.Rule, error) {

	idx, err := findRule(rules, ruleId)
	if err != nil {
		return nil, err
	}

	dup := rules[idx]
	dup.Id = st.id()

	return append(append(make([]nt.Rule, 0, len(rules)+1), rules...), dup), nil
}
