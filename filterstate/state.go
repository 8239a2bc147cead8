// Package filterstate holds the three independent filter sources of a grid:
// quick filters, the ad-hoc rule list and rule groups.
//
// A State is an immutable value. Every mutation returns a new State, or an
// error and no change, so a single logical edit is never partially visible.
package filterstate

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	nt "datagrid/entity"
	"datagrid/predicate"
	"datagrid/registry"
)

var (
	// ErrUnknownRule indicates a rule id not present in the addressed list.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrUnknownGroup indicates a group id not present in the state.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrInvalidJoiner indicates a joiner other than AND or OR.
	ErrInvalidJoiner = errors.New("invalid joiner")

	// ErrNoRegistry indicates a zero State used without New.
	ErrNoRegistry = errors.New("filter state has no registry")
)

// GroupPolicy says how group results combine.
type GroupPolicy int

const (
	// AllGroups requires every group to pass; empty groups pass vacuously.
	AllGroups GroupPolicy = iota
)

// State is a snapshot of every filter source.
type State struct {
	reg    *registry.Registry
	newId  func() string
	policy GroupPolicy

	quick  []nt.QuickFilter
	rules  []nt.Rule
	groups []nt.Group
}

// New creates an empty State bound to a registry.
func New(reg *registry.Registry) State {
	return State{
		reg:    reg,
		newId:  uuid.NewString,
		policy: AllGroups,
	}
}

// WithIds returns a copy generating rule and group ids with fn.
func (st State) WithIds(fn func() string) State {
	st.newId = fn
	return st
}

// Registry returns the registry the state validates against.
func (st State) Registry() *registry.Registry {
	return st.reg
}

// Quick returns the active quick filters in the order they were set.
func (st State) Quick() []nt.QuickFilter {
	return append([]nt.QuickFilter(nil), st.quick...)
}

// Rules returns the ad-hoc rule list.
func (st State) Rules() []nt.Rule {
	return append([]nt.Rule(nil), st.rules...)
}

// Groups returns the rule groups.
func (st State) Groups() []nt.Group {

	groups := make([]nt.Group, len(st.groups))
	for i, grp := range st.groups {
		grp.Rules = append([]nt.Rule(nil), grp.Rules...)
		groups[i] = grp
	}
	return groups
}

// Empty reports whether no source restricts rows.
func (st State) Empty() bool {

	if len(st.quick) > 0 || len(st.rules) > 0 {
		return false
	}
	for _, grp := range st.groups {
		if len(grp.Rules) > 0 {
			return false
		}
	}
	return true
}

// ColumnIds lists every column referenced by any filter source.
func (st State) ColumnIds() (ids []string) {

	for _, qf := range st.quick {
		ids = append(ids, qf.Column)
	}
	for _, rule := range st.rules {
		ids = append(ids, rule.Column)
	}
	for _, grp := range st.groups {
		for _, rule := range grp.Rules {
			ids = append(ids, rule.Column)
		}
	}
	return
}

// Visible reports whether a row passes all three sources.
func (st State) Visible(row nt.Row) bool {

	quickPass := st.quickPass(row)
	rulesPass := predicate.Reduce(row, st.rules)
	groupsPass := st.groupsPass(row)

	return quickPass && rulesPass && groupsPass
}

func (st State) quickPass(row nt.Row) bool {

	pass := true
	for _, qf := range st.quick {
		col := nt.Column{Id: qf.Column, Filter: nt.Text}
		if st.reg != nil {
			if found, err := st.reg.Column(qf.Column); err == nil {
				col = found
			}
		}

		pass = predicate.Quick(row, col, qf.Value) && pass
	}
	return pass
}

func (st State) groupsPass(row nt.Row) bool {

	// Todo: read group joiners once a policy other than AllGroups exists
	pass := true
	for _, grp := range st.groups {
		pass = predicate.Reduce(row, grp.Rules) && pass
	}
	return pass
}

// ClearAll drops quick filters and ad-hoc rules, keeping groups.
func (st State) ClearAll() State {
	st.quick = nil
	st.rules = nil
	return st
}

func (st State) ready() error {
	if st.reg == nil {
		return ErrNoRegistry
	}
	return nil
}

func (st State) id() string {
	if st.newId == nil {
		return uuid.NewString()
	}
	return st.newId()
}
