// Package predicate decides whether a row passes filter rules.
// It is shared by the quick filters, the ad-hoc rule list and every rule group.
package predicate

import (
	"strings"

	nt "datagrid/entity"
)

// Matches tests one cell against an operator and value, case-insensitively.
// Unknown operators match everything.
func Matches(row nt.Row, columnId string, op nt.Operator, value string) bool {

	cell := strings.ToLower(row.Get(columnId).String())
	value = strings.ToLower(value)

	switch op {
	case nt.Equals:
		return cell == value
	case nt.NotEquals:
		return cell != value
	case nt.Contains:
		return strings.Contains(cell, value)
	case nt.NotContain:
		return !strings.Contains(cell, value)
	case nt.StartsWith:
		return strings.HasPrefix(cell, value)
	case nt.EndsWith:
		return strings.HasSuffix(cell, value)
	case nt.IsEmpty:
		return cell == ""
	case nt.IsNotEmpty:
		return cell != ""
	default:
		return true
	}
}

// Rule applies a single rule to a row.
func Rule(row nt.Row, rule nt.Rule) bool {
	return Matches(row, rule.Column, rule.Operator, rule.Value)
}

// Reduce folds rules left to right, each joined to the running result by its
// own joiner. The first rule's joiner is ignored and an empty list passes.
func Reduce(row nt.Row, rules []nt.Rule) bool {

	result := true
	for i, rule := range rules {
		matched := Rule(row, rule)

		switch {
		case i == 0:
			result = matched
		case rule.Joiner == nt.Or:
			result = result || matched
		default:
			result = result && matched
		}
	}

	return result
}

// Quick applies a per-column quick filter: exact match for enumerated
// columns, case-insensitive substring for everything else.
func Quick(row nt.Row, col nt.Column, value string) bool {

	cell := row.Get(col.Id).String()
	if col.Filter == nt.Enumerated {
		return cell == value
	}

	return strings.Contains(strings.ToLower(cell), strings.ToLower(value))
}
