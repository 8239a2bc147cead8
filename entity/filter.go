package entity

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Operator is a rule comparison.
type Operator string

const (
	Equals     Operator = "equals"
	NotEquals  Operator = "not_equals"
	Contains   Operator = "contains"
	NotContain Operator = "not_contains"
	StartsWith Operator = "starts_with"
	EndsWith   Operator = "ends_with"
	IsEmpty    Operator = "is_empty"
	IsNotEmpty Operator = "is_not_empty"
)

// Operators lists every operator in menu order.
var Operators = []Operator{
	Contains,
	Equals,
	NotEquals,
	StartsWith,
	EndsWith,
	NotContain,
	IsEmpty,
	IsNotEmpty,
}

// EnumOperators are the operators legal on enumerated columns.
var EnumOperators = []Operator{
	Equals,
	NotEquals,
	IsEmpty,
	IsNotEmpty,
}

// Known reports whether op is one of the defined operators.
func (op Operator) Known() bool {
	for _, known := range Operators {
		if op == known {
			return true
		}
	}
	return false
}

// Unary operators ignore the rule value.
func (op Operator) Unary() bool {
	return op == IsEmpty || op == IsNotEmpty
}

// Joiner combines a rule (or group) with the one before it.
type Joiner string

const (
	And Joiner = "AND"
	Or  Joiner = "OR"
)

// UnmarshalYAML accepts either case; empty reads as AND.
func (jnr *Joiner) UnmarshalYAML(node *yaml.Node) (err error) {

	var raw string
	err = node.Decode(&raw)
	if err != nil {
		return
	}

	switch strings.ToUpper(raw) {
	case "", "AND":
		*jnr = And
	case "OR":
		*jnr = Or
	default:
		err = errors.Errorf("unknown joiner %q at line %d", raw, node.Line)
	}
	return
}

// Rule is a single ad-hoc filter condition.
type Rule struct {
	Id       string   `yaml:"id,omitempty"`
	Column   string   `yaml:"column"`
	Operator Operator `yaml:"operator"`
	Value    string   `yaml:"value,omitempty"`
	Joiner   Joiner   `yaml:"joiner,omitempty"`
}

// Group is a bundle of rules reduced to one boolean.
// Joiner relates the group to the previous one and is carried but not evaluated.
type Group struct {
	Id     string `yaml:"id,omitempty"`
	Rules  []Rule `yaml:"rules"`
	Joiner Joiner `yaml:"joiner,omitempty"`
}

// QuickFilter is a per-column filter string; at most one per column.
type QuickFilter struct {
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}
