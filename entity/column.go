package entity

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FilterKind determines which operators a column accepts.
type FilterKind string

const (
	// Text columns accept every operator.
	Text FilterKind = "text"
	// Enumerated columns draw values from a fixed option set.
	Enumerated FilterKind = "enumerated"
)

// UnmarshalYAML accepts "select" as an alias for enumerated.
func (kind *FilterKind) UnmarshalYAML(node *yaml.Node) (err error) {

	var raw string
	err = node.Decode(&raw)
	if err != nil {
		return
	}

	switch raw {
	case "", "text":
		*kind = Text
	case "enumerated", "select", "enum":
		*kind = Enumerated
	default:
		err = errors.Errorf("unknown filter kind %q at line %d", raw, node.Line)
	}
	return
}

// Option is a legal value of an enumerated column and its display label.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label,omitempty"`
}

// Column describes a single grid column.
type Column struct {
	Id         string     `yaml:"id"`
	Label      string     `yaml:"label,omitempty"`
	Accessor   string     `yaml:"accessor,omitempty"`
	Sortable   bool       `yaml:"sortable"`
	Filterable bool       `yaml:"filterable"`
	Filter     FilterKind `yaml:"filter,omitempty"`
	Options    []Option   `yaml:"options,omitempty"`
	Width      int        `yaml:"width,omitempty"`
	// SortDescFirst starts the column descending when first sorted,
	// as suits numbers and dates.
	SortDescFirst bool `yaml:"sort_desc_first,omitempty"`
}

// UnmarshalYAML defaults sortable and filterable to true.
func (col *Column) UnmarshalYAML(node *yaml.Node) error {

	type plain Column
	raw := plain{
		Sortable:   true,
		Filterable: true,
		Filter:     Text,
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	*col = Column(raw)
	return nil
}

// Key returns the raw record key the column reads from.
func (col Column) Key() string {
	if col.Accessor != "" {
		return col.Accessor
	}
	return col.Id
}

// Title returns the label, falling back to the id.
func (col Column) Title() string {
	if col.Label != "" {
		return col.Label
	}
	return col.Id
}
