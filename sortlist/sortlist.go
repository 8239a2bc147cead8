// Package sortlist maintains an ordered multi-column sort where a key's
// position is its priority.
//
// A List is an immutable value; edits return a new List.
package sortlist

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	nt "datagrid/entity"
	"datagrid/registry"
)

// ErrIndexRange indicates a move index outside the list.
var ErrIndexRange = errors.New("sort index out of range")

// Overflow decides what happens when a key is added to a full list.
type Overflow string

const (
	// Evict drops the oldest key (index 0) to make room.
	Evict Overflow = "evict"
	// Reject ignores the new key.
	Reject Overflow = "reject"
)

// UnmarshalYAML validates the overflow policy.
func (ovf *Overflow) UnmarshalYAML(node *yaml.Node) (err error) {

	var raw string
	err = node.Decode(&raw)
	if err != nil {
		return
	}

	switch Overflow(raw) {
	case "", Evict:
		*ovf = Evict
	case Reject:
		*ovf = Reject
	default:
		err = errors.Errorf("unknown sort overflow %q at line %d", raw, node.Line)
	}
	return
}

// DefaultMaxKeys caps the list when no cap is configured.
const DefaultMaxKeys = 4

// Config is the configurables.
type Config struct {
	MultiSort bool     `yaml:"multi_sort"`
	MaxKeys   int      `yaml:"max_keys,omitempty"`
	Overflow  Overflow `yaml:"overflow,omitempty"`
}

// DefaultConfig enables multi-sort with a cap of four, evicting the oldest key.
func DefaultConfig() Config {
	return Config{
		MultiSort: true,
		MaxKeys:   DefaultMaxKeys,
		Overflow:  Evict,
	}
}

// UnmarshalYAML defaults multi-sort to on.
func (cfg *Config) UnmarshalYAML(node *yaml.Node) error {

	type plain Config
	raw := plain(DefaultConfig())

	if err := node.Decode(&raw); err != nil {
		return err
	}

	*cfg = Config(raw)
	return nil
}

// List is a sort priority list; index 0 is the primary key.
type List struct {
	reg  *registry.Registry
	cfg  Config
	keys []nt.SortKey
}

// New creates an empty List.
func (cfg *Config) New(reg *registry.Registry) List {

	settled := *cfg
	if settled.MaxKeys < 1 {
		settled.MaxKeys = DefaultMaxKeys
	}
	if settled.Overflow == "" {
		settled.Overflow = Evict
	}

	return List{
		reg: reg,
		cfg: settled,
	}
}

// Config returns the list's configuration.
func (lst List) Config() Config {
	return lst.cfg
}

// Keys returns the sort keys in priority order.
func (lst List) Keys() []nt.SortKey {
	return append([]nt.SortKey(nil), lst.keys...)
}

// Len returns the number of keys.
func (lst List) Len() int {
	return len(lst.keys)
}

// Index returns the priority of a column, -1 when unsorted.
func (lst List) Index(columnId string) int {
	for i, key := range lst.keys {
		if key.Column == columnId {
			return i
		}
	}
	return -1
}

// Toggle adds an unsorted column (descending if descFirst) or flips the
// direction of a sorted one in place.
func (lst List) Toggle(columnId string, descFirst bool) (List, error) {

	if err := lst.check(columnId); err != nil {
		return lst, err
	}

	idx := lst.Index(columnId)
	if idx < 0 {
		return lst.add(nt.SortKey{Column: columnId, Desc: descFirst}), nil
	}

	keys := lst.Keys()
	keys[idx].Desc = !keys[idx].Desc
	lst.keys = keys
	return lst, nil
}

// Set sorts a column in the given direction, in place when already sorted.
func (lst List) Set(columnId string, desc bool) (List, error) {

	if err := lst.check(columnId); err != nil {
		return lst, err
	}

	idx := lst.Index(columnId)
	if idx < 0 {
		return lst.add(nt.SortKey{Column: columnId, Desc: desc}), nil
	}

	keys := lst.Keys()
	keys[idx].Desc = desc
	lst.keys = keys
	return lst, nil
}

// Cycle steps a column through its first direction, the other direction
// and unsorted. The first direction is ascending unless the column sorts
// descending first.
func (lst List) Cycle(columnId string) (List, error) {

	if err := lst.check(columnId); err != nil {
		return lst, err
	}

	col, _ := lst.reg.Column(columnId)

	idx := lst.Index(columnId)
	switch {
	case idx < 0:
		return lst.add(nt.SortKey{Column: columnId, Desc: col.SortDescFirst}), nil
	case lst.keys[idx].Desc != col.SortDescFirst:
		return lst.Remove(columnId), nil
	}

	return lst.Toggle(columnId, col.SortDescFirst)
}

// Remove un-sorts a column; unknown columns are ignored.
func (lst List) Remove(columnId string) List {

	keys := make([]nt.SortKey, 0, len(lst.keys))
	for _, key := range lst.keys {
		if key.Column != columnId {
			keys = append(keys, key)
		}
	}

	lst.keys = keys
	return lst
}

// Clear removes every key.
func (lst List) Clear() List {
	lst.keys = nil
	return lst
}

// Move relocates the key at from to index to; all other keys keep their
// relative order.
func (lst List) Move(from, to int) (List, error) {

	count := len(lst.keys)
	if from < 0 || from >= count || to < 0 || to >= count {
		return lst, errors.Wrapf(ErrIndexRange, "move %d to %d with %d keys", from, to, count)
	}
	if from == to {
		return lst, nil
	}

	moved := lst.keys[from]
	keys := make([]nt.SortKey, 0, count)
	keys = append(keys, lst.keys[:from]...)
	keys = append(keys, lst.keys[from+1:]...)

	keys = append(keys[:to], append([]nt.SortKey{moved}, keys[to:]...)...)
	lst.keys = keys
	return lst, nil
}

// MoveColumn moves the active column's key to where the over column's key
// sits, as a drag-and-drop drop does. Absent or identical columns are a no-op.
func (lst List) MoveColumn(activeId, overId string) List {

	if activeId == overId {
		return lst
	}

	from, to := lst.Index(activeId), lst.Index(overId)
	if from < 0 || to < 0 {
		return lst
	}

	moved, _ := lst.Move(from, to)
	return moved
}

// unexported

func (lst List) check(columnId string) error {
	if lst.reg == nil {
		return errors.Wrapf(registry.ErrUnknownColumn, "no registry for column %q", columnId)
	}
	return lst.reg.CheckSortable(columnId)
}

// add appends a key for an unsorted column, honoring multi-sort and the cap.
func (lst List) add(key nt.SortKey) List {

	if !lst.cfg.MultiSort {
		lst.keys = []nt.SortKey{key}
		return lst
	}

	keys := lst.Keys()
	if len(keys) >= lst.cfg.MaxKeys {
		if lst.cfg.Overflow == Reject {
			return lst
		}
		keys = keys[len(keys)-lst.cfg.MaxKeys+1:]
	}

	lst.keys = append(keys, key)
	return lst
}
