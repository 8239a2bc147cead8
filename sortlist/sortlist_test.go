package sortlist

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	nt "datagrid/entity"
	"datagrid/registry"
)

func newReg(t *testing.T) *registry.Registry {
	t.Helper()

	columns := []nt.Column{}
	for _, id := range []string{"name", "status", "email", "balance", "city"} {
		columns = append(columns, nt.Column{Id: id, Sortable: true, Filterable: true})
	}
	columns = append(columns, nt.Column{Id: "note", Filterable: true})
	columns = append(columns, nt.Column{Id: "amount", Sortable: true, SortDescFirst: true})

	reg, err := registry.New(columns)
	require.NoError(t, err)
	return reg
}

func newList(t *testing.T) List {
	t.Helper()

	cfg := DefaultConfig()
	return cfg.New(newReg(t))
}

func asc(col string) nt.SortKey  { return nt.SortKey{Column: col} }
func desc(col string) nt.SortKey { return nt.SortKey{Column: col, Desc: true} }

func TestToggle(t *testing.T) {

	lst := newList(t)

	lst, err := lst.Toggle("name", false)
	require.NoError(t, err)
	lst, err = lst.Toggle("status", true)
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{asc("name"), desc("status")}, lst.Keys())

	flipped, err := lst.Toggle("name", false)
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{desc("name"), desc("status")}, flipped.Keys(), "flip keeps priority")
	assert.Equal(t, []nt.SortKey{asc("name"), desc("status")}, lst.Keys(), "original list is unchanged")

	_, err = lst.Toggle("note", false)
	assert.True(t, errors.Is(err, registry.ErrNotSortable))
	_, err = lst.Toggle("bogus", false)
	assert.True(t, errors.Is(err, registry.ErrUnknownColumn))
}

func TestSet(t *testing.T) {

	lst := newList(t)

	lst, err := lst.Set("name", true)
	require.NoError(t, err)
	lst, err = lst.Set("status", false)
	require.NoError(t, err)
	lst, err = lst.Set("name", false)
	require.NoError(t, err)

	assert.Equal(t, []nt.SortKey{asc("name"), asc("status")}, lst.Keys())
	assert.Equal(t, 1, lst.Index("status"))
	assert.Equal(t, -1, lst.Index("email"))
}

func TestCycle(t *testing.T) {

	lst := newList(t)

	lst, err := lst.Cycle("name")
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{asc("name")}, lst.Keys())

	lst, err = lst.Cycle("name")
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{desc("name")}, lst.Keys())

	lst, err = lst.Cycle("name")
	require.NoError(t, err)
	assert.Equal(t, 0, lst.Len())
}

func TestCycleDescFirst(t *testing.T) {

	lst := newList(t)

	lst, err := lst.Cycle("amount")
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{desc("amount")}, lst.Keys())

	lst, err = lst.Cycle("amount")
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{asc("amount")}, lst.Keys())

	lst, err = lst.Cycle("amount")
	require.NoError(t, err)
	assert.Equal(t, 0, lst.Len())
}

func TestRemoveClear(t *testing.T) {

	lst := newList(t)
	lst, _ = lst.Set("name", false)
	lst, _ = lst.Set("status", false)
	lst, _ = lst.Set("email", false)

	assert.Equal(t, []nt.SortKey{asc("name"), asc("email")}, lst.Remove("status").Keys())
	assert.Equal(t, lst.Keys(), lst.Remove("bogus").Keys())
	assert.Equal(t, 0, lst.Clear().Len())
}

func TestMove(t *testing.T) {

	lst := newList(t)
	lst, _ = lst.Set("name", false)
	lst, _ = lst.Set("status", true)

	moved, err := lst.Move(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{desc("status"), asc("name")}, moved.Keys())

	lst, _ = lst.Set("email", false)
	lst, _ = lst.Set("balance", false)

	tests := []struct {
		name     string
		from, to int
		expect   []string
	}{
		{name: "first to last", from: 0, to: 3, expect: []string{"status", "email", "balance", "name"}},
		{name: "last to first", from: 3, to: 0, expect: []string{"balance", "name", "status", "email"}},
		{name: "down one", from: 1, to: 2, expect: []string{"name", "email", "status", "balance"}},
		{name: "up one", from: 2, to: 1, expect: []string{"name", "email", "status", "balance"}},
		{name: "in place", from: 2, to: 2, expect: []string{"name", "status", "email", "balance"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			moved, err := lst.Move(tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, columnsOf(moved))
		})
	}

	_, err = lst.Move(0, 4)
	assert.True(t, errors.Is(err, ErrIndexRange))
	_, err = lst.Move(-1, 0)
	assert.True(t, errors.Is(err, ErrIndexRange))
}

func TestMoveColumn(t *testing.T) {

	lst := newList(t)
	lst, _ = lst.Set("name", false)
	lst, _ = lst.Set("status", false)
	lst, _ = lst.Set("email", false)

	assert.Equal(t, []string{"email", "name", "status"}, columnsOf(lst.MoveColumn("email", "name")))
	assert.Equal(t, []string{"status", "email", "name"}, columnsOf(lst.MoveColumn("name", "email")))
	assert.Equal(t, columnsOf(lst), columnsOf(lst.MoveColumn("name", "name")))
	assert.Equal(t, columnsOf(lst), columnsOf(lst.MoveColumn("balance", "name")), "unsorted columns are ignored")
}

func TestCap(t *testing.T) {

	lst := newList(t)
	for _, col := range []string{"name", "status", "email", "balance", "city"} {
		var err error
		lst, err = lst.Toggle(col, false)
		require.NoError(t, err)
		assert.LessOrEqual(t, lst.Len(), DefaultMaxKeys)
	}

	assert.Equal(t, []string{"status", "email", "balance", "city"}, columnsOf(lst), "oldest key is evicted")
}

func TestCapReject(t *testing.T) {

	cfg := Config{MultiSort: true, MaxKeys: 2, Overflow: Reject}
	lst := cfg.New(newReg(t))

	lst, _ = lst.Set("name", false)
	lst, _ = lst.Set("status", false)
	lst, err := lst.Set("email", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "status"}, columnsOf(lst))

	lst, err = lst.Toggle("name", false)
	require.NoError(t, err)
	assert.Equal(t, []nt.SortKey{desc("name"), asc("status")}, lst.Keys(), "full lists still flip")
}

func TestSingleSort(t *testing.T) {

	cfg := Config{MultiSort: false}
	lst := cfg.New(newReg(t))

	lst, _ = lst.Set("name", false)
	lst, _ = lst.Set("status", true)

	assert.Equal(t, []nt.SortKey{desc("status")}, lst.Keys())
	assert.Equal(t, DefaultMaxKeys, lst.Config().MaxKeys)
	assert.Equal(t, Evict, lst.Config().Overflow)
}

func TestZeroList(t *testing.T) {

	var lst List
	_, err := lst.Toggle("name", false)
	assert.True(t, errors.Is(err, registry.ErrUnknownColumn))
	assert.Equal(t, 0, lst.Len())
}

func TestConfigYaml(t *testing.T) {

	var cfg Config
	err := yaml.Unmarshal([]byte("max_keys: 2"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, Config{MultiSort: true, MaxKeys: 2, Overflow: Evict}, cfg)

	err = yaml.Unmarshal([]byte("{multi_sort: false, overflow: reject}"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, Config{MultiSort: false, MaxKeys: DefaultMaxKeys, Overflow: Reject}, cfg)

	err = yaml.Unmarshal([]byte("overflow: wrap"), &cfg)
	assert.Error(t, err)
}

func columnsOf(lst List) (columns []string) {
	for _, key := range lst.Keys() {
		columns = append(columns, key.Column)
	}
	return
}
