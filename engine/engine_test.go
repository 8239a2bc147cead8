package engine

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "datagrid/entity"
	"datagrid/filterstate"
	"datagrid/registry"
	"datagrid/sortlist"
)

type fixture struct {
	reg  *registry.Registry
	rows []nt.Row
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	reg, err := registry.New([]nt.Column{
		{Id: "id", Sortable: true, Filterable: true},
		{Id: "name", Sortable: true, Filterable: true},
		{Id: "email", Sortable: true, Filterable: true},
		{Id: "status", Sortable: true, Filterable: true, Filter: nt.Enumerated, Options: []nt.Option{
			{Value: "active", Label: "Active"},
			{Value: "inactive", Label: "Inactive"},
		}},
		{Id: "balance", Sortable: true, Filterable: true},
	})
	require.NoError(t, err)

	rows, err := reg.NewRows([]map[string]any{
		{"id": 1, "name": "Acme Corp", "email": "ops@acme.example", "status": "active", "balance": 1200.5},
		{"id": 2, "name": "Globex", "email": "", "status": "inactive", "balance": 80},
		{"id": 3, "name": "Initech", "email": "billing@initech.example", "status": "active", "balance": 310},
		{"id": 4, "name": "Umbrella", "email": nil, "status": "inactive", "balance": 80},
		{"id": 5, "name": "Acme Labs", "email": "labs@acme.example", "status": "active", "balance": 45},
		{"id": 6, "name": "Hooli", "email": "hi@hooli.example", "status": nil, "balance": 310},
	})
	require.NoError(t, err)

	return fixture{reg: reg, rows: rows}
}

func (fx fixture) query() Query {
	cfg := sortlist.DefaultConfig()
	return Query{
		Filters: filterstate.New(fx.reg),
		Sorts:   cfg.New(fx.reg),
	}
}

func ids(rows []nt.Row) (ids []string) {
	for _, row := range rows {
		ids = append(ids, row.Get("id").String())
	}
	return
}

func TestEvaluatePassThrough(t *testing.T) {

	fx := newFixture(t)

	result, err := Evaluate(fx.rows, fx.reg, fx.query())
	require.NoError(t, err)

	if diff := cmp.Diff(fx.rows, result.Rows); diff != "" {
		t.Errorf("unfiltered, unsorted rows changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, result.Total)
	assert.Nil(t, result.Groups)
}

func TestEvaluateQuickFilter(t *testing.T) {

	fx := newFixture(t)
	qry := fx.query()

	var err error
	qry.Filters, err = qry.Filters.SetQuick("name", "acme")
	require.NoError(t, err)

	result, err := Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5"}, ids(result.Rows))
	assert.Equal(t, 6, result.Total)

	qry.Filters, err = qry.Filters.SetQuick("status", "activ")
	require.NoError(t, err)

	result, err = Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Empty(t, result.Rows, "enumerated quick filters match exactly")
}

func TestEvaluateRules(t *testing.T) {

	fx := newFixture(t)
	qry := fx.query()

	var err error
	qry.Filters, err = qry.Filters.AddRule("email", nt.IsEmpty, "", nt.And)
	require.NoError(t, err)

	result, err := Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(result.Rows), "null and empty string are both empty")

	qry.Filters, err = qry.Filters.AddRule("name", nt.StartsWith, "hoo", nt.Or)
	require.NoError(t, err)

	result, err = Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, ids(result.Rows))
}

func TestEvaluateSortStable(t *testing.T) {

	fx := newFixture(t)
	qry := fx.query()

	var err error
	qry.Sorts, err = qry.Sorts.Set("balance", false)
	require.NoError(t, err)

	result, err := Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "2", "4", "3", "6", "1"}, ids(result.Rows), "ties keep input order")

	qry.Sorts, err = qry.Sorts.Set("balance", true)
	require.NoError(t, err)

	result, err = Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "6", "2", "4", "5"}, ids(result.Rows), "descending ties keep input order too")
}

func TestEvaluateMultiSort(t *testing.T) {

	fx := newFixture(t)
	qry := fx.query()

	var err error
	qry.Sorts, err = qry.Sorts.Set("name", false)
	require.NoError(t, err)
	qry.Sorts, err = qry.Sorts.Set("status", false)
	require.NoError(t, err)

	result, err := Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5", "2", "6", "3", "4"}, ids(result.Rows))

	// status now outranks name
	qry.Sorts, err = qry.Sorts.Move(1, 0)
	require.NoError(t, err)

	result, err = Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "1", "5", "3", "2", "4"}, ids(result.Rows))
}

func TestEvaluateShuffleInvariant(t *testing.T) {

	fx := newFixture(t)
	qry := fx.query()

	var err error
	qry.Sorts, err = qry.Sorts.Set("balance", true)
	require.NoError(t, err)
	qry.Sorts, err = qry.Sorts.Set("id", false)
	require.NoError(t, err)

	want, err := Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(7))
	for range 10 {
		shuffled := append([]nt.Row(nil), fx.rows...)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, err := Evaluate(shuffled, fx.reg, qry)
		require.NoError(t, err)
		if diff := cmp.Diff(ids(want.Rows), ids(got.Rows)); diff != "" {
			t.Fatalf("order depends on input order (-want +got):\n%s", diff)
		}
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {

	fx := newFixture(t)
	before := ids(fx.rows)

	qry := fx.query()
	var err error
	qry.Sorts, err = qry.Sorts.Set("name", true)
	require.NoError(t, err)

	_, err = Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, before, ids(fx.rows))
}

func TestEvaluateGroupBy(t *testing.T) {

	fx := newFixture(t)
	qry := fx.query()
	qry.GroupBy = "status"

	result, err := Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)

	require.Len(t, result.Groups, 3)
	assert.Equal(t, "active", result.Groups[0].Key)
	assert.Equal(t, "Active", result.Groups[0].Label)
	assert.Equal(t, []string{"1", "3", "5"}, ids(result.Groups[0].Rows))
	assert.Equal(t, "Inactive", result.Groups[1].Label)
	assert.Equal(t, []string{"2", "4"}, ids(result.Groups[1].Rows))
	assert.Equal(t, "", result.Groups[2].Key)
	assert.Equal(t, Uncategorized, result.Groups[2].Label)

	assert.Len(t, result.Rows, 6, "grouping keeps the flat rows")

	qry.GroupBy = "balance"
	result, err = Evaluate(fx.rows, fx.reg, qry)
	require.NoError(t, err)
	assert.Equal(t, "1200.5", result.Groups[0].Label)
	assert.Equal(t, []string{"2", "4"}, ids(result.Groups[1].Rows))
}

func TestEvaluateUnknownColumn(t *testing.T) {

	fx := newFixture(t)

	other, err := registry.New([]nt.Column{
		{Id: "name", Sortable: true, Filterable: true},
		{Id: "region", Sortable: true, Filterable: true},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query func() Query
	}{
		{
			name: "group by",
			query: func() Query {
				qry := fx.query()
				qry.GroupBy = "region"
				return qry
			},
		},
		{
			name: "sort",
			query: func() Query {
				qry := fx.query()
				cfg := sortlist.DefaultConfig()
				qry.Sorts, err = cfg.New(other).Set("region", false)
				require.NoError(t, err)
				return qry
			},
		},
		{
			name: "rule",
			query: func() Query {
				qry := fx.query()
				qry.Filters, err = filterstate.New(other).AddRule("region", nt.Equals, "west", nt.And)
				require.NoError(t, err)
				return qry
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(fx.rows, fx.reg, tc.query())
			assert.True(t, errors.Is(err, registry.ErrUnknownColumn), "got %v", err)
		})
	}

	_, err = Evaluate(fx.rows, nil, fx.query())
	assert.True(t, errors.Is(err, registry.ErrUnknownColumn))
}

func TestCompare(t *testing.T) {

	value := func(raw any) nt.Value {
		val, err := nt.NewValue(raw)
		require.NoError(t, err)
		return val
	}

	tests := []struct {
		name   string
		a, b   any
		expect int
	}{
		{name: "numbers", a: 9, b: 10, expect: -1},
		{name: "equal numbers", a: 3, b: 3.0, expect: 0},
		{name: "strings bytewise", a: "Zed", b: "apple", expect: -1},
		{name: "bools", a: false, b: true, expect: -1},
		{name: "null first", a: nil, b: false, expect: -1},
		{name: "bool before number", a: true, b: 0, expect: -1},
		{name: "number before string", a: 100, b: "1", expect: -1},
		{name: "nulls tie", a: nil, b: nil, expect: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Compare(value(tc.a), value(tc.b)))
			assert.Equal(t, -tc.expect, Compare(value(tc.b), value(tc.a)))
		})
	}
}
