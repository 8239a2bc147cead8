package duck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagrid"
	nt "datagrid/entity"
	"datagrid/registry"
)

const customers = `name,contact,status,balance,vip
Acme Corp,ops@acme.example,active,1200.5,true
Globex,,inactive,80,false
Initech,billing@initech.example,active,310,false
Acme Labs,labs@acme.example,active,45,true
`

func newReg(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := registry.New(columns())
	require.NoError(t, err)
	return reg
}

func columns() []nt.Column {
	return []nt.Column{
		{Id: "name", Sortable: true, Filterable: true},
		{Id: "email", Accessor: "contact", Sortable: true, Filterable: true},
		{Id: "status", Sortable: true, Filterable: true, Filter: nt.Enumerated, Options: []nt.Option{
			{Value: "active"}, {Value: "inactive"},
		}},
		{Id: "balance", Sortable: true, Filterable: true},
		{Id: "vip", Sortable: true, Filterable: true},
		{Id: "region", Sortable: true, Filterable: true},
	}
}

func TestBuildQuery(t *testing.T) {

	reg := newReg(t)
	types := map[string]string{
		"name":    "VARCHAR",
		"contact": "VARCHAR",
		"status":  "VARCHAR",
		"balance": "DECIMAL(6,1)",
		"vip":     "BOOLEAN",
	}

	query, args := buildQuery(reg.Columns(), types, []nt.QuickFilter{
		{Column: "name", Value: "ACME"},
		{Column: "status", Value: "active"},
		{Column: "balance", Value: "12"},
		{Column: "region", Value: "west"},
	})

	assert.Equal(t, `SELECT "name", "contact", "status", CAST("balance" AS DOUBLE), "vip", NULL FROM grid_rows`+
		` WHERE contains(lower(coalesce("name", '')), ?) AND coalesce("status", '') = ? ORDER BY rowid`, query)
	assert.Equal(t, []any{"acme", "active"}, args)

	query, args = buildQuery(reg.Columns()[:1], types, nil)
	assert.Equal(t, `SELECT "name" FROM grid_rows ORDER BY rowid`, query)
	assert.Empty(t, args)
}

func TestHelpers(t *testing.T) {

	assert.Equal(t, `"a""b"`, ident(`a"b`))
	assert.Equal(t, `'it''s.csv'`, literal("it's.csv"))

	assert.True(t, numeric("BIGINT"))
	assert.True(t, numeric("INTEGER"))
	assert.True(t, numeric("DECIMAL(18,3)"))
	assert.True(t, numeric("DOUBLE"))
	assert.False(t, numeric("VARCHAR"))
	assert.False(t, numeric("INTERVAL"))

	assert.Equal(t, `CAST("ts" AS VARCHAR)`, selectExpr("ts", map[string]string{"ts": "TIMESTAMP"}))

	reader, err := readerFor("rows.NDJSON")
	require.NoError(t, err)
	assert.Equal(t, "read_json_auto", reader)

	_, err = readerFor("rows.xlsx")
	assert.Error(t, err)
}

func TestLoadAndRows(t *testing.T) {

	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(customers), 0644))

	dk, err := New(nt.Discard{})
	require.NoError(t, err)
	defer dk.Close()

	ctx := context.Background()
	_, err = dk.Rows(ctx, newReg(t), nil)
	assert.Error(t, err, "nothing loaded yet")
	_, err = dk.Count(ctx)
	assert.Error(t, err, "nothing loaded yet")

	err = dk.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, dk.Name())
	assert.Len(t, dk.Fields(), 5)

	reg := newReg(t)
	rows, err := dk.Rows(ctx, reg, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Acme Corp", rows[0].Get("name").String())
	assert.Equal(t, "ops@acme.example", rows[0].Get("email").String())
	assert.Equal(t, nt.Number, rows[0].Get("balance").Kind())
	assert.Equal(t, "1200.5", rows[0].Get("balance").String())
	assert.Equal(t, nt.Bool, rows[0].Get("vip").Kind())
	assert.Equal(t, nt.Null, rows[0].Get("region").Kind())
	assert.Equal(t, "", rows[1].Get("email").String())

	rows, err = dk.Rows(ctx, reg, []nt.QuickFilter{{Column: "name", Value: "acme"}, {Column: "status", Value: "active"}})
	require.NoError(t, err)

	var names []string
	for _, row := range rows {
		names = append(names, row.Get("name").String())
	}
	assert.Equal(t, []string{"Acme Corp", "Acme Labs"}, names)
}

func TestTotalIgnoresPushdown(t *testing.T) {

	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(customers), 0644))

	ctx := context.Background()

	dk, err := New(nt.Discard{})
	require.NoError(t, err)
	defer dk.Close()
	require.NoError(t, dk.Load(ctx, path))

	records := datagrid.NewRecords("customers", []map[string]any{
		{"name": "Acme Corp", "contact": "ops@acme.example", "status": "active", "balance": 1200.5, "vip": true},
		{"name": "Globex", "status": "inactive", "balance": 80, "vip": false},
		{"name": "Initech", "contact": "billing@initech.example", "status": "active", "balance": 310, "vip": false},
		{"name": "Acme Labs", "contact": "labs@acme.example", "status": "active", "balance": 45, "vip": true},
	})

	grd, err := datagrid.NewConfig(columns()).New(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, grd.SetQuick("status", "active"))
	require.NoError(t, grd.SetQuick("name", "acme"))

	for _, src := range []datagrid.Source{dk, records} {
		t.Run(src.Name(), func(t *testing.T) {

			count, err := src.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4, count)

			result, err := grd.Query(ctx, src)
			require.NoError(t, err)
			assert.Equal(t, 4, result.Total)

			var names []string
			for _, row := range result.Rows {
				names = append(names, row.Get("name").String())
			}
			assert.Equal(t, []string{"Acme Corp", "Acme Labs"}, names)
		})
	}
}
