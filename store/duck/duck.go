// Package duck is a row source backed by an in-memory duckdb.
// It loads csv, json and parquet files and pushes quick filters down into sql.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	nt "datagrid/entity"
	"datagrid/registry"
)

const table = "grid_rows"

// Field is a column of the loaded table.
type Field struct {
	Name string
	Type string
}

// Duck holds one loaded file.
type Duck struct {
	db       *sql.DB
	logger   nt.Logger
	filename string
	fields   []Field
}

// New opens an in-memory duckdb; the caller imports the driver.
func New(lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		err = errors.Wrapf(err, "failed to open memo duck")
		return
	}

	dk = &Duck{
		db:     db,
		logger: lgr,
	}

	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// Name returns the name of the loaded file
func (dk *Duck) Name() string {
	return dk.filename
}

// Fields returns the columns of the loaded file.
func (dk *Duck) Fields() []Field {
	return append([]Field(nil), dk.fields...)
}

// Load replaces the table with the contents of a file.
func (dk *Duck) Load(ctx context.Context, path string) (err error) {

	reader, err := readerFor(path)
	if err != nil {
		return
	}

	create := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s(%s)", table, reader, literal(path))
	_, err = dk.db.ExecContext(ctx, create)
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s", path)
		return
	}

	dk.fields, err = getFields(ctx, dk.db)
	if err != nil {
		return
	}

	dk.filename = path
	dk.logger.Info(ctx, "loaded table", "path", path, "fields", len(dk.fields))
	return
}

// Count returns the number of rows loaded, ignoring any filter.
func (dk *Duck) Count(ctx context.Context) (count int, err error) {

	if dk.filename == "" {
		err = errors.New("no file loaded")
		return
	}

	err = dk.db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&count)
	if err != nil {
		err = errors.Wrapf(err, "failed to count rows")
	}
	return
}

// Rows returns every row in file order, projected onto the registry's
// columns. Quick filters on text-typed fields are applied in sql as well.
func (dk *Duck) Rows(ctx context.Context, reg *registry.Registry, quick []nt.QuickFilter) (rows []nt.Row, err error) {

	if dk.filename == "" {
		err = errors.New("no file loaded")
		return
	}

	types := map[string]string{}
	for _, fld := range dk.fields {
		types[fld.Name] = fld.Type
	}

	columns := reg.Columns()
	query, args := buildQuery(columns, types, quick)

	res, err := dk.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to query rows")
		return
	}
	defer res.Close()

	for res.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}

		err = res.Scan(ptrs...)
		if err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}

		raw := make(map[string]any, len(columns))
		for i, col := range columns {
			raw[col.Key()] = vals[i]
		}

		var row nt.Row
		row, err = reg.NewRow(raw)
		if err != nil {
			return
		}
		rows = append(rows, row)
	}

	err = res.Err()
	if err != nil {
		err = errors.Wrapf(err, "error iterating rows")
		return
	}

	dk.logger.Info(ctx, "queried rows", "count", len(rows), "pushdown", len(args))
	return
}

// buildQuery selects each column normalized to double, boolean or varchar.
func buildQuery(columns []nt.Column, types map[string]string, quick []nt.QuickFilter) (query string, args []any) {

	byId := map[string]nt.Column{}
	selects := make([]string, len(columns))
	for i, col := range columns {
		byId[col.Id] = col
		selects[i] = selectExpr(col.Key(), types)
	}

	var clauses []string
	for _, qf := range quick {
		col, ok := byId[qf.Column]
		if !ok || qf.Value == "" || !textual(types[col.Key()]) {
			continue
		}

		cell := fmt.Sprintf("coalesce(%s, '')", ident(col.Key()))
		if col.Filter == nt.Enumerated {
			clauses = append(clauses, cell+" = ?")
			args = append(args, qf.Value)
			continue
		}
		clauses = append(clauses, fmt.Sprintf("contains(lower(%s), ?)", cell))
		args = append(args, strings.ToLower(qf.Value))
	}

	query = fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), table)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY rowid"
	return
}

func selectExpr(name string, types map[string]string) string {

	typ, ok := types[name]
	switch {
	case !ok:
		return "NULL"
	case textual(typ), typ == "BOOLEAN":
		return ident(name)
	case numeric(typ):
		return fmt.Sprintf("CAST(%s AS DOUBLE)", ident(name))
	}
	return fmt.Sprintf("CAST(%s AS VARCHAR)", ident(name))
}

func textual(typ string) bool {
	return typ == "VARCHAR"
}

func numeric(typ string) bool {

	switch {
	case strings.HasPrefix(typ, "DECIMAL"):
		return true
	case strings.HasSuffix(typ, "INT"), strings.HasSuffix(typ, "INTEGER"):
		return true
	}

	switch typ {
	case "FLOAT", "DOUBLE", "REAL":
		return true
	}
	return false
}

func readerFor(path string) (reader string, err error) {

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		reader = "read_csv_auto"
	case ".json", ".ndjson", ".jsonl":
		reader = "read_json_auto"
	case ".parquet":
		reader = "read_parquet"
	default:
		err = errors.Errorf("no duckdb reader for %s", path)
	}
	return
}

func ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func literal(val string) string {
	return "'" + strings.ReplaceAll(val, "'", "''") + "'"
}

func getFields(ctx context.Context, db *sql.DB) (fields []Field, err error) {

	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		err = errors.Wrapf(err, "failed to query schema")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var field Field
		if err = rows.Scan(&field.Name, &field.Type); err != nil {
			err = errors.Wrapf(err, "failed to scan field")
			return
		}
		fields = append(fields, field)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating fields")
	return
}
