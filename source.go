package datagrid

import (
	"context"

	"github.com/pkg/errors"

	"datagrid/engine"
	nt "datagrid/entity"
	"datagrid/registry"
	"datagrid/util"
)

// Source supplies rows for a grid.
// Quick filters are a hint: a source may narrow by them early, and the
// engine applies them again regardless.
type Source interface {
	// Name returns the name of the data source
	Name() string
	// Rows returns rows in source order
	Rows(ctx context.Context, reg *registry.Registry, quick []nt.QuickFilter) ([]nt.Row, error)
	// Count returns the number of rows before any filtering
	Count(ctx context.Context) (int, error)
}

// FileSource serves records loaded from a yaml or json file.
type FileSource struct {
	path    string
	records []map[string]any
}

// LoadFile reads a record file.
func LoadFile(path string) (src *FileSource, err error) {

	records, err := util.LoadRows(path)
	if err != nil {
		return
	}

	src = &FileSource{
		path:    path,
		records: records,
	}
	return
}

// NewRecords serves records already in memory.
func NewRecords(name string, records []map[string]any) *FileSource {
	return &FileSource{
		path:    name,
		records: records,
	}
}

// Name returns the file path.
func (src *FileSource) Name() string {
	return src.path
}

// Count returns the number of records.
func (src *FileSource) Count(ctx context.Context) (int, error) {
	return len(src.records), nil
}

// Rows checks every record against the registry; quick filters are left to the engine.
func (src *FileSource) Rows(ctx context.Context, reg *registry.Registry, quick []nt.QuickFilter) (rows []nt.Row, err error) {

	rows, err = reg.NewRows(src.records)
	err = errors.Wrapf(err, "failed to read %s", src.path)
	return
}

// Query loads rows from a source and evaluates the grid over them.
// Total is the source's unfiltered count, whatever the source narrowed early.
func (grd *Grid) Query(ctx context.Context, src Source) (result engine.Result, err error) {

	rows, err := src.Rows(ctx, grd.reg, grd.Snapshot().Query.Filters.Quick())
	if err != nil {
		return
	}

	total, err := src.Count(ctx)
	if err != nil {
		err = errors.Wrapf(err, "failed to count rows in %s", src.Name())
		return
	}

	result, err = grd.Evaluate(rows)
	if err != nil {
		return
	}

	result.Total = total
	return
}
