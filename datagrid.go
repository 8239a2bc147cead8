// Package datagrid owns the filter, sort and group-by state of a grid and
// evaluates it over rows.
package datagrid

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"datagrid/engine"
	nt "datagrid/entity"
	"datagrid/filterstate"
	"datagrid/registry"
	"datagrid/sortlist"
)

// ErrGroupingDisabled is returned when grouping a grid configured without it.
var ErrGroupingDisabled = errors.New("grouping is disabled")

// Config is the configurables.
// Sorting, Filtering and Grouping switch the features off for every column
// when false, whatever the column's own flags say.
type Config struct {
	Columns   []nt.Column     `yaml:"columns"`
	Sort      sortlist.Config `yaml:"sort"`
	Sorting   bool            `yaml:"sorting"`
	Filtering bool            `yaml:"filtering"`
	Grouping  bool            `yaml:"grouping"`
	Rows      string          `yaml:"rows,omitempty"`
	View      View            `yaml:"view,omitempty"`
}

// NewConfig returns a Config for columns with the default sort policy
// and every feature on.
func NewConfig(columns []nt.Column) *Config {
	return &Config{
		Columns:   columns,
		Sort:      sortlist.DefaultConfig(),
		Sorting:   true,
		Filtering: true,
		Grouping:  true,
	}
}

// UnmarshalYAML defaults the sort policy when the section is absent and
// turns on any feature not mentioned.
func (cfg *Config) UnmarshalYAML(node *yaml.Node) error {

	type plain Config
	raw := plain{
		Sort:      sortlist.DefaultConfig(),
		Sorting:   true,
		Filtering: true,
		Grouping:  true,
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	*cfg = Config(raw)
	return nil
}

// Snapshot is a read-only copy of grid state at a version.
type Snapshot struct {
	Version uint64
	Query   engine.Query
}

// Grid is the single owner of a grid's mutable state.
// Each edit swaps in a new immutable query and bumps the version.
type Grid struct {
	reg     *registry.Registry
	logger  nt.Logger
	ctx     context.Context
	mu      sync.RWMutex
	version uint64
	query   engine.Query

	grouping bool
}

// New validates the columns, builds a Grid and applies the configured view.
func (cfg *Config) New(ctx context.Context, lgr nt.Logger) (grd *Grid, err error) {

	reg, err := registry.New(cfg.columns())
	if err != nil {
		err = errors.Wrapf(err, "failed to build column registry")
		return
	}

	if lgr == nil {
		lgr = nt.Discard{}
	}

	grd = &Grid{
		reg:    reg,
		logger: lgr,
		ctx:    ctx,
		query: engine.Query{
			Filters: filterstate.New(reg),
			Sorts:   cfg.Sort.New(reg),
		},
		grouping: cfg.Grouping,
	}

	if cfg.View.empty() {
		return
	}

	err = grd.Apply(cfg.View)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to apply initial view")
	}

	return
}

// Grouping reports whether the grid may be grouped.
func (grd *Grid) Grouping() bool {
	return grd.grouping
}

// Registry returns the grid's column registry.
func (grd *Grid) Registry() *registry.Registry {
	return grd.reg
}

// Snapshot returns the current state.
func (grd *Grid) Snapshot() Snapshot {

	grd.mu.RLock()
	defer grd.mu.RUnlock()

	return Snapshot{
		Version: grd.version,
		Query:   grd.query,
	}
}

// Version returns the number of edits committed so far.
func (grd *Grid) Version() uint64 {

	grd.mu.RLock()
	defer grd.mu.RUnlock()

	return grd.version
}

// Evaluate runs the current state over rows.
func (grd *Grid) Evaluate(rows []nt.Row) (result engine.Result, err error) {

	snap := grd.Snapshot()

	result, err = engine.Evaluate(rows, grd.reg, snap.Query)
	err = errors.Wrapf(err, "failed to evaluate grid at version %d", snap.Version)
	return
}

// commit applies one logical edit atomically: readers see either the old
// query or the new one, never a partial edit.
func (grd *Grid) commit(action string, edit func(engine.Query) (engine.Query, error)) (err error) {

	grd.mu.Lock()
	defer grd.mu.Unlock()

	next, err := edit(grd.query)
	if err != nil {
		grd.logger.Error(grd.ctx, "rejected grid edit", err, "action", action)
		return
	}

	grd.query = next
	grd.version++
	grd.logger.Info(grd.ctx, "grid edited", "action", action, "version", grd.version)
	return
}

func (grd *Grid) filters(action string, edit func(filterstate.State) (filterstate.State, error)) error {

	return grd.commit(action, func(qry engine.Query) (engine.Query, error) {
		filters, err := edit(qry.Filters)
		qry.Filters = filters
		return qry, err
	})
}

func (grd *Grid) sorts(action string, edit func(sortlist.List) (sortlist.List, error)) error {

	return grd.commit(action, func(qry engine.Query) (engine.Query, error) {
		sorts, err := edit(qry.Sorts)
		qry.Sorts = sorts
		return qry, err
	})
}

// columns returns the column set with grid-wide switches applied.
func (cfg *Config) columns() []nt.Column {

	columns := make([]nt.Column, len(cfg.Columns))
	for i, col := range cfg.Columns {
		col.Sortable = col.Sortable && cfg.Sorting
		col.Filterable = col.Filterable && cfg.Filtering
		columns[i] = col
	}
	return columns
}

// checkGroupBy accepts "" or a registered column when grouping is on.
func (grd *Grid) checkGroupBy(columnId string) (err error) {

	if columnId == "" {
		return
	}
	if !grd.grouping {
		return errors.Wrapf(ErrGroupingDisabled, "failed to group by %q", columnId)
	}

	err = grd.reg.CheckColumns(columnId)
	return errors.Wrapf(err, "failed to group")
}
