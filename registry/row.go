package registry

import (
	"github.com/pkg/errors"

	nt "datagrid/entity"
)

// NewRow builds a schema-checked row from a raw record keyed by accessor.
// Keys no column reads are rejected; columns missing from the record read as null.
func (reg *Registry) NewRow(raw map[string]any) (row nt.Row, err error) {

	row = make(nt.Row, len(reg.columns))

	for key, val := range raw {
		idx, ok := reg.byKey[key]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "field %q", key)
		}

		col := reg.columns[idx]
		row[col.Id], err = nt.NewValue(val)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read field %q", key)
		}
	}

	return
}

// NewRows builds rows from raw records, failing on the first bad record.
func (reg *Registry) NewRows(raws []map[string]any) (rows []nt.Row, err error) {

	rows = make([]nt.Row, 0, len(raws))
	for i, raw := range raws {
		var row nt.Row
		row, err = reg.NewRow(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		rows = append(rows, row)
	}

	return
}
