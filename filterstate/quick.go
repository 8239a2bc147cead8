package filterstate

import (
	nt "datagrid/entity"
)

// SetQuick sets the quick filter for a column; an empty value clears it.
func (st State) SetQuick(columnId, value string) (State, error) {

	if err := st.ready(); err != nil {
		return st, err
	}
	if err := st.reg.CheckFilterable(columnId); err != nil {
		return st, err
	}

	if value == "" {
		return st.ClearQuick(columnId), nil
	}

	quick := make([]nt.QuickFilter, 0, len(st.quick)+1)
	replaced := false
	for _, qf := range st.quick {
		if qf.Column == columnId {
			qf.Value = value
			replaced = true
		}
		quick = append(quick, qf)
	}
	if !replaced {
		quick = append(quick, nt.QuickFilter{Column: columnId, Value: value})
	}

	st.quick = quick
	return st, nil
}

// ClearQuick removes the quick filter for a column, if any.
func (st State) ClearQuick(columnId string) State {

	quick := make([]nt.QuickFilter, 0, len(st.quick))
	for _, qf := range st.quick {
		if qf.Column != columnId {
			quick = append(quick, qf)
		}
	}

	st.quick = quick
	return st
}

// QuickValue returns the quick filter value for a column, "" when unset.
func (st State) QuickValue(columnId string) string {
	for _, qf := range st.quick {
		if qf.Column == columnId {
			return qf.Value
		}
	}
	return ""
}
