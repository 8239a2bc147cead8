package engine

import (
	"cmp"
	"strings"

	nt "datagrid/entity"
)

// compareRows orders two rows by each key in priority order, falling through
// to the next key on a tie.
func compareRows(a, b nt.Row, keys []nt.SortKey) int {

	for _, key := range keys {
		order := Compare(a.Get(key.Column), b.Get(key.Column))
		if order == 0 {
			continue
		}
		if key.Desc {
			return -order
		}
		return order
	}
	return 0
}

// Compare orders two values naturally: numbers numerically, strings
// byte-wise, false before true. Differing kinds order null, bool, number, string.
func Compare(a, b nt.Value) int {

	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case nt.Number:
		fa, _ := a.Float()
		fb, _ := b.Float()
		return cmp.Compare(fa, fb)
	case nt.Bool:
		ba, _ := a.Bool()
		bb, _ := b.Bool()
		switch {
		case ba == bb:
			return 0
		case bb:
			return -1
		}
		return 1
	case nt.String:
		return strings.Compare(a.String(), b.String())
	}
	return 0
}
