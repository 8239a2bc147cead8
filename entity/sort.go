package entity

// SortKey is one column of a multi-column sort; priority is its list index.
type SortKey struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc,omitempty"`
}

// Direction returns "asc" or "desc".
func (key SortKey) Direction() string {
	if key.Desc {
		return "desc"
	}
	return "asc"
}
