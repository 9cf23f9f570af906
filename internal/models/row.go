package models

// Row is one record of a table. Values maps column keys to scalars
// (string, number, bool or nil). Rows belong to the caller and are never
// mutated by the filter engine.
type Row struct {
	ID     string
	Values map[string]any
}

// Get returns the raw value for a column and whether it was present
func (r Row) Get(column string) (any, bool) {
	if r.Values == nil {
		return nil, false
	}
	v, ok := r.Values[column]
	return v, ok
}

// WithValue returns a copy of the row with one column replaced
func (r Row) WithValue(column string, value any) Row {
	values := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		values[k] = v
	}
	values[column] = value
	return Row{ID: r.ID, Values: values}
}
