package models

import (
	"sort"
)

// ConditionType represents a relational or range test on a column value
type ConditionType string

const (
	CondNone           ConditionType = "none"
	CondGreaterThan    ConditionType = "greaterThan"
	CondGreaterOrEqual ConditionType = "greaterOrEqual"
	CondLessThan       ConditionType = "lessThan"
	CondLessOrEqual    ConditionType = "lessOrEqual"
	CondEquals         ConditionType = "equals"
	CondNotEquals      ConditionType = "notEquals"
	CondBetween        ConditionType = "between"
	CondNotBetween     ConditionType = "notBetween"
	CondContains       ConditionType = "contains"
)

// Condition represents a single condition on a column.
// Range conditions encode their bounds as "min-max", either side may be blank.
type Condition struct {
	Type  ConditionType `json:"type" yaml:"type"`
	Value string        `json:"value" yaml:"value"`
}

// IsVacuous reports whether the condition restricts nothing
func (c *Condition) IsVacuous() bool {
	return c == nil || c.Type == "" || c.Type == CondNone || c.Value == ""
}

// ColumnFilter represents the committed restriction on one column
type ColumnFilter struct {
	Values    ValueSet   `json:"values" yaml:"values"`
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
	Brands    ValueSet   `json:"brands" yaml:"brands"` // brand-aware column only
}

// IsVacuous reports whether the filter would let every row through
func (f ColumnFilter) IsVacuous() bool {
	return !f.Values.IsRestricted() && f.Condition.IsVacuous() && !f.Brands.IsRestricted()
}

// Clone returns a deep copy of the filter
func (f ColumnFilter) Clone() ColumnFilter {
	out := ColumnFilter{
		Values: f.Values.Clone(),
		Brands: f.Brands.Clone(),
	}
	if f.Condition != nil {
		cond := *f.Condition
		out.Condition = &cond
	}
	return out
}

// Filters maps column keys to their committed filters
type Filters map[string]ColumnFilter

// Clone returns a deep copy of the filter map
func (fs Filters) Clone() Filters {
	out := make(Filters, len(fs))
	for k, v := range fs {
		out[k] = v.Clone()
	}
	return out
}

// Active returns the sorted keys of non-vacuous filters
func (fs Filters) Active() []string {
	var keys []string
	for k, v := range fs {
		if !v.IsVacuous() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortDescriptor represents the single active sort
type SortDescriptor struct {
	Field string    `json:"field" yaml:"field"`
	Order SortOrder `json:"order" yaml:"order"`
}

// IsActive reports whether the descriptor sorts anything
func (s SortDescriptor) IsActive() bool {
	return s.Field != "" && (s.Order == SortAsc || s.Order == SortDesc)
}

// FilterDescriptor is the serializable state of a table's filters
type FilterDescriptor struct {
	Search  string         `json:"search,omitempty" yaml:"search,omitempty"`
	Filters Filters        `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort    SortDescriptor `json:"sort" yaml:"sort"`
}

// IsEmpty reports whether the descriptor changes nothing
func (d FilterDescriptor) IsEmpty() bool {
	return d.Search == "" && len(d.Filters.Active()) == 0 && !d.Sort.IsActive()
}
