package filter

import (
	"fmt"
	"strings"

	"github.com/rebelice/opsgrid/internal/models"
)

// maxListedValues caps how many selected values a summary spells out
const maxListedValues = 3

// Describe renders a one-line summary of a filter descriptor for the
// status bar, e.g. `"pend" AND status in (pending) AND count > 5, sort count asc`.
// An empty descriptor yields "".
func Describe(schema models.TableSchema, d models.FilterDescriptor) string {
	var clauses []string

	if s := strings.TrimSpace(d.Search); s != "" {
		clauses = append(clauses, fmt.Sprintf("%q", s))
	}

	for _, col := range d.Filters.Active() {
		clauses = append(clauses, describeColumn(schema, col, d.Filters[col])...)
	}

	out := strings.Join(clauses, " AND ")
	if d.Sort.IsActive() {
		sortPart := fmt.Sprintf("sort %s %s", columnTitle(schema, d.Sort.Field), d.Sort.Order)
		if out == "" {
			return sortPart
		}
		out += ", " + sortPart
	}
	return out
}

func describeColumn(schema models.TableSchema, col string, f models.ColumnFilter) []string {
	var clauses []string
	title := columnTitle(schema, col)

	if f.Values.IsRestricted() {
		clauses = append(clauses, fmt.Sprintf("%s in (%s)", title, listValues(f.Values)))
	}
	if f.Brands.IsRestricted() {
		clauses = append(clauses, fmt.Sprintf("%s brand in (%s)", title, listValues(f.Brands)))
	}
	if !f.Condition.IsVacuous() {
		clauses = append(clauses, describeCondition(title, *f.Condition))
	}
	return clauses
}

func describeCondition(title string, c models.Condition) string {
	switch c.Type {
	case models.CondBetween, models.CondNotBetween:
		r := ParseRange(c.Value)
		switch {
		case r.HasMin && r.HasMax:
			return fmt.Sprintf("%s %s %g..%g", title, ConditionLabel(c.Type), r.Min, r.Max)
		case r.HasMin:
			return fmt.Sprintf("%s %s %g..", title, ConditionLabel(c.Type), r.Min)
		case r.HasMax:
			return fmt.Sprintf("%s %s ..%g", title, ConditionLabel(c.Type), r.Max)
		}
		return fmt.Sprintf("%s %s %s", title, ConditionLabel(c.Type), c.Value)
	case models.CondContains:
		return fmt.Sprintf("%s contains %q", title, c.Value)
	default:
		return fmt.Sprintf("%s %s %s", title, ConditionLabel(c.Type), c.Value)
	}
}

func listValues(s models.ValueSet) string {
	values := s.Values()
	if len(values) == 0 {
		return "none"
	}
	if len(values) > maxListedValues {
		return fmt.Sprintf("%s, +%d more", strings.Join(values[:maxListedValues], ", "), len(values)-maxListedValues)
	}
	return strings.Join(values, ", ")
}

func columnTitle(schema models.TableSchema, key string) string {
	if c, ok := schema.Column(key); ok {
		return c.Title()
	}
	return key
}
