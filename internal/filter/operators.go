package filter

import "github.com/rebelice/opsgrid/internal/models"

// ConditionsForKind returns the condition types a column of the given kind
// offers in its filter dropdown. Relational and range tests are numeric only.
func ConditionsForKind(kind models.ColumnKind) []models.ConditionType {
	switch kind {
	case models.KindNumeric:
		return []models.ConditionType{
			models.CondNone,
			models.CondEquals, models.CondNotEquals,
			models.CondGreaterThan, models.CondGreaterOrEqual,
			models.CondLessThan, models.CondLessOrEqual,
			models.CondBetween, models.CondNotBetween,
		}
	default:
		return []models.ConditionType{
			models.CondNone,
			models.CondEquals, models.CondNotEquals,
			models.CondContains,
		}
	}
}

// ConditionLabel returns the short operator shown next to a condition value
func ConditionLabel(t models.ConditionType) string {
	switch t {
	case models.CondGreaterThan:
		return ">"
	case models.CondGreaterOrEqual:
		return ">="
	case models.CondLessThan:
		return "<"
	case models.CondLessOrEqual:
		return "<="
	case models.CondEquals:
		return "="
	case models.CondNotEquals:
		return "!="
	case models.CondBetween:
		return "between"
	case models.CondNotBetween:
		return "not between"
	case models.CondContains:
		return "contains"
	default:
		return "none"
	}
}
