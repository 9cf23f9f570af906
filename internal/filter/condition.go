package filter

import (
	"math"
	"strings"

	"github.com/rebelice/opsgrid/internal/models"
)

// Evaluate tests one condition against one raw column value.
//
// A nil condition, type none, a blank value or an unknown type all pass.
// Numeric columns coerce the row value numeric-or-zero; text and date
// columns compare lower-cased strings. Any comparison that involves NaN
// (malformed condition input) is false.
func Evaluate(cond *models.Condition, raw any, kind models.ColumnKind) bool {
	if cond.IsVacuous() {
		return true
	}

	switch cond.Type {
	case models.CondEquals, models.CondNotEquals:
		if kind == models.KindNumeric {
			return compareNumber(cond.Type, ToNumber(raw), parseNumber(cond.Value))
		}
		return compareText(cond.Type, strings.ToLower(ToString(raw)), strings.ToLower(cond.Value))
	case models.CondContains:
		return compareText(cond.Type, strings.ToLower(ToString(raw)), strings.ToLower(cond.Value))
	case models.CondGreaterThan, models.CondGreaterOrEqual,
		models.CondLessThan, models.CondLessOrEqual:
		return compareNumber(cond.Type, ToNumber(raw), parseNumber(cond.Value))
	case models.CondBetween, models.CondNotBetween:
		return evaluateRange(cond.Type, ToNumber(raw), ParseRange(cond.Value))
	default:
		return true
	}
}

func compareNumber(op models.ConditionType, x, v float64) bool {
	if math.IsNaN(x) || math.IsNaN(v) {
		return false
	}
	switch op {
	case models.CondGreaterThan:
		return x > v
	case models.CondGreaterOrEqual:
		return x >= v
	case models.CondLessThan:
		return x < v
	case models.CondLessOrEqual:
		return x <= v
	case models.CondEquals:
		return x == v
	case models.CondNotEquals:
		return x != v
	}
	return true
}

func compareText(op models.ConditionType, s, v string) bool {
	switch op {
	case models.CondEquals:
		return s == v
	case models.CondNotEquals:
		return s != v
	case models.CondContains:
		return strings.Contains(s, v)
	}
	return true
}

// Range is a parsed "min-max" condition value. A missing side is unbounded.
type Range struct {
	Min, Max       float64
	HasMin, HasMax bool
}

// ParseRange splits value on its first "-". A blank side is omitted; a
// malformed side parses to NaN so that every comparison against it fails.
// A value without "-" is a lower bound only.
func ParseRange(value string) Range {
	var r Range
	lo, hi, found := strings.Cut(value, "-")
	if s := strings.TrimSpace(lo); s != "" {
		r.Min, r.HasMin = parseNumber(s), true
	}
	if found {
		if s := strings.TrimSpace(hi); s != "" {
			r.Max, r.HasMax = parseNumber(s), true
		}
	}
	return r
}

// IsOpen reports whether the range has no bounds at all
func (r Range) IsOpen() bool {
	return !r.HasMin && !r.HasMax
}

// hasNaN reports whether x or any present bound is NaN
func (r Range) hasNaN(x float64) bool {
	return math.IsNaN(x) ||
		(r.HasMin && math.IsNaN(r.Min)) ||
		(r.HasMax && math.IsNaN(r.Max))
}

// Contains reports min <= x <= max for the present bounds
func (r Range) Contains(x float64) bool {
	if r.hasNaN(x) {
		return false
	}
	if r.HasMin && x < r.Min {
		return false
	}
	if r.HasMax && x > r.Max {
		return false
	}
	return true
}

func evaluateRange(op models.ConditionType, x float64, r Range) bool {
	if r.IsOpen() {
		return true
	}
	if r.hasNaN(x) {
		return false
	}
	if op == models.CondNotBetween {
		return !r.Contains(x)
	}
	return r.Contains(x)
}
