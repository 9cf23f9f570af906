package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rebelice/opsgrid/internal/models"
)

func cond(t models.ConditionType, v string) *models.Condition {
	return &models.Condition{Type: t, Value: v}
}

func TestEvaluate_NoneAlwaysPasses(t *testing.T) {
	for _, raw := range []any{nil, math.NaN(), "abc", 0, -3.5, ""} {
		assert.True(t, Evaluate(cond(models.CondNone, "5"), raw, models.KindNumeric), "raw=%v", raw)
		assert.True(t, Evaluate(cond(models.CondNone, "5"), raw, models.KindText), "raw=%v", raw)
	}
	assert.True(t, Evaluate(nil, "x", models.KindText))
	assert.True(t, Evaluate(cond(models.CondGreaterThan, ""), 1, models.KindNumeric), "blank value is vacuous")
}

func TestEvaluate_UnknownTypePasses(t *testing.T) {
	assert.True(t, Evaluate(cond("startsWith", "zzz"), "abc", models.KindText))
}

func TestEvaluate_Numeric(t *testing.T) {
	testCases := []struct {
		name     string
		cond     *models.Condition
		raw      any
		expected bool
	}{
		{"gt_true", cond(models.CondGreaterThan, "5"), 6, true},
		{"gt_equal", cond(models.CondGreaterThan, "5"), 5, false},
		{"ge_equal", cond(models.CondGreaterOrEqual, "5"), 5, true},
		{"lt_true", cond(models.CondLessThan, "5"), "4", true},
		{"le_equal", cond(models.CondLessOrEqual, "5"), 5.0, true},
		{"le_false", cond(models.CondLessOrEqual, "5"), 5.1, false},
		{"equals_numeric_string", cond(models.CondEquals, "3"), "3.0", true},
		{"not_equals", cond(models.CondNotEquals, "3"), 4, true},
		{"missing_is_zero", cond(models.CondEquals, "0"), nil, true},
		{"garbage_is_zero", cond(models.CondGreaterThan, "-1"), "abc", true},
		{"padded_value", cond(models.CondGreaterThan, " 2 "), 3, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Evaluate(tc.cond, tc.raw, models.KindNumeric))
		})
	}
}

func TestEvaluate_NaNInputIsAlwaysFalse(t *testing.T) {
	types := []models.ConditionType{
		models.CondGreaterThan, models.CondGreaterOrEqual,
		models.CondLessThan, models.CondLessOrEqual,
		models.CondEquals, models.CondNotEquals,
	}
	for _, typ := range types {
		for _, raw := range []any{0, 5, -5, "abc", nil} {
			assert.False(t, Evaluate(cond(typ, "abc"), raw, models.KindNumeric), "%s raw=%v", typ, raw)
		}
	}

	assert.False(t, Evaluate(cond(models.CondBetween, "x-10"), 5, models.KindNumeric))
	assert.False(t, Evaluate(cond(models.CondNotBetween, "x-10"), 50, models.KindNumeric))
	assert.False(t, Evaluate(cond(models.CondBetween, "1-y"), 5, models.KindNumeric))
	assert.False(t, Evaluate(cond(models.CondNotBetween, "1-y"), 50, models.KindNumeric))
}

func TestEvaluate_TextNotEqualsAgainstNonNumeric(t *testing.T) {
	assert.True(t, Evaluate(cond(models.CondNotEquals, "abc"), "xyz", models.KindText))
	assert.False(t, Evaluate(cond(models.CondNotEquals, "ABC"), "abc", models.KindText))
}

func TestEvaluate_Text(t *testing.T) {
	assert.True(t, Evaluate(cond(models.CondEquals, "Pending"), "pending", models.KindText))
	assert.False(t, Evaluate(cond(models.CondEquals, "pend"), "pending", models.KindText))
	assert.True(t, Evaluate(cond(models.CondContains, "PEND"), "pending", models.KindText))
	assert.False(t, Evaluate(cond(models.CondContains, "done"), nil, models.KindText))
	assert.True(t, Evaluate(cond(models.CondEquals, "2024-01-05"), "2024-01-05", models.KindDate))
}

func TestEvaluate_Between(t *testing.T) {
	full := cond(models.CondBetween, "5-10")
	for x := 0.0; x <= 15; x += 0.5 {
		assert.Equal(t, x >= 5 && x <= 10, Evaluate(full, x, models.KindNumeric), "x=%v", x)
	}

	noMin := cond(models.CondBetween, "-10")
	for _, x := range []float64{-100, 0, 10, 10.5, 11} {
		assert.Equal(t, x <= 10, Evaluate(noMin, x, models.KindNumeric), "x=%v", x)
	}

	noMax := cond(models.CondBetween, "5-")
	for _, x := range []float64{-1, 4.99, 5, 1000} {
		assert.Equal(t, x >= 5, Evaluate(noMax, x, models.KindNumeric), "x=%v", x)
	}
}

func TestEvaluate_NotBetween(t *testing.T) {
	c := cond(models.CondNotBetween, "5-10")
	assert.True(t, Evaluate(c, 4, models.KindNumeric))
	assert.False(t, Evaluate(c, 5, models.KindNumeric))
	assert.False(t, Evaluate(c, 10, models.KindNumeric))
	assert.True(t, Evaluate(c, 11, models.KindNumeric))
}

func TestParseRange(t *testing.T) {
	r := ParseRange("5-10")
	assert.Equal(t, Range{Min: 5, Max: 10, HasMin: true, HasMax: true}, r)

	r = ParseRange("-10")
	assert.False(t, r.HasMin)
	assert.True(t, r.HasMax)

	r = ParseRange("7")
	assert.True(t, r.HasMin)
	assert.False(t, r.HasMax)

	assert.True(t, ParseRange("-").IsOpen())
	assert.True(t, Evaluate(cond(models.CondBetween, "-"), 42, models.KindNumeric))

	// split happens on the first dash, so a negative lower bound is malformed
	r = ParseRange("-5-10")
	assert.False(t, r.HasMin)
	assert.True(t, math.IsNaN(r.Max))
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(nil))
	assert.Equal(t, 0.0, ToNumber("abc"))
	assert.Equal(t, 0.0, ToNumber("NaN"))
	assert.Equal(t, 0.0, ToNumber("   "))
	assert.Equal(t, 12.5, ToNumber(" 12.5 "))
	assert.Equal(t, 7.0, ToNumber(int64(7)))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "5", ToString(5))
	assert.Equal(t, "2.5", ToString(2.5))
	assert.Equal(t, "true", ToString(true))
}
