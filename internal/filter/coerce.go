package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ToNumber coerces a raw row value with numeric-or-zero semantics:
// missing, blank, non-numeric and NaN values all become 0.
func ToNumber(raw any) float64 {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0
		}
		raw = s
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// ToString coerces a raw row value to the string used for value-set
// membership and search. Missing values become "".
func ToString(raw any) string {
	if raw == nil {
		return ""
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return s
}

// parseNumber parses user-entered condition input. Malformed input is NaN.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
