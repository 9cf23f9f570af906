package components

import (
	"strings"
	"unicode/utf8"
)

// MatchMode selects how a dropdown search pattern is compared to values
type MatchMode int

const (
	MatchFuzzy MatchMode = iota
	MatchExact
	MatchPrefix
)

// ValueQuery is a parsed dropdown search term
type ValueQuery struct {
	Pattern string
	Negate  bool // "!" hides matching values instead
	Mode    MatchMode
}

// ParseValueQuery parses a dropdown search term
// Examples:
//   - "pen"   → fuzzy match "pen"
//   - "!pen"  → values that do not fuzzy match "pen"
//   - "=done" → values equal to "done", ignoring case
//   - "^sh"   → values starting with "sh"
func ParseValueQuery(query string) ValueQuery {
	q := ValueQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	switch {
	case strings.HasPrefix(query, "="):
		q.Mode = MatchExact
		query = query[1:]
	case strings.HasPrefix(query, "^"):
		q.Mode = MatchPrefix
		query = query[1:]
	}

	q.Pattern = strings.TrimSpace(query)
	return q
}

// IsEmpty reports whether the query matches everything
func (q ValueQuery) IsEmpty() bool {
	return q.Pattern == ""
}

// FuzzyMatch performs case-insensitive subsequence matching and returns
// the rune positions of the matched characters
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	p := []rune(strings.ToLower(pattern))
	positions := make([]int, 0, len(p))
	pi := 0

	for i, r := range []rune(strings.ToLower(target)) {
		if pi == len(p) {
			break
		}
		if r == p[pi] {
			positions = append(positions, i)
			pi++
		}
	}

	if pi == len(p) {
		return true, positions
	}
	return false, nil
}

// Match reports whether value passes the query and which runes to highlight
func (q ValueQuery) Match(value string) (bool, []int) {
	if q.Pattern == "" {
		return true, nil
	}

	var ok bool
	var positions []int
	switch q.Mode {
	case MatchExact:
		ok = strings.EqualFold(value, q.Pattern)
		if ok {
			positions = runeRange(0, utf8.RuneCountInString(value))
		}
	case MatchPrefix:
		ok = strings.HasPrefix(strings.ToLower(value), strings.ToLower(q.Pattern))
		if ok {
			positions = runeRange(0, utf8.RuneCountInString(q.Pattern))
		}
	default:
		ok, positions = FuzzyMatch(q.Pattern, value)
	}

	if q.Negate {
		return !ok, nil
	}
	return ok, positions
}

// ValueMatch is one value that passed a query
type ValueMatch struct {
	Value     string
	Positions []int
}

// FilterValues keeps the values that pass query, in their original order
func FilterValues(values []string, query ValueQuery) []ValueMatch {
	out := make([]ValueMatch, 0, len(values))
	for _, v := range values {
		if ok, pos := query.Match(v); ok {
			out = append(out, ValueMatch{Value: v, Positions: pos})
		}
	}
	return out
}

func runeRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
