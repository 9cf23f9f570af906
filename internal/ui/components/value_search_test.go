package components

import (
	"testing"
)

func TestParseValueQuery_Simple(t *testing.T) {
	q := ParseValueQuery("pend")

	if q.Pattern != "pend" {
		t.Errorf("expected pattern 'pend', got '%s'", q.Pattern)
	}
	if q.Negate {
		t.Error("expected Negate=false")
	}
	if q.Mode != MatchFuzzy {
		t.Errorf("expected fuzzy mode, got %d", q.Mode)
	}
}

func TestParseValueQuery_NegateExact(t *testing.T) {
	q := ParseValueQuery("!=Done")

	if q.Pattern != "Done" {
		t.Errorf("expected pattern 'Done', got '%s'", q.Pattern)
	}
	if !q.Negate {
		t.Error("expected Negate=true")
	}
	if q.Mode != MatchExact {
		t.Errorf("expected exact mode, got %d", q.Mode)
	}
}

func TestParseValueQuery_Prefix(t *testing.T) {
	q := ParseValueQuery("^sh")
	if q.Mode != MatchPrefix || q.Pattern != "sh" {
		t.Errorf("expected prefix 'sh', got %+v", q)
	}
	if !ParseValueQuery("!").IsEmpty() {
		t.Error("expected bare negation to be empty")
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		pattern, target string
		want            bool
		positions       []int
	}{
		{"pnd", "pending", true, []int{0, 2, 3}},
		{"PEN", "pending", true, []int{0, 1, 2}},
		{"xyz", "pending", false, nil},
		{"", "anything", true, []int{}},
		{"té", "Thé vert", true, []int{0, 2}},
	}

	for _, tt := range tests {
		got, pos := FuzzyMatch(tt.pattern, tt.target)
		if got != tt.want {
			t.Errorf("FuzzyMatch(%q, %q): expected %v, got %v", tt.pattern, tt.target, tt.want, got)
			continue
		}
		if len(pos) != len(tt.positions) {
			t.Errorf("FuzzyMatch(%q, %q): expected positions %v, got %v", tt.pattern, tt.target, tt.positions, pos)
			continue
		}
		for i := range pos {
			if pos[i] != tt.positions[i] {
				t.Errorf("FuzzyMatch(%q, %q): expected positions %v, got %v", tt.pattern, tt.target, tt.positions, pos)
				break
			}
		}
	}
}

func TestFilterValues(t *testing.T) {
	values := []string{"done", "pending", "shipped", "Shipping soon"}

	check := func(query string, want ...string) {
		t.Helper()
		got := FilterValues(values, ParseValueQuery(query))
		if len(got) != len(want) {
			t.Errorf("%q: expected %v, got %v", query, want, got)
			return
		}
		for i := range want {
			if got[i].Value != want[i] {
				t.Errorf("%q: expected %v, got %v", query, want, got)
				return
			}
		}
	}

	check("", values...)
	check("sp", "shipped", "Shipping soon")
	check("!sp", "done", "pending")
	check("=DONE", "done")
	check("!=done", "pending", "shipped", "Shipping soon")
	check("^ship", "shipped", "Shipping soon")
	check("zzz")
}
