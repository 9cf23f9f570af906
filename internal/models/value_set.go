package models

import (
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ValueSet is either NoRestriction (the zero value) or an explicit set of
// accepted string values. An explicit empty set accepts nothing.
//
// Every method that changes the set returns a new ValueSet, so a draft can
// never alias the committed filter it was seeded from.
type ValueSet struct {
	restricted bool
	values     map[string]struct{}
}

// NoRestriction returns a set that accepts every value
func NoRestriction() ValueSet {
	return ValueSet{}
}

// Only returns a set that accepts exactly the given values
func Only(values ...string) ValueSet {
	s := ValueSet{restricted: true, values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.values[v] = struct{}{}
	}
	return s
}

// IsRestricted reports whether the set is an explicit value set
func (s ValueSet) IsRestricted() bool {
	return s.restricted
}

// Accepts reports whether v passes the set
func (s ValueSet) Accepts(v string) bool {
	if !s.restricted {
		return true
	}
	_, ok := s.values[v]
	return ok
}

// Has reports whether v is explicitly in the set. Always false for NoRestriction.
func (s ValueSet) Has(v string) bool {
	if !s.restricted {
		return false
	}
	_, ok := s.values[v]
	return ok
}

// Len returns the number of explicit values
func (s ValueSet) Len() int {
	return len(s.values)
}

// Values returns the explicit values, sorted
func (s ValueSet) Values() []string {
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy
func (s ValueSet) Clone() ValueSet {
	if !s.restricted {
		return NoRestriction()
	}
	out := ValueSet{restricted: true, values: make(map[string]struct{}, len(s.values))}
	for v := range s.values {
		out.values[v] = struct{}{}
	}
	return out
}

// Toggle returns a copy with v added if absent or removed if present.
// Toggling a NoRestriction set yields an empty explicit set plus v.
func (s ValueSet) Toggle(v string) ValueSet {
	out := s.Clone()
	if !out.restricted {
		out = Only()
	}
	if _, ok := out.values[v]; ok {
		delete(out.values, v)
	} else {
		out.values[v] = struct{}{}
	}
	return out
}

// Covers reports whether every value of universe passes the set
func (s ValueSet) Covers(universe []string) bool {
	if !s.restricted {
		return true
	}
	for _, v := range universe {
		if _, ok := s.values[v]; !ok {
			return false
		}
	}
	return true
}

// Normalize collapses an explicit set that covers a non-empty universe back
// to NoRestriction. This is the single place where "everything selected"
// becomes "not filtered".
func (s ValueSet) Normalize(universe []string) ValueSet {
	if !s.restricted {
		return s
	}
	if len(universe) > 0 && s.Covers(universe) {
		return NoRestriction()
	}
	return s.Clone()
}

// Equal reports whether both sets accept the same values
func (s ValueSet) Equal(o ValueSet) bool {
	if s.restricted != o.restricted {
		return false
	}
	if len(s.values) != len(o.values) {
		return false
	}
	for v := range s.values {
		if _, ok := o.values[v]; !ok {
			return false
		}
	}
	return true
}

// MarshalJSON encodes NoRestriction as null and explicit sets as sorted arrays
func (s ValueSet) MarshalJSON() ([]byte, error) {
	if !s.restricted {
		return []byte("null"), nil
	}
	return json.Marshal(s.Values())
}

// UnmarshalJSON implements json.Unmarshaler
func (s *ValueSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoRestriction()
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = Only(values...)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (s ValueSet) MarshalYAML() (interface{}, error) {
	if !s.restricted {
		return nil, nil
	}
	return s.Values(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (s *ValueSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*s = NoRestriction()
		return nil
	}
	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}
	*s = Only(values...)
	return nil
}
