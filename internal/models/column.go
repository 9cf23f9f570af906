package models

import "strings"

// ColumnKind identifies how a column's values compare
type ColumnKind string

const (
	KindText    ColumnKind = "text"
	KindNumeric ColumnKind = "numeric"
	KindDate    ColumnKind = "date"
)

// ParseColumnKind maps a config string to a ColumnKind, defaulting to text
func ParseColumnKind(s string) ColumnKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "int", "integer", "float", "count", "quantity":
		return KindNumeric
	case "date", "datetime", "timestamp":
		return KindDate
	default:
		return KindText
	}
}

// ColumnMeta describes one column of a table
type ColumnMeta struct {
	Key        string
	Label      string
	Kind       ColumnKind
	Searchable bool
	BrandAware bool // values roll up into brands for a second filter tier
}

// Title returns the label, falling back to the key
func (c ColumnMeta) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// TableSchema is the column declaration a row source hands to the engine
type TableSchema struct {
	Name     string
	IDColumn string
	Columns  []ColumnMeta
}

// Column returns the metadata for key
func (s TableSchema) Column(key string) (ColumnMeta, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

// KindOf returns the kind of a column, text when undeclared
func (s TableSchema) KindOf(key string) ColumnKind {
	if c, ok := s.Column(key); ok && c.Kind != "" {
		return c.Kind
	}
	return KindText
}

// SearchColumns returns the keys that participate in free-text search
func (s TableSchema) SearchColumns() []string {
	var keys []string
	for _, c := range s.Columns {
		if c.Searchable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// DateColumns returns the keys of date-like columns
func (s TableSchema) DateColumns() []string {
	var keys []string
	for _, c := range s.Columns {
		if c.Kind == KindDate {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// Keys returns all column keys in declaration order
func (s TableSchema) Keys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}
