// Package dates converts the date representations found in row sources
// (ISO, locale-formatted, slash-delimited) into one canonical display string
// before rows reach the filter engine, so value-set membership and string
// sorting behave predictably.
package dates

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/rebelice/opsgrid/internal/models"
)

// DisplayLayout is the canonical display form. It sorts correctly as a string.
const DisplayLayout = "2006-01-02"

// layouts are tried in order. Slash dates are read month-first.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// Parse parses a date string in any supported layout
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := cast.ToTimeE(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// SortKey returns the sortable instant for a raw value
func SortKey(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case string:
		return Parse(v)
	default:
		t, err := cast.ToTimeE(v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

// Normalize returns the canonical display string for a raw value
func Normalize(raw any) (string, bool) {
	t, ok := SortKey(raw)
	if !ok {
		return "", false
	}
	return t.Format(DisplayLayout), true
}

// NormalizeRows returns rows whose date columns hold canonical display
// strings. Values that do not parse are left as they are. Input rows are
// not modified; rows that change are copied.
func NormalizeRows(rows []models.Row, columns []string) []models.Row {
	if len(columns) == 0 {
		return rows
	}
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		out[i] = r
		for _, col := range columns {
			raw, ok := out[i].Get(col)
			if !ok {
				continue
			}
			display, ok := Normalize(raw)
			if !ok {
				continue
			}
			if s, isString := raw.(string); isString && s == display {
				continue
			}
			out[i] = out[i].WithValue(col, display)
		}
	}
	return out
}
