package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/rebelice/opsgrid/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ToFile writes rows in the given format
func ToFile(format Format, rows []models.Row, columns []models.ColumnMeta, path string) error {
	switch format {
	case FormatCSV:
		return ExportToCSV(rows, columns, path)
	case FormatJSON:
		return ExportToJSON(rows, columns, path)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ExportToCSV writes rows to a CSV file, one column per schema column in
// declaration order, headed by the column titles
func ExportToCSV(rows []models.Row, columns []models.ColumnMeta, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Title()
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			raw, _ := r.Get(c.Key)
			record[i] = cellString(raw)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return nil
}

// ExportToJSON writes rows to a pretty-printed JSON array of objects keyed
// by column key
func ExportToJSON(rows []models.Row, columns []models.ColumnMeta, path string) error {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		obj := make(map[string]any, len(columns))
		for _, c := range columns {
			raw, ok := r.Get(c.Key)
			if !ok {
				continue
			}
			if t, isTime := raw.(time.Time); isTime {
				raw = t.Format(time.RFC3339)
			}
			obj[c.Key] = raw
		}
		out = append(out, obj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// DefaultPath returns a time-stamped export file name for table in dir
func DefaultPath(dir, table string, format Format, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, table)
	if name == "" {
		name = "rows"
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.%s", name, now.Format("20060102-150405"), format))
}

func cellString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return cast.ToString(v)
	}
}
