// Package source loads the rows a dashboard table shows, either from a local
// file or from a Postgres query.
package source

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/rebelice/opsgrid/internal/config"
	"github.com/rebelice/opsgrid/internal/dates"
	"github.com/rebelice/opsgrid/internal/models"
)

// Source loads the full row collection of one table
type Source interface {
	Load(ctx context.Context) ([]models.Row, error)
	Close() error
}

// Describer is implemented by sources that know their column types
type Describer interface {
	Columns(ctx context.Context) ([]models.ColumnMeta, error)
}

// buildRows turns generic records into rows. The ID comes from idColumn when
// present and unique so far, otherwise from the record's position.
func buildRows(records []map[string]any, idColumn string) []models.Row {
	rows := make([]models.Row, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		id := ""
		if idColumn != "" {
			if v, ok := rec[idColumn]; ok && v != nil {
				id = cast.ToString(v)
			}
		}
		if id == "" || seen[id] {
			id = "#" + strconv.Itoa(i+1)
		}
		seen[id] = true
		rows = append(rows, models.Row{ID: id, Values: rec})
	}
	return rows
}

// InferColumns guesses column kinds from row values. A column is numeric
// when every non-blank value parses as a number, a date when every one
// parses as a date, and text otherwise. Keys come back with the id column
// first, then in first-seen order.
func InferColumns(rows []models.Row, idColumn string) []models.ColumnMeta {
	var keys []string
	seen := map[string]bool{}
	if idColumn != "" {
		for _, r := range rows {
			if _, ok := r.Values[idColumn]; ok {
				keys = append(keys, idColumn)
				seen[idColumn] = true
				break
			}
		}
	}
	for _, r := range rows {
		for _, k := range sortedKeys(r.Values) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	cols := make([]models.ColumnMeta, 0, len(keys))
	for _, k := range keys {
		kind := inferKind(rows, k)
		cols = append(cols, models.ColumnMeta{
			Key:        k,
			Kind:       kind,
			Searchable: kind == models.KindText,
		})
	}
	return cols
}

func inferKind(rows []models.Row, key string) models.ColumnKind {
	numeric, date, found := true, true, false
	for _, r := range rows {
		raw, ok := r.Get(key)
		if !ok || raw == nil {
			continue
		}
		s := strings.TrimSpace(cast.ToString(raw))
		if s == "" {
			continue
		}
		found = true
		if numeric {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
		}
		if date {
			if _, ok := dates.Parse(s); !ok {
				date = false
			}
		}
		if !numeric && !date {
			break
		}
	}
	switch {
	case !found:
		return models.KindText
	case numeric:
		return models.KindNumeric
	case date:
		return models.KindDate
	default:
		return models.KindText
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnsupportedError reports a file extension no decoder handles
type UnsupportedError struct {
	Ext string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported row file type %q", e.Ext)
}

// Open creates the source the config asks for
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch strings.ToLower(cfg.Data.Source) {
	case "", "file":
		if cfg.Data.Path == "" {
			return nil, fmt.Errorf("data.path is required for a file source")
		}
		return NewFile(cfg.Data.Path, cfg.Table.IDColumn), nil
	case "postgres", "postgresql", "pg":
		return NewPostgres(ctx, cfg.ConnectionConfig(), cfg.Table.Name, cfg.Data.Query, cfg.Table.IDColumn)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// Schema completes schema with columns from the source or the rows when the
// config declares none
func Schema(ctx context.Context, src Source, schema models.TableSchema, rows []models.Row) (models.TableSchema, error) {
	if len(schema.Columns) > 0 {
		return schema, nil
	}
	if d, ok := src.(Describer); ok {
		cols, err := d.Columns(ctx)
		if err != nil {
			return schema, fmt.Errorf("failed to describe columns: %w", err)
		}
		if len(cols) > 0 {
			schema.Columns = cols
			return schema, nil
		}
	}
	schema.Columns = InferColumns(rows, schema.IDColumn)
	return schema, nil
}
