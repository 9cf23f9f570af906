package source

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rebelice/opsgrid/internal/db/connection"
	"github.com/rebelice/opsgrid/internal/db/metadata"
	"github.com/rebelice/opsgrid/internal/models"
)

// Postgres loads rows from a query against a Postgres database. Without a
// query the whole table is read.
type Postgres struct {
	pool     *connection.Pool
	table    string
	query    string
	idColumn string

	columns []models.ColumnMeta
}

// NewPostgres opens a pool for the given connection
func NewPostgres(ctx context.Context, cfg models.ConnectionConfig, table, query, idColumn string) (*Postgres, error) {
	pool, err := connection.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Postgres{
		pool:     pool,
		table:    table,
		query:    query,
		idColumn: idColumn,
	}, nil
}

// Statement returns the SQL the source runs
func (p *Postgres) Statement() string {
	if p.query != "" {
		return p.query
	}
	return SelectAll(p.table)
}

// SelectAll builds a quoted SELECT for a possibly schema-qualified table
func SelectAll(table string) string {
	schema, name := metadata.SplitTableName(table)
	return "SELECT * FROM " + pgx.Identifier{schema, name}.Sanitize()
}

// Load runs the statement and converts every value to a scalar the filter
// engine understands
func (p *Postgres) Load(ctx context.Context) ([]models.Row, error) {
	res, err := p.pool.QueryWithColumns(ctx, p.Statement())
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}

	cols := make([]models.ColumnMeta, len(res.Columns))
	for i, name := range res.Columns {
		kind := metadata.KindForOID(res.Types[i])
		cols[i] = models.ColumnMeta{Key: name, Kind: kind, Searchable: kind == models.KindText}
	}
	p.columns = cols

	for _, rec := range res.Rows {
		for k, v := range rec {
			rec[k] = ScalarValue(v)
		}
	}
	return buildRows(res.Rows, p.idColumn), nil
}

// Columns returns column kinds. Before the first Load they come from the
// catalog, afterwards from the result set.
func (p *Postgres) Columns(ctx context.Context) ([]models.ColumnMeta, error) {
	if p.columns != nil {
		return p.columns, nil
	}
	schema, table := metadata.SplitTableName(p.table)
	return metadata.GetTableColumns(ctx, p.pool, schema, table)
}

// Close closes the pool
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// ScalarValue converts a decoded Postgres value into a string, number, time
// or nil
func ScalarValue(val any) any {
	switch v := val.(type) {
	case nil, string, bool, int64, int32, int16, int, float64, float32, time.Time:
		return v
	case pgtype.Numeric:
		if !v.Valid {
			return nil
		}
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case *big.Int:
		return v.String()
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", v[0:4], v[4:6], v[6:8], v[8:10], v[10:16])
	case []byte:
		return string(v)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}
