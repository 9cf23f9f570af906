package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/spf13/cast"

	"github.com/rebelice/opsgrid/internal/db/connection"
	"github.com/rebelice/opsgrid/internal/models"
)

// GetTableColumns retrieves column metadata for a table, with kinds derived
// from the declared data types
func GetTableColumns(ctx context.Context, pool *connection.Pool, schema, table string) ([]models.ColumnMeta, error) {
	query := `
		SELECT
			column_name,
			data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columns := make([]models.ColumnMeta, 0, len(rows))
	for _, row := range rows {
		kind := KindForDataType(cast.ToString(row["data_type"]))
		columns = append(columns, models.ColumnMeta{
			Key:        cast.ToString(row["column_name"]),
			Kind:       kind,
			Searchable: kind == models.KindText,
		})
	}

	return columns, nil
}

// KindForDataType maps an information_schema data_type to a column kind
func KindForDataType(dataType string) models.ColumnKind {
	dt := strings.ToLower(dataType)
	switch {
	case dt == "smallint", dt == "integer", dt == "bigint", dt == "real",
		dt == "double precision", dt == "numeric", dt == "decimal", dt == "money":
		return models.KindNumeric
	case dt == "date", strings.HasPrefix(dt, "timestamp"):
		return models.KindDate
	default:
		return models.KindText
	}
}

// KindForOID maps a result column type OID to a column kind
func KindForOID(oid uint32) models.ColumnKind {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID,
		pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return models.KindNumeric
	case pgtype.DateOID, pgtype.TimestampOID, pgtype.TimestamptzOID:
		return models.KindDate
	default:
		return models.KindText
	}
}

// SplitTableName splits "schema.table", defaulting the schema to public
func SplitTableName(name string) (schema, table string) {
	if s, t, ok := strings.Cut(name, "."); ok {
		return s, t
	}
	return "public", name
}
