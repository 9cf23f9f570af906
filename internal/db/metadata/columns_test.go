package metadata

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rebelice/opsgrid/internal/models"
)

func TestKindForDataType(t *testing.T) {
	tests := map[string]models.ColumnKind{
		"integer":                     models.KindNumeric,
		"double precision":            models.KindNumeric,
		"NUMERIC":                     models.KindNumeric,
		"date":                        models.KindDate,
		"timestamp without time zone": models.KindDate,
		"text":                        models.KindText,
		"jsonb":                       models.KindText,
	}
	for in, want := range tests {
		if got := KindForDataType(in); got != want {
			t.Errorf("KindForDataType(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestKindForOID(t *testing.T) {
	if KindForOID(pgtype.Int8OID) != models.KindNumeric {
		t.Error("expected int8 to be numeric")
	}
	if KindForOID(pgtype.TimestamptzOID) != models.KindDate {
		t.Error("expected timestamptz to be a date")
	}
	if KindForOID(pgtype.TextOID) != models.KindText {
		t.Error("expected text to be text")
	}
}

func TestSplitTableName(t *testing.T) {
	s, tbl := SplitTableName("ops.inventory")
	if s != "ops" || tbl != "inventory" {
		t.Errorf("expected ops.inventory, got %s.%s", s, tbl)
	}
	s, tbl = SplitTableName("inventory")
	if s != "public" || tbl != "inventory" {
		t.Errorf("expected public.inventory, got %s.%s", s, tbl)
	}
}
