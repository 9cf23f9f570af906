package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rebelice/opsgrid/internal/models"
)

func testColumns() []models.ColumnMeta {
	return []models.ColumnMeta{
		{Key: "sku", Label: "SKU"},
		{Key: "product", Label: "Product"},
		{Key: "count", Kind: models.KindNumeric},
	}
}

func testRows() []models.Row {
	return []models.Row{
		{ID: "1", Values: map[string]any{"sku": "A1", "product": "Mint + Extra, \"large\"", "count": 10}},
		{ID: "2", Values: map[string]any{"sku": "A2", "count": 2.5, "extra": "ignored"}},
	}
}

func TestExportToCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "test.csv")

	if err := ExportToCSV(testRows(), testColumns(), csvPath); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 { // header + 2 rows
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	expectedHeader := []string{"SKU", "Product", "count"}
	if !slicesEqual(records[0], expectedHeader) {
		t.Errorf("Header mismatch.\nExpected: %v\nGot: %v", expectedHeader, records[0])
	}
	if records[1][1] != "Mint + Extra, \"large\"" {
		t.Errorf("Expected quoted product to survive, got '%s'", records[1][1])
	}
	if records[2][1] != "" {
		t.Errorf("Expected missing product to be empty, got '%s'", records[2][1])
	}
	if records[2][2] != "2.5" {
		t.Errorf("Expected count '2.5', got '%s'", records[2][2])
	}
}

func TestExportToJSON(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "test.json")

	if err := ExportToJSON(testRows(), testColumns(), jsonPath); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}

	var parsed []map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if len(parsed) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(parsed))
	}
	if parsed[0]["sku"] != "A1" {
		t.Errorf("Expected sku 'A1', got '%v'", parsed[0]["sku"])
	}
	if _, ok := parsed[1]["extra"]; ok {
		t.Error("Expected undeclared columns to be left out")
	}
	if _, ok := parsed[1]["product"]; ok {
		t.Error("Expected missing values to be left out")
	}

	if !strings.Contains(string(data), "\n  ") {
		t.Error("JSON should be pretty-printed")
	}
}

func TestExportEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	csvPath := filepath.Join(tmpDir, "empty.csv")
	if err := ToFile(FormatCSV, nil, testColumns(), csvPath); err != nil {
		t.Fatalf("ExportToCSV with no rows failed: %v", err)
	}
	data, _ := os.ReadFile(csvPath)
	if strings.Count(string(data), "\n") != 1 {
		t.Errorf("Expected header only, got %q", data)
	}

	jsonPath := filepath.Join(tmpDir, "empty.json")
	if err := ToFile(FormatJSON, nil, testColumns(), jsonPath); err != nil {
		t.Fatalf("ExportToJSON with no rows failed: %v", err)
	}
	data, _ = os.ReadFile(jsonPath)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("Expected empty array, got %q", data)
	}

	if err := ToFile("xml", nil, nil, filepath.Join(tmpDir, "x")); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	got := DefaultPath("/tmp", "ops/inventory", FormatCSV, now)
	want := filepath.Join("/tmp", "ops_inventory-20240304-050607.csv")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

// Helper function to compare slices
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
