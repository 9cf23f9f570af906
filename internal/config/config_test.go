package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rebelice/opsgrid/internal/models"
)

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.UI.Theme != "default" {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
	if cfg.Data.Source != "file" {
		t.Errorf("expected file source, got %s", cfg.Data.Source)
	}
	if cfg.History.PopularLimit != 5 {
		t.Errorf("expected popular limit 5, got %d", cfg.History.PopularLimit)
	}
	if cfg.Data.LoadTimeout != 30*time.Second {
		t.Errorf("expected 30s load timeout, got %v", cfg.Data.LoadTimeout)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestNewLoader_FileAndFlags(t *testing.T) {
	path := writeConfig(t, `
general:
  default_account: Northwind
data:
  path: inventory.json
  load_timeout: 5s
table:
  name: inventory
  id_column: sku
  columns:
    - key: sku
    - key: product
      label: Product
      searchable: true
      brand: true
    - key: count
      kind: numeric
brands:
  Northwind:
    - Mint +
    - Peach Tea
`)

	flags := Flags()
	if err := flags.Parse([]string{"--config", path, "--log-level", "debug"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	l, err := NewLoader(flags)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if l.File() != path {
		t.Errorf("expected config file %s, got %s", path, l.File())
	}

	cfg, err := l.Config()
	if err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected flag to override log level, got %s", cfg.Log.Level)
	}
	if cfg.General.Account != "Northwind" {
		t.Errorf("expected account to fall back to default account, got %s", cfg.General.Account)
	}
	if cfg.Data.LoadTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Data.LoadTimeout)
	}
	if cfg.UI.Theme != "default" {
		t.Errorf("expected default theme to survive, got %s", cfg.UI.Theme)
	}
	if got := cfg.Brands["northwind"]; len(got) != 2 || got[0] != "Mint +" {
		t.Errorf("expected brands under lower-cased key, got %v", cfg.Brands)
	}

	s := cfg.Schema()
	if s.Name != "inventory" || s.IDColumn != "sku" {
		t.Errorf("unexpected schema header: %+v", s)
	}
	if len(s.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(s.Columns))
	}
	if s.KindOf("count") != models.KindNumeric {
		t.Errorf("expected count to be numeric")
	}
	if p, _ := s.Column("product"); !p.BrandAware || !p.Searchable || p.Title() != "Product" {
		t.Errorf("unexpected product column: %+v", p)
	}
}

func TestNewLoader_MissingExplicitFile(t *testing.T) {
	flags := Flags()
	if err := flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	if _, err := NewLoader(flags); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestSchema_Undeclared(t *testing.T) {
	s := GetDefaults().Schema()
	if len(s.Columns) != 0 {
		t.Errorf("expected no columns, got %v", s.Keys())
	}
	if s.IDColumn != "id" {
		t.Errorf("expected id column, got %s", s.IDColumn)
	}
}
