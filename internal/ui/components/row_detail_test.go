package components

import (
	"strings"
	"testing"

	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

func TestRowDetail_Text(t *testing.T) {
	p := NewRowDetail(theme.DefaultTheme())
	cols := []models.ColumnMeta{
		{Key: "status", Label: "Status"},
		{Key: "count"},
		{Key: "note"},
	}
	row := models.Row{ID: "a", Values: map[string]any{"status": "pending", "count": 10}}
	p.SetRow(cols, row, true)

	want := "Status: pending\ncount: 10\nnote: "
	if got := p.Text(); got != strings.TrimRight(want, " ") && got != want {
		t.Errorf("unexpected text:\n%q", got)
	}
}

func TestRowDetail_NoRow(t *testing.T) {
	p := NewRowDetail(theme.DefaultTheme())
	p.SetRow(nil, models.Row{}, false)
	if p.Text() != "" {
		t.Error("expected empty text without a row")
	}

	p.Toggle()
	if !strings.Contains(p.View(), "No row selected") {
		t.Error("expected empty state in view")
	}
	if p.Height() != p.MaxHeight {
		t.Errorf("expected height %d when visible, got %d", p.MaxHeight, p.Height())
	}
	p.Toggle()
	if p.Height() != 0 {
		t.Error("expected zero height when hidden")
	}
}

func TestPrettyValue(t *testing.T) {
	got := prettyValue(`{"a":1}`)
	if !strings.Contains(got, "\n") || !strings.Contains(got, `"a": 1`) {
		t.Errorf("expected indented JSON, got %q", got)
	}
	if prettyValue("plain") != "plain" {
		t.Error("expected plain text unchanged")
	}
	if prettyValue("{broken") != "{broken" {
		t.Error("expected invalid JSON unchanged")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("abcdefghij", 4)
	if len(lines) != 3 || lines[0] != "abcd" || lines[2] != "ij" {
		t.Errorf("unexpected wrap %v", lines)
	}

	// wide runes take two cells
	lines = wrapText("日本語", 4)
	if len(lines) != 2 || lines[0] != "日本" {
		t.Errorf("unexpected wide wrap %v", lines)
	}
}
