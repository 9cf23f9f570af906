package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/opsgrid/internal/grid"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

func testTable() *grid.Table {
	schema := models.TableSchema{
		Name:     "production",
		IDColumn: "id",
		Columns: []models.ColumnMeta{
			{Key: "status", Kind: models.KindText, Searchable: true},
			{Key: "count", Kind: models.KindNumeric},
		},
	}
	rows := []models.Row{
		{ID: "a", Values: map[string]any{"status": "pending", "count": 10}},
		{ID: "b", Values: map[string]any{"status": "done", "count": 2}},
		{ID: "c", Values: map[string]any{"status": "pending", "count": 7}},
		{ID: "d", Values: map[string]any{"status": "shipped", "count": 9}},
	}
	return grid.New(schema, rows, nil, "")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func ids(rows []models.Row) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return strings.Join(out, ",")
}

func openDropdown(t *testing.T, column string) (*FilterDropdown, *grid.Table) {
	t.Helper()
	table := testTable()
	fd := NewFilterDropdown(theme.DefaultTheme(), table)
	if err := fd.Open(column); err != nil {
		t.Fatalf("Open(%s) failed: %v", column, err)
	}
	return fd, table
}

func TestFilterDropdown_ToggleAndApply(t *testing.T) {
	fd, table := openDropdown(t, "status")

	// values are listed in sort order, so "done" is under the cursor
	fd, _ = fd.Update(key(tea.KeySpace))
	fd, cmd := fd.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command after apply")
	}
	msg, ok := cmd().(FilterAppliedMsg)
	if !ok || msg.Column != "status" {
		t.Fatalf("expected FilterAppliedMsg for status, got %#v", msg)
	}

	if got := ids(table.Visible()); got != "a,c,d" {
		t.Errorf("expected a,c,d visible, got %s", got)
	}
	if !table.IsFiltered("status") {
		t.Error("expected status to be marked filtered")
	}
	if _, open := fd.Column(); open {
		t.Error("expected dropdown session to be closed")
	}
}

func TestFilterDropdown_EscDiscardsDraft(t *testing.T) {
	fd, table := openDropdown(t, "status")

	fd, _ = fd.Update(runes("n"))
	fd, cmd := fd.Update(key(tea.KeyEsc))
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(CloseFilterDropdownMsg); !ok {
		t.Error("expected CloseFilterDropdownMsg")
	}
	if got := len(table.Visible()); got != 4 {
		t.Errorf("expected all 4 rows after discarding, got %d", got)
	}
	if table.IsFiltered("status") {
		t.Error("discarded draft must not filter")
	}
}

func TestFilterDropdown_ClearAllShowsNothing(t *testing.T) {
	fd, table := openDropdown(t, "status")

	fd, _ = fd.Update(runes("n"))
	_, cmd := fd.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected apply command")
	}
	if got := len(table.Visible()); got != 0 {
		t.Errorf("expected no rows, got %d", got)
	}
}

func TestFilterDropdown_Condition(t *testing.T) {
	fd, table := openDropdown(t, "count")

	// values -> condition
	fd, _ = fd.Update(key(tea.KeyTab))
	// none -> equals -> notEquals -> greaterThan
	for i := 0; i < 3; i++ {
		fd, _ = fd.Update(key(tea.KeyRight))
	}
	s, _ := table.Controller().Session()
	if s.Draft.Condition.Type != models.CondGreaterThan {
		t.Fatalf("expected greaterThan, got %s", s.Draft.Condition.Type)
	}

	fd, _ = fd.Update(runes("e"))
	fd, _ = fd.Update(runes("8"))
	fd, _ = fd.Update(key(tea.KeyEnter))
	s, _ = table.Controller().Session()
	if s.Draft.Condition.Value != "8" {
		t.Fatalf("expected draft value 8, got %q", s.Draft.Condition.Value)
	}
	if table.IsFiltered("count") {
		t.Error("draft must not reach the committed filter before apply")
	}

	_, cmd := fd.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected apply command")
	}
	if got := ids(table.Visible()); got != "a,d" {
		t.Errorf("expected a,d visible, got %s", got)
	}
}

func TestFilterDropdown_SortDescending(t *testing.T) {
	fd, table := openDropdown(t, "count")

	_, cmd := fd.Update(runes("S"))
	if cmd == nil {
		t.Fatal("expected a command after sort")
	}
	if table.SortOrder("count") != models.SortDesc {
		t.Errorf("expected desc sort, got %q", table.SortOrder("count"))
	}
	if got := ids(table.Visible()); got != "a,d,c,b" {
		t.Errorf("expected a,d,c,b, got %s", got)
	}
}

func TestFilterDropdown_SearchThenToggle(t *testing.T) {
	fd, table := openDropdown(t, "status")

	fd, _ = fd.Update(runes("/"))
	for _, r := range "pen" {
		fd, _ = fd.Update(runes(string(r)))
	}
	fd, _ = fd.Update(key(tea.KeyEnter))

	s, _ := table.Controller().Session()
	if s.Draft.SearchTerm != "pen" {
		t.Fatalf("expected search term 'pen', got %q", s.Draft.SearchTerm)
	}
	if items := fd.listItems(s); len(items) != 1 || items[0].Value != "pending" {
		t.Fatalf("expected only pending listed, got %+v", items)
	}

	fd, _ = fd.Update(key(tea.KeySpace))
	fd.Update(key(tea.KeyEnter))

	if got := ids(table.Visible()); got != "b,d" {
		t.Errorf("expected b,d visible, got %s", got)
	}
	if f, ok := table.Controller().Filter("status"); !ok || f.Values.Has("pending") {
		t.Errorf("expected pending excluded, got %+v", f)
	}
}

func TestFilterDropdown_ResetClearsSort(t *testing.T) {
	fd, table := openDropdown(t, "count")
	fd.Update(runes("s"))
	if table.SortOrder("count") != models.SortAsc {
		t.Fatal("expected asc sort")
	}

	if err := fd.Open("count"); err != nil {
		t.Fatal(err)
	}
	fd.Update(runes("r"))
	if table.SortOrder("count") != models.SortNone {
		t.Error("expected reset to clear the sort")
	}
}

func TestFilterDropdown_View(t *testing.T) {
	fd, _ := openDropdown(t, "status")
	view := fd.View()

	for _, want := range []string{"Filter: status", "pending", "shipped"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	fd.Update(key(tea.KeyEsc))
	if fd.View() != "" {
		t.Error("expected empty view without a session")
	}
}
