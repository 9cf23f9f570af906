package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebelice/opsgrid/internal/models"
)

func schema() models.TableSchema {
	return models.TableSchema{
		Name:     "production",
		IDColumn: "id",
		Columns: []models.ColumnMeta{
			{Key: "id", Kind: models.KindText},
			{Key: "status", Kind: models.KindText, Searchable: true},
			{Key: "count", Kind: models.KindNumeric},
			{Key: "due", Kind: models.KindDate},
		},
	}
}

func rows() []models.Row {
	return []models.Row{
		{ID: "a", Values: map[string]any{"status": "pending", "count": 10, "due": "3/4/2024"}},
		{ID: "b", Values: map[string]any{"status": "done", "count": 2, "due": "2024-01-15"}},
		{ID: "c", Values: map[string]any{"status": "pending", "count": 7}},
		{ID: "d", Values: map[string]any{"status": "shipped", "count": 9, "due": "2024-02-01T10:00:00Z"}},
	}
}

func visibleIDs(t *Table) []string {
	var out []string
	for _, r := range t.Visible() {
		out = append(out, r.ID)
	}
	return out
}

func TestNew_NormalizesDates(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	got := map[string]any{}
	for _, r := range tbl.Rows() {
		v, _ := r.Get("due")
		got[r.ID] = v
	}
	assert.Equal(t, "2024-03-04", got["a"])
	assert.Equal(t, "2024-01-15", got["b"])
	assert.Nil(t, got["c"])
	assert.Equal(t, "2024-02-01", got["d"])
}

func TestAvailableValues(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	assert.Equal(t, []string{"2", "7", "9", "10"}, tbl.AvailableValues("count"))
	assert.Equal(t, []string{"done", "pending", "shipped"}, tbl.AvailableValues("status"))
	assert.Equal(t, []string{"", "2024-01-15", "2024-02-01", "2024-03-04"}, tbl.AvailableValues("due"))
}

func TestFilterFlow(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(tbl))

	require.NoError(t, tbl.OpenFilter("status"))
	require.NoError(t, tbl.Controller().ToggleValue("done"))
	require.NoError(t, tbl.Apply())
	assert.True(t, tbl.IsFiltered("status"))
	assert.Equal(t, []string{"a", "c", "d"}, visibleIDs(tbl))

	require.NoError(t, tbl.OpenFilter("count"))
	require.NoError(t, tbl.SortClick(models.SortDesc))
	assert.Equal(t, []string{"a", "d", "c"}, visibleIDs(tbl))

	tbl.SetSearch("pend")
	assert.Equal(t, []string{"a", "c"}, visibleIDs(tbl))

	require.NoError(t, tbl.OpenFilter("status"))
	require.NoError(t, tbl.Reset())
	assert.False(t, tbl.IsFiltered("status"))
	assert.Equal(t, models.SortDesc, tbl.SortOrder("count"), "reset leaves other columns' sort")
}

func TestApplyWithoutOpenDropdown(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	assert.Error(t, tbl.Apply())
	assert.Error(t, tbl.SortClick(models.SortAsc))
	assert.Error(t, tbl.OpenFilter("missing"))
}

func TestCycleSort(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	tbl.CycleSort("count")
	assert.Equal(t, []string{"b", "c", "d", "a"}, visibleIDs(tbl))
	tbl.CycleSort("count")
	assert.Equal(t, []string{"a", "d", "c", "b"}, visibleIDs(tbl))
	tbl.CycleSort("count")
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(tbl))
}

func TestUpdateCell_LiveResorts(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	tbl.SetSort(models.SortDescriptor{Field: "count", Order: models.SortAsc})
	require.True(t, tbl.UpdateCell("b", "count", 100))
	assert.Equal(t, []string{"c", "d", "a", "b"}, visibleIDs(tbl))
	assert.False(t, tbl.UpdateCell("zzz", "count", 1))
}

func TestUpdateCell_FrozenKeepsOrder(t *testing.T) {
	tbl := New(schema(), rows(), nil, "", WithFrozenOrder(true))
	tbl.SetSort(models.SortDescriptor{Field: "count", Order: models.SortAsc})
	before := visibleIDs(tbl)
	assert.Equal(t, []string{"b", "c", "d", "a"}, before)

	require.True(t, tbl.UpdateCell("b", "count", 100))
	assert.Equal(t, before, visibleIDs(tbl))

	// re-sorting picks up the edit
	tbl.SetSort(models.SortDescriptor{Field: "count", Order: models.SortAsc})
	assert.Equal(t, []string{"c", "d", "a", "b"}, visibleIDs(tbl))
}

func TestFrozenMatchesLiveForStaticRows(t *testing.T) {
	sort := models.SortDescriptor{Field: "status", Order: models.SortDesc}

	live := New(schema(), rows(), nil, "")
	live.SetSort(sort)
	frozen := New(schema(), rows(), nil, "", WithFrozenOrder(true))
	frozen.SetSort(sort)

	assert.Equal(t, visibleIDs(live), visibleIDs(frozen))

	live.SetSearch("p")
	frozen.SetSearch("p")
	assert.Equal(t, visibleIDs(live), visibleIDs(frozen))
}

func TestSetRows_FrozenNewRowsGoLast(t *testing.T) {
	tbl := New(schema(), rows(), nil, "", WithFrozenOrder(true))
	tbl.SetSort(models.SortDescriptor{Field: "count", Order: models.SortAsc})

	tbl.SetFrozen(true)
	extended := append(tbl.Rows(), models.Row{ID: "e", Values: map[string]any{"count": 0}})
	tbl.rows = extended
	tbl.dirty = true
	assert.Equal(t, []string{"b", "c", "d", "a", "e"}, visibleIDs(tbl))

	tbl.SetRows(extended)
	assert.Equal(t, []string{"e", "b", "c", "d", "a"}, visibleIDs(tbl))
}

func TestDescriptorRoundTrip(t *testing.T) {
	tbl := New(schema(), rows(), nil, "")
	tbl.SetSearch("p")
	require.NoError(t, tbl.OpenFilter("count"))
	require.NoError(t, tbl.Controller().SetConditionType(models.CondGreaterThan))
	require.NoError(t, tbl.Controller().SetConditionValue("8"))
	require.NoError(t, tbl.SortClick(models.SortAsc))

	d := tbl.Descriptor()
	want := visibleIDs(tbl)
	assert.Equal(t, []string{"d", "a"}, want)

	other := New(schema(), rows(), nil, "")
	other.LoadDescriptor(d)
	assert.Equal(t, want, visibleIDs(other))
	assert.Equal(t, `"p" AND count > 8, sort count asc`, other.Summary())

	other.ClearAll()
	assert.Equal(t, []string{"a", "b", "c", "d"}, visibleIDs(other))
	assert.True(t, other.Descriptor().IsEmpty())
}
