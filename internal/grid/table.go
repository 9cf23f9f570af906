// Package grid binds a row collection to the filter engine and the draft
// controller. A Table is what a screen holds for one dashboard table.
package grid

import (
	"slices"

	"github.com/rebelice/opsgrid/internal/dates"
	"github.com/rebelice/opsgrid/internal/draft"
	"github.com/rebelice/opsgrid/internal/filter"
	"github.com/rebelice/opsgrid/internal/models"
)

// Table holds rows, search text and filter state for one table and caches
// the visible rows between changes.
type Table struct {
	schema models.TableSchema
	engine *filter.Engine
	ctrl   *draft.Controller

	rows   []models.Row
	search string

	frozen bool
	order  []string

	visible []models.Row
	dirty   bool
}

// Option configures a Table
type Option func(*Table)

// WithFrozenOrder keeps the display order captured at sort time instead of
// re-sorting live values on every change
func WithFrozenOrder(frozen bool) Option {
	return func(t *Table) {
		t.frozen = frozen
	}
}

// WithEngine replaces the default engine, e.g. to change the collation locale
func WithEngine(e *filter.Engine) Option {
	return func(t *Table) {
		t.engine = e
	}
}

// New creates a table over rows. Date columns are normalized once here.
func New(schema models.TableSchema, rows []models.Row, brands draft.BrandLookup, account string, opts ...Option) *Table {
	t := &Table{
		schema: schema,
		engine: filter.NewEngine(schema),
		ctrl:   draft.NewController(schema, brands, account),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.SetRows(rows)
	return t
}

// Schema returns the table schema
func (t *Table) Schema() models.TableSchema {
	return t.schema
}

// Controller exposes the draft controller for dropdown key handling
func (t *Table) Controller() *draft.Controller {
	return t.ctrl
}

// SetRows replaces the row collection, e.g. after a reload. A frozen order
// is recaptured so reloaded rows sort into place.
func (t *Table) SetRows(rows []models.Row) {
	t.rows = dates.NormalizeRows(rows, t.schema.DateColumns())
	if t.frozen {
		t.capture()
	}
	t.dirty = true
}

// Rows returns all rows, filtered or not
func (t *Table) Rows() []models.Row {
	return t.rows
}

// Len returns the number of rows before filtering
func (t *Table) Len() int {
	return len(t.rows)
}

// Visible returns the rows that pass search and filters in display order
func (t *Table) Visible() []models.Row {
	if t.dirty || t.visible == nil {
		filters := t.ctrl.Filters()
		if t.frozen && t.ctrl.Sort().IsActive() {
			t.visible = t.engine.ApplyOrdered(t.rows, t.search, filters, t.order)
		} else {
			t.visible = t.engine.Apply(t.rows, t.search, filters, t.ctrl.Sort())
		}
		t.dirty = false
	}
	return t.visible
}

// AvailableValues returns the distinct string values of a column across all
// rows, ordered the way the column sorts
func (t *Table) AvailableValues(column string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range t.rows {
		raw, _ := r.Get(column)
		s := filter.ToString(raw)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		values = append(values, s)
	}
	slices.SortStableFunc(values, func(a, b string) int {
		return t.engine.CompareValues(column, a, b)
	})
	return values
}

// Search returns the current search text
func (t *Table) Search() string {
	return t.search
}

// SetSearch changes the free-text search
func (t *Table) SetSearch(term string) {
	if term == t.search {
		return
	}
	t.search = term
	t.dirty = true
}

// OpenFilter opens the dropdown for column seeded with its available values
func (t *Table) OpenFilter(column string) error {
	return t.ctrl.Open(column, t.AvailableValues(column))
}

// CloseFilter discards the open dropdown
func (t *Table) CloseFilter() {
	t.ctrl.Close()
}

// Apply commits the open dropdown
func (t *Table) Apply() error {
	if err := t.ctrl.Apply(); err != nil {
		return err
	}
	t.dirty = true
	return nil
}

// SortClick sorts by the open dropdown's column and commits its draft
func (t *Table) SortClick(order models.SortOrder) error {
	if err := t.ctrl.SortClick(order); err != nil {
		return err
	}
	t.sortChanged()
	return nil
}

// Reset clears the open dropdown's column filter and sort
func (t *Table) Reset() error {
	if err := t.ctrl.Reset(); err != nil {
		return err
	}
	t.sortChanged()
	return nil
}

// SetSort sorts without a dropdown, e.g. from a header key binding
func (t *Table) SetSort(sort models.SortDescriptor) {
	t.ctrl.SetSort(sort)
	t.sortChanged()
}

// CycleSort advances a column's sort through asc, desc and off
func (t *Table) CycleSort(column string) {
	next := models.SortAsc
	switch t.ctrl.SortOrder(column) {
	case models.SortAsc:
		next = models.SortDesc
	case models.SortDesc:
		next = models.SortNone
	}
	t.SetSort(models.SortDescriptor{Field: column, Order: next})
}

// ResetColumn removes one column's filter and sort
func (t *Table) ResetColumn(column string) {
	t.ctrl.ResetColumn(column)
	t.sortChanged()
}

// ClearAll removes search, every filter and the sort
func (t *Table) ClearAll() {
	t.LoadDescriptor(models.FilterDescriptor{})
}

// IsFiltered reports whether a column header should show the filter marker
func (t *Table) IsFiltered(column string) bool {
	return t.ctrl.IsFiltered(column)
}

// SortOrder returns a column's sort marker
func (t *Table) SortOrder(column string) models.SortOrder {
	return t.ctrl.SortOrder(column)
}

// UpdateCell changes one value of one row in place of the old row. In
// frozen mode the row keeps its position until the next sort.
func (t *Table) UpdateCell(id, column string, value any) bool {
	for i, r := range t.rows {
		if r.ID != id {
			continue
		}
		updated := r.WithValue(column, value)
		if slices.Contains(t.schema.DateColumns(), column) {
			updated = dates.NormalizeRows([]models.Row{updated}, []string{column})[0]
		}
		t.rows = slices.Clone(t.rows)
		t.rows[i] = updated
		t.dirty = true
		return true
	}
	return false
}

// Frozen reports whether captured-order mode is on
func (t *Table) Frozen() bool {
	return t.frozen
}

// SetFrozen switches between live sorting and captured order. Turning it on
// captures the current order.
func (t *Table) SetFrozen(frozen bool) {
	t.frozen = frozen
	if frozen {
		t.capture()
	} else {
		t.order = nil
	}
	t.dirty = true
}

// Descriptor returns the serializable filter state
func (t *Table) Descriptor() models.FilterDescriptor {
	return models.FilterDescriptor{
		Search:  t.search,
		Filters: t.ctrl.Filters(),
		Sort:    t.ctrl.Sort(),
	}
}

// LoadDescriptor replaces search, filters and sort
func (t *Table) LoadDescriptor(d models.FilterDescriptor) {
	t.search = d.Search
	t.ctrl.Load(d)
	t.sortChanged()
}

// Summary returns a one-line description of the active filter state
func (t *Table) Summary() string {
	return filter.Describe(t.schema, t.Descriptor())
}

func (t *Table) sortChanged() {
	if t.frozen {
		t.capture()
	}
	t.dirty = true
}

func (t *Table) capture() {
	t.order = t.engine.CaptureOrder(t.rows, t.ctrl.Sort())
}
