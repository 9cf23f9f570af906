// Package draft holds the per-table state machine behind column filter
// dropdowns. A dropdown edits a Draft; the committed filters and the sort
// only change on Apply, a sort click or Reset.
package draft

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rebelice/opsgrid/internal/models"
)

var (
	// ErrNoOpenSession is returned by draft mutations when no dropdown is open
	ErrNoOpenSession = errors.New("no filter dropdown is open")
	// ErrUnknownColumn is returned when opening a column the schema lacks
	ErrUnknownColumn = errors.New("unknown column")
)

// BrandLookup supplies the brands an account may filter by
type BrandLookup interface {
	BrandsFor(account string) []string
}

// Section identifies the expanded part of a dropdown. UI-only.
type Section int

const (
	SectionValues Section = iota
	SectionBrands
	SectionCondition
)

// Draft is the scratch copy of a column filter while its dropdown is open.
// SearchTerm and Expanded never reach the committed filter.
type Draft struct {
	Values    models.ValueSet
	Brands    models.ValueSet
	Condition models.Condition

	SearchTerm string
	Expanded   Section
}

// Session is one open dropdown
type Session struct {
	Column        models.ColumnMeta
	Available     []string
	AllowedBrands []string
	Draft         Draft
}

// BrandTier reports whether the session offers brand filtering
func (s *Session) BrandTier() bool {
	return s.Column.BrandAware && len(s.AllowedBrands) > 0
}

// Controller owns the committed filters and sort of one table and at most
// one open dropdown session.
type Controller struct {
	schema  models.TableSchema
	brands  BrandLookup
	account string

	filters models.Filters
	sort    models.SortDescriptor
	open    *Session
}

// NewController creates a controller for a table. brands may be nil when
// the table has no brand-aware column.
func NewController(schema models.TableSchema, brands BrandLookup, account string) *Controller {
	return &Controller{
		schema:  schema,
		brands:  brands,
		account: account,
		filters: models.Filters{},
	}
}

// SetAccount changes the account whose brands seed new sessions
func (c *Controller) SetAccount(account string) {
	c.account = account
}

// Account returns the current account
func (c *Controller) Account() string {
	return c.account
}

// Open starts a dropdown session for column, implicitly discarding any
// other open session. available lists every value currently present in the
// column; a column without a committed filter starts with all of them
// selected.
func (c *Controller) Open(column string, available []string) error {
	meta, ok := c.schema.Column(column)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	c.open = nil

	s := &Session{
		Column:    meta,
		Available: append([]string(nil), available...),
	}
	if meta.BrandAware && c.brands != nil {
		s.AllowedBrands = c.brands.BrandsFor(c.account)
	}

	d := Draft{
		Values:    models.Only(s.Available...),
		Brands:    models.NoRestriction(),
		Condition: models.Condition{Type: models.CondNone},
		Expanded:  SectionValues,
	}
	if s.BrandTier() {
		d.Brands = models.Only(s.AllowedBrands...)
	}

	if f, ok := c.filters[column]; ok {
		if f.Values.IsRestricted() {
			d.Values = f.Values.Clone()
		}
		if s.BrandTier() && f.Brands.IsRestricted() {
			d.Brands = f.Brands.Clone()
		}
		if f.Condition != nil {
			d.Condition = *f.Condition
		}
	}

	s.Draft = d
	c.open = s
	return nil
}

// Session returns a snapshot of the open session
func (c *Controller) Session() (Session, bool) {
	if c.open == nil {
		return Session{}, false
	}
	out := *c.open
	out.Available = slices.Clone(c.open.Available)
	out.AllowedBrands = slices.Clone(c.open.AllowedBrands)
	return out, true
}

// OpenColumn returns the column whose dropdown is open
func (c *Controller) OpenColumn() (string, bool) {
	if c.open == nil {
		return "", false
	}
	return c.open.Column.Key, true
}

// ToggleValue checks or unchecks one value
func (c *Controller) ToggleValue(v string) error {
	return c.mutate(func(s *Session) {
		s.Draft.Values = s.Draft.Values.Toggle(v)
	})
}

// SelectAllValues checks every available value
func (c *Controller) SelectAllValues() error {
	return c.mutate(func(s *Session) {
		s.Draft.Values = models.Only(s.Available...)
	})
}

// ClearAllValues unchecks every value. Applying this excludes every row.
func (c *Controller) ClearAllValues() error {
	return c.mutate(func(s *Session) {
		s.Draft.Values = models.Only()
	})
}

// ToggleBrand checks or unchecks one brand. A no-op without a brand tier.
func (c *Controller) ToggleBrand(b string) error {
	return c.mutate(func(s *Session) {
		if s.BrandTier() {
			s.Draft.Brands = s.Draft.Brands.Toggle(b)
		}
	})
}

// SelectAllBrands checks every allowed brand
func (c *Controller) SelectAllBrands() error {
	return c.mutate(func(s *Session) {
		if s.BrandTier() {
			s.Draft.Brands = models.Only(s.AllowedBrands...)
		}
	})
}

// ClearAllBrands unchecks every brand
func (c *Controller) ClearAllBrands() error {
	return c.mutate(func(s *Session) {
		if s.BrandTier() {
			s.Draft.Brands = models.Only()
		}
	})
}

// SetConditionType sets the draft condition type
func (c *Controller) SetConditionType(t models.ConditionType) error {
	return c.mutate(func(s *Session) {
		s.Draft.Condition.Type = t
	})
}

// SetConditionValue sets the draft condition value
func (c *Controller) SetConditionValue(v string) error {
	return c.mutate(func(s *Session) {
		s.Draft.Condition.Value = v
	})
}

// SetSearchTerm sets the dropdown's value-list search text
func (c *Controller) SetSearchTerm(term string) error {
	return c.mutate(func(s *Session) {
		s.Draft.SearchTerm = term
	})
}

// Expand switches the expanded dropdown section
func (c *Controller) Expand(section Section) error {
	return c.mutate(func(s *Session) {
		s.Draft.Expanded = section
	})
}

// Apply commits the normalized draft and closes the session
func (c *Controller) Apply() error {
	if c.open == nil {
		return ErrNoOpenSession
	}
	c.commit(c.open)
	c.open = nil
	return nil
}

// SortClick commits a sort on the open column, commits the pending draft
// the same way Apply does, and closes the session. SortNone clears the
// sort when it is on this column.
func (c *Controller) SortClick(order models.SortOrder) error {
	if c.open == nil {
		return ErrNoOpenSession
	}
	col := c.open.Column.Key
	if order == models.SortNone {
		if c.sort.Field == col {
			c.sort = models.SortDescriptor{}
		}
	} else {
		c.sort = models.SortDescriptor{Field: col, Order: order}
	}
	c.commit(c.open)
	c.open = nil
	return nil
}

// Reset removes the open column's filter and its sort, then closes
func (c *Controller) Reset() error {
	if c.open == nil {
		return ErrNoOpenSession
	}
	c.ResetColumn(c.open.Column.Key)
	c.open = nil
	return nil
}

// Close discards the open session without touching committed state
func (c *Controller) Close() {
	c.open = nil
}

// ResetColumn removes a column's filter and any sort on it
func (c *Controller) ResetColumn(column string) {
	delete(c.filters, column)
	if c.sort.Field == column {
		c.sort = models.SortDescriptor{}
	}
}

// SetSort replaces the sort directly, e.g. from a column header
func (c *Controller) SetSort(sort models.SortDescriptor) {
	if !sort.IsActive() {
		sort = models.SortDescriptor{}
	}
	c.sort = sort
}

// Sort returns the committed sort
func (c *Controller) Sort() models.SortDescriptor {
	return c.sort
}

// SortOrder returns the sort indicator for a column
func (c *Controller) SortOrder(column string) models.SortOrder {
	if c.sort.Field == column {
		return c.sort.Order
	}
	return models.SortNone
}

// Filters returns a copy of the committed filters
func (c *Controller) Filters() models.Filters {
	return c.filters.Clone()
}

// Filter returns the committed filter for a column
func (c *Controller) Filter(column string) (models.ColumnFilter, bool) {
	f, ok := c.filters[column]
	if !ok {
		return models.ColumnFilter{}, false
	}
	return f.Clone(), true
}

// IsFiltered is the header filter indicator: a committed filter exists and
// is not fully permissive.
func (c *Controller) IsFiltered(column string) bool {
	f, ok := c.filters[column]
	return ok && !f.IsVacuous()
}

// Load replaces filters and sort from a saved descriptor and closes any
// open session. Vacuous entries are dropped.
func (c *Controller) Load(d models.FilterDescriptor) {
	c.open = nil
	c.filters = models.Filters{}
	for col, f := range d.Filters {
		if !f.IsVacuous() {
			c.filters[col] = f.Clone()
		}
	}
	c.SetSort(d.Sort)
}

func (c *Controller) mutate(fn func(s *Session)) error {
	if c.open == nil {
		return ErrNoOpenSession
	}
	fn(c.open)
	return nil
}

// commit stores the normalized draft of s, or removes the column's filter
// when the draft restricts nothing
func (c *Controller) commit(s *Session) {
	f := models.ColumnFilter{
		Values: s.Draft.Values.Normalize(s.Available),
		Brands: models.NoRestriction(),
	}
	if s.BrandTier() {
		f.Brands = s.Draft.Brands.Normalize(s.AllowedBrands)
	}
	cond := s.Draft.Condition
	if !cond.IsVacuous() {
		f.Condition = &cond
	}

	col := s.Column.Key
	if f.IsVacuous() {
		delete(c.filters, col)
		return
	}
	c.filters[col] = f
}
