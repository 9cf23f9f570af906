package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rebelice/opsgrid/internal/models"
)

// Engine filters, searches and sorts rows of one table. It is not safe for
// concurrent use: the collator keeps scratch buffers.
type Engine struct {
	schema   models.TableSchema
	collator *collate.Collator
}

// Option configures an Engine
type Option func(*Engine)

// WithLocale sets the collation locale used for text sorting
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.collator = collate.New(tag)
	}
}

// NewEngine creates an engine for the given schema
func NewEngine(schema models.TableSchema, opts ...Option) *Engine {
	e := &Engine{
		schema:   schema,
		collator: collate.New(language.English),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schema returns the table schema the engine was built for
func (e *Engine) Schema() models.TableSchema {
	return e.schema
}

// Apply returns the rows that pass search and filters, ordered by sort.
// The input slice and its rows are left untouched.
func (e *Engine) Apply(rows []models.Row, search string, filters models.Filters, sort models.SortDescriptor) []models.Row {
	out := e.filter(rows, search, filters)
	if sort.IsActive() {
		slices.SortStableFunc(out, e.comparator(sort))
	}
	return out
}

// CaptureOrder sorts all rows by sort and returns their IDs in that order.
// The result feeds ApplyOrdered, which keeps the order fixed while row
// values change underneath it.
func (e *Engine) CaptureOrder(rows []models.Row, sort models.SortDescriptor) []string {
	sorted := e.Apply(rows, "", nil, sort)
	ids := make([]string, len(sorted))
	for i, r := range sorted {
		ids[i] = r.ID
	}
	return ids
}

// ApplyOrdered filters like Apply but orders the survivors by a previously
// captured ID order. Rows missing from order go last in input order.
func (e *Engine) ApplyOrdered(rows []models.Row, search string, filters models.Filters, order []string) []models.Row {
	return Project(e.filter(rows, search, filters), order)
}

// Project reorders rows to follow order. Rows whose ID is not in order keep
// their relative input order after all captured rows.
func Project(rows []models.Row, order []string) []models.Row {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := pos[id]; !dup {
			pos[id] = i
		}
	}
	rank := func(r models.Row) int {
		if p, ok := pos[r.ID]; ok {
			return p
		}
		return len(order)
	}

	out := slices.Clone(rows)
	if out == nil {
		out = []models.Row{}
	}
	slices.SortStableFunc(out, func(a, b models.Row) int {
		return cmp.Compare(rank(a), rank(b))
	})
	return out
}

// Matches reports whether one row passes one column filter
func (e *Engine) Matches(row models.Row, column string, f models.ColumnFilter) bool {
	raw, _ := row.Get(column)
	s := ToString(raw)

	if !f.Values.Accepts(s) {
		return false
	}
	if !MatchesBrands(s, f.Brands) {
		return false
	}
	return Evaluate(f.Condition, raw, e.schema.KindOf(column))
}

func (e *Engine) filter(rows []models.Row, search string, filters models.Filters) []models.Row {
	out := make([]models.Row, 0, len(rows))
	term := strings.ToLower(strings.TrimSpace(search))
	searchCols := e.schema.SearchColumns()
	active := filters.Active()

	for _, r := range rows {
		if term != "" && !matchesSearch(r, searchCols, term) {
			continue
		}
		if !e.matchesAll(r, filters, active) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) matchesAll(r models.Row, filters models.Filters, active []string) bool {
	for _, col := range active {
		if !e.Matches(r, col, filters[col]) {
			return false
		}
	}
	return true
}

func matchesSearch(r models.Row, columns []string, term string) bool {
	for _, col := range columns {
		raw, ok := r.Get(col)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(ToString(raw)), term) {
			return true
		}
	}
	return false
}

// comparator returns the three-way comparison for sort. Descending simply
// negates it, so a stable sort keeps ties in input order both ways.
func (e *Engine) comparator(sort models.SortDescriptor) func(a, b models.Row) int {
	field := sort.Field
	kind := e.schema.KindOf(field)

	base := func(a, b models.Row) int {
		av, _ := a.Get(field)
		bv, _ := b.Get(field)
		return e.compare(kind, av, bv)
	}

	if sort.Order == models.SortDesc {
		return func(a, b models.Row) int {
			return -base(a, b)
		}
	}
	return base
}

// CompareValues orders two raw values of a column the way sorting does
func (e *Engine) CompareValues(column string, a, b any) int {
	return e.compare(e.schema.KindOf(column), a, b)
}

func (e *Engine) compare(kind models.ColumnKind, a, b any) int {
	if kind == models.KindNumeric {
		return cmp.Compare(ToNumber(a), ToNumber(b))
	}
	return e.collator.CompareString(strings.ToLower(ToString(a)), strings.ToLower(ToString(b)))
}
