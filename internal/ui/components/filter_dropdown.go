package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/opsgrid/internal/draft"
	"github.com/rebelice/opsgrid/internal/filter"
	"github.com/rebelice/opsgrid/internal/grid"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// FilterAppliedMsg is sent after the dropdown committed filter or sort state
type FilterAppliedMsg struct {
	Column string
}

// CloseFilterDropdownMsg is sent when the dropdown closed without changes
type CloseFilterDropdownMsg struct{}

// FilterDropdown edits the draft filter of one column. All state lives in
// the table's draft controller; the dropdown only keeps cursor and focus.
type FilterDropdown struct {
	Width  int
	Height int
	Theme  theme.Theme

	table *grid.Table

	cursor    int
	offset    int
	search    textinput.Model
	condValue textinput.Model
	focus     dropdownFocus
	err       string
}

type dropdownFocus int

const (
	focusList dropdownFocus = iota
	focusSearch
	focusConditionValue
)

// NewFilterDropdown creates a dropdown bound to table
func NewFilterDropdown(th theme.Theme, table *grid.Table) *FilterDropdown {
	search := textinput.New()
	search.Placeholder = "search values (! negates, = exact, ^ prefix)"
	search.CharLimit = 128

	cond := textinput.New()
	cond.Placeholder = "value, or min-max for ranges"
	cond.CharLimit = 64

	return &FilterDropdown{
		Width:     48,
		Height:    20,
		Theme:     th,
		table:     table,
		search:    search,
		condValue: cond,
	}
}

// Open starts a dropdown session on column
func (fd *FilterDropdown) Open(column string) error {
	if err := fd.table.OpenFilter(column); err != nil {
		return err
	}
	fd.cursor, fd.offset = 0, 0
	fd.focus = focusList
	fd.err = ""
	fd.search.SetValue("")
	fd.search.Blur()
	fd.condValue.Blur()
	if s, ok := fd.session(); ok {
		fd.condValue.SetValue(s.Draft.Condition.Value)
	}
	return nil
}

// SetTable rebinds the dropdown after the table was rebuilt
func (fd *FilterDropdown) SetTable(table *grid.Table) {
	fd.table = table
	fd.err = ""
}

// Column returns the column being edited
func (fd *FilterDropdown) Column() (string, bool) {
	return fd.table.Controller().OpenColumn()
}

func (fd *FilterDropdown) ctrl() *draft.Controller {
	return fd.table.Controller()
}

func (fd *FilterDropdown) session() (draft.Session, bool) {
	return fd.ctrl().Session()
}

// Update handles keyboard input
func (fd *FilterDropdown) Update(msg tea.KeyMsg) (*FilterDropdown, tea.Cmd) {
	s, ok := fd.session()
	if !ok {
		return fd, nil
	}

	switch fd.focus {
	case focusSearch:
		return fd.handleSearch(msg)
	case focusConditionValue:
		return fd.handleConditionValue(msg)
	}

	col := s.Column.Key
	fd.err = ""

	switch msg.String() {
	case "esc", "q":
		fd.table.CloseFilter()
		return fd, func() tea.Msg { return CloseFilterDropdownMsg{} }
	case "enter":
		return fd.commit(col, fd.table.Apply())
	case "tab":
		fd.cycleSection(s, 1)
	case "shift+tab":
		fd.cycleSection(s, -1)
	case "up", "k":
		fd.moveCursor(-1)
	case "down", "j":
		fd.moveCursor(1)
	case "/":
		if s.Draft.Expanded != draft.SectionCondition {
			fd.focus = focusSearch
			return fd, fd.search.Focus()
		}
	case " ", "x":
		fd.toggleAtCursor(s)
	case "a":
		fd.report(fd.selectAll(s))
	case "n":
		fd.report(fd.clearAll(s))
	case "left", "h":
		if s.Draft.Expanded == draft.SectionCondition {
			fd.cycleCondition(s, -1)
		}
	case "right", "l":
		if s.Draft.Expanded == draft.SectionCondition {
			fd.cycleCondition(s, 1)
		}
	case "e":
		if s.Draft.Expanded == draft.SectionCondition {
			return fd.startConditionValue()
		}
	case "s":
		return fd.commit(col, fd.table.SortClick(models.SortAsc))
	case "S":
		return fd.commit(col, fd.table.SortClick(models.SortDesc))
	case "o":
		return fd.commit(col, fd.table.SortClick(models.SortNone))
	case "r":
		return fd.commit(col, fd.table.Reset())
	}
	return fd, nil
}

func (fd *FilterDropdown) commit(column string, err error) (*FilterDropdown, tea.Cmd) {
	if err != nil {
		fd.err = err.Error()
		return fd, nil
	}
	return fd, func() tea.Msg { return FilterAppliedMsg{Column: column} }
}

func (fd *FilterDropdown) report(err error) {
	if err != nil {
		fd.err = err.Error()
	}
}

func (fd *FilterDropdown) handleSearch(msg tea.KeyMsg) (*FilterDropdown, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "down":
		fd.focus = focusList
		fd.search.Blur()
		return fd, nil
	}
	var cmd tea.Cmd
	fd.search, cmd = fd.search.Update(msg)
	fd.report(fd.ctrl().SetSearchTerm(fd.search.Value()))
	fd.cursor, fd.offset = 0, 0
	return fd, cmd
}

func (fd *FilterDropdown) startConditionValue() (*FilterDropdown, tea.Cmd) {
	fd.focus = focusConditionValue
	return fd, fd.condValue.Focus()
}

func (fd *FilterDropdown) handleConditionValue(msg tea.KeyMsg) (*FilterDropdown, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fd.focus = focusList
		fd.condValue.Blur()
		return fd, nil
	case "enter":
		fd.focus = focusList
		fd.condValue.Blur()
		fd.report(fd.ctrl().SetConditionValue(fd.condValue.Value()))
		return fd, nil
	}
	var cmd tea.Cmd
	fd.condValue, cmd = fd.condValue.Update(msg)
	fd.report(fd.ctrl().SetConditionValue(fd.condValue.Value()))
	return fd, cmd
}

func (fd *FilterDropdown) sections(s draft.Session) []draft.Section {
	if s.BrandTier() {
		return []draft.Section{draft.SectionValues, draft.SectionBrands, draft.SectionCondition}
	}
	return []draft.Section{draft.SectionValues, draft.SectionCondition}
}

func (fd *FilterDropdown) cycleSection(s draft.Session, delta int) {
	secs := fd.sections(s)
	idx := 0
	for i, sec := range secs {
		if sec == s.Draft.Expanded {
			idx = i
		}
	}
	idx = (idx + delta + len(secs)) % len(secs)
	fd.report(fd.ctrl().Expand(secs[idx]))
	fd.cursor, fd.offset = 0, 0
}

// listItems returns the visible entries of the expanded list section
func (fd *FilterDropdown) listItems(s draft.Session) []ValueMatch {
	q := ParseValueQuery(s.Draft.SearchTerm)
	switch s.Draft.Expanded {
	case draft.SectionBrands:
		return FilterValues(s.AllowedBrands, q)
	case draft.SectionValues:
		return FilterValues(s.Available, q)
	}
	return nil
}

func (fd *FilterDropdown) moveCursor(delta int) {
	s, ok := fd.session()
	if !ok {
		return
	}
	n := len(fd.listItems(s))
	if s.Draft.Expanded == draft.SectionCondition {
		n = 1
	}
	fd.cursor += delta
	if fd.cursor >= n {
		fd.cursor = n - 1
	}
	if fd.cursor < 0 {
		fd.cursor = 0
	}
	rows := fd.listHeight()
	if fd.cursor < fd.offset {
		fd.offset = fd.cursor
	}
	if fd.cursor >= fd.offset+rows {
		fd.offset = fd.cursor - rows + 1
	}
}

func (fd *FilterDropdown) toggleAtCursor(s draft.Session) {
	items := fd.listItems(s)
	if fd.cursor < 0 || fd.cursor >= len(items) {
		return
	}
	v := items[fd.cursor].Value
	switch s.Draft.Expanded {
	case draft.SectionValues:
		fd.report(fd.ctrl().ToggleValue(v))
	case draft.SectionBrands:
		fd.report(fd.ctrl().ToggleBrand(v))
	}
}

func (fd *FilterDropdown) selectAll(s draft.Session) error {
	if s.Draft.Expanded == draft.SectionBrands {
		return fd.ctrl().SelectAllBrands()
	}
	return fd.ctrl().SelectAllValues()
}

func (fd *FilterDropdown) clearAll(s draft.Session) error {
	if s.Draft.Expanded == draft.SectionBrands {
		return fd.ctrl().ClearAllBrands()
	}
	return fd.ctrl().ClearAllValues()
}

func (fd *FilterDropdown) cycleCondition(s draft.Session, delta int) {
	types := filter.ConditionsForKind(s.Column.Kind)
	idx := 0
	for i, t := range types {
		if t == s.Draft.Condition.Type {
			idx = i
		}
	}
	idx = (idx + delta + len(types)) % len(types)
	fd.report(fd.ctrl().SetConditionType(types[idx]))
}

func (fd *FilterDropdown) listHeight() int {
	h := fd.Height - 10
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the dropdown
func (fd *FilterDropdown) View() string {
	s, ok := fd.session()
	if !ok {
		return ""
	}

	var sections []string

	title := fmt.Sprintf("Filter: %s", s.Column.Title())
	if order := fd.table.SortOrder(s.Column.Key); order != models.SortNone {
		title += fmt.Sprintf(" (sorted %s)", order)
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(fd.Theme.Background).
		Background(fd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render(title))

	sections = append(sections, fd.renderTabs(s))

	switch s.Draft.Expanded {
	case draft.SectionCondition:
		sections = append(sections, fd.renderCondition(s))
	default:
		sections = append(sections, fd.search.View())
		sections = append(sections, fd.renderList(s))
	}

	if fd.err != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(fd.Theme.Error).Bold(true).Render("Error: "+fd.err))
	}

	help := "space toggle · a all · n none · / search · tab section\nenter apply · s/S sort · o unsort · r reset · esc close"
	sections = append(sections, lipgloss.NewStyle().Foreground(fd.Theme.Muted).Render(help))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fd.Theme.BorderFocused).
		Padding(0, 1).
		Width(fd.Width).
		Render(strings.Join(sections, "\n"))
}

func (fd *FilterDropdown) renderTabs(s draft.Session) string {
	names := map[draft.Section]string{
		draft.SectionValues:    fmt.Sprintf("Values %d/%d", selectedCount(s.Draft.Values, s.Available), len(s.Available)),
		draft.SectionBrands:    fmt.Sprintf("Brands %d/%d", selectedCount(s.Draft.Brands, s.AllowedBrands), len(s.AllowedBrands)),
		draft.SectionCondition: "Condition",
	}
	var tabs []string
	for _, sec := range fd.sections(s) {
		st := lipgloss.NewStyle().Padding(0, 1).Foreground(fd.Theme.Muted)
		if sec == s.Draft.Expanded {
			st = st.Foreground(fd.Theme.Foreground).Background(fd.Theme.Selection).Bold(true)
		}
		tabs = append(tabs, st.Render(names[sec]))
	}
	return strings.Join(tabs, " ")
}

func (fd *FilterDropdown) renderList(s draft.Session) string {
	items := fd.listItems(s)
	set := s.Draft.Values
	if s.Draft.Expanded == draft.SectionBrands {
		set = s.Draft.Brands
	}
	if len(items) == 0 {
		return lipgloss.NewStyle().Foreground(fd.Theme.Muted).Italic(true).Render("  (no values)")
	}

	end := fd.offset + fd.listHeight()
	if end > len(items) {
		end = len(items)
	}

	var lines []string
	for i := fd.offset; i < end; i++ {
		item := items[i]
		box := lipgloss.NewStyle().Foreground(fd.Theme.Unchecked).Render("[ ]")
		if set.Accepts(item.Value) {
			box = lipgloss.NewStyle().Foreground(fd.Theme.Checked).Render("[x]")
		}
		label := fd.highlight(displayValue(item.Value), item.Positions)
		line := fmt.Sprintf("%s %s", box, label)
		if i == fd.cursor {
			line = lipgloss.NewStyle().Background(fd.Theme.Selection).Render("›" + line)
		} else {
			line = " " + line
		}
		lines = append(lines, line)
	}
	if len(items) > end || fd.offset > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(fd.Theme.Muted).Render(
			fmt.Sprintf("  %d-%d of %d", fd.offset+1, end, len(items))))
	}
	return strings.Join(lines, "\n")
}

func (fd *FilterDropdown) renderCondition(s draft.Session) string {
	types := filter.ConditionsForKind(s.Column.Kind)
	var opts []string
	for _, t := range types {
		st := lipgloss.NewStyle().Foreground(fd.Theme.Muted)
		if t == s.Draft.Condition.Type {
			st = lipgloss.NewStyle().Foreground(fd.Theme.Foreground).Background(fd.Theme.Selection).Bold(true)
		}
		opts = append(opts, st.Render(filter.ConditionLabel(t)))
	}

	lines := []string{
		"Operator (←/→): " + strings.Join(opts, " "),
		"Value (e to edit): " + fd.condValue.View(),
	}
	if t := s.Draft.Condition.Type; t == models.CondBetween || t == models.CondNotBetween {
		r := filter.ParseRange(s.Draft.Condition.Value)
		hint := "open range, matches everything"
		switch {
		case r.HasMin && r.HasMax:
			hint = fmt.Sprintf("from %g to %g inclusive", r.Min, r.Max)
		case r.HasMin:
			hint = fmt.Sprintf("at least %g", r.Min)
		case r.HasMax:
			hint = fmt.Sprintf("at most %g", r.Max)
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(fd.Theme.Muted).Italic(true).Render("  "+hint))
	}
	return strings.Join(lines, "\n")
}

func (fd *FilterDropdown) highlight(s string, positions []int) string {
	if len(positions) == 0 {
		return s
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	hl := lipgloss.NewStyle().Foreground(fd.Theme.Match).Bold(true)
	var b strings.Builder
	for i, r := range []rune(s) {
		if marked[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func selectedCount(set models.ValueSet, universe []string) int {
	n := 0
	for _, v := range universe {
		if set.Accepts(v) {
			n++
		}
	}
	return n
}

func displayValue(v string) string {
	if v == "" {
		return "(blank)"
	}
	return v
}
