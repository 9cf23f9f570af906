package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/opsgrid/internal/filter"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// ColumnMarker is the header state of one column
type ColumnMarker struct {
	Filtered bool
	Sort     models.SortOrder
}

// TableView displays rows with virtual scrolling and a column cursor
type TableView struct {
	Columns []models.ColumnMeta
	Rows    []models.Row
	Markers map[string]ColumnMarker
	Width   int
	Height  int
	Theme   theme.Theme

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int
	LeftCol     int
	TotalRows   int // before filtering

	// Column widths (calculated)
	ColumnWidths []int
}

const (
	maxColumnWidth = 40
	minColumnWidth = 6
)

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:   th,
		Markers: map[string]ColumnMarker{},
	}
}

// SetData sets the rows to display. The selection is clamped, not reset,
// so a filter change keeps the cursor close to where it was.
func (tv *TableView) SetData(columns []models.ColumnMeta, rows []models.Row, totalRows int) {
	tv.Columns = columns
	tv.Rows = rows
	tv.TotalRows = totalRows
	tv.calculateColumnWidths()
	tv.clamp()
}

// SelectedColumn returns the column under the cursor
func (tv *TableView) SelectedColumn() (models.ColumnMeta, bool) {
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(tv.Columns) {
		return models.ColumnMeta{}, false
	}
	return tv.Columns[tv.SelectedCol], true
}

// SelectedRowData returns the row under the cursor
func (tv *TableView) SelectedRowData() (models.Row, bool) {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return models.Row{}, false
	}
	return tv.Rows[tv.SelectedRow], true
}

// calculateColumnWidths fits each column to its header and widest cell
func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	for i, col := range tv.Columns {
		// room for the filter and sort markers
		tv.ColumnWidths[i] = runewidth.StringWidth(col.Title()) + 2
	}

	for _, row := range tv.Rows {
		for i, col := range tv.Columns {
			raw, _ := row.Get(col.Key)
			if w := runewidth.StringWidth(cellText(raw)); w > tv.ColumnWidths[i] {
				tv.ColumnWidths[i] = w
			}
		}
	}

	for i := range tv.ColumnWidths {
		if tv.ColumnWidths[i] > maxColumnWidth {
			tv.ColumnWidths[i] = maxColumnWidth
		}
		if tv.ColumnWidths[i] < minColumnWidth {
			tv.ColumnWidths[i] = minColumnWidth
		}
	}
}

// View renders the table
func (tv *TableView) View() string {
	style := lipgloss.NewStyle().Width(tv.Width).Height(tv.Height)
	if len(tv.Columns) == 0 {
		return style.Render("No data")
	}

	var b strings.Builder
	last := tv.lastVisibleCol()

	b.WriteString(tv.renderHeader(last))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator(last))
	b.WriteString("\n")

	tv.VisibleRows = tv.Height - 3 // header + separator + status
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}

	if len(tv.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Muted).Italic(true).Render(" No rows match the current filters"))
	}
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(i, last))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tv.renderStatus())

	return style.Render(b.String())
}

// lastVisibleCol returns the last column index that fits from LeftCol
func (tv *TableView) lastVisibleCol() int {
	used := 1
	last := tv.LeftCol
	for i := tv.LeftCol; i < len(tv.Columns); i++ {
		used += tv.ColumnWidths[i] + 3
		if used > tv.Width && i > tv.LeftCol {
			break
		}
		last = i
	}
	return last
}

func (tv *TableView) renderHeader(last int) string {
	base := lipgloss.NewStyle().Bold(true).Foreground(tv.Theme.TableHeader).Background(tv.Theme.Selection)
	sep := base.Render(" │ ")

	var parts []string
	for i := tv.LeftCol; i <= last; i++ {
		col := tv.Columns[i]
		m := tv.Markers[col.Key]

		marker := ""
		switch m.Sort {
		case models.SortAsc:
			marker += "↑"
		case models.SortDesc:
			marker += "↓"
		}
		if m.Filtered {
			marker += "⧩"
		}

		title := runewidth.Truncate(col.Title(), tv.ColumnWidths[i]-runewidth.StringWidth(marker), "…")
		cell := pad(title+marker, tv.ColumnWidths[i])

		st := base
		switch {
		case i == tv.SelectedCol:
			st = st.Underline(true).Foreground(tv.Theme.Foreground)
		case m.Filtered:
			st = st.Foreground(tv.Theme.FilterActive)
		case m.Sort != models.SortNone:
			st = st.Foreground(tv.Theme.SortActive)
		}
		parts = append(parts, st.Render(cell))
	}
	return base.Render(" ") + strings.Join(parts, sep) + base.Render(" ")
}

func (tv *TableView) renderSeparator(last int) string {
	var parts []string
	for i := tv.LeftCol; i <= last; i++ {
		parts = append(parts, strings.Repeat("─", tv.ColumnWidths[i]))
	}
	return lipgloss.NewStyle().Foreground(tv.Theme.Border).Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(idx, last int) string {
	row := tv.Rows[idx]
	selected := idx == tv.SelectedRow

	var parts []string
	for i := tv.LeftCol; i <= last; i++ {
		col := tv.Columns[i]
		raw, _ := row.Get(col.Key)
		text := cellText(raw)

		st := lipgloss.NewStyle()
		switch {
		case raw == nil || text == "":
			st = st.Foreground(tv.Theme.Empty)
		case col.Kind == models.KindNumeric:
			st = st.Foreground(tv.Theme.Number)
		case col.Kind == models.KindDate:
			st = st.Foreground(tv.Theme.Date)
		}
		if selected && i == tv.SelectedCol {
			st = st.Reverse(true)
		}
		if col.Kind == models.KindNumeric {
			parts = append(parts, st.Render(padLeft(text, tv.ColumnWidths[i])))
		} else {
			parts = append(parts, st.Render(pad(text, tv.ColumnWidths[i])))
		}
	}

	line := " " + strings.Join(parts, " │ ") + " "
	if selected {
		return lipgloss.NewStyle().Background(tv.Theme.TableRowSelected).Bold(true).Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	shown := len(tv.Rows)
	var text string
	switch {
	case shown == 0:
		text = fmt.Sprintf(" 0 of %d rows", tv.TotalRows)
	case shown == tv.TotalRows:
		text = fmt.Sprintf(" row %d of %d", tv.SelectedRow+1, shown)
	default:
		text = fmt.Sprintf(" row %d of %d (filtered from %d)", tv.SelectedRow+1, shown, tv.TotalRows)
	}
	return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Italic(true).Render(text)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	tv.clamp()
}

// MoveColumn moves the column cursor left or right, scrolling horizontally
func (tv *TableView) MoveColumn(delta int) {
	tv.SelectedCol += delta
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
	if tv.SelectedCol >= len(tv.Columns) {
		tv.SelectedCol = len(tv.Columns) - 1
	}
	if tv.SelectedCol < tv.LeftCol {
		tv.LeftCol = tv.SelectedCol
	}
	for tv.LeftCol < tv.SelectedCol && tv.SelectedCol > tv.lastVisibleCol() {
		tv.LeftCol++
	}
}

// PageUp moves one screen up
func (tv *TableView) PageUp() {
	tv.SelectedRow -= tv.VisibleRows
	tv.clamp()
	tv.TopRow = tv.SelectedRow
}

// PageDown moves one screen down
func (tv *TableView) PageDown() {
	tv.SelectedRow += tv.VisibleRows
	tv.clamp()
	tv.TopRow = tv.SelectedRow
	if tv.TopRow+tv.VisibleRows > len(tv.Rows) {
		tv.TopRow = len(tv.Rows) - tv.VisibleRows
		if tv.TopRow < 0 {
			tv.TopRow = 0
		}
	}
}

// Home jumps to the first row
func (tv *TableView) Home() {
	tv.SelectedRow = 0
	tv.TopRow = 0
}

// End jumps to the last row
func (tv *TableView) End() {
	tv.SelectedRow = len(tv.Rows) - 1
	tv.clamp()
}

func (tv *TableView) clamp() {
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedCol >= len(tv.Columns) {
		tv.SelectedCol = len(tv.Columns) - 1
	}
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
	if tv.LeftCol > tv.SelectedCol {
		tv.LeftCol = tv.SelectedCol
	}

	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// cellText renders a raw value on one line
func cellText(raw any) string {
	s := filter.ToString(raw)
	return strings.NewReplacer("\n", "↵", "\t", " ").Replace(s)
}

func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillLeft(s, width)
}
