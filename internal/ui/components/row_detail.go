package components

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"github.com/rebelice/opsgrid/internal/filter"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// RowDetail shows every column of the selected row as wrapped key/value
// lines below the table
type RowDetail struct {
	Width     int
	MaxHeight int
	Visible   bool
	Theme     theme.Theme

	columns []models.ColumnMeta
	row     models.Row
	hasRow  bool

	scrollY int
	lines   []string
	style   lipgloss.Style
}

// NewRowDetail creates a hidden row detail pane
func NewRowDetail(th theme.Theme) *RowDetail {
	return &RowDetail{
		Width:     80,
		MaxHeight: 12,
		Theme:     th,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
}

// SetRow sets the row to display. The formatted lines are rebuilt only
// when the row changes.
func (p *RowDetail) SetRow(columns []models.ColumnMeta, row models.Row, ok bool) {
	if ok && p.hasRow && row.ID == p.row.ID && sameValues(row, p.row) && len(columns) == len(p.columns) {
		return
	}
	p.columns = columns
	p.row = row
	p.hasRow = ok
	p.scrollY = 0
	p.lines = nil
}

func sameValues(a, b models.Row) bool {
	if len(a.Values) != len(b.Values) {
		return false
	}
	for k, v := range a.Values {
		if filter.ToString(b.Values[k]) != filter.ToString(v) {
			return false
		}
	}
	return true
}

// Toggle shows or hides the pane
func (p *RowDetail) Toggle() {
	p.Visible = !p.Visible
	if !p.Visible {
		p.lines = nil
	}
}

// Height returns the rendered height including borders, 0 when hidden
func (p *RowDetail) Height() int {
	if !p.Visible {
		return 0
	}
	return p.MaxHeight
}

// Text returns the row as "label: value" lines without wrapping
func (p *RowDetail) Text() string {
	if !p.hasRow {
		return ""
	}
	var b strings.Builder
	for _, col := range p.columns {
		raw, _ := p.row.Get(col.Key)
		b.WriteString(col.Title())
		b.WriteString(": ")
		b.WriteString(filter.ToString(raw))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// CopyContent copies the row text to the clipboard
func (p *RowDetail) CopyContent() error {
	return clipboard.WriteAll(p.Text())
}

// ScrollUp scrolls content up
func (p *RowDetail) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *RowDetail) ScrollDown() {
	maxScroll := len(p.lines) - p.bodyHeight()
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

func (p *RowDetail) bodyHeight() int {
	h := p.MaxHeight - p.style.GetVerticalFrameSize() - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (p *RowDetail) format() {
	p.lines = []string{}
	if !p.hasRow {
		return
	}
	width := p.Width - p.style.GetHorizontalFrameSize()
	if width < 20 {
		width = 20
	}

	labelWidth := 0
	for _, col := range p.columns {
		if w := runewidth.StringWidth(col.Title()); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > width/3 {
		labelWidth = width / 3
	}
	valueWidth := width - labelWidth - 2

	for _, col := range p.columns {
		raw, _ := p.row.Get(col.Key)
		value := prettyValue(filter.ToString(raw))
		label := runewidth.FillRight(runewidth.Truncate(col.Title(), labelWidth, "…"), labelWidth)
		indent := strings.Repeat(" ", labelWidth+2)

		for i, line := range wrapText(value, valueWidth) {
			if i == 0 {
				p.lines = append(p.lines, label+": "+line)
			} else {
				p.lines = append(p.lines, indent+line)
			}
		}
	}
}

// prettyValue indents JSON objects and arrays, leaving everything else as is
func prettyValue(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return s
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}

// wrapText wraps text to fit within maxWidth display cells
func wrapText(text string, maxWidth int) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}
		var current strings.Builder
		currentWidth := 0
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if currentWidth+rw > maxWidth {
				result = append(result, current.String())
				current.Reset()
				currentWidth = 0
			}
			current.WriteRune(r)
			currentWidth += rw
		}
		if current.Len() > 0 {
			result = append(result, current.String())
		}
	}
	return result
}

// View renders the pane
func (p *RowDetail) View() string {
	if !p.Visible {
		return ""
	}
	if p.lines == nil {
		p.format()
	}

	width := p.Width - p.style.GetHorizontalFrameSize()
	titleStyle := lipgloss.NewStyle().Foreground(p.Theme.Info).Bold(true)
	header := titleStyle.Render("Row")
	if p.hasRow {
		header = titleStyle.Render("Row " + p.row.ID)
	}

	parts := []string{header}
	end := p.scrollY + p.bodyHeight()
	if end > len(p.lines) {
		end = len(p.lines)
	}
	contentStyle := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	for _, line := range p.lines[p.scrollY:end] {
		parts = append(parts, contentStyle.Render(runewidth.Truncate(line, width, "…")))
	}
	if !p.hasRow {
		parts = append(parts, lipgloss.NewStyle().Foreground(p.Theme.Muted).Render("No row selected"))
	}

	helpText := "Shift+↑↓: Scroll │ Shift+C: Copy │ Enter: Hide"
	helpStyle := lipgloss.NewStyle().Foreground(p.Theme.Muted).Italic(true)
	pad := width - runewidth.StringWidth(helpText)
	if pad < 0 {
		pad = 0
	}
	parts = append(parts, strings.Repeat(" ", pad)+helpStyle.Render(helpText))

	inner := p.MaxHeight - p.style.GetVerticalFrameSize()
	if inner < 3 {
		inner = 3
	}
	return p.style.
		BorderForeground(p.Theme.Border).
		Width(width).
		Height(inner).
		MaxHeight(inner + p.style.GetVerticalFrameSize()).
		Render(strings.Join(parts, "\n"))
}
