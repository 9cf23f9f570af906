package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"r, F5", "Reload rows from the source"},
		{"t", "Cycle theme"},
	}
}

// GetNavigationKeys returns navigation key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k ↓/j", "Move row"},
		{"←/h →/l", "Move column"},
		{"PgUp/PgDn", "Page"},
		{"g/G", "First/last row"},
		{"Enter", "Toggle row detail"},
	}
}

// GetTableKeys returns the filter and sort key bindings
func GetTableKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search rows"},
		{"f", "Open column filter"},
		{"s", "Cycle sort on column"},
		{"x", "Reset column filter and sort"},
		{"Ctrl+R", "Clear all filters and sort"},
		{"z", "Freeze or unfreeze row order"},
		{"p", "Presets and popular filters"},
		{"c", "Copy cell"},
		{"Shift+C", "Copy row"},
		{"e / E", "Export visible rows to CSV / JSON"},
	}
}

// GetFilterKeys returns the filter dropdown key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"Tab", "Next section"},
		{"Space", "Toggle value or brand"},
		{"a / n", "Select all / none"},
		{"/", "Search values (!neg =exact ^prefix)"},
		{"←/→, e", "Condition type, edit value"},
		{"s / S / o", "Sort asc / desc / none"},
		{"r", "Reset column"},
		{"Enter / Esc", "Apply / discard"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Table", GetTableKeys()},
		{"Filter Dropdown", GetFilterKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("opsgrid - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, sec := range Sections() {
		b.WriteString(sectionStyle.Render(sec.Title))
		b.WriteString("\n")
		for _, kb := range sec.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
