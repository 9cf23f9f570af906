package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color
	Muted         lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color

	// Column state markers
	FilterActive lipgloss.Color
	SortActive   lipgloss.Color

	// Cell values
	Number lipgloss.Color
	Date   lipgloss.Color
	Empty  lipgloss.Color

	// Dropdown
	Checked   lipgloss.Color
	Unchecked lipgloss.Color
	Brand     lipgloss.Color
	Match     lipgloss.Color
}

// Names lists the selectable themes
func Names() []string {
	return []string{"default", "catppuccin"}
}

// GetTheme returns a theme by name, falling back to the default
func GetTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
