package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),
		Muted:         lipgloss.Color("244"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Table colors
		TableHeader:      lipgloss.Color("62"),
		TableRowEven:     lipgloss.Color("235"),
		TableRowOdd:      lipgloss.Color("236"),
		TableRowSelected: lipgloss.Color("237"),

		FilterActive: lipgloss.Color("214"),
		SortActive:   lipgloss.Color("117"),

		Number: lipgloss.Color("150"),
		Date:   lipgloss.Color("180"),
		Empty:  lipgloss.Color("241"),

		Checked:   lipgloss.Color("42"),
		Unchecked: lipgloss.Color("244"),
		Brand:     lipgloss.Color("176"),
		Match:     lipgloss.Color("220"),
	}
}
