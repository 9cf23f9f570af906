package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater
		Muted:         lipgloss.Color("#7f849c"), // Overlay1

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Table colors
		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowEven:     lipgloss.Color("#1e1e2e"), // Base
		TableRowOdd:      lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#313244"), // Surface0

		FilterActive: lipgloss.Color("#fab387"), // Peach
		SortActive:   lipgloss.Color("#74c7ec"), // Sapphire

		Number: lipgloss.Color("#fab387"), // Peach
		Date:   lipgloss.Color("#f2cdcd"), // Flamingo
		Empty:  lipgloss.Color("#6c7086"), // Overlay0

		Checked:   lipgloss.Color("#a6e3a1"), // Green
		Unchecked: lipgloss.Color("#6c7086"), // Overlay0
		Brand:     lipgloss.Color("#f5c2e7"), // Pink
		Match:     lipgloss.Color("#f9e2af"), // Yellow
	}
}
