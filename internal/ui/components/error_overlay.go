package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// ErrorOverlay is a centered box showing the last error
type ErrorOverlay struct {
	Title   string
	Message string
	Width   int
	Theme   theme.Theme
}

// NewErrorOverlay creates an error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Width: 60, Theme: th}
}

// SetError sets the title and message
func (e *ErrorOverlay) SetError(title, message string) {
	e.Title = title
	e.Message = message
}

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Error).
		Bold(true)
	msgStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Foreground).
		Width(e.Width - 4)
	helpStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Muted).
		Italic(true)

	parts := []string{
		titleStyle.Render("✗ " + e.Title),
		"",
		msgStyle.Render(strings.TrimSpace(e.Message)),
		"",
		helpStyle.Render("Esc/Enter: dismiss"),
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(strings.Join(parts, "\n"))
}
