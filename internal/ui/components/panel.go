package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// Panel is a bordered box with a title line
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// InnerHeight returns the lines left for content below the title
func (p *Panel) InnerHeight() int {
	h := p.Height
	if p.Title != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	border := p.Theme.Border
	if p.Focused {
		border = p.Theme.BorderFocused
	}
	style := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		MaxHeight(p.Height + 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	content := p.Content
	if p.Title != "" {
		title := runewidth.Truncate(p.Title, p.Width-2, "…")
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Theme.Info).Padding(0, 1)
		content = titleStyle.Render(title) + "\n" + content
	}

	return style.Render(content)
}
