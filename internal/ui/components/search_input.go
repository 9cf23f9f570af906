package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// SearchChangedMsg is sent on every edit so the grid filters as you type
type SearchChangedMsg struct {
	Query string
}

// CloseSearchMsg is sent when the search box closes. Keep tells the app
// whether the current term stays applied.
type CloseSearchMsg struct {
	Keep bool
}

// SearchInput is the free-text search box above the table
type SearchInput struct {
	Input   textinput.Model
	Theme   theme.Theme
	Width   int
	Visible bool

	original string
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search rows..."
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Theme: th,
	}
}

// Open shows the box seeded with the term currently applied
func (s *SearchInput) Open(current string) tea.Cmd {
	s.original = current
	s.Input.SetValue(current)
	s.Input.CursorEnd()
	s.Visible = true
	return s.Input.Focus()
}

// Reset clears the search input
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.original = ""
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			s.close()
			return s, func() tea.Msg {
				return CloseSearchMsg{Keep: true}
			}
		case "esc":
			// Esc restores whatever was applied before the box opened
			restore := s.original
			s.Input.SetValue(restore)
			s.close()
			return s, tea.Batch(
				func() tea.Msg { return SearchChangedMsg{Query: restore} },
				func() tea.Msg { return CloseSearchMsg{} },
			)
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if after := s.Input.Value(); after != before {
		return s, tea.Batch(cmd, func() tea.Msg {
			return SearchChangedMsg{Query: after}
		})
	}
	return s, cmd
}

func (s *SearchInput) close() {
	s.Visible = false
	s.Input.Blur()
}

// View renders the search input
func (s *SearchInput) View() string {
	inputWidth := s.Width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Muted).
		Italic(true)

	helpText := helpStyle.Render("Enter: keep │ Esc: cancel")
	return boxStyle.Render(s.Input.View() + "\n" + helpText)
}
