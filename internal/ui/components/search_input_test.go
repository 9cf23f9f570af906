package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestSearchInput_Typing(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.Open("")

	s, cmd := s.Update(runes("p"))
	if s.Input.Value() != "p" {
		t.Fatalf("expected value 'p', got %q", s.Input.Value())
	}
	if cmd == nil {
		t.Error("expected a change command")
	}
}

func TestSearchInput_EnterKeeps(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.Open("pend")

	s, cmd := s.Update(key(tea.KeyEnter))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if msg, ok := msgs[0].(CloseSearchMsg); !ok || !msg.Keep {
		t.Errorf("expected CloseSearchMsg{Keep: true}, got %#v", msgs[0])
	}
	if s.Visible {
		t.Error("expected search to be hidden")
	}
}

func TestSearchInput_EscRestores(t *testing.T) {
	s := NewSearchInput(theme.DefaultTheme())
	s.Open("pend")
	s.Input.SetValue("pending shipped")

	s, cmd := s.Update(key(tea.KeyEsc))
	var restored, closed bool
	for _, m := range collect(cmd) {
		switch msg := m.(type) {
		case SearchChangedMsg:
			restored = msg.Query == "pend"
		case CloseSearchMsg:
			closed = !msg.Keep
		}
	}
	if !restored {
		t.Error("expected the original term to be restored")
	}
	if !closed {
		t.Error("expected CloseSearchMsg without Keep")
	}
	if s.Input.Value() != "pend" {
		t.Errorf("expected input reset to 'pend', got %q", s.Input.Value())
	}
}
