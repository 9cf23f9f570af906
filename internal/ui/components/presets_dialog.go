package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebelice/opsgrid/internal/filter"
	"github.com/rebelice/opsgrid/internal/history"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// PresetsMode represents the dialog mode
type PresetsMode int

const (
	PresetsModeList PresetsMode = iota
	PresetsModeSave
)

// PresetsTab selects the list shown in list mode
type PresetsTab int

const (
	TabPresets PresetsTab = iota
	TabPopular
)

// ApplyDescriptorMsg is sent when a preset or popular entry is picked.
// PresetID is empty for history entries.
type ApplyDescriptorMsg struct {
	Descriptor models.FilterDescriptor
	PresetID   string
}

// SavePresetMsg asks the app to store the current descriptor under Name
type SavePresetMsg struct {
	Name        string
	Description string
}

// DeletePresetMsg asks the app to delete a preset
type DeletePresetMsg struct {
	ID string
}

// ForgetHistoryMsg asks the app to drop a popular entry
type ForgetHistoryMsg struct {
	ID int
}

// ClosePresetsDialogMsg is sent when dialog should close
type ClosePresetsDialogMsg struct{}

// PresetsDialog lists saved presets and the most used filters of a table
type PresetsDialog struct {
	Width  int
	Height int
	Theme  theme.Theme
	Schema models.TableSchema

	mode     PresetsMode
	tab      PresetsTab
	presets  []models.Preset
	popular  []history.Entry
	selected int
	offset   int

	nameInput textinput.Model
	descInput textinput.Model
	field     int
	err       string
}

// NewPresetsDialog creates a new presets dialog
func NewPresetsDialog(th theme.Theme) *PresetsDialog {
	name := textinput.New()
	name.Placeholder = "Preset name"
	name.CharLimit = 80
	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 200

	return &PresetsDialog{
		Width:     80,
		Height:    24,
		Theme:     th,
		nameInput: name,
		descInput: desc,
	}
}

// SetPresets replaces the preset list
func (d *PresetsDialog) SetPresets(presets []models.Preset) {
	d.presets = presets
	d.clamp()
}

// SetPopular replaces the popular filter list
func (d *PresetsDialog) SetPopular(entries []history.Entry) {
	d.popular = entries
	d.clamp()
}

// SetError shows an error line, e.g. a rejected preset name
func (d *PresetsDialog) SetError(err error) {
	if err == nil {
		d.err = ""
		return
	}
	d.err = err.Error()
}

// Tab returns the active tab
func (d *PresetsDialog) Tab() PresetsTab {
	return d.tab
}

// Mode returns the dialog mode
func (d *PresetsDialog) Mode() PresetsMode {
	return d.mode
}

// BeginSave switches to save mode with empty inputs
func (d *PresetsDialog) BeginSave() tea.Cmd {
	d.mode = PresetsModeSave
	d.err = ""
	d.field = 0
	d.nameInput.SetValue("")
	d.descInput.SetValue("")
	d.descInput.Blur()
	return d.nameInput.Focus()
}

func (d *PresetsDialog) count() int {
	if d.tab == TabPopular {
		return len(d.popular)
	}
	return len(d.presets)
}

func (d *PresetsDialog) clamp() {
	if d.selected >= d.count() {
		d.selected = d.count() - 1
	}
	if d.selected < 0 {
		d.selected = 0
	}
	if d.offset > d.selected {
		d.offset = d.selected
	}
}

func (d *PresetsDialog) pageSize() int {
	n := (d.Height - 8) / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Update handles keyboard input
func (d *PresetsDialog) Update(msg tea.KeyMsg) (*PresetsDialog, tea.Cmd) {
	if d.mode == PresetsModeSave {
		return d.handleSaveMode(msg)
	}
	return d.handleListMode(msg)
}

func (d *PresetsDialog) handleListMode(msg tea.KeyMsg) (*PresetsDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return d, func() tea.Msg { return ClosePresetsDialogMsg{} }
	case "tab", "shift+tab":
		if d.tab == TabPresets {
			d.tab = TabPopular
		} else {
			d.tab = TabPresets
		}
		d.selected, d.offset = 0, 0
		d.err = ""
	case "up", "k":
		if d.selected > 0 {
			d.selected--
			if d.selected < d.offset {
				d.offset = d.selected
			}
		}
	case "down", "j":
		if d.selected < d.count()-1 {
			d.selected++
			if d.selected >= d.offset+d.pageSize() {
				d.offset = d.selected - d.pageSize() + 1
			}
		}
	case "enter":
		return d, d.applySelected()
	case "a":
		return d, d.BeginSave()
	case "d", "x":
		return d, d.deleteSelected()
	}
	return d, nil
}

func (d *PresetsDialog) applySelected() tea.Cmd {
	if d.selected >= d.count() {
		return nil
	}
	if d.tab == TabPopular {
		desc := d.popular[d.selected].Descriptor
		return func() tea.Msg { return ApplyDescriptorMsg{Descriptor: desc} }
	}
	p := d.presets[d.selected]
	return func() tea.Msg {
		return ApplyDescriptorMsg{Descriptor: p.Descriptor, PresetID: p.ID}
	}
}

func (d *PresetsDialog) deleteSelected() tea.Cmd {
	if d.selected >= d.count() {
		return nil
	}
	if d.tab == TabPopular {
		id := d.popular[d.selected].ID
		return func() tea.Msg { return ForgetHistoryMsg{ID: id} }
	}
	id := d.presets[d.selected].ID
	return func() tea.Msg { return DeletePresetMsg{ID: id} }
}

func (d *PresetsDialog) handleSaveMode(msg tea.KeyMsg) (*PresetsDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.mode = PresetsModeList
		d.nameInput.Blur()
		d.descInput.Blur()
		d.err = ""
		return d, nil
	case "tab", "shift+tab":
		d.field = 1 - d.field
		if d.field == 0 {
			d.descInput.Blur()
			return d, d.nameInput.Focus()
		}
		d.nameInput.Blur()
		return d, d.descInput.Focus()
	case "enter":
		name := strings.TrimSpace(d.nameInput.Value())
		if name == "" {
			d.err = "name is required"
			return d, nil
		}
		desc := strings.TrimSpace(d.descInput.Value())
		d.mode = PresetsModeList
		d.tab = TabPresets
		d.nameInput.Blur()
		d.descInput.Blur()
		return d, func() tea.Msg { return SavePresetMsg{Name: name, Description: desc} }
	}

	var cmd tea.Cmd
	if d.field == 0 {
		d.nameInput, cmd = d.nameInput.Update(msg)
	} else {
		d.descInput, cmd = d.descInput.Update(msg)
	}
	return d, cmd
}

// View renders the dialog
func (d *PresetsDialog) View() string {
	var body string
	if d.mode == PresetsModeSave {
		body = d.renderSave()
	} else {
		body = d.renderList()
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Theme.BorderFocused).
		Width(d.Width).
		Height(d.Height).
		Padding(1)

	return containerStyle.Render(body)
}

func (d *PresetsDialog) renderTabs() string {
	active := lipgloss.NewStyle().
		Foreground(d.Theme.Background).
		Background(d.Theme.Info).
		Padding(0, 1).
		Bold(true)
	inactive := lipgloss.NewStyle().
		Foreground(d.Theme.Muted).
		Padding(0, 1)

	presets := fmt.Sprintf("Presets (%d)", len(d.presets))
	popular := fmt.Sprintf("Popular (%d)", len(d.popular))
	if d.tab == TabPresets {
		return active.Render(presets) + " " + inactive.Render(popular)
	}
	return inactive.Render(presets) + " " + active.Render(popular)
}

func (d *PresetsDialog) renderList() string {
	sections := []string{d.renderTabs()}

	instrStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Apply  a: Save current  d: Delete  Tab: Switch  Esc: Close"))
	sections = append(sections, "")

	width := d.Width - 6
	if width < 20 {
		width = 20
	}

	if d.count() == 0 {
		empty := "No presets yet. Press 'a' to save the current filter."
		if d.tab == TabPopular {
			empty = "No filters applied on this table yet."
		}
		sections = append(sections, lipgloss.NewStyle().Foreground(d.Theme.Muted).Render(empty))
	}

	end := d.offset + d.pageSize()
	if end > d.count() {
		end = d.count()
	}
	for i := d.offset; i < end; i++ {
		var title, detail string
		if d.tab == TabPopular {
			e := d.popular[i]
			title = e.Summary
			if title == "" {
				title = filter.Describe(d.Schema, e.Descriptor)
			}
			detail = fmt.Sprintf("used %d×, last %s", e.UseCount, e.LastUsed.Format("2006-01-02 15:04"))
		} else {
			p := d.presets[i]
			title = p.Name
			detail = filter.Describe(d.Schema, p.Descriptor)
			if p.Description != "" {
				detail = p.Description + " · " + detail
			}
		}

		line := runewidth.Truncate(title, width, "…") + "\n  " + runewidth.Truncate(detail, width-2, "…")
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == d.selected {
			style = style.Background(d.Theme.Selection).Foreground(d.Theme.Foreground)
		}
		sections = append(sections, style.Render(line))
	}

	if d.err != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(d.Theme.Error).Render(d.err))
	}
	return strings.Join(sections, "\n")
}

func (d *PresetsDialog) renderSave() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Background).
		Background(d.Theme.Info).
		Padding(0, 1).
		Bold(true)

	instrStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Muted).
		Padding(0, 1)

	sections := []string{
		titleStyle.Render("Save Preset"),
		instrStyle.Render("Tab: Next field  Enter: Save  Esc: Cancel"),
		"",
		d.renderField("Name:", d.nameInput.View(), d.field == 0),
		d.renderField("Description:", d.descInput.View(), d.field == 1),
	}
	if d.err != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(d.Theme.Error).Render(d.err))
	}
	return strings.Join(sections, "\n")
}

func (d *PresetsDialog) renderField(label, value string, active bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if active {
		style = style.Foreground(d.Theme.Foreground).Bold(true)
	}
	return style.Render(fmt.Sprintf("%-13s %s", label, value))
}
