package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebelice/opsgrid/internal/brands"
	"github.com/rebelice/opsgrid/internal/config"
	"github.com/rebelice/opsgrid/internal/export"
	"github.com/rebelice/opsgrid/internal/grid"
	"github.com/rebelice/opsgrid/internal/history"
	"github.com/rebelice/opsgrid/internal/logger"
	"github.com/rebelice/opsgrid/internal/models"
	"github.com/rebelice/opsgrid/internal/presets"
	"github.com/rebelice/opsgrid/internal/ui/components"
	"github.com/rebelice/opsgrid/internal/ui/help"
	"github.com/rebelice/opsgrid/internal/ui/theme"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	loader *config.Loader
	theme  theme.Theme

	brands  *brands.Lookup
	table   *grid.Table
	presets *presets.Manager
	history *history.Store

	mainPanel     components.Panel
	tableView     *components.TableView
	dropdown      *components.FilterDropdown
	search        *components.SearchInput
	detail        *components.RowDetail
	presetsDialog *components.PresetsDialog

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	loading  bool
	status   string
	watching bool
	configCh chan ConfigReloadedMsg
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// LoadRowsMsg requests a reload from the row source
type LoadRowsMsg struct{}

// RowsLoadedMsg is sent when the row source returned
type RowsLoadedMsg struct {
	Schema models.TableSchema
	Rows   []models.Row
	Err    error
}

// ConfigReloadedMsg is sent when the config file changed on disk
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// ExportDoneMsg is sent when an export finished
type ExportDoneMsg struct {
	Path string
	Err  error
}

// StatusMsg sets the bottom bar message
type StatusMsg string

// New creates a new App instance with config. loader may be nil, in which
// case the config is not watched.
func New(cfg *config.Config, loader *config.Loader) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	state := models.NewAppState()
	state.Account = cfg.General.Account
	if state.Account == "" {
		state.Account = cfg.General.DefaultAccount
	}
	state.TableName = cfg.Table.Name
	state.FrozenOrder = cfg.Data.FreezeSortOrder

	th := theme.GetTheme(cfg.UI.Theme)

	a := &App{
		state:         state,
		config:        cfg,
		loader:        loader,
		theme:         th,
		brands:        brands.NewLookup(cfg.Brands, cfg.General.DefaultAccount),
		tableView:     components.NewTableView(th),
		search:        components.NewSearchInput(th),
		detail:        components.NewRowDetail(th),
		presetsDialog: components.NewPresetsDialog(th),
		errorOverlay:  components.NewErrorOverlay(th),
		mainPanel:     components.Panel{Title: cfg.Table.Name, Theme: th, Focused: true},
		configCh:      make(chan ConfigReloadedMsg, 1),
	}

	a.openStores()
	a.updatePanelDimensions()
	return a
}

// openStores opens the preset file and the history database. Failures are
// logged and the feature is left off.
func (a *App) openStores() {
	m, err := presets.NewManager(config.DataPath(a.config.Presets.Path, presets.FileName))
	if err != nil {
		logger.Warnf("presets disabled: %v", err)
	} else {
		a.presets = m
	}

	if !a.config.History.Enabled {
		return
	}
	store, err := history.NewStore(config.DataPath(a.config.History.Path, history.FileName))
	if err != nil {
		logger.Warnf("filter history disabled: %v", err)
		return
	}
	a.history = store
}

// Close releases the history database
func (a *App) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(a.loadRows(), a.watchConfig(), textinput.Blink)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case StatusMsg:
		a.status = string(msg)
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case LoadRowsMsg:
		a.loading = true
		return a, a.loadRows()

	case RowsLoadedMsg:
		a.loading = false
		if msg.Err != nil {
			a.ShowError("Load Failed", fmt.Sprintf("Could not load rows:\n\n%v", msg.Err))
			return a, nil
		}
		a.setRows(msg.Schema, msg.Rows)
		return a, nil

	case ConfigReloadedMsg:
		a.applyConfig(msg)
		return a, a.watchConfig()

	case ExportDoneMsg:
		if msg.Err != nil {
			a.ShowError("Export Failed", msg.Err.Error())
			return a, nil
		}
		a.status = "exported to " + msg.Path
		return a, nil

	case components.SearchChangedMsg:
		if a.table != nil {
			a.table.SetSearch(msg.Query)
			a.refresh()
		}
		return a, nil

	case components.CloseSearchMsg:
		a.state.Focus = models.FocusTable
		a.updatePanelDimensions()
		if msg.Keep {
			return a, a.recordHistory()
		}
		return a, nil

	case components.FilterAppliedMsg:
		a.state.Focus = models.FocusTable
		a.refresh()
		return a, a.recordHistory()

	case components.CloseFilterDropdownMsg:
		a.state.Focus = models.FocusTable
		return a, nil

	case components.ApplyDescriptorMsg:
		return a, a.applyDescriptor(msg)

	case components.SavePresetMsg:
		return a, a.savePreset(msg)

	case components.DeletePresetMsg:
		if a.presets != nil {
			if err := a.presets.Delete(msg.ID); err != nil {
				a.presetsDialog.SetError(err)
			}
		}
		return a, a.reloadPresetLists()

	case components.ForgetHistoryMsg:
		return a, a.forgetHistory(msg.ID)

	case popularLoadedMsg:
		a.presetsDialog.SetPopular(msg.entries)
		return a, nil

	case components.ClosePresetsDialogMsg:
		a.state.Focus = models.FocusTable
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.forwardToFocused(msg)
}

// forwardToFocused passes non-key messages such as cursor blinks to the
// focused text input
func (a *App) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state.Focus == models.FocusSearch {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Handle error overlay dismissal first if visible
	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.state.ViewMode == models.HelpMode {
		if key == "?" || key == "esc" || key == "q" {
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	}

	switch a.state.Focus {
	case models.FocusSearch:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	case models.FocusFilter:
		var cmd tea.Cmd
		a.dropdown, cmd = a.dropdown.Update(msg)
		a.refresh()
		return a, cmd
	case models.FocusPresets:
		var cmd tea.Cmd
		a.presetsDialog, cmd = a.presetsDialog.Update(msg)
		return a, cmd
	}

	return a.handleTableKey(key)
}

func (a *App) handleTableKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "r", "f5":
		a.loading = true
		a.status = "reloading..."
		return a, a.loadRows()
	case "t":
		a.cycleTheme()
		return a, nil
	}

	if a.table == nil {
		return a, nil
	}

	switch key {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "left", "h":
		a.tableView.MoveColumn(-1)
	case "right", "l":
		a.tableView.MoveColumn(1)
	case "pgup", "ctrl+u":
		a.tableView.PageUp()
	case "pgdown", "ctrl+d":
		a.tableView.PageDown()
	case "home", "g":
		a.tableView.Home()
	case "end", "G":
		a.tableView.End()
	case "shift+up":
		a.detail.ScrollUp()
	case "shift+down":
		a.detail.ScrollDown()
	case "enter":
		a.detail.Toggle()
		a.state.ShowDetail = a.detail.Visible
		a.updatePanelDimensions()
	case "/":
		a.state.Focus = models.FocusSearch
		cmd := a.search.Open(a.table.Search())
		a.updatePanelDimensions()
		return a, cmd
	case "f":
		return a, a.openFilter()
	case "s":
		if col, ok := a.tableView.SelectedColumn(); ok {
			a.table.CycleSort(col.Key)
			a.refresh()
			return a, a.recordHistory()
		}
	case "x":
		if col, ok := a.tableView.SelectedColumn(); ok {
			a.table.ResetColumn(col.Key)
			a.refresh()
		}
	case "ctrl+r":
		a.table.ClearAll()
		a.refresh()
		a.status = "filters cleared"
	case "z":
		a.table.SetFrozen(!a.table.Frozen())
		a.state.FrozenOrder = a.table.Frozen()
		a.refresh()
		if a.state.FrozenOrder {
			a.status = "row order frozen"
		} else {
			a.status = "row order live"
		}
	case "p":
		return a, a.openPresets()
	case "c":
		return a, a.copyCell()
	case "C":
		return a, a.copyRow()
	case "e":
		return a, a.exportRows(export.FormatCSV)
	case "E":
		return a, a.exportRows(export.FormatJSON)
	}

	a.syncDetail()
	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.state.Focus != models.FocusTable || a.table == nil {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.tableView.MoveSelection(-1)
	case tea.MouseButtonWheelDown:
		a.tableView.MoveSelection(1)
	}
	a.syncDetail()
	return a, nil
}

func (a *App) openFilter() tea.Cmd {
	col, ok := a.tableView.SelectedColumn()
	if !ok {
		return nil
	}
	if err := a.dropdown.Open(col.Key); err != nil {
		a.ShowError("Filter", err.Error())
		return nil
	}
	a.state.Focus = models.FocusFilter
	return nil
}

func (a *App) openPresets() tea.Cmd {
	a.presetsDialog.Schema = a.table.Schema()
	a.presetsDialog.SetError(nil)
	a.state.Focus = models.FocusPresets
	return a.reloadPresetLists()
}

// setRows installs freshly loaded rows. A changed schema rebuilds the
// table; otherwise filters and sort survive the reload.
func (a *App) setRows(schema models.TableSchema, rows []models.Row) {
	if a.table != nil && sameColumns(a.table.Schema(), schema) {
		a.table.SetRows(rows)
	} else {
		a.table = grid.New(schema, rows, a.brands, a.state.Account, grid.WithFrozenOrder(a.state.FrozenOrder))
		if a.dropdown == nil {
			a.dropdown = components.NewFilterDropdown(a.theme, a.table)
		} else {
			a.dropdown.SetTable(a.table)
		}
	}
	a.status = fmt.Sprintf("loaded %d rows", len(rows))
	a.updatePanelDimensions()
	a.refresh()
}

func sameColumns(a, b models.TableSchema) bool {
	if a.Name != b.Name || a.IDColumn != b.IDColumn || len(a.Columns) != len(b.Columns) {
		return false
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return false
		}
	}
	return true
}

// refresh pushes the table's visible rows and header markers to the view
func (a *App) refresh() {
	if a.table == nil {
		return
	}
	schema := a.table.Schema()
	markers := make(map[string]components.ColumnMarker, len(schema.Columns))
	for _, col := range schema.Columns {
		markers[col.Key] = components.ColumnMarker{
			Filtered: a.table.IsFiltered(col.Key),
			Sort:     a.table.SortOrder(col.Key),
		}
	}
	a.tableView.Markers = markers
	a.tableView.SetData(schema.Columns, a.table.Visible(), a.table.Len())
	a.syncDetail()
}

func (a *App) syncDetail() {
	if a.table == nil {
		return
	}
	row, ok := a.tableView.SelectedRowData()
	a.detail.SetRow(a.table.Schema().Columns, row, ok)
	a.state.CursorRow = a.tableView.SelectedRow
	a.state.CursorCol = a.tableView.SelectedCol
}

func (a *App) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		logger.Warnf("config reload failed: %v", msg.Err)
		a.status = "config reload failed"
		return
	}
	cfg := msg.Config
	a.brands.Replace(cfg.Brands, cfg.General.DefaultAccount)
	if cfg.General.Account != a.state.Account {
		a.state.Account = cfg.General.Account
		if a.table != nil {
			a.table.Controller().SetAccount(cfg.General.Account)
		}
	}
	if cfg.UI.Theme != a.config.UI.Theme {
		a.setTheme(theme.GetTheme(cfg.UI.Theme))
	}
	a.config = cfg
	a.status = "config reloaded"
	logger.Infof("config reloaded, %d brand accounts", len(cfg.Brands))
}

func (a *App) cycleTheme() {
	names := theme.Names()
	next := names[0]
	for i, n := range names {
		if strings.EqualFold(n, a.theme.Name) {
			next = names[(i+1)%len(names)]
			break
		}
	}
	a.setTheme(theme.GetTheme(next))
	a.status = "theme: " + next
}

func (a *App) setTheme(th theme.Theme) {
	a.theme = th
	a.tableView.Theme = th
	a.search.Theme = th
	a.detail.Theme = th
	a.presetsDialog.Theme = th
	a.errorOverlay.Theme = th
	a.mainPanel.Theme = th
	if a.dropdown != nil {
		a.dropdown.Theme = th
	}
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme)
	}

	base := a.renderNormalView()

	switch a.state.Focus {
	case models.FocusFilter:
		return a.overlay(a.dropdown.View())
	case models.FocusPresets:
		a.presetsDialog.Width = min(80, a.state.Width-4)
		a.presetsDialog.Height = min(24, a.state.Height-4)
		return a.overlay(a.presetsDialog.View())
	}
	return base
}

func (a *App) overlay(dialog string) string {
	return lipgloss.Place(
		a.state.Width, a.state.Height,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

// renderNormalView renders the table with its bars
func (a *App) renderNormalView() string {
	rightTop := ""
	if a.table != nil {
		rightTop = fmt.Sprintf("%d/%d rows", len(a.tableView.Rows), a.table.Len())
		if a.table.Frozen() {
			rightTop += " ❄"
		}
	}
	account := a.state.Account
	if account == "" {
		account = a.brands.DefaultAccount()
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(a.formatStatusBar("opsgrid │ "+a.state.TableName+" │ "+account, rightTop))

	bottomLeft := a.status
	if a.loading {
		bottomLeft = "loading rows..."
	}
	if a.table != nil {
		if summary := a.table.Summary(); summary != "" {
			bottomLeft = summary
			if a.status != "" {
				bottomLeft += " │ " + a.status
			}
		}
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomLeft, "[f] filter [/] search [?] help"))

	a.mainPanel.Content = a.tableView.View()

	parts := []string{topBar}
	if a.state.Focus == models.FocusSearch {
		a.search.Width = a.state.Width - 4
		parts = append(parts, a.search.View())
	}
	parts = append(parts, a.mainPanel.View())
	if a.detail.Visible {
		a.detail.Width = a.state.Width
		parts = append(parts, a.detail.View())
	}
	parts = append(parts, bottomBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// top bar + bottom bar + panel border
	contentHeight := a.state.Height - 4
	if a.state.Focus == models.FocusSearch {
		contentHeight -= 4
	}
	contentHeight -= a.detail.Height()
	if contentHeight < 5 {
		contentHeight = 5
	}

	a.mainPanel.Width = a.state.Width - 2
	a.mainPanel.Height = contentHeight
	a.mainPanel.Title = a.state.TableName

	a.tableView.Width = a.mainPanel.Width
	a.tableView.Height = a.mainPanel.InnerHeight()

	if a.dropdown != nil {
		a.dropdown.Width = min(60, a.state.Width-4)
		a.dropdown.Height = min(24, a.state.Height-4)
	}
	a.detail.MaxHeight = min(12, a.state.Height/3)
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	rightLen := runewidth.StringWidth(right)
	if runewidth.StringWidth(left)+rightLen > availableWidth {
		if availableWidth <= rightLen {
			return runewidth.Truncate(left, availableWidth, "…")
		}
		left = runewidth.Truncate(left, availableWidth-rightLen-1, "…")
	}

	spacing := availableWidth - runewidth.StringWidth(left) - rightLen
	if spacing < 0 {
		spacing = 0
	}
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	logger.Errorf("%s: %s", title, message)
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
