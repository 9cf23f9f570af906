package models

// AppState holds the application state
type AppState struct {
	Width    int
	Height   int
	ViewMode ViewMode
	Focus    FocusArea

	Account     string
	TableName   string
	CursorRow   int
	CursorCol   int
	ShowDetail  bool
	FrozenOrder bool
}

// FocusArea identifies which part of the screen receives keys
type FocusArea int

const (
	FocusTable FocusArea = iota
	FocusSearch
	FocusFilter
	FocusPresets
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:    80,
		Height:   24,
		ViewMode: NormalMode,
		Focus:    FocusTable,
	}
}
