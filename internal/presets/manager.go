package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebelice/opsgrid/internal/models"
)

// FileName is the presets file inside the config directory
const FileName = "presets.yaml"

// Manager manages named filter presets stored in a YAML file
type Manager struct {
	path    string
	presets []models.Preset
	now     func() time.Time
}

// NewManager creates a presets manager for path, loading it when it exists
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path:    path,
		presets: []models.Preset{},
		now:     time.Now,
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}

	return m, nil
}

// Path returns the presets file
func (m *Manager) Path() string {
	return m.path
}

// Load loads presets from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	var presets []models.Preset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}
	if presets == nil {
		presets = []models.Preset{}
	}
	m.presets = presets

	return nil
}

// Save writes presets to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}

	return nil
}

// Add saves a new preset for table. Names are unique per table,
// case-insensitively.
func (m *Manager) Add(table, name, description string, d models.FilterDescriptor) (*models.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("preset name cannot be empty")
	}
	if d.IsEmpty() {
		return nil, fmt.Errorf("preset %q has no filters, search or sort", name)
	}
	if m.nameTaken(table, name, "") {
		return nil, fmt.Errorf("a preset named '%s' already exists for %s", name, table)
	}

	now := m.now()
	preset := models.Preset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Table:       table,
		Descriptor:  d,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.presets = append(m.presets, preset)
	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	return &preset, nil
}

// Update renames a preset and replaces its descriptor
func (m *Manager) Update(id, name, description string, d models.FilterDescriptor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}

	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("preset with ID '%s' was not found", id)
	}
	if m.nameTaken(m.presets[i].Table, name, id) {
		return fmt.Errorf("a preset named '%s' already exists for %s", name, m.presets[i].Table)
	}

	m.presets[i].Name = name
	m.presets[i].Description = strings.TrimSpace(description)
	m.presets[i].Descriptor = d
	m.presets[i].UpdatedAt = m.now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	return nil
}

// Delete deletes a preset by ID
func (m *Manager) Delete(id string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("preset with ID '%s' was not found", id)
	}
	m.presets = append(m.presets[:i], m.presets[i+1:]...)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save presets after deletion: %w", err)
	}
	return nil
}

// Get returns a preset by ID
func (m *Manager) Get(id string) (*models.Preset, error) {
	i := m.index(id)
	if i < 0 {
		return nil, fmt.Errorf("preset with ID '%s' was not found", id)
	}
	p := m.presets[i]
	return &p, nil
}

// ForTable returns a table's presets, most used first, then by name
func (m *Manager) ForTable(table string) []models.Preset {
	var out []models.Preset
	for _, p := range m.presets {
		if p.Table == table {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Search matches a table's presets by name or description
func (m *Manager) Search(table, query string) []models.Preset {
	all := m.ForTable(table)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	var results []models.Preset
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			results = append(results, p)
		}
	}
	return results
}

// RecordUsage updates usage statistics when a preset is applied
func (m *Manager) RecordUsage(id string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("preset with ID '%s' was not found", id)
	}
	m.presets[i].UsageCount++
	m.presets[i].LastUsed = m.now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save usage statistics: %w", err)
	}
	return nil
}

func (m *Manager) index(id string) int {
	for i, p := range m.presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) nameTaken(table, name, exceptID string) bool {
	for _, p := range m.presets {
		if p.ID != exceptID && p.Table == table && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
