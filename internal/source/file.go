package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rebelice/opsgrid/internal/models"
)

// File loads rows from a CSV, JSON or YAML file. JSON and YAML files hold
// either a list of objects or an object with a "rows" list.
type File struct {
	path     string
	idColumn string
}

// NewFile creates a file source
func NewFile(path, idColumn string) *File {
	return &File{path: path, idColumn: idColumn}
}

// Path returns the file being read
func (f *File) Path() string {
	return f.path
}

// Load reads and decodes the whole file
func (f *File) Load(ctx context.Context) ([]models.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read row file: %w", err)
	}

	var records []map[string]any
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".csv":
		records, err = decodeCSV(bytes.NewReader(data))
	case ".json":
		records, err = decodeJSON(data)
	case ".yaml", ".yml":
		records, err = decodeYAML(data)
	default:
		return nil, &UnsupportedError{Ext: ext}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(f.path), err)
	}

	return buildRows(records, f.idColumn), nil
}

// Close implements Source
func (f *File) Close() error {
	return nil
}

func decodeCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// Excel writes a byte order mark in front of the first header
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []map[string]any
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(line) {
				rec[col] = line[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

type wrapped struct {
	Rows []map[string]any `json:"rows" yaml:"rows"`
}

func decodeJSON(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var w wrapped
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return nil, err
		}
		return w.Rows, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeYAML(data []byte) ([]map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var w wrapped
		if err := root.Decode(&w); err != nil {
			return nil, err
		}
		return w.Rows, nil
	}
	var records []map[string]any
	if err := root.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
