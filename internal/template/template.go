// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template stores named field selections as JSON files so a
// selection can be reused across runs.
package template

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
)

const fileExt = ".json"

var (
	// ErrTemplateNotFound is returned when no template has the given name.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplate is returned for templates that fail validation.
	ErrInvalidTemplate = errors.New("invalid template")
)

//go:embed schema.json
var schemaJSON []byte

// Template is a saved field selection.
type Template struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	SelectedFieldIDs []string  `json:"selected_field_ids"`
	CreatedAt        time.Time `json:"created_at"`
}

// Selection returns the template's fields as a selection. IDs the catalog
// does not know are kept and ignored downstream.
func (t Template) Selection() fields.Selection {
	return fields.NewSelection(t.SelectedFieldIDs...)
}

// Entry describes a template file found by List.
type Entry struct {
	FilePath    string   `json:"file_path"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Data        Template `json:"data"`
}

// Store keeps templates as <dir>/<name>.json.
type Store struct {
	dir    string
	schema *jsonschema.Schema
	logger *slog.Logger
}

// NewStore opens the template directory, creating it if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating template directory %s: %w", dir, err)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, schema: schema, logger: logger}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("template.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Save writes t, replacing any template with the same name. A zero
// CreatedAt is set to the current time.
func (s *Store) Save(t Template) error {
	if err := checkName(t.Name); err != nil {
		return err
	}
	if t.SelectedFieldIDs == nil {
		t.SelectedFieldIDs = []string{}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling template %s: %w", t.Name, err)
	}
	if err := os.WriteFile(s.path(t.Name), data, 0o644); err != nil {
		return fmt.Errorf("writing template %s: %w", t.Name, err)
	}
	s.logger.Debug("template saved", "name", t.Name, "fields", len(t.SelectedFieldIDs))
	return nil
}

// Load reads the named template.
func (s *Store) Load(name string) (Template, error) {
	if err := checkName(name); err != nil {
		return Template{}, err
	}
	return s.read(s.path(name))
}

// List returns every valid template in the directory, sorted by name.
// Files that cannot be read or fail validation are skipped with a warning.
func (s *Store) List() ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		t, err := s.read(p)
		if err != nil {
			s.logger.Warn("skipping template", "path", p, "error", err)
			continue
		}
		entries = append(entries, Entry{
			FilePath:    p,
			Name:        t.Name,
			Description: t.Description,
			Data:        t,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes the named template.
func (s *Store) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrTemplateNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", name, err)
	}
	return nil
}

func (s *Store) read(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Template{}, fmt.Errorf("%s: %w", strings.TrimSuffix(filepath.Base(path), fileExt), ErrTemplateNotFound)
	}
	if err != nil {
		return Template{}, fmt.Errorf("reading template %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Template{}, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, path, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return Template{}, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, path, err)
	}

	var raw struct {
		Name             string   `json:"name"`
		Description      string   `json:"description"`
		SelectedFieldIDs []string `json:"selected_field_ids"`
		CreatedAt        string   `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Template{}, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, path, err)
	}
	return Template{
		Name:             raw.Name,
		Description:      raw.Description,
		SelectedFieldIDs: raw.SelectedFieldIDs,
		CreatedAt:        parseTime(raw.CreatedAt),
	}, nil
}

// timeLayouts lists the accepted created_at formats, including ISO
// timestamps without a zone.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// checkName rejects names that cannot be used as a file name.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplate)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: name %q contains a path separator", ErrInvalidTemplate, name)
	}
	return nil
}
