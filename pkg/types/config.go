// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TextBackend identifies the tool that turns a document into text.
type TextBackend string

const (
	BackendNative    TextBackend = "native"
	BackendPdftotext TextBackend = "pdftotext"
)

// ExtractionConfig holds settings for the text and pattern extraction stage.
type ExtractionConfig struct {
	// Backend selects the PDF text backend: native or pdftotext.
	Backend TextBackend `json:"backend" yaml:"backend"`

	// MaxFileBytes rejects documents larger than this (default 100 MiB).
	MaxFileBytes int64 `json:"max_file_bytes" yaml:"max_file_bytes"`

	// MaxTextBytes caps the text handed to the pattern extractor
	// (default 4 MiB).
	MaxTextBytes int `json:"max_text_bytes" yaml:"max_text_bytes"`

	// Workers is the number of documents processed concurrently. The
	// default of 1 processes documents strictly one at a time.
	Workers int `json:"workers" yaml:"workers"`

	// Patterns overrides built-in extraction patterns by name
	// (e.g. "gush", "owners_header", "owner_entry").
	Patterns map[string]string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// ExportFormat selects the output file format.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// Format is the output format (default xlsx).
	Format ExportFormat `json:"format" yaml:"format"`

	// Output is the target file path. An empty value derives the name from
	// the format (e.g. "nesach-export.xlsx").
	Output string `json:"output" yaml:"output"`
}

// TemplateConfig holds settings for saved field-selection templates.
type TemplateConfig struct {
	// Dir is the directory holding <name>.json template files.
	Dir string `json:"dir" yaml:"dir"`
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Enabled controls whether batch results are stored for later re-export.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the archive database.
	Dir string `json:"dir" yaml:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings of the extractor.
type Config struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Templates  TemplateConfig   `json:"templates" yaml:"templates"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
