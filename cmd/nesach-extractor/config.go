// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/AmitayManor/pdf-extractor/internal/extract"
	"github.com/AmitayManor/pdf-extractor/internal/textextract"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

const (
	defaultTemplatesDir = "templates"
	defaultArchiveDir   = ".nesach"
	defaultOutputBase   = "nesach-export"
)

func setDefaults() {
	viper.SetDefault("extraction.backend", string(types.BackendNative))
	viper.SetDefault("extraction.max_file_bytes", textextract.DefaultMaxFileBytes)
	viper.SetDefault("extraction.max_text_bytes", extract.DefaultMaxTextBytes)
	viper.SetDefault("extraction.workers", 1)
	viper.SetDefault("export.format", string(types.FormatXLSX))
	viper.SetDefault("templates.dir", defaultTemplatesDir)
	viper.SetDefault("archive.enabled", true)
	viper.SetDefault("archive.dir", defaultArchiveDir)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// loadConfig reads the effective configuration: flags bound to keys, then
// NESACH_* environment variables, then the config file, then defaults.
func loadConfig() types.Config {
	return types.Config{
		Extraction: types.ExtractionConfig{
			Backend:      types.TextBackend(viper.GetString("extraction.backend")),
			MaxFileBytes: viper.GetInt64("extraction.max_file_bytes"),
			MaxTextBytes: viper.GetInt("extraction.max_text_bytes"),
			Workers:      viper.GetInt("extraction.workers"),
			Patterns:     viper.GetStringMapString("extraction.patterns"),
		},
		Export: types.ExportConfig{
			Format: types.ExportFormat(viper.GetString("export.format")),
			Output: viper.GetString("export.output"),
		},
		Templates: types.TemplateConfig{
			Dir: viper.GetString("templates.dir"),
		},
		Archive: types.ArchiveConfig{
			Enabled: viper.GetBool("archive.enabled"),
			Dir:     viper.GetString("archive.dir"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
}

// outputPath returns the export target: the configured path, or a default
// name with the format's extension.
func outputPath(cfg types.ExportConfig) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	format := cfg.Format
	if format == "" {
		format = types.FormatXLSX
	}
	return defaultOutputBase + "." + string(format)
}
