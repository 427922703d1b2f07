// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// Document is the structured export of a run. Unlike the flat rows it keeps
// every group entry and every failed result.
type Document struct {
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Selection   []string        `json:"selection" yaml:"selection"`
	Succeeded   int             `json:"succeeded" yaml:"succeeded"`
	Failed      int             `json:"failed" yaml:"failed"`
	Results     []*types.Result `json:"results" yaml:"results"`
}

// NewDocument builds the structured export for results.
func NewDocument(results []*types.Result, sel fields.Selection) Document {
	doc := Document{
		GeneratedAt: time.Now().UTC(),
		Selection:   sel.IDs(),
		Results:     results,
	}
	for _, r := range results {
		switch r.Status() {
		case types.ResultSuccess:
			doc.Succeeded++
		case types.ResultFailed:
			doc.Failed++
		}
	}
	return doc
}

// WriteJSON writes doc to path as indented JSON.
func WriteJSON(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeFile(path, data)
}

// WriteYAML writes doc to path as YAML.
func WriteYAML(path string, doc Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := removeTarget(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
