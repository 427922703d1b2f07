// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// ErrTargetLocked is returned when an existing output file cannot be
// removed before writing, typically because another program holds it open.
var ErrTargetLocked = errors.New("export target is locked")

// Write exports results to path in the given format. Tabular formats
// (xlsx, csv) write the flattened rows for sel; structured formats (json,
// yaml) write the full results.
func Write(format types.ExportFormat, path string, results []*types.Result, sel fields.Selection, catalog *fields.Catalog) error {
	switch format {
	case types.FormatXLSX, "":
		return WriteXLSX(path, Header(sel, catalog), Project(results, sel, catalog))
	case types.FormatCSV:
		return WriteCSV(path, Header(sel, catalog), Project(results, sel, catalog))
	case types.FormatJSON:
		return WriteJSON(path, NewDocument(results, sel))
	case types.FormatYAML:
		return WriteYAML(path, NewDocument(results, sel))
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// removeTarget deletes an existing file at path so a failed write never
// leaves a mix of old and new content.
func removeTarget(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: removing %s: %v", ErrTargetLocked, path, err)
}
