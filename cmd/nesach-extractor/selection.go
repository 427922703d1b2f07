// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/internal/template"
)

// addSelectionFlags registers the flags that choose the fields of a run.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("fields", nil, "field IDs to extract, in column order (see 'fields')")
	cmd.Flags().StringSlice("field-names", nil, "Hebrew field display names to extract")
	cmd.Flags().String("template", "", "use the field selection of a saved template")
}

// selectionFromFlags resolves the selection: a template wins over
// --fields, which wins over --field-names. With none given, the catalog's
// default fields are used.
func selectionFromFlags(cmd *cobra.Command, catalog *fields.Catalog, templatesDir string) (fields.Selection, error) {
	name, _ := cmd.Flags().GetString("template")
	ids, _ := cmd.Flags().GetStringSlice("fields")
	names, _ := cmd.Flags().GetStringSlice("field-names")

	switch {
	case name != "":
		store, err := template.NewStore(templatesDir, logger)
		if err != nil {
			return fields.Selection{}, err
		}
		t, err := store.Load(name)
		if err != nil {
			return fields.Selection{}, err
		}
		return t.Selection(), nil
	case len(ids) > 0:
		return fields.NewSelection(ids...), nil
	case len(names) > 0:
		sel := catalog.SelectionFromNames(names...)
		if sel.IsEmpty() {
			return fields.Selection{}, fmt.Errorf("no known fields among %s", strings.Join(names, ", "))
		}
		return sel, nil
	default:
		return catalog.DefaultSelection(), nil
	}
}

// warnUnknown logs selected IDs the catalog does not define. They are
// kept and exported as empty columns.
func warnUnknown(sel fields.Selection, catalog *fields.Catalog) {
	for _, id := range sel.IDs() {
		if _, ok := catalog.Lookup(id); !ok {
			logger.Warn("unknown field ID; its column will be empty", "field", id)
		}
	}
}
