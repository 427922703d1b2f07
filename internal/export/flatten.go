// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export projects extraction results into flat rows and writes them
// as spreadsheets, delimited text, or structured documents.
package export

import (
	"strings"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// FileColumn is the label of the file-identity column that starts every row.
const FileColumn = "שם קובץ"

// groupSeparator joins the values of one attribute across group entries.
const groupSeparator = ", "

// groupPrefixes maps the prefix of a group field ID to its group.
var groupPrefixes = map[string]types.FieldGroup{
	"owner":    types.GroupOwners,
	"mortgage": types.GroupMortgages,
	"remark":   types.GroupRemarks,
}

// Cell is one labelled value of a row.
type Cell struct {
	Column string
	Value  string
}

// Row is one exported document: the file column followed by one cell per
// selected field, in selection order.
type Row []Cell

// Value returns the value under column.
func (r Row) Value(column string) (string, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return "", false
}

// Values returns the cell values in column order.
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// Header returns the column labels shared by every row Project produces for
// sel: the file column, then the display name (or raw ID) of each field.
func Header(sel fields.Selection, catalog *fields.Catalog) []string {
	ids := sel.IDs()
	header := make([]string, 0, len(ids)+1)
	header = append(header, FileColumn)
	for _, id := range ids {
		header = append(header, catalog.DisplayName(id))
	}
	return header
}

// Project flattens results into rows. Failed results produce no row; a
// result that never finished has no data and yields a row of empty cells. Group attributes collapse to the non-empty values of all
// entries joined with ", ", so the pairing between entries of two group
// columns is not preserved.
func Project(results []*types.Result, sel fields.Selection, catalog *fields.Catalog) []Row {
	header := Header(sel, catalog)
	ids := sel.IDs()

	var rows []Row
	for _, res := range results {
		if res == nil || res.HasError() {
			continue
		}
		row := make(Row, 0, len(header))
		row = append(row, Cell{Column: FileColumn, Value: res.FileName})
		for i, id := range ids {
			row = append(row, Cell{Column: header[i+1], Value: cellValue(res.Data, id)})
		}
		rows = append(rows, row)
	}
	return rows
}

func cellValue(rec types.Record, id string) string {
	prefix, attr, found := strings.Cut(id, "_")
	if found {
		if group, ok := groupPrefixes[prefix]; ok {
			values, known := rec.GroupAttr(group, attr)
			if !known {
				return ""
			}
			return joinNonEmpty(values)
		}
	}
	return rec.General[id]
}

func joinNonEmpty(values []string) string {
	kept := values[:0:0]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, groupSeparator)
}
