// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the rows are written to.
const SheetName = "נתונים"

const (
	minColWidth = 10
	maxColWidth = 60
)

// WriteXLSX writes header and rows to a new workbook at path. The sheet is
// laid out right to left and columns are sized to their content.
func WriteXLSX(path string, header []string, rows []Row) error {
	if err := removeTarget(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	rtl := true
	if err := f.SetSheetView(SheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("setting sheet view: %w", err)
	}

	widths := make([]int, len(header))
	if err := writeXLSXRow(f, 1, header, widths); err != nil {
		return err
	}
	for i, r := range rows {
		if err := writeXLSXRow(f, i+2, r.Values(), widths); err != nil {
			return err
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("naming column %d: %w", i+1, err)
		}
		w = min(max(w+2, minColWidth), maxColWidth)
		if err := f.SetColWidth(SheetName, col, col, float64(w)); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeXLSXRow(f *excelize.File, row int, values []string, widths []int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("addressing row %d: %w", row, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
		if i < len(widths) {
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
