package excel

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"linedash/domain/dataset"
)

// WriteTable writes t as a single-sheet workbook to w. Numeric cells are
// written as numbers, nulls as blank cells.
func WriteTable(w io.Writer, t *dataset.Table, sheet string) error {
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
		}
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			v := row.Get(c)
			switch v.Kind {
			case dataset.KindNumber:
				cells[j] = v.Num
			case dataset.KindString:
				cells[j] = v.Text
			default:
				cells[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	log.Printf("[DataWriter] Wrote %s (%d columns, %d rows)", sheet, len(t.Columns), t.Len())
	return nil
}
