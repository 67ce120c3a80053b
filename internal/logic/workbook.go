package logic

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hoopsreport/dashboard/internal/models"
)

// BuildWorkbook writes sheets into an xlsx workbook, header row first.
// Empty cells are left blank.
func BuildWorkbook(sheets ...models.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("build workbook: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("new sheet %q: %w", sheet.Name, err)
		}

		header := make([]interface{}, len(sheet.Columns))
		for j, c := range sheet.Columns {
			header[j] = c
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header of %q: %w", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			values := make([]interface{}, len(row))
			for j, c := range row {
				switch c.Kind {
				case models.CellNumber:
					values[j] = c.Num
				case models.CellString:
					values[j] = c.Str
				default:
					values[j] = nil
				}
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %d of %q: %w", r+2, sheet.Name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
