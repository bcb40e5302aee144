package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/trellis/model"
)

// XLSX builds a workbook with one sheet per table, named "Table 1",
// "Table 2", ... in input order. Merged cells become merged ranges. Each
// nested table gets a sheet of its own, suffixed with its position under
// the parent ("Table 1.2" is the second table nested in table 1). The
// caller owns the returned file and should Close it when done.
func XLSX(tables []*model.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, t := range tables {
		name := fmt.Sprintf("Table %d", i+1)
		if err := addSheet(f, name, t, i == 0); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX builds the workbook and saves it at path.
func WriteXLSX(path string, tables []*model.Table) error {
	f, err := XLSX(tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// addSheet writes one table onto a sheet. The workbook starts with a lone
// default sheet; the first table takes it over instead of leaving it empty.
func addSheet(f *excelize.File, name string, t *model.Table, first bool) error {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("naming sheet %q: %w", name, err)
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", name, err)
		}
	}

	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColCount(); c++ {
			cell := t.GetCell(r, c)
			if cell == nil || cell.RowSpan < 1 || cell.ColSpan < 1 {
				// Covered by another cell's span
				continue
			}

			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if cell.Text != "" {
				if err := f.SetCellValue(name, ref, cell.Text); err != nil {
					return fmt.Errorf("cell %s: %w", ref, err)
				}
			}
			if cell.RowSpan > 1 || cell.ColSpan > 1 {
				end, err := excelize.CoordinatesToCellName(c+cell.ColSpan, r+cell.RowSpan)
				if err != nil {
					return err
				}
				if err := f.MergeCell(name, ref, end); err != nil {
					return fmt.Errorf("merging %s:%s: %w", ref, end, err)
				}
			}
		}
	}

	for j, nested := range t.Nested {
		if err := addSheet(f, fmt.Sprintf("%s.%d", name, j+1), nested, false); err != nil {
			return err
		}
	}
	return nil
}
