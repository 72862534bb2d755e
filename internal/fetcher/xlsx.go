package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook is an in-memory XLSX document.
type Workbook struct {
	f *xlsx.File
}

// OpenXLSX parses an XLSX document held in memory.
func OpenXLSX(data []byte) (*Workbook, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open binary")
	}
	return &Workbook{f: f}, nil
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.f.Sheets))
	for _, s := range w.f.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Rows returns every row of the named sheet as string slices. Missing rows
// come back empty so that index i is always sheet row i+1.
func (w *Workbook) Rows(sheetName string) ([][]string, error) {
	sheet, ok := w.f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", sheetName)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			rows = append(rows, []string{})
			continue
		}
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell != nil {
			cells[j] = cell.String()
		}
	}
	return cells
}
