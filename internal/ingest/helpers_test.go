package ingest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

type testSheet struct {
	name string
	rows [][]string
}

func buildWorkbook(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func fixedAdapter() *Adapter {
	return NewAdapter(Options{Now: func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}})
}
