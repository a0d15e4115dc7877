package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLooksLikeWorkbook(t *testing.T) {
	assert.True(t, LooksLikeWorkbook("report.xlsx"))
	assert.True(t, LooksLikeWorkbook("REPORT.XLS"))
	assert.False(t, LooksLikeWorkbook("report.csv"))
	assert.False(t, LooksLikeWorkbook("report"))
}

func TestParseWorkbook_FirstSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"item", "net", "gross"},
		{"KOPI", "75000", "100000"},
		{"TEH", "10000", "10000"},
	})

	set := ParseWorkbook(data)
	assert.Equal(t, []string{"item", "net", "gross"}, set.Headers)
	require.Len(t, set.Records, 2)
	assert.Equal(t, "KOPI", set.Records[0]["item"])
	assert.Equal(t, "10000", set.Records[1]["gross"])
}

func TestParseWorkbook_BlankRowsSuppressed(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"", "", ""},
		{"item", "qty"},
		{"", ""},
		{"KOPI", "3"},
	})

	set := ParseWorkbook(data)
	assert.Equal(t, []string{"item", "qty"}, set.Headers)
	require.Len(t, set.Records, 1)
	assert.Equal(t, "3", set.Records[0]["qty"])
}

func TestParseWorkbook_GarbageIsSoftFailure(t *testing.T) {
	set := ParseWorkbook([]byte("definitely not a workbook"))
	assert.Empty(t, set.Headers)
	assert.Empty(t, set.Records)
}
