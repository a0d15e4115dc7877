package ingest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// LooksLikeWorkbook reports whether a filename carries a recognized
// spreadsheet extension. Anything else is read as CSV text.
func LooksLikeWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// ParseWorkbook reads the first sheet of a binary workbook into a RecordSet.
// Cells come back as formatted display text, blank rows are suppressed, and
// the first remaining row is the header row. An unreadable workbook or one
// with no sheets yields an empty RecordSet, never an error: callers treat a
// headerless result from a recognized spreadsheet file as a soft failure.
func ParseWorkbook(data []byte) RecordSet {
	if rows, ok := readXLSXRows(data); ok {
		return buildRecordSet(dropBlankRows(rows))
	}
	if rows, ok := readXLSRows(data); ok {
		return buildRecordSet(dropBlankRows(rows))
	}
	return RecordSet{}
}

func readXLSXRows(data []byte) ([][]string, bool) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, true
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, true
	}
	return rows, true
}

// readXLSRows handles legacy .xls workbooks.
func readXLSRows(data []byte) ([][]string, bool) {
	book, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	sh, err := book.GetSheet(0)
	if err != nil || sh == nil {
		return nil, true
	}

	var rows [][]string
	for _, r := range sh.GetRows() {
		var vals []string
		for _, c := range r.GetCols() {
			vals = append(vals, c.GetString())
		}
		rows = append(rows, vals)
	}
	return rows, true
}

func dropBlankRows(rows [][]string) [][]string {
	kept := rows[:0:0]
	for _, r := range rows {
		if !rowIsBlank(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
