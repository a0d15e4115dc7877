package ingest

import (
	"strings"
)

// RecordSet is the normalized form of one uploaded tabular file: a trimmed,
// de-blanked header list plus one map per data row, keyed by header name.
// It lives only for the duration of the editing session preceding submission.
type RecordSet struct {
	Headers []string            `json:"headers"`
	Records []map[string]string `json:"records"`
}

// ParseCSV tokenizes raw CSV text into a RecordSet. The delimiter is sniffed
// from the first non-blank line: semicolon wins only when it strictly
// outnumbers commas. Standard CSV quoting applies ("" inside a quoted field
// is a literal quote). Rows whose fields are all blank are dropped.
func ParseCSV(text string) RecordSet {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	delim := sniffDelimiter(normalized)
	rows := scanRows(normalized, delim)
	return buildRecordSet(rows)
}

func sniffDelimiter(text string) byte {
	firstLine := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			firstLine = line
			break
		}
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

func scanRows(text string, delim byte) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		if !rowIsBlank(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '"' {
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			continue
		}
		if !inQuotes && c == delim {
			flushField()
			continue
		}
		if !inQuotes && c == '\n' {
			flushRow()
			continue
		}
		field.WriteByte(c)
	}
	// last line without a trailing newline
	flushRow()

	return rows
}

func rowIsBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// buildRecordSet treats the first row as the header row: headers are trimmed
// and blank names dropped, then data rows are projected positionally onto the
// trimmed header list. Short rows yield "" for missing trailing fields and
// excess values are ignored. Duplicate header names are not rejected; the
// last column with a given name wins (map overwrite).
func buildRecordSet(rows [][]string) RecordSet {
	if len(rows) == 0 {
		return RecordSet{}
	}

	var headers []string
	for _, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h != "" {
			headers = append(headers, h)
		}
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			v := ""
			if i < len(r) {
				v = strings.TrimSpace(r[i])
			}
			rec[h] = v
		}
		records = append(records, rec)
	}

	return RecordSet{Headers: headers, Records: records}
}
