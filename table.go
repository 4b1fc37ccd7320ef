package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

const (
	passageColumn   = "original_passage"
	tagsColumn      = "tagged_words"
	scoreColumn     = "em_score"
	spanCountColumn = "span_count"

	spanMarker = "<span"

	// Written for cells a source file does not carry when heterogeneous
	// datasets are concatenated.
	missingCell = ""
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is an ordered tabular dataset: a header and string cells. Every row
// has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of name in the header, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name), or "" when the column is absent.
func (t Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return ""
	}
	return t.Rows[row][idx]
}

// ParseCSVTable parses UTF-8 CSV bytes with a header row. A leading BOM is
// tolerated. Short records are padded so every row matches the header width.
func ParseCSVTable(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	t := Table{Columns: records[0]}
	width := len(t.Columns)
	for _, rec := range records[1:] {
		row := make([]string, width)
		copy(row, rec)
		for i := len(rec); i < width; i++ {
			row[i] = missingCell
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// MarshalCSV serializes the table back to CSV. withBOM prefixes a UTF-8 BOM,
// which spreadsheet tools need to detect the encoding of exported files.
func (t Table) MarshalCSV(withBOM bool) ([]byte, error) {
	var buf bytes.Buffer
	if withBOM {
		buf.Write(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WithSpanCount returns a copy of the table with a span_count column appended:
// the non-overlapping count of the literal "<span" in each row's passage cell.
// An existing span_count column is left alone.
func (t Table) WithSpanCount() Table {
	if t.ColumnIndex(spanCountColumn) >= 0 {
		return t
	}
	out := Table{Columns: append(append([]string{}, t.Columns...), spanCountColumn)}
	passageIdx := t.ColumnIndex(passageColumn)
	for _, row := range t.Rows {
		count := 0
		if passageIdx >= 0 {
			count = strings.Count(row[passageIdx], spanMarker)
		}
		out.Rows = append(out.Rows, append(append([]string{}, row...), strconv.Itoa(count)))
	}
	return out
}
