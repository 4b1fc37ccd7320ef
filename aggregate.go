package main

import "log"

// AggregateFiles fetches every named file through the data source, skips the
// ones that came back empty, derives span_count per dataset, and concatenates
// the rest. File order is preserved, then row order within each file. The
// second return value collects per-file warnings for the dashboard.
func AggregateFiles(src *DataSource, fileNames []string) (Table, []string) {
	var tables []Table
	var warnings []string

	for _, name := range fileNames {
		ds := src.Dataset(name)
		if ds.Warning != "" {
			warnings = append(warnings, ds.Warning)
		}
		if ds.Table.Empty() {
			continue
		}
		tables = append(tables, ds.Table.WithSpanCount())
	}

	merged := ConcatTables(tables)
	log.Printf("aggregate files=%d used=%d rows=%d", len(fileNames), len(tables), len(merged.Rows))
	return merged, warnings
}

// ConcatTables row-concatenates tables. The result's header is the union of
// the source headers in first-observed order; cells for columns a source
// table lacks are filled with the explicit missing marker, never dropped.
func ConcatTables(tables []Table) Table {
	var out Table
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		idx := make([]int, len(out.Columns))
		for i, c := range out.Columns {
			idx[i] = t.ColumnIndex(c)
		}
		for _, row := range t.Rows {
			merged := make([]string, len(out.Columns))
			for i, srcIdx := range idx {
				if srcIdx >= 0 {
					merged[i] = row[srcIdx]
				} else {
					merged[i] = missingCell
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
