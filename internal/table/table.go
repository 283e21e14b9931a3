// Package table loads and writes the tabular inputs and outputs of a
// reconciliation run. Every cell is kept as a string and the original
// column order is preserved so unrecognized columns pass through untouched.
package table

import (
	"strings"
)

// Row maps an original column name to its cell value.
type Row map[string]string

// Table is an ordered sequence of rows sharing one header.
type Table struct {
	Columns []string
	Rows    []Row
}

// Get returns the value of a column, or "" when the column is absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// fromRecords builds a Table from a header and raw record slices.
// Short records pad with blanks, long records are truncated to the header.
func fromRecords(header []string, records [][]string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = cleanHeader(h)
	}

	t := &Table{Columns: cols, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		row := make(Row, len(cols))
		for i, col := range cols {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// cleanHeader strips a UTF-8 BOM and surrounding whitespace from a column
// name. HubSpot CSV exports carry the BOM on the first header cell.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.TrimSpace(h)
}
