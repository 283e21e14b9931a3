package table

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// Load reads a tabular file, dispatching on extension.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("table: unsupported file extension %q", filepath.Ext(path))
	}
}

// ReadCSV reads a CSV export. HubSpot exports vary in delimiter and
// encoding, so parsing cascades: comma first, then semicolon when the comma
// parse yields a single column, with a Windows-1252 decode fallback when the
// bytes are not valid UTF-8.
func ReadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: read file")
	}

	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, eris.Wrap(err, "csv: decode windows-1252")
		}
	}

	records, err := parseCSV(data, ',')
	if err != nil || len(records) == 0 || len(records[0]) == 1 {
		// Single-column result usually means a semicolon-separated export.
		semi, semiErr := parseCSV(data, ';')
		if semiErr == nil && len(semi) > 0 && len(semi[0]) > 1 {
			records, err = semi, nil
		}
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: parse")
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return fromRecords(records[0], records[1:]), nil
}

func parseCSV(data []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1 // allow variable fields
	r.LazyQuotes = true
	return r.ReadAll()
}

// WriteCSV writes a table as semicolon-delimited UTF-8, the format the
// downstream HubSpot import expects.
func WriteCSV(path string, t *Table, delimiter rune) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if delimiter != 0 {
		w.Comma = delimiter
	}

	if err := w.Write(t.Columns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}
	return nil
}
