package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Email", "Company"},
		{"a@x.com", "Acme"},
		{"b@y.com", "Beta"},
	})

	tbl, err := ReadXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Company"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Acme", tbl.Rows[0]["Company"])
	assert.Equal(t, "b@y.com", tbl.Rows[1]["Email"])
}

func TestReadXLSXShortRowPads(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"Email", "Company"},
		{"a@x.com"},
	})

	tbl, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "", tbl.Rows[0]["Company"])
}

func TestLoadDispatchesXLSX(t *testing.T) {
	path := createTestXLSX(t, [][]string{{"Email"}, {"a@x.com"}})

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestReadXLSXMissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
