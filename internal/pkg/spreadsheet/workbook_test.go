package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, wb *Workbook) *Workbook {
	t.Helper()
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	opened, err := Open(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = opened.Close() })
	return opened
}

func TestWorkbook_WriteAndRead(t *testing.T) {
	wb := New()
	require.NoError(t, wb.AddSheet("courses", []string{"Course ID", "Course Name", "Fee", "Year"}, [][]interface{}{
		{int64(101), "BSc Physics", int64(45000), 3},
		{int64(102), "BCom", int64(30000), 3},
	}))
	require.NoError(t, wb.AddSheet("books_lended", []string{"Enrollment Number", "Book ID"}, nil))

	opened := roundTrip(t, wb)
	assert.Equal(t, []string{"courses", "books_lended"}, opened.SheetNames())
	assert.False(t, opened.HasSheet(DefaultSheet))

	table, err := opened.ReadSheet("courses")
	require.NoError(t, err)
	assert.Equal(t, []string{"Course ID", "Course Name", "Fee", "Year"}, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "101", table.Records[0].Get("Course ID"))
	assert.Equal(t, "BCom", table.Records[1].Get("Course Name"))
	assert.Equal(t, "30000", table.Records[1].Get("Fee"))

	empty, err := opened.ReadSheet("books_lended")
	require.NoError(t, err)
	assert.Empty(t, empty.Records)
}

func TestWorkbook_ShortRowsAndBlankRows(t *testing.T) {
	wb := New()
	require.NoError(t, wb.AddSheet("Sheet1", []string{"Name", "Email", "Fee Deposited"}, [][]interface{}{
		{"Asha"},
		{"", "", ""},
		{"Ravi", "ravi@college.in", int64(200)},
	}))

	table, err := roundTrip(t, wb).ReadSheet("Sheet1")
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "Asha", table.Records[0].Get("Name"))
	assert.Equal(t, "", table.Records[0].Get("Email"))
	assert.Equal(t, "200", table.Records[1].Get("Fee Deposited"))
}

func TestTable_Require(t *testing.T) {
	table := &Table{Sheet: "books", Header: []string{"Name", "Quantity"}}
	assert.NoError(t, table.Require("Name"))

	err := table.Require("Name", "ISBN", "Publisher")
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"ISBN", "Publisher"}, missing.Columns)
	assert.Contains(t, err.Error(), "ISBN, Publisher")
}

func TestReadSheet_Missing(t *testing.T) {
	wb := New()
	require.NoError(t, wb.AddSheet("courses", []string{"Course ID"}, nil))

	_, err := roundTrip(t, wb).ReadSheet("student")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestSortedSheets(t *testing.T) {
	got := SortedSheets([]string{"books_lended", "notes", "student", "courses"},
		[]string{"courses", "student", "books", "books_lended"})
	assert.Equal(t, []string{"courses", "student", "books_lended", "notes"}, got)
}
