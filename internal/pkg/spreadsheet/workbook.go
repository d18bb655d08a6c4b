// Package spreadsheet reads and writes the xlsx workbooks used for bulk
// exchange. Each sheet is a header row followed by data rows.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet a new workbook starts with
const DefaultSheet = "Sheet1"

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptySheet    = errors.New("sheet has no header row")
)

// MissingColumnsError lists required headers absent from a sheet
type MissingColumnsError struct {
	Sheet   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("sheet %q is missing column(s): %s", e.Sheet, strings.Join(e.Columns, ", "))
}

// Record is one data row keyed by header
type Record map[string]string

// Get returns the trimmed cell under column
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Table is a sheet read back into records
type Table struct {
	Sheet   string
	Header  []string
	Records []Record
}

// Require checks that every column appears in the header
func (t *Table) Require(columns ...string) error {
	present := make(map[string]struct{}, len(t.Header))
	for _, h := range t.Header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, c := range columns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Sheet: t.Sheet, Columns: missing}
	}
	return nil
}

// Workbook is an open xlsx file
type Workbook struct {
	file *excelize.File
	used bool
}

// New starts an empty workbook
func New() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// Open reads a workbook from r
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: f, used: true}, nil
}

// Close releases the workbook's temporary files
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the sheets in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether a sheet called name exists
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// AddSheet writes header and rows into a new sheet called name. The first
// sheet added replaces the default empty sheet.
func (w *Workbook) AddSheet(name string, header []string, rows [][]interface{}) error {
	if !w.used {
		if err := w.file.SetSheetName(DefaultSheet, name); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", name, err)
		}
		w.used = true
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", name, err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := w.file.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(name, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, name, err)
		}
	}
	return nil
}

// WriteTo serialises the workbook as xlsx
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

// ReadSheet returns the named sheet as records. Rows whose cells are all
// blank are dropped.
func (w *Workbook) ReadSheet(name string) (*Table, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, name)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := &Table{Sheet: name, Header: header}
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		blank := true
		for i, h := range header {
			if h == "" || i >= len(row) {
				continue
			}
			rec[h] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				blank = false
			}
		}
		if !blank {
			table.Records = append(table.Records, rec)
		}
	}
	return table, nil
}

// SortedSheets orders names by their position in order; unknown names go last
func SortedSheets(names []string, order []string) []string {
	rank := make(map[string]int, len(order))
	for i, n := range order {
		rank[n] = i
	}
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, ok := rank[out[i]]
		if !ok {
			ri = len(order)
		}
		rj, ok := rank[out[j]]
		if !ok {
			rj = len(order)
		}
		return ri < rj
	})
	return out
}
