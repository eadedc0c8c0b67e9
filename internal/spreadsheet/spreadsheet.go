// Package spreadsheet reads the first worksheet of an uploaded .xls or .xlsx
// statement into a plain grid of cell strings.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for anything that is not .xls or .xlsx.
var ErrUnsupportedFormat = errors.New("allowed file types are .xls and .xlsx")

// Sheet is a materialised worksheet. Rows may be ragged; a missing cell
// reads as the empty string.
type Sheet struct {
	Name string
	rows [][]string
}

// NewSheet wraps an in-memory grid.
func NewSheet(name string, rows [][]string) *Sheet {
	return &Sheet{Name: name, rows: rows}
}

// Len returns the number of rows, including blank ones.
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Row returns row i, or nil when i is out of range.
func (s *Sheet) Row(i int) []string {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Cell returns the cell at row i, column j, or "".
func (s *Sheet) Cell(i, j int) string {
	row := s.Row(i)
	if j < 0 || j >= len(row) {
		return ""
	}
	return row[j]
}

// Supported reports whether filename has an accepted extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls", ".xlsx":
		return true
	}
	return false
}

// Open picks the reader from the file extension and loads the first sheet.
func Open(filename string, data []byte) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return openXLSX(data)
	case ".xls":
		return openXLS(data)
	}
	return nil, ErrUnsupportedFormat
}

func openXLSX(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no sheets found in Excel file")
	}

	// Raw values keep amounts free of display formatting and dates as serials.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return &Sheet{Name: sheetName, rows: rows}, nil
}

// openXLS reads a BIFF workbook. Number cells come back as their raw value,
// so date cells surface as Excel serials like they do for .xlsx.
func openXLS(data []byte) (sheet *Sheet, err error) {
	// The BIFF decoder panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			sheet, err = nil, fmt.Errorf("failed to open Excel file: corrupt xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if wb.GetNumberSheets() == 0 {
		return nil, errors.New("no sheets found in Excel file")
	}
	ws, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}

	n := ws.GetNumberRows()
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row, err := ws.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read Excel row %d: %w", i+1, err)
		}
		cols := row.GetCols()
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = c.GetString()
		}
		rows = append(rows, trimTrailing(cells))
	}
	return &Sheet{Name: ws.GetName(), rows: rows}, nil
}

func trimTrailing(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
