package statements

import (
	"fmt"
	"strings"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/spreadsheet"
)

// RawRow is one surviving data row keyed by the bank's native column names.
// Blank cells and null tokens are absent from Cells.
type RawRow struct {
	Line  int // 1-based row number in the sheet
	Cells map[string]string
}

// Get returns the cell under column and whether it holds a value.
func (r RawRow) Get(column string) (string, bool) {
	v, ok := r.Cells[column]
	return v, ok
}

// Header returns the column names found at the profile's header row.
// Blank names become "Unnamed: N" and repeated names get a ".N" suffix so
// every column keeps a distinct key.
func Header(sheet *spreadsheet.Sheet, p *banks.Profile) ([]string, error) {
	if p.HeaderRow >= sheet.Len() {
		return nil, parseErrorf("header row %d not found: sheet has %d rows", p.HeaderRow+1, sheet.Len())
	}

	raw := sheet.Row(p.HeaderRow)
	header := make([]string, len(raw))
	counts := make(map[string]int, len(raw))
	for j, name := range raw {
		if p.TrimHeaders {
			name = strings.TrimSpace(name)
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		if n := counts[name]; n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			counts[name] = 1
		}
		header[j] = name
	}
	return header, nil
}

// Parse extracts the data block below the header row and applies the bank's
// trim strategy.
func Parse(sheet *spreadsheet.Sheet, p *banks.Profile) ([]RawRow, error) {
	header, err := Header(sheet, p)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, parseErrorf("header row %d is empty", p.HeaderRow+1)
	}

	first := p.HeaderRow + 1
	var body [][]string
	for i := first; i < sheet.Len(); i++ {
		body = append(body, widen(sheet.Row(i), len(header)))
	}

	start, end := 0, len(body)
	switch p.Trim {
	case banks.TrimSentinel:
		firstMark, lastMark := -1, -1
		for i, row := range body {
			if isSentinel(row, p.SentinelMarker) {
				if firstMark < 0 {
					firstMark = i
				}
				lastMark = i
			}
		}
		if firstMark < 0 || firstMark == lastMark {
			return nil, parseErrorf("%s data block markers not found", p.Name)
		}
		start, end = firstMark+1, lastMark
	case banks.TrimBlankRow:
		for i, row := range body {
			if isBlank(row) {
				end = i
				break
			}
		}
	}

	nulls := make(map[string]bool, len(p.NullTokens))
	for _, tok := range p.NullTokens {
		nulls[tok] = true
	}

	var out []RawRow
	for i := start; i < end; i++ {
		row := body[i]
		if isBlank(row) {
			continue
		}
		cells := make(map[string]string, len(header))
		for j, name := range header {
			v := row[j]
			if v == "" || nulls[v] {
				continue
			}
			cells[name] = v
		}
		out = append(out, RawRow{Line: first + i + 1, Cells: cells})
	}
	return out, nil
}

// widen pads or cuts row to exactly n cells.
func widen(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// isSentinel reports whether every cell of row contains marker.
func isSentinel(row []string, marker string) bool {
	if len(row) == 0 {
		return false
	}
	for _, c := range row {
		if !strings.Contains(c, marker) {
			return false
		}
	}
	return true
}
