package statements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/spreadsheet"
)

var hdfcHeader = []string{"Date", "Narration", "Chq./Ref.No.", "Value Dt", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"}

var hdfcMarker = []string{"********", "********", "********", "********", "********", "********", "********"}

func profile(t *testing.T, code string) *banks.Profile {
	t.Helper()
	reg, err := banks.Default()
	require.NoError(t, err)
	p := reg.Get(code)
	require.NotNil(t, p)
	return p
}

// letterhead returns headerRow rows whose top carries the identity strings.
func letterhead(p *banks.Profile) [][]string {
	rows := make([][]string, p.HeaderRow)
	for i, s := range p.IdentityStrings {
		rows[i] = []string{s}
	}
	return rows
}

// hdfcSheet lays out an HDFC export: letterhead, header, marker, data,
// marker, disclaimer block with the same column count.
func hdfcSheet(t *testing.T, data ...[]string) [][]string {
	p := profile(t, "hdfc")
	rows := letterhead(p)
	rows = append(rows, hdfcHeader, hdfcMarker)
	rows = append(rows, data...)
	rows = append(rows, hdfcMarker)
	rows = append(rows,
		[]string{"STATEMENT SUMMARY :-"},
		[]string{"Opening Balance", "Dr Count", "Cr Count", "Debits", "Credits", "Closing Bal", "x"},
		[]string{"9000.00", "1", "2", "0.00", "1500.00", "10500.00", "x"},
	)
	return rows
}

func hdfcRow(date, narration, ref, withdrawal, deposit, closing string) []string {
	return []string{date, narration, ref, date, withdrawal, deposit, closing}
}

func sheetOf(rows [][]string) *spreadsheet.Sheet {
	return spreadsheet.NewSheet("Sheet1", rows)
}

func xlsxOf(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memStore keeps committed statements per bank table.
type memStore struct {
	tables       map[string][]models.Statement
	failInsertAt int // 1-based record that makes Insert fail; 0 never
	beginErr     error
	begins       int
	last         *memTx
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string][]models.Statement)}
}

func (s *memStore) Begin(_ context.Context, p *banks.Profile) (Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	s.begins++
	s.last = &memTx{store: s, table: p.Table}
	return s.last, nil
}

type memTx struct {
	store      *memStore
	table      string
	pending    []models.Statement
	queried    []time.Time
	committed  bool
	rolledBack bool
}

func (tx *memTx) ExistingByDates(_ context.Context, dates []time.Time) ([]models.Statement, error) {
	tx.queried = dates
	want := make(map[int64]bool, len(dates))
	for _, d := range dates {
		want[d.UnixNano()] = true
	}
	var out []models.Statement
	for _, s := range tx.store.tables[tx.table] {
		if s.TransactionDate.Valid && want[s.TransactionDate.Time.UnixNano()] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (tx *memTx) Insert(_ context.Context, records []models.Statement) (int, error) {
	for i, r := range records {
		if tx.store.failInsertAt == i+1 {
			return 0, errors.New("Error 1406: Data too long for column 'narration'")
		}
		tx.pending = append(tx.pending, r)
	}
	return len(records), nil
}

func (tx *memTx) Commit() error {
	if tx.rolledBack {
		return errors.New("transaction already rolled back")
	}
	tx.committed = true
	tx.store.tables[tx.table] = append(tx.store.tables[tx.table], tx.pending...)
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.committed {
		return nil
	}
	tx.rolledBack = true
	tx.pending = nil
	return nil
}
