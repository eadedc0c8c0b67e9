package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BANKS_PROFILES", "")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeHDFC saves an HDFC export with the given data rows and returns its path.
func writeHDFC(t *testing.T, data ...[]string) string {
	t.Helper()
	reg, err := banks.Default()
	require.NoError(t, err)
	p := reg.Get("hdfc")

	rows := make([][]string, p.HeaderRow)
	for i, s := range p.IdentityStrings {
		rows[i] = []string{s}
	}
	marker := []string{"********", "********", "********", "********", "********", "********", "********"}
	rows = append(rows, []string{"Date", "Narration", "Chq./Ref.No.", "Value Dt", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"}, marker)
	rows = append(rows, data...)
	rows = append(rows, marker, []string{"STATEMENT SUMMARY :-"})

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

	path := filepath.Join(t.TempDir(), "Acct Statement_XX1234.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestValidate_OK(t *testing.T) {
	path := writeHDFC(t,
		[]string{"01/04/24", "NEFT CR-ACME LTD", "0000412345", "01/04/24", "", "1500.00", "10500.00"},
		[]string{"03/04/24", "UPI-SWIGGY", "0000412346", "03/04/24", "250.00", "", "10250.00"},
		[]string{"", "BRANCH CHARGES", "", "", "10.00", "", "10240.00"},
	)

	out, err := run(t, "validate", "--bank", "hdfc", path)
	require.NoError(t, err)
	assert.Contains(t, out, "HDFC statement OK: 3 data rows")
	assert.Contains(t, out, "dates 2024-04-01 to 2024-04-03")
	assert.Contains(t, out, "1 rows without a readable Date")
}

func TestValidate_WrongBank(t *testing.T) {
	path := writeHDFC(t, []string{"01/04/24", "NEFT", "1", "01/04/24", "", "1.00", "1.00"})

	_, err := run(t, "validate", "--bank", "sbi", path)
	require.Error(t, err)
}

func TestValidate_UnknownBank(t *testing.T) {
	_, err := run(t, "validate", "--bank", "axis", "x.xlsx")
	require.ErrorContains(t, err, `unknown bank "axis"`)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := run(t, "validate", "--bank", "hdfc", filepath.Join(t.TempDir(), "nope.xlsx"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_BankFlagRequired(t *testing.T) {
	_, err := run(t, "validate", "x.xlsx")
	require.ErrorContains(t, err, `required flag(s) "bank" not set`)
}

func TestIngest_AdminFlagRequired(t *testing.T) {
	_, err := run(t, "ingest", "--bank", "hdfc", "x.xlsx")
	require.ErrorContains(t, err, `required flag(s) "admin" not set`)
}

func TestBanks(t *testing.T) {
	out, err := run(t, "banks")
	require.NoError(t, err)
	assert.Contains(t, out, "hdfc")
	assert.Contains(t, out, "icici_statements")
	assert.Contains(t, out, "sbi")
}
