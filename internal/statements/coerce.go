package statements

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
)

// amountScale matches the DECIMAL(12,2) statement columns.
const amountScale = 2

// largest serial Excel can represent (9999-12-31)
const maxExcelSerial = 2958465

// ParseAmount coerces a cell to a monetary value. Thousands separators and
// spaces are ignored; anything still non-numeric is null, never an error.
func ParseAmount(s string) decimal.NullDecimal {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(amountScale))
}

// ParseDate coerces a cell to a UTC timestamp, trying each layout and then
// an Excel serial day number. Failure yields a null date.
func ParseDate(s string, layouts []string) sql.NullTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return sql.NullTime{Time: t, Valid: true}
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 || serial > maxExcelSerial {
		return sql.NullTime{}
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC().Round(time.Second), Valid: true}
}

// ToRecord maps a parsed row onto the canonical statement shape.
func ToRecord(row RawRow, p *banks.Profile) models.Statement {
	var rec models.Statement
	for _, m := range p.Fields {
		v, ok := row.Get(m.Column)
		kind, _ := m.Field.Kind()
		switch kind {
		case models.KindDate:
			if ok {
				rec.TransactionDate = ParseDate(v, p.DateLayouts)
			}
		case models.KindAmount:
			if ok {
				*rec.Amount(m.Field) = ParseAmount(v)
			}
		default:
			*rec.Text(m.Field) = sql.NullString{String: v, Valid: ok}
		}
	}
	return rec
}
