package statements

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
)

// Value is one canonicalised field of a comparison tuple.
type Value struct {
	Kind   models.FieldKind
	Valid  bool
	Text   string
	Time   time.Time
	Amount decimal.Decimal
}

// Equal compares two values of the same kind. Two nulls are equal; a null
// never equals a present value, including the empty string.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Valid != o.Valid {
		return false
	}
	if !v.Valid {
		return true
	}
	switch v.Kind {
	case models.KindDate:
		return v.Time.Equal(o.Time)
	case models.KindAmount:
		return v.Amount.Equal(o.Amount)
	}
	return v.Text == o.Text
}

// Tuple is the ordered set of comparable fields of one statement row,
// in the bank descriptor's field order.
type Tuple struct {
	Date   Value
	Fields []Value
}

// TupleOf builds the comparison tuple of s over fields. Stored and freshly
// parsed rows go through the same function so coercion is identical.
func TupleOf(s *models.Statement, fields []models.Field) Tuple {
	t := Tuple{
		Date:   dateValue(s),
		Fields: make([]Value, 0, len(fields)),
	}
	for _, f := range fields {
		kind, _ := f.Kind()
		switch kind {
		case models.KindDate:
			t.Fields = append(t.Fields, t.Date)
		case models.KindAmount:
			a := s.Amount(f)
			v := Value{Kind: kind, Valid: a.Valid}
			if a.Valid {
				v.Amount = a.Decimal.Round(amountScale)
			}
			t.Fields = append(t.Fields, v)
		default:
			n := s.Text(f)
			t.Fields = append(t.Fields, Value{Kind: kind, Valid: n.Valid, Text: n.String})
		}
	}
	return t
}

func dateValue(s *models.Statement) Value {
	v := Value{Kind: models.KindDate, Valid: s.TransactionDate.Valid}
	if v.Valid {
		v.Time = s.TransactionDate.Time.UTC()
	}
	return v
}

// Equal reports whether t and o describe the same transaction. A tuple
// without a date matches nothing, itself included.
func (t Tuple) Equal(o Tuple) bool {
	if !t.Date.Valid || !o.Date.Valid {
		return false
	}
	if len(t.Fields) != len(o.Fields) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}
