package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Field names a canonical statement column. Bank descriptors map their
// native spreadsheet headers onto these.
type Field string

const (
	FieldTransactionDate   Field = "transaction_date"
	FieldNarration         Field = "narration"
	FieldDescription       Field = "description"
	FieldReference         Field = "ref_or_cheque_number"
	FieldTransactionID     Field = "transaction_id"
	FieldCreditOrDebit     Field = "credit_or_debit"
	FieldBranchCode        Field = "branch_code"
	FieldWithdrawalAmount  Field = "withdrawal_amount"
	FieldDepositAmount     Field = "deposit_amount"
	FieldTransactionAmount Field = "transaction_amount"
	FieldClosingAmount     Field = "closing_amount"
	FieldAvailableAmount   Field = "available_amount"
)

// FieldKind tells how a canonical field is coerced and compared.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindAmount
)

var fieldKinds = map[Field]FieldKind{
	FieldTransactionDate:   KindDate,
	FieldNarration:         KindText,
	FieldDescription:       KindText,
	FieldReference:         KindText,
	FieldTransactionID:     KindText,
	FieldCreditOrDebit:     KindText,
	FieldBranchCode:        KindText,
	FieldWithdrawalAmount:  KindAmount,
	FieldDepositAmount:     KindAmount,
	FieldTransactionAmount: KindAmount,
	FieldClosingAmount:     KindAmount,
	FieldAvailableAmount:   KindAmount,
}

// Kind returns the coercion kind of f and whether f is a known field.
func (f Field) Kind() (FieldKind, bool) {
	k, ok := fieldKinds[f]
	return k, ok
}

// Statement is one stored bank statement row. Only the fields listed in the
// bank's descriptor are populated; the rest stay invalid (NULL).
type Statement struct {
	ID                int64               `json:"id,omitempty" db:"id,omitempty"`
	TransactionDate   sql.NullTime        `json:"transaction_date" db:"transaction_date"`
	Narration         sql.NullString      `json:"narration" db:"narration"`
	Description       sql.NullString      `json:"description" db:"description"`
	Reference         sql.NullString      `json:"ref_or_cheque_number" db:"ref_or_cheque_number"`
	TransactionID     sql.NullString      `json:"transaction_id" db:"transaction_id"`
	CreditOrDebit     sql.NullString      `json:"credit_or_debit" db:"credit_or_debit"`
	BranchCode        sql.NullString      `json:"branch_code" db:"branch_code"`
	WithdrawalAmount  decimal.NullDecimal `json:"withdrawal_amount" db:"withdrawal_amount"`
	DepositAmount     decimal.NullDecimal `json:"deposit_amount" db:"deposit_amount"`
	TransactionAmount decimal.NullDecimal `json:"transaction_amount" db:"transaction_amount"`
	ClosingAmount     decimal.NullDecimal `json:"closing_amount" db:"closing_amount"`
	AvailableAmount   decimal.NullDecimal `json:"available_amount" db:"available_amount"`
	UploadAdminID     string              `json:"upload_admin_id,omitempty" db:"upload_admin_id"`
	UploadTime        time.Time           `json:"upload_time,omitempty" db:"upload_time"`
	Status            bool                `json:"status" db:"status"`
}

// Text returns a pointer to the text field f, or nil if f is not a text field.
func (s *Statement) Text(f Field) *sql.NullString {
	switch f {
	case FieldNarration:
		return &s.Narration
	case FieldDescription:
		return &s.Description
	case FieldReference:
		return &s.Reference
	case FieldTransactionID:
		return &s.TransactionID
	case FieldCreditOrDebit:
		return &s.CreditOrDebit
	case FieldBranchCode:
		return &s.BranchCode
	}
	return nil
}

// Amount returns a pointer to the monetary field f, or nil.
func (s *Statement) Amount(f Field) *decimal.NullDecimal {
	switch f {
	case FieldWithdrawalAmount:
		return &s.WithdrawalAmount
	case FieldDepositAmount:
		return &s.DepositAmount
	case FieldTransactionAmount:
		return &s.TransactionAmount
	case FieldClosingAmount:
		return &s.ClosingAmount
	case FieldAvailableAmount:
		return &s.AvailableAmount
	}
	return nil
}

// ScanTarget returns the destination for scanning column f into s.
func (s *Statement) ScanTarget(f Field) any {
	if f == FieldTransactionDate {
		return &s.TransactionDate
	}
	if t := s.Text(f); t != nil {
		return t
	}
	if a := s.Amount(f); a != nil {
		return a
	}
	return nil
}

// Value returns the driver value of column f.
func (s *Statement) Value(f Field) any {
	if f == FieldTransactionDate {
		if !s.TransactionDate.Valid {
			return nil
		}
		return s.TransactionDate.Time
	}
	if t := s.Text(f); t != nil {
		if !t.Valid {
			return nil
		}
		return t.String
	}
	if a := s.Amount(f); a != nil {
		if !a.Valid {
			return nil
		}
		return a.Decimal.StringFixed(2)
	}
	return nil
}
