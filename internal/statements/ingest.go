// Package statements is the statement reconciliation pipeline: layout
// validation, parsing, canonicalisation, set-difference against stored rows
// and transactional persistence. Every bank runs the same code; the bank is
// a banks.Profile value.
package statements

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/spreadsheet"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

// Upload is one statement file submitted by an operator.
type Upload struct {
	Filename string
	Data     []byte
	AdminID  string
}

// Result summarises an ingest.
type Result struct {
	Bank     string
	Parsed   int
	New      int
	Inserted int
}

// NothingNew reports whether the upload added no rows.
func (r Result) NothingNew() bool {
	return r.Inserted == 0
}

// Ingestor runs uploads through the pipeline against a Store.
type Ingestor struct {
	store Store
	now   func() time.Time
}

// NewIngestor returns an Ingestor writing to store.
func NewIngestor(store Store) *Ingestor {
	return &Ingestor{store: store, now: time.Now}
}

// Prepare checks and parses an upload without touching the store.
func Prepare(p *banks.Profile, u Upload) ([]RawRow, error) {
	if u.Filename == "" {
		return nil, &BadFileError{Reason: "No file selected for uploading"}
	}
	if !spreadsheet.Supported(u.Filename) {
		return nil, &BadFileError{Reason: "Allowed file types are .xls and .xlsx"}
	}
	if len(u.Data) == 0 {
		return nil, &BadFileError{Reason: "Uploaded file is empty"}
	}

	sheet, err := spreadsheet.Open(u.Filename, u.Data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := ValidateLayout(sheet, p); err != nil {
		return nil, err
	}
	header, err := Header(sheet, p)
	if err != nil {
		return nil, err
	}
	if err := ValidateColumns(header, p); err != nil {
		return nil, err
	}
	return Parse(sheet, p)
}

// Ingest validates, parses and reconciles u, then stores the new rows in a
// single transaction. Validation failures never reach the store.
func (in *Ingestor) Ingest(ctx context.Context, p *banks.Profile, u Upload) (Result, error) {
	res := Result{Bank: p.Name}
	if u.AdminID == "" {
		return res, ErrMissingAdmin
	}

	rows, err := Prepare(p, u)
	if err != nil {
		return res, err
	}
	res.Parsed = len(rows)
	if len(rows) == 0 {
		return res, nil
	}

	tx, err := in.store.Begin(ctx, p)
	if err != nil {
		return res, &PersistError{Op: "begin transaction", Err: err}
	}

	fresh, err := Reconcile(ctx, tx, rows, p)
	if err != nil {
		tx.Rollback()
		return res, err
	}
	res.New = len(fresh)
	if len(fresh) == 0 {
		tx.Rollback()
		return res, nil
	}

	n, err := Persist(ctx, tx, fresh, u.AdminID, in.now())
	if err != nil {
		return res, err
	}
	res.Inserted = n

	utils.Logger.WithFields(logrus.Fields{
		"bank":     p.Code,
		"parsed":   res.Parsed,
		"inserted": res.Inserted,
	}).Debug("statement upload reconciled")
	return res, nil
}

// Persist stamps records with the uploader and upload time, inserts them and
// commits. On any failure the transaction is rolled back and nothing is
// written.
func Persist(ctx context.Context, tx Tx, records []models.Statement, uploaderID string, now time.Time) (int, error) {
	stamp := now.UTC().Truncate(time.Second)
	for i := range records {
		records[i].UploadAdminID = uploaderID
		records[i].UploadTime = stamp
		records[i].Status = false
	}

	n, err := tx.Insert(ctx, records)
	if err != nil {
		tx.Rollback()
		return 0, &PersistError{Op: "insert statements", Err: err}
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return 0, &PersistError{Op: "commit statements", Err: err}
	}
	return n, nil
}
