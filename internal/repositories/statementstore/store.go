// Package statementstore keeps reconciled bank statement rows in MySQL. Each
// bank has its own table; the column set comes from the bank profile.
package statementstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/statements"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

const (
	defaultLockWait  = 30 * time.Second
	defaultChunkSize = 500
)

// ErrLockTimeout is returned when another upload for the same bank holds the
// table lock for longer than the configured wait.
var ErrLockTimeout = errors.New("timed out waiting for statement table lock")

// Store opens ingest transactions against the per-bank statement tables.
type Store struct {
	db        *sql.DB
	lockWait  time.Duration
	chunkSize int
}

// Option configures a Store.
type Option func(*Store)

// WithLockWait sets how long Begin waits for the per-bank lock.
func WithLockWait(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockWait = d
		}
	}
}

// WithChunkSize sets how many rows go into one INSERT statement.
func WithChunkSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// New returns a Store on db.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, lockWait: defaultLockWait, chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lockName(p *banks.Profile) string {
	return "statements:" + p.Code
}

// Begin pins a connection, takes the bank's named lock on it and starts a
// transaction. Uploads for one bank are serialised until Commit or Rollback
// so the existing-row read and the insert cannot interleave with another
// upload of an overlapping file.
func (s *Store) Begin(ctx context.Context, p *banks.Profile) (statements.Tx, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	var got sql.NullInt64
	err = conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", lockName(p), int(s.lockWait.Seconds())).Scan(&got)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("lock %s: %w", lockName(p), err)
	}
	if !got.Valid || got.Int64 != 1 {
		conn.Close()
		return nil, fmt.Errorf("lock %s: %w", lockName(p), ErrLockTimeout)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		release(conn, p)
		return nil, err
	}
	return &Tx{conn: conn, tx: tx, profile: p, chunkSize: s.chunkSize}, nil
}

func release(conn *sql.Conn, p *banks.Profile) {
	if _, err := conn.ExecContext(context.Background(), "DO RELEASE_LOCK(?)", lockName(p)); err != nil {
		utils.Logger.WithFields(logrus.Fields{
			"bank":  p.Code,
			"error": err.Error(),
		}).Warn("failed to release statement table lock")
	}
	conn.Close()
}

// Tx is one upload's transaction on a bank table.
type Tx struct {
	conn      *sql.Conn
	tx        *sql.Tx
	profile   *banks.Profile
	chunkSize int
	done      bool
}

func selectColumns(p *banks.Profile) []string {
	cols := []string{"id"}
	for _, f := range p.Columns() {
		cols = append(cols, string(f))
	}
	return append(cols, "upload_admin_id", "upload_time", "status")
}

func scanStatement(rows *sql.Rows, fields []models.Field) (models.Statement, error) {
	var s models.Statement
	dest := []any{&s.ID}
	for _, f := range fields {
		dest = append(dest, s.ScanTarget(f))
	}
	dest = append(dest, &s.UploadAdminID, &s.UploadTime, &s.Status)
	err := rows.Scan(dest...)
	return s, err
}

// ExistingByDates returns the stored rows whose transaction_date is one of
// dates.
func (t *Tx) ExistingByDates(ctx context.Context, dates []time.Time) ([]models.Statement, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	args := make([]any, len(dates))
	for i, d := range dates {
		args[i] = d
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE transaction_date IN (%s)",
		strings.Join(selectColumns(t.profile), ", "), t.profile.Table, placeholders(len(dates)))

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := t.profile.Columns()
	var out []models.Statement
	for rows.Next() {
		s, err := scanStatement(rows, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Insert writes records in multi-row INSERT statements of at most chunkSize
// rows each and returns the number of rows written.
func (t *Tx) Insert(ctx context.Context, records []models.Statement) (int, error) {
	fields := t.profile.Columns()
	cols := make([]string, 0, len(fields)+3)
	for _, f := range fields {
		cols = append(cols, string(f))
	}
	cols = append(cols, "upload_admin_id", "upload_time", "status")
	row := "(" + placeholders(len(cols)) + ")"

	total := 0
	for start := 0; start < len(records); start += t.chunkSize {
		end := min(start+t.chunkSize, len(records))
		chunk := records[start:end]

		values := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*len(cols))
		for i := range chunk {
			values[i] = row
			for _, f := range fields {
				args = append(args, chunk[i].Value(f))
			}
			args = append(args, chunk[i].UploadAdminID, chunk[i].UploadTime, chunk[i].Status)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			t.profile.Table, strings.Join(cols, ", "), strings.Join(values, ", "))
		res, err := t.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += int(n)
	}
	return total, nil
}

// Commit commits the transaction and releases the bank lock.
func (t *Tx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	defer release(t.conn, t.profile)
	return t.tx.Commit()
}

// Rollback aborts the transaction and releases the bank lock. It is a no-op
// after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer release(t.conn, t.profile)
	return t.tx.Rollback()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
