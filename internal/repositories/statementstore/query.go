package statementstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
)

// ListOptions selects one page of a bank table.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Page is one page of stored statements plus the table's row count.
type Page struct {
	Total int                `json:"total"`
	Rows  []models.Statement `json:"data"`
}

// sortColumn returns sortBy if it names a column of p's table, else the
// default ordering column.
func sortColumn(p *banks.Profile, sortBy string) string {
	switch sortBy {
	case "id", "upload_time", "upload_admin_id", "status":
		return sortBy
	}
	for _, f := range p.Columns() {
		if string(f) == sortBy {
			return sortBy
		}
	}
	return "id"
}

// List returns a page of p's statements.
func (s *Store) List(ctx context.Context, p *banks.Profile, opts ListOptions) (Page, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	order := "ASC"
	if strings.EqualFold(opts.SortOrder, "desc") {
		order = "DESC"
	}

	var page Page
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+p.Table).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count %s: %w", p.Table, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s %s LIMIT ? OFFSET ?",
		strings.Join(selectColumns(p), ", "), p.Table, sortColumn(p, opts.SortBy), order)
	rows, err := s.db.QueryContext(ctx, query, opts.Limit, (opts.Page-1)*opts.Limit)
	if err != nil {
		return page, fmt.Errorf("list %s: %w", p.Table, err)
	}
	defer rows.Close()

	fields := p.Columns()
	page.Rows = []models.Statement{}
	for rows.Next() {
		st, err := scanStatement(rows, fields)
		if err != nil {
			return page, fmt.Errorf("list %s: %w", p.Table, err)
		}
		page.Rows = append(page.Rows, st)
	}
	return page, rows.Err()
}

// Activity counts a bank table's recent uploads and unprocessed rows.
type Activity struct {
	Bank     string
	Uploaded int
	Pending  int
}

// Activity reports how many rows of p were uploaded since the given time and
// how many rows still have status false.
func (s *Store) Activity(ctx context.Context, p *banks.Profile, since time.Time) (Activity, error) {
	a := Activity{Bank: p.Name}
	query := fmt.Sprintf(
		"SELECT COALESCE(SUM(upload_time >= ?), 0), COALESCE(SUM(status = FALSE), 0) FROM %s", p.Table)
	if err := s.db.QueryRowContext(ctx, query, since.UTC()).Scan(&a.Uploaded, &a.Pending); err != nil {
		return a, fmt.Errorf("activity %s: %w", p.Table, err)
	}
	return a, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
