package statements

import (
	"context"
	"sort"
	"time"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
)

// Tx is one upload's unit of work against the statement store. The read of
// existing rows and the insert of new ones share it.
type Tx interface {
	ExistingByDates(ctx context.Context, dates []time.Time) ([]models.Statement, error)
	Insert(ctx context.Context, records []models.Statement) (int, error)
	Commit() error
	Rollback() error
}

// Store opens transactions on one bank's statement table.
type Store interface {
	Begin(ctx context.Context, p *banks.Profile) (Tx, error)
}

// Reconcile returns the rows of a freshly parsed sheet that are not already
// stored, in sheet order. Existing rows are fetched only for the dates that
// occur in the sheet, then each parsed row is kept unless some stored row
// matches it on every comparable field.
func Reconcile(ctx context.Context, tx Tx, rows []RawRow, p *banks.Profile) ([]models.Statement, error) {
	records := make([]models.Statement, len(rows))
	for i, row := range rows {
		records[i] = ToRecord(row, p)
	}

	dates := distinctDates(records)
	if len(dates) == 0 {
		return records, nil
	}

	existing, err := tx.ExistingByDates(ctx, dates)
	if err != nil {
		return nil, &PersistError{Op: "query existing statements", Err: err}
	}
	if len(existing) == 0 {
		return records, nil
	}

	fields := p.Columns()
	byDate := make(map[int64][]Tuple, len(dates))
	for i := range existing {
		t := TupleOf(&existing[i], fields)
		if !t.Date.Valid {
			continue
		}
		key := t.Date.Time.UnixNano()
		byDate[key] = append(byDate[key], t)
	}

	fresh := make([]models.Statement, 0, len(records))
	for i := range records {
		t := TupleOf(&records[i], fields)
		if !t.Date.Valid || !containsTuple(byDate[t.Date.Time.UnixNano()], t) {
			fresh = append(fresh, records[i])
		}
	}
	return fresh, nil
}

func containsTuple(candidates []Tuple, t Tuple) bool {
	for _, c := range candidates {
		if c.Equal(t) {
			return true
		}
	}
	return false
}

// distinctDates returns the non-null transaction dates in ascending order.
func distinctDates(records []models.Statement) []time.Time {
	seen := make(map[int64]bool)
	var dates []time.Time
	for _, r := range records {
		if !r.TransactionDate.Valid {
			continue
		}
		t := r.TransactionDate.Time.UTC()
		if seen[t.UnixNano()] {
			continue
		}
		seen[t.UnixNano()] = true
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
