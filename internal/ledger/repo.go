package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"attendance/internal/apperr"
	"attendance/internal/model"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBatch applies every mark in one transaction. Each mark is an
// insert-or-replace keyed on (student_id, date): an existing row keeps its
// id and created_at but has status and notes fully overwritten. The unique
// constraint is the sole arbiter of "same record", so concurrent upserts of
// one key serialize to a single row, last writer winning.
func (r *Repository) UpsertBatch(ctx context.Context, marks []model.Mark) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Store("begin mark", err)
	}
	defer tx.Rollback()

	for _, m := range marks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (student_id, date, status, notes)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (student_id, date) DO UPDATE SET
				status = EXCLUDED.status,
				notes  = EXCLUDED.notes
		`, m.StudentID, m.Date, m.Status, m.Notes); err != nil {
			return apperr.Store("upsert attendance", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Store("commit mark", err)
	}
	return nil
}

// Filter narrows List; zero values mean no constraint. Filters are
// conjunctive.
type Filter struct {
	Date      string
	StudentID string
}

const recordCols = `a.id, a.student_id, a.date, a.status, a.notes, a.created_at, s.name, s.course`

// List returns records joined with roster display fields, newest date
// first, then student name. The join is a LEFT JOIN so orphaned records
// still appear.
func (r *Repository) List(ctx context.Context, f Filter) ([]model.AttendanceRecord, error) {
	query := `
		SELECT ` + recordCols + `
		FROM attendance a
		LEFT JOIN students s ON s.student_id = a.student_id`
	args := []any{}
	clauses := []string{}
	if f.Date != "" {
		clauses = append(clauses, fmt.Sprintf("a.date = $%d", len(args)+1))
		args = append(args, f.Date)
	}
	if f.StudentID != "" {
		clauses = append(clauses, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, f.StudentID)
	}
	for i, c := range clauses {
		if i == 0 {
			query += "\n\t\tWHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += "\n\t\tORDER BY a.date DESC, s.name ASC NULLS LAST, a.id ASC"
	return r.queryRecords(ctx, query, args...)
}

// ListByDate returns every record for one date ordered by student name.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordCols+`
		FROM attendance a
		LEFT JOIN students s ON s.student_id = a.student_id
		WHERE a.date = $1
		ORDER BY s.name ASC NULLS LAST, a.id ASC
	`, date)
}

func (r *Repository) queryRecords(ctx context.Context, query string, args ...any) ([]model.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store("list attendance", err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		var day time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &day, &rec.Status, &rec.Notes, &rec.CreatedAt, &rec.StudentName, &rec.Course); err != nil {
			return nil, apperr.Store("scan attendance", err)
		}
		rec.Date = day.Format(model.DateFormat)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateRecord replaces status and notes of the record with the given id.
// Returns false when no such record exists.
func (r *Repository) UpdateRecord(ctx context.Context, id int64, status string, notes *string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance SET status = $2, notes = $3 WHERE id = $1
	`, id, status, notes)
	if err != nil {
		return false, apperr.Store("update attendance", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store("update attendance", err)
	}
	return n > 0, nil
}

// DeleteRecord removes one record by id. Returns false when absent.
func (r *Repository) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return false, apperr.Store("delete attendance", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store("delete attendance", err)
	}
	return n > 0, nil
}
