package stats

import (
	"context"
	"database/sql"

	"attendance/internal/apperr"
)

// Counts holds raw per-status tallies for a set of ledger rows.
type Counts struct {
	Total   int
	Present int
	Absent  int
	Late    int
}

// Repository reads aggregates from Postgres. It never mutates anything.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CountStudents returns the roster size.
func (r *Repository) CountStudents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, apperr.Store("count students", err)
	}
	return n, nil
}

// CountRecords tallies the whole ledger by status.
func (r *Repository) CountRecords(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'present'),
		       COUNT(*) FILTER (WHERE status = 'absent'),
		       COUNT(*) FILTER (WHERE status = 'late')
		FROM attendance
	`).Scan(&c.Total, &c.Present, &c.Absent, &c.Late)
	if err != nil {
		return Counts{}, apperr.Store("count attendance", err)
	}
	return c, nil
}

// CountRecordsFor tallies one student's ledger rows by status. An unknown
// student simply yields zero counts.
func (r *Repository) CountRecordsFor(ctx context.Context, studentID string) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'present'),
		       COUNT(*) FILTER (WHERE status = 'absent'),
		       COUNT(*) FILTER (WHERE status = 'late')
		FROM attendance
		WHERE student_id = $1
	`, studentID).Scan(&c.Total, &c.Present, &c.Absent, &c.Late)
	if err != nil {
		return Counts{}, apperr.Store("count attendance for student", err)
	}
	return c, nil
}
