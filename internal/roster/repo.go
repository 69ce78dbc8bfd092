package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"attendance/internal/apperr"
	"attendance/internal/model"
)

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentCols = `id, student_id, name, email, phone, course, created_at`

// List returns all students ordered by name, ties broken by insertion order.
func (r *Repository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentCols+`
		FROM students
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, apperr.Store("list students", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Name, &s.Email, &s.Phone, &s.Course, &s.CreatedAt); err != nil {
			return nil, apperr.Store("scan student", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Get returns a single student by student_id, or nil when absent.
func (r *Repository) Get(ctx context.Context, studentID string) (*model.Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentCols+`
		FROM students WHERE student_id = $1
	`, studentID)
	var s model.Student
	if err := row.Scan(&s.ID, &s.StudentID, &s.Name, &s.Email, &s.Phone, &s.Course, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("get student", err)
	}
	return &s, nil
}

// Insert persists a new student. A duplicate student_id surfaces as Conflict.
func (r *Repository) Insert(ctx context.Context, s *model.Student) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (student_id, name, email, phone, course)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, s.StudentID, s.Name, s.Email, s.Phone, s.Course)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("student", s.StudentID)
		}
		return apperr.Store("insert student", err)
	}
	return nil
}

// Update replaces the mutable fields of a student. Returns false when no
// such student exists.
func (r *Repository) Update(ctx context.Context, s *model.Student) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = $2, email = $3, phone = $4, course = $5
		WHERE student_id = $1
	`, s.StudentID, s.Name, s.Email, s.Phone, s.Course)
	if err != nil {
		return false, apperr.Store("update student", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store("update student", err)
	}
	return n > 0, nil
}

// DeleteCascade removes a student and every attendance record referencing
// it in one transaction. The attendance delete is an explicit step, not a
// schema-level cascade. Returns false when the student does not exist.
func (r *Repository) DeleteCascade(ctx context.Context, studentID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperr.Store("begin delete", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return false, apperr.Store("delete student", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store("delete student", err)
	}
	if n == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance WHERE student_id = $1`, studentID); err != nil {
		return false, apperr.Store("delete attendance for student", err)
	}
	if err := tx.Commit(); err != nil {
		return false, apperr.Store("commit delete", err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
