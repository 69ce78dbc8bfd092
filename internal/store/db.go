package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Migrate applies the schema. Constraints carry the data-model invariants:
// one roster row per student_id, one attendance row per (student_id, date),
// and a closed status set.
func (d *DB) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id          BIGSERIAL PRIMARY KEY,
		student_id  TEXT UNIQUE NOT NULL,
		name        TEXT NOT NULL,
		email       TEXT,
		phone       TEXT,
		course      TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id          BIGSERIAL PRIMARY KEY,
		student_id  TEXT NOT NULL,
		date        DATE NOT NULL,
		status      TEXT NOT NULL CHECK (status IN ('present', 'absent', 'late')),
		notes       TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_date    ON attendance(date);
	`
	_, err := d.Client.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
