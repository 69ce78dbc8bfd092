package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance/internal/apperr"
	"attendance/internal/ledger"
	"attendance/internal/model"
	"attendance/internal/roster"
	"attendance/internal/stats"
	"attendance/internal/store"
)

// testDB connects to the database named by TEST_DATABASE_URL, applies the
// schema and starts from empty tables. Tests are skipped when the variable
// is unset so the suite runs without infrastructure.
func testDB(t *testing.T) *store.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := store.NewDB(url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	_, err = db.Client.Exec(`TRUNCATE attendance, students RESTART IDENTITY`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strptr(s string) *string { return &s }

func TestInsertConflictClassification(t *testing.T) {
	db := testDB(t)
	repo := roster.NewRepository(db.Client)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.Student{StudentID: "STU001", Name: "Ada Lovelace"}))
	err := repo.Insert(ctx, &model.Student{StudentID: "STU001", Name: "Impostor"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpsertLastWriterWinsKeepsCreatedAt(t *testing.T) {
	db := testDB(t)
	repo := ledger.NewRepository(db.Client)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []model.Mark{
		{StudentID: "STU001", Date: "2024-01-01", Status: "present", Notes: strptr("on time")},
	}))
	before, err := repo.List(ctx, ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, repo.UpsertBatch(ctx, []model.Mark{
		{StudentID: "STU001", Date: "2024-01-01", Status: "late"},
	}))
	after, err := repo.List(ctx, ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, after, 1, "uniqueness constraint admits one row per (student, date)")

	assert.Equal(t, "late", after[0].Status)
	assert.Nil(t, after[0].Notes, "replace clears fields not supplied")
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt, "created_at is set once")
}

func TestCheckConstraintRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	repo := ledger.NewRepository(db.Client)

	// Belt and braces: the service validates first, but the schema is the
	// last line of defense.
	err := repo.UpsertBatch(context.Background(), []model.Mark{
		{StudentID: "STU001", Date: "2024-01-01", Status: "excused"},
	})
	require.Error(t, err)

	records, lerr := repo.List(context.Background(), ledger.Filter{})
	require.NoError(t, lerr)
	assert.Empty(t, records, "failed batch leaves nothing behind")
}

func TestDeleteCascadeIsAtomic(t *testing.T) {
	db := testDB(t)
	students := roster.NewRepository(db.Client)
	records := ledger.NewRepository(db.Client)
	ctx := context.Background()

	require.NoError(t, students.Insert(ctx, &model.Student{StudentID: "STU001", Name: "Ada Lovelace"}))
	require.NoError(t, students.Insert(ctx, &model.Student{StudentID: "STU002", Name: "Bob White"}))
	require.NoError(t, records.UpsertBatch(ctx, []model.Mark{
		{StudentID: "STU001", Date: "2024-01-01", Status: "present"},
		{StudentID: "STU001", Date: "2024-01-02", Status: "late"},
		{StudentID: "STU002", Date: "2024-01-01", Status: "absent"},
	}))

	found, err := students.DeleteCascade(ctx, "STU001")
	require.NoError(t, err)
	require.True(t, found)

	left, err := records.List(ctx, ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "STU002", left[0].StudentID)

	found, err = students.DeleteCascade(ctx, "STU404")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListJoinToleratesOrphans(t *testing.T) {
	db := testDB(t)
	students := roster.NewRepository(db.Client)
	records := ledger.NewRepository(db.Client)
	ctx := context.Background()

	require.NoError(t, students.Insert(ctx, &model.Student{StudentID: "STU001", Name: "Ada Lovelace", Course: strptr("Mathematics")}))
	require.NoError(t, records.UpsertBatch(ctx, []model.Mark{
		{StudentID: "STU001", Date: "2024-01-01", Status: "present"},
		{StudentID: "GHOST", Date: "2024-01-01", Status: "present"},
	}))

	list, err := records.ListByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, list, 2, "orphaned records still appear")

	assert.Equal(t, "Ada Lovelace", *list[0].StudentName)
	assert.Equal(t, "Mathematics", *list[0].Course)
	assert.Nil(t, list[1].StudentName, "orphans sort after named students")
}

func TestStudentListOrder(t *testing.T) {
	db := testDB(t)
	repo := roster.NewRepository(db.Client)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.Student{StudentID: "STU003", Name: "Ada Lovelace"}))
	require.NoError(t, repo.Insert(ctx, &model.Student{StudentID: "STU001", Name: "Bob White"}))
	require.NoError(t, repo.Insert(ctx, &model.Student{StudentID: "STU002", Name: "Ada Lovelace"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "STU003", list[0].StudentID, "name ties break by insertion order")
	assert.Equal(t, "STU002", list[1].StudentID)
	assert.Equal(t, "STU001", list[2].StudentID)
}

func TestStatsCounts(t *testing.T) {
	db := testDB(t)
	students := roster.NewRepository(db.Client)
	records := ledger.NewRepository(db.Client)
	agg := stats.NewRepository(db.Client)
	ctx := context.Background()

	require.NoError(t, students.Insert(ctx, &model.Student{StudentID: "STU002", Name: "Bob White"}))
	marks := make([]model.Mark, 0, 10)
	statuses := []string{"present", "present", "present", "present", "present", "present", "present", "absent", "absent", "late"}
	for i, st := range statuses {
		marks = append(marks, model.Mark{
			StudentID: "STU002",
			Date:      time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC).Format(model.DateFormat),
			Status:    st,
		})
	}
	require.NoError(t, records.UpsertBatch(ctx, marks))

	c, err := agg.CountRecordsFor(ctx, "STU002")
	require.NoError(t, err)
	assert.Equal(t, stats.Counts{Total: 10, Present: 7, Absent: 2, Late: 1}, c)

	n, err := agg.CountStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	empty, err := agg.CountRecordsFor(ctx, "STU404")
	require.NoError(t, err)
	assert.Equal(t, stats.Counts{}, empty)
}
