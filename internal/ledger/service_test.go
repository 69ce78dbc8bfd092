package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance/internal/apperr"
	"attendance/internal/ledger"
	"attendance/internal/model"
)

// fakeRepo records every call so tests can assert nothing was written.
type fakeRepo struct {
	upserts    [][]model.Mark
	updated    map[int64]string
	deleted    map[int64]bool
	existing   map[int64]bool
	listFilter *ledger.Filter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		updated:  map[int64]string{},
		deleted:  map[int64]bool{},
		existing: map[int64]bool{},
	}
}

func (f *fakeRepo) UpsertBatch(_ context.Context, marks []model.Mark) error {
	f.upserts = append(f.upserts, marks)
	return nil
}

func (f *fakeRepo) List(_ context.Context, filter ledger.Filter) ([]model.AttendanceRecord, error) {
	f.listFilter = &filter
	return nil, nil
}

func (f *fakeRepo) ListByDate(_ context.Context, date string) ([]model.AttendanceRecord, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(_ context.Context, id int64, status string, _ *string) (bool, error) {
	if !f.existing[id] {
		return false, nil
	}
	f.updated[id] = status
	return true, nil
}

func (f *fakeRepo) DeleteRecord(_ context.Context, id int64) (bool, error) {
	if !f.existing[id] {
		return false, nil
	}
	f.deleted[id] = true
	return true, nil
}

func mark(studentID, date, status string) model.Mark {
	return model.Mark{StudentID: studentID, Date: date, Status: status}
}

func TestMarkValidation(t *testing.T) {
	tests := []struct {
		name string
		in   model.Mark
	}{
		{"missing student id", mark("", "2024-01-01", "present")},
		{"bad status", mark("STU001", "2024-01-01", "sleeping")},
		{"empty status", mark("STU001", "2024-01-01", "")},
		{"bad date", mark("STU001", "01/01/2024", "present")},
		{"date with time", mark("STU001", "2024-01-01T10:00:00Z", "present")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := ledger.NewService(repo)

			err := svc.Mark(context.Background(), []model.Mark{tt.in})
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Empty(t, repo.upserts, "no write may happen on validation failure")
		})
	}
}

func TestMarkEmptyBatch(t *testing.T) {
	svc := ledger.NewService(newFakeRepo())
	err := svc.Mark(context.Background(), nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMarkBulkAllOrNothing(t *testing.T) {
	repo := newFakeRepo()
	svc := ledger.NewService(repo)

	batch := []model.Mark{
		mark("STU001", "2024-01-01", "present"),
		mark("STU002", "2024-01-01", "invalid"),
		mark("STU003", "2024-01-01", "late"),
	}
	err := svc.Mark(context.Background(), batch)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "record 1", "error should name the offending record")
	assert.Empty(t, repo.upserts, "a bad record anywhere fails the whole batch before any write")
}

func TestMarkValidBatchReachesRepoOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := ledger.NewService(repo)

	batch := []model.Mark{
		mark("STU001", "2024-01-01", "present"),
		mark("STU002", "2024-01-01", "absent"),
	}
	require.NoError(t, svc.Mark(context.Background(), batch))
	require.Len(t, repo.upserts, 1, "whole batch goes down as one unit")
	assert.Equal(t, batch, repo.upserts[0])
}

func TestMarkUnknownStudentAccepted(t *testing.T) {
	// Ledger writes are deliberately not validated against the roster.
	repo := newFakeRepo()
	svc := ledger.NewService(repo)
	require.NoError(t, svc.Mark(context.Background(), []model.Mark{mark("GHOST", "2024-01-01", "present")}))
	assert.Len(t, repo.upserts, 1)
}

func TestListRejectsMalformedDateFilter(t *testing.T) {
	repo := newFakeRepo()
	svc := ledger.NewService(repo)

	_, err := svc.List(context.Background(), ledger.Filter{Date: "not-a-date"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Nil(t, repo.listFilter)
}

func TestListPassesFilterThrough(t *testing.T) {
	repo := newFakeRepo()
	svc := ledger.NewService(repo)

	f := ledger.Filter{Date: "2024-01-01", StudentID: "STU001"}
	_, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter)
	assert.Equal(t, f, *repo.listFilter)
}

func TestByDateRejectsMalformedDate(t *testing.T) {
	svc := ledger.NewService(newFakeRepo())
	_, err := svc.ByDate(context.Background(), "2024-13-45")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateRevalidatesStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.existing[7] = true
	svc := ledger.NewService(repo)

	err := svc.Update(context.Background(), 7, "gone", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, repo.updated)

	require.NoError(t, svc.Update(context.Background(), 7, "late", nil))
	assert.Equal(t, "late", repo.updated[7])
}

func TestUpdateUnknownID(t *testing.T) {
	svc := ledger.NewService(newFakeRepo())
	err := svc.Update(context.Background(), 42, "present", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteUnknownID(t *testing.T) {
	svc := ledger.NewService(newFakeRepo())
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.existing[3] = true
	svc := ledger.NewService(repo)
	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.True(t, repo.deleted[3])
}
