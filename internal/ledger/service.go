package ledger

import (
	"context"
	"fmt"
	"time"

	"attendance/internal/apperr"
	"attendance/internal/model"
)

// Repo is the persistence surface the service needs.
type Repo interface {
	UpsertBatch(ctx context.Context, marks []model.Mark) error
	List(ctx context.Context, f Filter) ([]model.AttendanceRecord, error)
	ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error)
	UpdateRecord(ctx context.Context, id int64, status string, notes *string) (bool, error)
	DeleteRecord(ctx context.Context, id int64) (bool, error)
}

// Service validates attendance writes and delegates persistence. Single and
// bulk marking share one path: a single mark is a batch of one.
type Service struct {
	repo Repo
}

// NewService creates a service backed by a repository.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Mark upserts the whole batch or none of it. Every mark is validated
// before any write happens, so a bad record anywhere in the batch leaves
// the ledger untouched. Marks are not checked against the roster; unknown
// student ids are accepted.
func (s *Service) Mark(ctx context.Context, marks []model.Mark) error {
	if len(marks) == 0 {
		return apperr.Validation("no records to mark")
	}
	for i, m := range marks {
		if err := validateMark(m); err != nil {
			if len(marks) > 1 {
				return fmt.Errorf("record %d: %w", i, err)
			}
			return err
		}
	}
	return s.repo.UpsertBatch(ctx, marks)
}

func validateMark(m model.Mark) error {
	if m.StudentID == "" {
		return apperr.Validation("student_id is required")
	}
	if _, err := time.Parse(model.DateFormat, m.Date); err != nil {
		return apperr.Validation("date %q is not a valid YYYY-MM-DD date", m.Date)
	}
	if !model.ValidStatus(m.Status) {
		return apperr.Validation("status %q is not one of present, absent, late", m.Status)
	}
	return nil
}

// List returns records matching the filter, newest date first.
func (s *Service) List(ctx context.Context, f Filter) ([]model.AttendanceRecord, error) {
	if f.Date != "" {
		if _, err := time.Parse(model.DateFormat, f.Date); err != nil {
			return nil, apperr.Validation("date %q is not a valid YYYY-MM-DD date", f.Date)
		}
	}
	return s.repo.List(ctx, f)
}

// ByDate returns one day's records ordered by student name.
func (s *Service) ByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	if _, err := time.Parse(model.DateFormat, date); err != nil {
		return nil, apperr.Validation("date %q is not a valid YYYY-MM-DD date", date)
	}
	return s.repo.ListByDate(ctx, date)
}

// Update mutates an existing record addressed by its internal id.
func (s *Service) Update(ctx context.Context, id int64, status string, notes *string) error {
	if !model.ValidStatus(status) {
		return apperr.Validation("status %q is not one of present, absent, late", status)
	}
	found, err := s.repo.UpdateRecord(ctx, id, status, notes)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("attendance record", fmt.Sprintf("%d", id))
	}
	return nil
}

// Delete removes one record by its internal id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.DeleteRecord(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("attendance record", fmt.Sprintf("%d", id))
	}
	return nil
}
