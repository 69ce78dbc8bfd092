package stats

import (
	"context"
	"math"

	"attendance/internal/model"
)

// Repo is the read surface the service needs.
type Repo interface {
	CountStudents(ctx context.Context) (int, error)
	CountRecords(ctx context.Context) (Counts, error)
	CountRecordsFor(ctx context.Context, studentID string) (Counts, error)
}

// Service derives aggregates from current store contents on every call.
// There is no cache; an aggregate requested right after a write reflects it.
type Service struct {
	repo Repo
}

// NewService creates a service backed by a repository.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Overview aggregates the whole ledger plus the roster size.
func (s *Service) Overview(ctx context.Context) (*model.OverviewStats, error) {
	students, err := s.repo.CountStudents(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.CountRecords(ctx)
	if err != nil {
		return nil, err
	}
	return &model.OverviewStats{
		TotalStudents:        students,
		TotalRecords:         c.Total,
		PresentCount:         c.Present,
		AbsentCount:          c.Absent,
		LateCount:            c.Late,
		AttendancePercentage: percentage(c),
	}, nil
}

// ForStudent aggregates one student's records. Unknown ids are not an
// error; they report all-zero counts.
func (s *Service) ForStudent(ctx context.Context, studentID string) (*model.StudentStats, error) {
	c, err := s.repo.CountRecordsFor(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &model.StudentStats{
		StudentID:            studentID,
		TotalRecords:         c.Total,
		PresentCount:         c.Present,
		AbsentCount:          c.Absent,
		LateCount:            c.Late,
		AttendancePercentage: percentage(c),
	}, nil
}

// percentage is present/total*100 rounded to 2 decimals, 0 on an empty set.
func percentage(c Counts) float64 {
	if c.Total == 0 {
		return 0
	}
	return math.Round(float64(c.Present)/float64(c.Total)*100*100) / 100
}
