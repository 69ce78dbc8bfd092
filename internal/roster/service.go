package roster

import (
	"context"

	"attendance/internal/apperr"
	"attendance/internal/model"
)

// Repo is the persistence surface the service needs.
type Repo interface {
	List(ctx context.Context) ([]model.Student, error)
	Get(ctx context.Context, studentID string) (*model.Student, error)
	Insert(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) (bool, error)
	DeleteCascade(ctx context.Context, studentID string) (bool, error)
}

// Service validates roster operations and delegates persistence.
type Service struct {
	repo Repo
}

// NewService creates a service backed by a repository.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// List returns the full roster ordered by name.
func (s *Service) List(ctx context.Context) ([]model.Student, error) {
	return s.repo.List(ctx)
}

// Get returns one student or NotFound.
func (s *Service) Get(ctx context.Context, studentID string) (*model.Student, error) {
	st, err := s.repo.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperr.NotFound("student", studentID)
	}
	return st, nil
}

// Create registers a new student. student_id and name are mandatory.
func (s *Service) Create(ctx context.Context, studentID, name string, email, phone, course *string) (*model.Student, error) {
	if studentID == "" {
		return nil, apperr.Validation("student_id is required")
	}
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	st := &model.Student{
		StudentID: studentID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Course:    course,
	}
	if err := s.repo.Insert(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Update replaces name, email, phone and course. Omitted optional fields
// are written as nulls, not preserved.
func (s *Service) Update(ctx context.Context, studentID, name string, email, phone, course *string) error {
	if name == "" {
		return apperr.Validation("name is required")
	}
	found, err := s.repo.Update(ctx, &model.Student{
		StudentID: studentID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Course:    course,
	})
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("student", studentID)
	}
	return nil
}

// Delete removes a student and, as part of the same operation, all of that
// student's attendance records.
func (s *Service) Delete(ctx context.Context, studentID string) error {
	found, err := s.repo.DeleteCascade(ctx, studentID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("student", studentID)
	}
	return nil
}
