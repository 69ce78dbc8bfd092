// Package storetest provides an in-memory implementation of the repo
// interfaces with the same ordering, uniqueness and cascade semantics as
// the Postgres store. It backs handler and seeder tests that should not
// need a database.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"attendance/internal/apperr"
	"attendance/internal/ledger"
	"attendance/internal/model"
	"attendance/internal/roster"
	"attendance/internal/stats"
)

// MemStore holds both tables behind one mutex.
type MemStore struct {
	mu       sync.Mutex
	nextID   int64
	students []model.Student
	records  []model.AttendanceRecord
}

var (
	_ roster.Repo = (*MemStore)(nil)
	_ ledger.Repo = ledgerView{}
	_ stats.Repo  = (*MemStore)(nil)
)

func New() *MemStore {
	return &MemStore{nextID: 1}
}

// Ledger adapts the store to ledger.Repo. A separate view is needed because
// roster.Repo and ledger.Repo both declare List with different signatures.
func (m *MemStore) Ledger() ledger.Repo {
	return ledgerView{m}
}

type ledgerView struct {
	m *MemStore
}

func (v ledgerView) UpsertBatch(ctx context.Context, marks []model.Mark) error {
	return v.m.UpsertBatch(ctx, marks)
}

func (v ledgerView) List(ctx context.Context, f ledger.Filter) ([]model.AttendanceRecord, error) {
	return v.m.ListRecords(ctx, f)
}

func (v ledgerView) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return v.m.ListByDate(ctx, date)
}

func (v ledgerView) UpdateRecord(ctx context.Context, id int64, status string, notes *string) (bool, error) {
	return v.m.UpdateRecord(ctx, id, status, notes)
}

func (v ledgerView) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	return v.m.DeleteRecord(ctx, id)
}

func (m *MemStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// ---------- roster.Repo ----------

func (m *MemStore) List(ctx context.Context) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Student, len(m.students))
	copy(out, m.students)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemStore) Get(ctx context.Context, studentID string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.StudentID == studentID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MemStore) Insert(ctx context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.students {
		if existing.StudentID == s.StudentID {
			return apperr.Conflict("student", s.StudentID)
		}
	}
	s.ID = m.id()
	s.CreatedAt = time.Now().UTC()
	m.students = append(m.students, *s)
	return nil
}

func (m *MemStore) Update(ctx context.Context, s *model.Student) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.students {
		if existing.StudentID == s.StudentID {
			s.ID = existing.ID
			s.CreatedAt = existing.CreatedAt
			m.students[i] = *s
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) DeleteCascade(ctx context.Context, studentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for i, s := range m.students {
		if s.StudentID == studentID {
			m.students = append(m.students[:i], m.students[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	kept := m.records[:0]
	for _, r := range m.records {
		if r.StudentID != studentID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return true, nil
}

// ---------- ledger.Repo ----------

func (m *MemStore) UpsertBatch(ctx context.Context, marks []model.Mark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mark := range marks {
		replaced := false
		for i, r := range m.records {
			if r.StudentID == mark.StudentID && r.Date == mark.Date {
				m.records[i].Status = mark.Status
				m.records[i].Notes = mark.Notes
				replaced = true
				break
			}
		}
		if !replaced {
			m.records = append(m.records, model.AttendanceRecord{
				ID:        m.id(),
				StudentID: mark.StudentID,
				Date:      mark.Date,
				Status:    mark.Status,
				Notes:     mark.Notes,
				CreatedAt: time.Now().UTC(),
			})
		}
	}
	return nil
}

func (m *MemStore) joined() []model.AttendanceRecord {
	byStudent := make(map[string]model.Student, len(m.students))
	for _, s := range m.students {
		byStudent[s.StudentID] = s
	}
	out := make([]model.AttendanceRecord, len(m.records))
	for i, r := range m.records {
		if s, ok := byStudent[r.StudentID]; ok {
			name := s.Name
			r.StudentName = &name
			r.Course = s.Course
		}
		out[i] = r
	}
	return out
}

func nameOf(r model.AttendanceRecord) string {
	if r.StudentName == nil {
		return "\xff" // nulls sort last
	}
	return *r.StudentName
}

func (m *MemStore) ListRecords(ctx context.Context, f ledger.Filter) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceRecord
	for _, r := range m.joined() {
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		if f.StudentID != "" && r.StudentID != f.StudentID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if nameOf(out[i]) != nameOf(out[j]) {
			return nameOf(out[i]) < nameOf(out[j])
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemStore) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	records, err := m.ListRecords(ctx, ledger.Filter{Date: date})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if nameOf(records[i]) != nameOf(records[j]) {
			return nameOf(records[i]) < nameOf(records[j])
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (m *MemStore) UpdateRecord(ctx context.Context, id int64, status string, notes *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records[i].Status = status
			m.records[i].Notes = notes
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ---------- stats.Repo ----------

func (m *MemStore) CountStudents(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students), nil
}

func (m *MemStore) CountRecords(ctx context.Context) (stats.Counts, error) {
	return m.countWhere(func(model.AttendanceRecord) bool { return true })
}

func (m *MemStore) CountRecordsFor(ctx context.Context, studentID string) (stats.Counts, error) {
	return m.countWhere(func(r model.AttendanceRecord) bool { return r.StudentID == studentID })
}

func (m *MemStore) countWhere(match func(model.AttendanceRecord) bool) (stats.Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c stats.Counts
	for _, r := range m.records {
		if !match(r) {
			continue
		}
		c.Total++
		switch r.Status {
		case model.StatusPresent:
			c.Present++
		case model.StatusAbsent:
			c.Absent++
		case model.StatusLate:
			c.Late++
		}
	}
	return c, nil
}
