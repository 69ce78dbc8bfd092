package model

import "time"

// Attendance status values. The set is closed; anything else is rejected
// before it reaches the store.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

// ValidStatus reports whether s is one of the allowed attendance statuses.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// DateFormat is the wire and storage format for attendance dates.
const DateFormat = "2006-01-02"

// Student is a roster entry. StudentID is the externally assigned identity
// key; ID is the surrogate row id and never leaves via the API contract.
type Student struct {
	ID        int64     `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Course    *string   `json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceRecord is one student's status for one calendar day.
// StudentName and Course are joined from the roster for display and may be
// nil when the record is orphaned.
type AttendanceRecord struct {
	ID          int64     `json:"id"`
	StudentID   string    `json:"student_id"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	StudentName *string   `json:"student_name,omitempty"`
	Course      *string   `json:"course,omitempty"`
}

// Mark is the upsert input tuple for marking attendance.
type Mark struct {
	StudentID string  `json:"student_id"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes"`
}

// OverviewStats aggregates the whole ledger.
type OverviewStats struct {
	TotalStudents        int     `json:"total_students"`
	TotalRecords         int     `json:"total_records"`
	PresentCount         int     `json:"present_count"`
	AbsentCount          int     `json:"absent_count"`
	LateCount            int     `json:"late_count"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// StudentStats aggregates one student's records.
type StudentStats struct {
	StudentID            string  `json:"student_id"`
	TotalRecords         int     `json:"total_records"`
	PresentCount         int     `json:"present_count"`
	AbsentCount          int     `json:"absent_count"`
	LateCount            int     `json:"late_count"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}
