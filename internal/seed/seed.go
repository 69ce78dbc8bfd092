// Package seed fills the store with a mock roster and a month of
// attendance so the dashboard has something to show. It goes through the
// real services, so seeded data obeys the same validation and uniqueness
// rules as data written through the API.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"attendance/internal/ledger"
	"attendance/internal/model"
	"attendance/internal/roster"
)

var firstNames = []string{
	"John", "Jane", "Michael", "Emily", "David", "Sarah", "James", "Jessica",
	"Robert", "Amanda", "William", "Ashley", "Richard", "Melissa", "Joseph",
	"Nicole", "Thomas", "Michelle", "Christopher", "Kimberly", "Daniel", "Amy",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Thompson", "White",
}

var courses = []string{
	"Computer Science", "Mathematics", "Physics", "Chemistry", "Biology",
	"Engineering", "Business", "Economics", "Psychology", "History",
}

var notes = []string{
	"Arrived 10 minutes late",
	"Left early for appointment",
	"Participated actively",
	"Medical leave",
}

// Options controls how much data Run generates.
type Options struct {
	Students int
	Days     int
	Rand     *rand.Rand
	Now      time.Time
}

func (o Options) defaults() Options {
	if o.Students <= 0 {
		o.Students = 50
	}
	if o.Days <= 0 {
		o.Days = 30
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Run creates students STU0001..STU<n> and marks attendance for the last
// Days weekdays with a present-heavy status distribution.
func Run(ctx context.Context, students *roster.Service, attendance *ledger.Service, opts Options) error {
	opts = opts.defaults()
	rng := opts.Rand

	ids := make([]string, 0, opts.Students)
	for i := 1; i <= opts.Students; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		studentID := fmt.Sprintf("STU%04d", i)
		email := fmt.Sprintf("%s.%s@university.edu", strings.ToLower(first), strings.ToLower(last))
		phone := fmt.Sprintf("+1-%03d-%03d-%04d", 200+rng.Intn(800), 200+rng.Intn(800), 1000+rng.Intn(9000))
		course := courses[rng.Intn(len(courses))]

		if _, err := students.Create(ctx, studentID, first+" "+last, &email, &phone, &course); err != nil {
			return fmt.Errorf("seed student %s: %w", studentID, err)
		}
		ids = append(ids, studentID)
	}

	for offset := 0; offset < opts.Days; offset++ {
		day := opts.Now.AddDate(0, 0, -offset)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		date := day.Format(model.DateFormat)

		marks := make([]model.Mark, 0, len(ids))
		for _, id := range ids {
			m := model.Mark{StudentID: id, Date: date, Status: randomStatus(rng)}
			if m.Status != model.StatusPresent && rng.Intn(4) == 0 {
				n := notes[rng.Intn(len(notes))]
				m.Notes = &n
			}
			marks = append(marks, m)
		}
		if err := attendance.Mark(ctx, marks); err != nil {
			return fmt.Errorf("seed attendance for %s: %w", date, err)
		}
	}
	return nil
}

// randomStatus skews heavily toward present, roughly matching a real
// classroom: ~80% present, ~10% absent, ~10% late.
func randomStatus(rng *rand.Rand) string {
	switch n := rng.Intn(10); {
	case n < 8:
		return model.StatusPresent
	case n < 9:
		return model.StatusAbsent
	default:
		return model.StatusLate
	}
}
