// Package deadline partitions assignments by due date and renders relative
// due labels.
package deadline

import (
	"fmt"
	"time"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

type Buckets struct {
	Overdue   []*types.Assignment `json:"overdue"`
	Upcoming  []*types.Assignment `json:"upcoming"`
	Completed []*types.Assignment `json:"completed"`
}

func (b Buckets) Len() int { return len(b.Overdue) + len(b.Upcoming) + len(b.Completed) }

// Classify places each assignment in exactly one bucket. Completed wins over
// any due date; an open assignment due strictly before now is overdue.
// Input order is kept within each bucket. Nil entries are skipped.
func Classify(assignments []*types.Assignment, now time.Time) Buckets {
	out := Buckets{
		Overdue:   make([]*types.Assignment, 0),
		Upcoming:  make([]*types.Assignment, 0),
		Completed: make([]*types.Assignment, 0),
	}
	for _, a := range assignments {
		switch {
		case a == nil:
		case a.Completed:
			out.Completed = append(out.Completed, a)
		case a.DueDate.Before(now):
			out.Overdue = append(out.Overdue, a)
		default:
			out.Upcoming = append(out.Upcoming, a)
		}
	}
	return out
}

// DaysUntil is the number of calendar days from now's date to due's date,
// both taken in now's location. Negative means due is in the past.
func DaysUntil(due, now time.Time) int {
	loc := now.Location()
	dy, dm, dd := due.In(loc).Date()
	ny, nm, nd := now.Date()
	// Noon avoids DST transitions shifting the day count.
	dueDay := time.Date(dy, dm, dd, 12, 0, 0, 0, loc)
	nowDay := time.Date(ny, nm, nd, 12, 0, 0, 0, loc)
	hours := dueDay.Sub(nowDay).Hours()
	if hours >= 0 {
		return int((hours + 12) / 24)
	}
	return -int((-hours + 12) / 24)
}

// RelativeDueLabel renders due relative to now using calendar days.
func RelativeDueLabel(due, now time.Time) string {
	n := DaysUntil(due, now)
	switch {
	case n < 0:
		return fmt.Sprintf("Overdue by %d days", -n)
	case n == 0:
		return "Due today"
	case n == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("Due in %d days", n)
	}
}

// TomorrowWindow returns [start of tomorrow, start of the day after) in now's
// location.
func TomorrowWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return start, time.Date(y, m, d+2, 0, 0, 0, 0, now.Location())
}

// DueWithinNextDay reports whether due falls on tomorrow's calendar day.
func DueWithinNextDay(due, now time.Time) bool {
	from, to := TomorrowWindow(now)
	return !due.Before(from) && due.Before(to)
}
