package progress

import (
	"time"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

type SlotKind string

const (
	SlotPriority SlotKind = "priority"
	SlotRegular  SlotKind = "regular"
	SlotReview   SlotKind = "review"
)

// TimetableSlot is one suggested study block. Start and End are wall-clock
// times ("HH:MM") in the user's timezone.
type TimetableSlot struct {
	Weekday time.Weekday    `json:"weekday"`
	Day     string          `json:"day"`
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Kind    SlotKind        `json:"kind"`
	Courses []*types.Course `json:"courses"`
}

// timetableDays is the display order, Monday first.
var timetableDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Timetable lays out a fixed weekly study plan. Priority blocks hold the two
// most behind units. Weekday evenings rotate through courses by day index.
// A block whose courses do not exist is returned with an empty course list.
func Timetable(courses []*types.Course, lagging []LaggingUnit) []TimetableSlot {
	units := make([]*types.Course, 0, len(courses))
	for _, c := range courses {
		if c != nil {
			units = append(units, c)
		}
	}
	priority := make([]*types.Course, 0, 2)
	for _, l := range lagging {
		if l.Course == nil {
			continue
		}
		priority = append(priority, l.Course)
		if len(priority) == 2 {
			break
		}
	}

	out := make([]TimetableSlot, 0, 26)
	add := func(day time.Weekday, start, end string, kind SlotKind, cs []*types.Course) {
		out = append(out, TimetableSlot{
			Weekday: day,
			Day:     day.String(),
			Start:   start,
			End:     end,
			Kind:    kind,
			Courses: append([]*types.Course{}, cs...),
		})
	}

	for i, day := range timetableDays {
		switch day {
		case time.Saturday:
			add(day, "06:00", "08:30", SlotPriority, priority)
			add(day, "08:30", "11:00", SlotRegular, window(units, 4, 6))
			add(day, "14:00", "15:30", SlotRegular, window(units, 6, 7))
			add(day, "15:30", "17:00", SlotRegular, window(units, 7, 8))
		case time.Sunday:
			add(day, "06:00", "08:30", SlotPriority, priority)
			add(day, "08:30", "11:00", SlotReview, window(units, 0, 2))
		default:
			add(day, "03:00", "05:00", SlotPriority, priority)
			add(day, "05:00", "07:00", SlotRegular, window(units, 2, 4))
			add(day, "17:00", "18:30", SlotRegular, rotate(units, i))
			add(day, "18:30", "20:00", SlotRegular, rotate(units, i+1))
		}
	}
	return out
}

// window is units[lo:hi] clamped to the slice length.
func window(units []*types.Course, lo, hi int) []*types.Course {
	if lo >= len(units) {
		return nil
	}
	if hi > len(units) {
		hi = len(units)
	}
	return units[lo:hi]
}

func rotate(units []*types.Course, i int) []*types.Course {
	if len(units) == 0 {
		return nil
	}
	return []*types.Course{units[i%len(units)]}
}
