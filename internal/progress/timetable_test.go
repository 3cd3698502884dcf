package progress

import (
	"testing"
	"time"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

func TestCalendarPhase(t *testing.T) {
	cal := DefaultCalendar()
	cases := []struct {
		week int
		want Phase
	}{
		{0, Phase{Kind: PhaseEarly, Name: "Early Semester"}},
		{1, Phase{Kind: PhaseEarly, Name: "Early Semester"}},
		{4, Phase{Kind: PhaseEarly, Name: "Early Semester"}},
		{5, Phase{Kind: PhaseAssessment, Name: "CAT Week 1"}},
		{6, Phase{Kind: PhaseMid, Name: "Mid Semester"}},
		{7, Phase{Kind: PhaseMid, Name: "Mid Semester"}},
		{8, Phase{Kind: PhaseAssessment, Name: "CAT Week 2"}},
		{9, Phase{Kind: PhaseLate, Name: "Late Semester"}},
		{10, Phase{Kind: PhaseLate, Name: "Late Semester"}},
		{11, Phase{Kind: PhaseExam, Name: "Exam Period"}},
		{15, Phase{Kind: PhaseExam, Name: "Exam Period"}},
	}
	for _, tc := range cases {
		if got := cal.Phase(tc.week); got != tc.want {
			t.Fatalf("Phase(%d): want=%+v got=%+v", tc.week, tc.want, got)
		}
	}
}

func TestCalendarPhaseCustom(t *testing.T) {
	cal, err := ParseCalendar([]byte(`
assessments:
  - {week: 9, label: Quiz}
  - {week: 3, label: Quiz}
  - {week: 6, label: Midterm}
exams_from: 0
`))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	cases := map[int]Phase{
		2:  {Kind: PhaseEarly, Name: "Early Semester"},
		3:  {Kind: PhaseAssessment, Name: "Quiz Week 1"},
		6:  {Kind: PhaseAssessment, Name: "Midterm Week 1"},
		9:  {Kind: PhaseAssessment, Name: "Quiz Week 2"},
		12: {Kind: PhaseLate, Name: "Late Semester"},
		40: {Kind: PhaseLate, Name: "Late Semester"},
	}
	for week, want := range cases {
		if got := cal.Phase(week); got != want {
			t.Fatalf("Phase(%d): want=%+v got=%+v", week, want, got)
		}
	}

	none := AcademicCalendar{}
	if got := none.Phase(7); got.Kind != PhaseEarly {
		t.Fatalf("no checkpoints: want early, got %+v", got)
	}
	if _, err := ParseCalendar([]byte("exams_from: -2\n")); err == nil {
		t.Fatalf("expected error for negative exams_from")
	}
}

func slotNames(s TimetableSlot) []string {
	out := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		out = append(out, c.Name)
	}
	return out
}

func slotsFor(slots []TimetableSlot, day time.Weekday) []TimetableSlot {
	var out []TimetableSlot
	for _, s := range slots {
		if s.Weekday == day {
			out = append(out, s)
		}
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTimetableLayout(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	courses := make([]*types.Course, 0, len(names))
	for _, n := range names {
		courses = append(courses, course(n, 4))
	}
	lagging := []LaggingUnit{{Course: courses[8], Progress: 5}, {Course: courses[3], Progress: 10}, {Course: courses[1], Progress: 20}}

	slots := Timetable(courses, lagging)
	if len(slots) != 5*4+4+2 {
		t.Fatalf("slot count: got %d", len(slots))
	}
	if slots[0].Weekday != time.Monday || slots[len(slots)-1].Weekday != time.Sunday {
		t.Fatalf("days should run Monday to Sunday: first=%v last=%v", slots[0].Weekday, slots[len(slots)-1].Weekday)
	}

	type want struct {
		start string
		kind  SlotKind
		names []string
	}
	cases := []struct {
		day  time.Weekday
		want []want
	}{
		{time.Monday, []want{
			{"03:00", SlotPriority, []string{"I", "D"}},
			{"05:00", SlotRegular, []string{"C", "D"}},
			{"17:00", SlotRegular, []string{"A"}},
			{"18:30", SlotRegular, []string{"B"}},
		}},
		{time.Friday, []want{
			{"03:00", SlotPriority, []string{"I", "D"}},
			{"05:00", SlotRegular, []string{"C", "D"}},
			{"17:00", SlotRegular, []string{"E"}},
			{"18:30", SlotRegular, []string{"F"}},
		}},
		{time.Saturday, []want{
			{"06:00", SlotPriority, []string{"I", "D"}},
			{"08:30", SlotRegular, []string{"E", "F"}},
			{"14:00", SlotRegular, []string{"G"}},
			{"15:30", SlotRegular, []string{"H"}},
		}},
		{time.Sunday, []want{
			{"06:00", SlotPriority, []string{"I", "D"}},
			{"08:30", SlotReview, []string{"A", "B"}},
		}},
	}
	for _, tc := range cases {
		got := slotsFor(slots, tc.day)
		if len(got) != len(tc.want) {
			t.Fatalf("%v: want %d slots, got %d", tc.day, len(tc.want), len(got))
		}
		for i, w := range tc.want {
			if got[i].Start != w.start || got[i].Kind != w.kind || !equalNames(slotNames(got[i]), w.names) {
				t.Fatalf("%v slot %d: want %s %s %v, got %s %s %v", tc.day, i, w.start, w.kind, w.names, got[i].Start, got[i].Kind, slotNames(got[i]))
			}
			if got[i].Day != tc.day.String() {
				t.Fatalf("%v slot %d: day name %q", tc.day, i, got[i].Day)
			}
		}
	}
}

func TestTimetableFewCourses(t *testing.T) {
	a, b := course("Algebra", 4), course("Biology", 4)

	slots := Timetable([]*types.Course{a, nil, b}, []LaggingUnit{{Course: b, Progress: 0}, {Course: nil}})
	wed := slotsFor(slots, time.Wednesday)
	if !equalNames(slotNames(wed[0]), []string{"Biology"}) {
		t.Fatalf("one lagging unit: priority got %v", slotNames(wed[0]))
	}
	if len(wed[1].Courses) != 0 {
		t.Fatalf("units[2:4] past the end should be empty, got %v", slotNames(wed[1]))
	}
	// Wednesday is day index 2: 2%2 and 3%2.
	if !equalNames(slotNames(wed[2]), []string{"Algebra"}) || !equalNames(slotNames(wed[3]), []string{"Biology"}) {
		t.Fatalf("rotation: got %v and %v", slotNames(wed[2]), slotNames(wed[3]))
	}
	sat := slotsFor(slots, time.Saturday)
	for i := 1; i < len(sat); i++ {
		if len(sat[i].Courses) != 0 {
			t.Fatalf("saturday slot %d should be empty with two courses, got %v", i, slotNames(sat[i]))
		}
	}
}

func TestTimetableNoCourses(t *testing.T) {
	slots := Timetable(nil, nil)
	if len(slots) != 26 {
		t.Fatalf("layout should stay fixed, got %d slots", len(slots))
	}
	for _, s := range slots {
		if s.Courses == nil || len(s.Courses) != 0 {
			t.Fatalf("%s %s: want empty non-nil course list, got %v", s.Day, s.Start, s.Courses)
		}
	}
}
