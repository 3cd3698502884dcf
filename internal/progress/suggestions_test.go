package progress

import (
	"reflect"
	"testing"
)

func TestStudySuggestions(t *testing.T) {
	cal := DefaultCalendar()
	a, b, c := course("Algebra", 4), course("Biology", 4), course("Chemistry", 4)
	lagging := []LaggingUnit{{Course: a, Progress: 0}, {Course: b, Progress: 10}, {Course: c, Progress: 20}}

	cases := []struct {
		name    string
		week    int
		lagging []LaggingUnit
		want    []string
	}{
		{
			name:    "before first assessment",
			week:    4,
			lagging: lagging,
			want: []string{
				"CAT Week 5 approaching! Focus on reviewing all units.",
				"Units needing attention: Algebra, Biology",
			},
		},
		{
			name: "before second assessment, on track",
			week: 7,
			want: []string{
				"CAT Week 8 approaching! Prioritize weaker units.",
				"Great progress! Consider reviewing previous topics for retention.",
			},
		},
		{
			name:    "exam period",
			week:    12,
			lagging: lagging[:1],
			want: []string{
				"Exam preparation mode! Create comprehensive review schedules.",
				"Units needing attention: Algebra",
			},
		},
		{
			name: "ordinary week",
			week: 2,
			want: []string{"Great progress! Consider reviewing previous topics for retention."},
		},
	}
	for _, tc := range cases {
		got := StudySuggestions(cal, tc.week, tc.lagging)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestCalendarParse(t *testing.T) {
	cal, err := ParseCalendar([]byte(""))
	if err != nil {
		t.Fatalf("ParseCalendar empty: %v", err)
	}
	if !reflect.DeepEqual(cal, DefaultCalendar()) {
		t.Fatalf("empty file should keep defaults: %+v", cal)
	}

	raw := []byte(`
assessments:
  - week: 6
    label: Midterm
    advice: Revise lecture notes.
lead_weeks: 0
exam_period_from: 0
`)
	cal, err = ParseCalendar(raw)
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	if msg, ok := cal.Reminder(6); !ok || msg != "Midterm Week 6 is here! Revise lecture notes." {
		t.Fatalf("Reminder(6): ok=%v msg=%q", ok, msg)
	}
	if _, ok := cal.Reminder(5); ok {
		t.Fatalf("Reminder(5) should not fire with zero lead weeks")
	}
	if _, ok := cal.Reminder(20); ok {
		t.Fatalf("exam period disabled, Reminder(20) should not fire")
	}

	if _, err := ParseCalendar([]byte("lead_weeks: -1\n")); err == nil {
		t.Fatalf("expected error for negative lead_weeks")
	}
	if _, err := ParseCalendar([]byte("assessments: [{week: 0}]\n")); err == nil {
		t.Fatalf("expected error for week 0")
	}
}

func TestLoadCalendarEmptyPath(t *testing.T) {
	cal, err := LoadCalendar("")
	if err != nil {
		t.Fatalf("LoadCalendar: %v", err)
	}
	if cal.ExamPeriodFrom != 10 || len(cal.Assessments) != 2 {
		t.Fatalf("unexpected defaults: %+v", cal)
	}
}
