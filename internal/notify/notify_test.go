package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/progress"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAssignmentCreated(t *testing.T) {
	a := &types.Assignment{ID: uuid.New(), UserID: uuid.New(), Title: "Essay"}
	p := AssignmentCreated(a, "History")
	if p.Type != types.NotificationInfo || p.Title != "Assignment Created" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if p.Message != `"Essay" for History has been added to your assignments.` {
		t.Fatalf("message: %q", p.Message)
	}
	if p.RelatedTable != TableAssignments || p.RelatedID == nil || *p.RelatedID != a.ID || p.UserID != a.UserID {
		t.Fatalf("related fields: %+v", p)
	}
	if got := AssignmentCreated(a, "").Message; !strings.Contains(got, "Unknown Course") {
		t.Fatalf("missing course fallback: %q", got)
	}
	if AssignmentCreated(nil, "x") != nil {
		t.Fatalf("nil assignment should yield nil")
	}
}

func TestAssignmentToggled(t *testing.T) {
	cases := []struct {
		name         string
		wasCompleted bool
		completed    bool
		fire         bool
	}{
		{"open to done", false, true, true},
		{"done to open", true, false, false},
		{"still open", false, false, false},
		{"still done", true, true, false},
	}
	for _, tc := range cases {
		a := &types.Assignment{ID: uuid.New(), Title: "Quiz", Completed: tc.completed}
		p := AssignmentToggled(a, tc.wasCompleted)
		if (p != nil) != tc.fire {
			t.Fatalf("%s: fire want=%v got=%v", tc.name, tc.fire, p != nil)
		}
		if p != nil && (p.Type != types.NotificationSuccess || p.Message != `Great job! You've completed "Quiz".`) {
			t.Fatalf("%s: payload %+v", tc.name, p)
		}
	}
}

func TestCourseCreated(t *testing.T) {
	c := &types.Course{ID: uuid.New(), Name: "Data Structures", Code: "CS210"}
	p := CourseCreated(c)
	if p.Type != types.NotificationSuccess || p.Message != `"Data Structures (CS210)" has been successfully added to your courses.` {
		t.Fatalf("payload %+v", p)
	}
}

func TestSessionLogged(t *testing.T) {
	short := &types.StudySession{ID: uuid.New(), Duration: 119}
	p := SessionLogged(short, "Biology")
	if p.Type != types.NotificationInfo || p.Message != "Logged 1h 59m for Biology." {
		t.Fatalf("short session: %+v", p)
	}

	long := &types.StudySession{ID: uuid.New(), Duration: 120, Subtopic: "Genetics"}
	p = SessionLogged(long, "Biology")
	if p.Type != types.NotificationSuccess {
		t.Fatalf("long session type: %s", p.Type)
	}
	if p.Message != "Impressive focus! You studied Biology (Genetics) for 2h 0m." {
		t.Fatalf("long session message: %q", p.Message)
	}
}

func TestWeeklyReset(t *testing.T) {
	uid := uuid.New()
	if p := WeeklyReset(uid, true, nil); p.Message != "Weekly progress has been saved and reset. Lagging units status preserved." || p.Type != types.NotificationInfo {
		t.Fatalf("keep lagging: %+v", p)
	}
	if p := WeeklyReset(uid, false, nil); !strings.HasSuffix(p.Message, "All unit statuses reset.") {
		t.Fatalf("reset all: %+v", p)
	}
}

func TestAssignmentDueSoon(t *testing.T) {
	due := time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC)
	a := &types.Assignment{ID: uuid.New(), UserID: uuid.New(), Title: "Lab", DueDate: due}

	p := AssignmentDueSoon(a, "Chemistry", now)
	if p == nil {
		t.Fatalf("expected payload")
	}
	want := `"Lab" for Chemistry is due tomorrow (Monday, Mar 11, 09:30 AM). Don't forget to complete it!`
	if p.Message != want || p.Type != types.NotificationWarning {
		t.Fatalf("payload: %+v", p)
	}
	if p.DedupeKey != "assignment_due:"+a.ID.String()+":2024-03-10" {
		t.Fatalf("dedupe key: %q", p.DedupeKey)
	}
	if p.DedupeKey != AssignmentDueSoon(a, "Chemistry", now.Add(11*time.Hour)).DedupeKey {
		t.Fatalf("same day should give the same key")
	}
	n := p.Notification()
	if n.DedupeKey == nil || *n.DedupeKey != p.DedupeKey || n.RelatedID == nil {
		t.Fatalf("notification conversion: %+v", n)
	}

	a.Completed = true
	if AssignmentDueSoon(a, "Chemistry", now) != nil {
		t.Fatalf("completed assignment should not fire")
	}
	a.Completed = false
	a.DueDate = now.Add(2 * time.Hour)
	if AssignmentDueSoon(a, "Chemistry", now) != nil {
		t.Fatalf("due today should not fire")
	}
	a.DueDate = time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	if AssignmentDueSoon(a, "Chemistry", now) != nil {
		t.Fatalf("due in two days should not fire")
	}
}

func TestWeeklySummary(t *testing.T) {
	uid := uuid.New()
	weekStart := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		sum     progress.WeekSummary
		typ     types.NotificationType
		message string
	}{
		{
			name:    "goal met",
			sum:     progress.WeekSummary{WeekStart: weekStart, TotalHours: 8, SessionCount: 4, CoursesStudied: 2, GoalHours: 8, GoalPercent: 100},
			typ:     types.NotificationSuccess,
			message: "This week you studied for 8.0 hours across 4 sessions covering 2 courses. Your weekly goal: 8h (100% complete)",
		},
		{
			name:    "behind",
			sum:     progress.WeekSummary{WeekStart: weekStart, TotalHours: 1.5, SessionCount: 1, CoursesStudied: 1, GoalHours: 7.5, GoalPercent: 20},
			typ:     types.NotificationWarning,
			message: "This week you studied for 1.5 hours across 1 sessions covering 1 course. Your weekly goal: 7.5h (20% complete)",
		},
		{
			name: "midway",
			sum:  progress.WeekSummary{WeekStart: weekStart, TotalHours: 3, SessionCount: 2, CoursesStudied: 1, GoalHours: 4, GoalPercent: 75},
			typ:  types.NotificationInfo,
		},
		{
			name:    "no goal",
			sum:     progress.WeekSummary{WeekStart: weekStart},
			typ:     types.NotificationInfo,
			message: "This week you studied for 0.0 hours across 0 sessions.",
		},
	}
	for _, tc := range cases {
		p := WeeklySummary(uid, tc.sum)
		if p.Type != tc.typ {
			t.Fatalf("%s: type want=%s got=%s", tc.name, tc.typ, p.Type)
		}
		if tc.message != "" && p.Message != tc.message {
			t.Fatalf("%s: message %q", tc.name, p.Message)
		}
		if p.DedupeKey != "weekly_summary:"+uid.String()+":2024-03-10" {
			t.Fatalf("%s: dedupe key %q", tc.name, p.DedupeKey)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{0: "0m", 45: "45m", 60: "1h 0m", 125: "2h 5m", -5: "0m"}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d): want=%q got=%q", in, want, got)
		}
	}
}

func TestWelcome(t *testing.T) {
	uid := uuid.New()
	p := Welcome(uid)
	if p.UserID != uid || p.Title != "Welcome to Smart Study Planner!" || p.DedupeKey != "" {
		t.Fatalf("payload %+v", p)
	}
}
