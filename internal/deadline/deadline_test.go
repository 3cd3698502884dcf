package deadline

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func assignment(title string, due time.Time, completed bool) *types.Assignment {
	return &types.Assignment{ID: uuid.New(), Title: title, DueDate: due, Completed: completed}
}

func TestClassify(t *testing.T) {
	yesterday := assignment("yesterday", now.AddDate(0, 0, -1), false)
	exactlyNow := assignment("now", now, false)
	oneMsAgo := assignment("1ms ago", now.Add(-time.Millisecond), false)
	future := assignment("future", now.Add(48*time.Hour), false)
	doneLate := assignment("done late", now.AddDate(0, 0, -3), true)
	doneEarly := assignment("done early", now.AddDate(0, 0, 3), true)

	input := []*types.Assignment{yesterday, exactlyNow, doneLate, oneMsAgo, future, nil, doneEarly}
	got := Classify(input, now)

	assertIDs(t, "overdue", got.Overdue, yesterday, oneMsAgo)
	assertIDs(t, "upcoming", got.Upcoming, exactlyNow, future)
	assertIDs(t, "completed", got.Completed, doneLate, doneEarly)
	if got.Len() != len(input)-1 {
		t.Fatalf("partition size: want=%d got=%d", len(input)-1, got.Len())
	}
}

func TestClassifyPartitionIsTotal(t *testing.T) {
	var input []*types.Assignment
	for i := -50; i <= 50; i++ {
		input = append(input, assignment("a", now.Add(time.Duration(i)*7*time.Hour), i%3 == 0))
	}
	got := Classify(input, now)
	if got.Len() != len(input) {
		t.Fatalf("want=%d got=%d", len(input), got.Len())
	}
	seen := make(map[uuid.UUID]int)
	for _, bucket := range [][]*types.Assignment{got.Overdue, got.Upcoming, got.Completed} {
		for _, a := range bucket {
			seen[a.ID]++
		}
	}
	for _, a := range input {
		if seen[a.ID] != 1 {
			t.Fatalf("assignment %s placed %d times", a.ID, seen[a.ID])
		}
	}

	empty := Classify(nil, now)
	if empty.Overdue == nil || empty.Upcoming == nil || empty.Completed == nil || empty.Len() != 0 {
		t.Fatalf("empty input should give three empty buckets")
	}
}

func TestRelativeDueLabel(t *testing.T) {
	cases := []struct {
		name string
		due  time.Time
		want string
	}{
		{"later today", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), "Due today"},
		{"1ms before now", now.Add(-time.Millisecond), "Due today"},
		{"previous day", time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), "Overdue by 1 days"},
		{"exactly 24h later", now.Add(24 * time.Hour), "Due tomorrow"},
		{"tomorrow midnight", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), "Due tomorrow"},
		{"in three days", time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC), "Due in 3 days"},
		{"a week ago", now.AddDate(0, 0, -7), "Overdue by 7 days"},
	}
	for _, tc := range cases {
		if got := RelativeDueLabel(tc.due, now); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestRelativeDueLabelUsesNowLocation(t *testing.T) {
	eat := time.FixedZone("EAT", 3*3600)
	localNow := time.Date(2024, 3, 10, 22, 0, 0, 0, eat)
	// 2024-03-10 22:30 UTC is already 2024-03-11 in EAT.
	due := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)
	if got := RelativeDueLabel(due, localNow); got != "Due tomorrow" {
		t.Fatalf("want=%q got=%q", "Due tomorrow", got)
	}
	if got := RelativeDueLabel(due, localNow.UTC()); got != "Due today" {
		t.Fatalf("utc: want=%q got=%q", "Due today", got)
	}
}

func TestDaysUntilAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts 2024-03-10 in New York; the day is only 23 hours long.
	localNow := time.Date(2024, 3, 9, 23, 30, 0, 0, ny)
	due := time.Date(2024, 3, 11, 0, 15, 0, 0, ny)
	if got := DaysUntil(due, localNow); got != 2 {
		t.Fatalf("want=2 got=%d", got)
	}
}

func TestDueWithinNextDay(t *testing.T) {
	cases := []struct {
		due  time.Time
		want bool
	}{
		{time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), false},
		{time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 3, 11, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{now.AddDate(0, 0, -1), false},
	}
	for _, tc := range cases {
		if got := DueWithinNextDay(tc.due, now); got != tc.want {
			t.Fatalf("DueWithinNextDay(%s): want=%v got=%v", tc.due, tc.want, got)
		}
	}
}

func assertIDs(t *testing.T, name string, got []*types.Assignment, want ...*types.Assignment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: want %d items, got %d", name, len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Fatalf("%s[%d]: want=%s got=%s", name, i, want[i].Title, got[i].Title)
		}
	}
}
