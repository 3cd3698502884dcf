package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

// 2031-05-20 is a Tuesday; its study week starts Sunday 2031-05-18.
var sweepNow = time.Date(2031, 5, 20, 10, 0, 0, 0, time.UTC)

func TestRunDueSweepIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, e.db, "due@example.com")
	c := testutil.SeedCourse(t, ctx, e.db, u.ID, "Algebra", 3)

	tomorrow := testutil.SeedAssignment(t, ctx, e.db, u.ID, testutil.PtrUUID(c.ID), "Problem Set", sweepNow.Add(29*time.Hour), false)
	testutil.SeedAssignment(t, ctx, e.db, u.ID, testutil.PtrUUID(c.ID), "Tonight", sweepNow.Add(10*time.Hour), false)
	testutil.SeedAssignment(t, ctx, e.db, u.ID, nil, "Already done", sweepNow.Add(28*time.Hour), true)
	testutil.SeedAssignment(t, ctx, e.db, u.ID, nil, "Next week", sweepNow.Add(7*24*time.Hour), false)

	first, err := e.sweep.RunDueSweep(ctx, sweepNow)
	if err != nil {
		t.Fatalf("RunDueSweep: %v", err)
	}
	if first.Scanned != 2 || first.Created != 1 || first.Skipped != 1 {
		t.Fatalf("first run: got %+v", first)
	}

	second, err := e.sweep.RunDueSweep(ctx, sweepNow.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("RunDueSweep again: %v", err)
	}
	if second.Created != 0 || second.Skipped != 2 {
		t.Fatalf("second run: got %+v", second)
	}

	rows := e.notificationsFor(t, u.ID)
	if len(rows) != 1 {
		t.Fatalf("notifications: want=1 got=%d", len(rows))
	}
	n := rows[0]
	if n.Type != types.NotificationWarning || n.Title != "Assignment Due Tomorrow" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.RelatedID == nil || *n.RelatedID != tomorrow.ID {
		t.Fatalf("related id: want=%s got=%v", tomorrow.ID, n.RelatedID)
	}
	if !strings.Contains(n.Message, "Algebra") {
		t.Fatalf("message should name the course: %q", n.Message)
	}
	if e.emitter.count() != 1 {
		t.Fatalf("emitted: want=1 got=%d", e.emitter.count())
	}
}

func TestRunDueSweepUsesOwnerTimezone(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, e.db, "tz@example.com")
	if err := e.db.Model(u).Update("timezone", "Asia/Tokyo").Error; err != nil {
		t.Fatalf("set timezone: %v", err)
	}
	// 10:00 UTC is 19:00 in Tokyo. 16:00 UTC is 01:00 the next day there.
	testutil.SeedAssignment(t, ctx, e.db, u.ID, nil, "Essay", sweepNow.Add(6*time.Hour), false)

	res, err := e.sweep.RunDueSweep(ctx, sweepNow)
	if err != nil {
		t.Fatalf("RunDueSweep: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("want the Tokyo user notified, got %+v", res)
	}
	rows := e.notificationsFor(t, u.ID)
	if len(rows) != 1 || !strings.Contains(rows[0].Message, "Unknown Course") {
		t.Fatalf("unexpected notifications: %+v", rows)
	}
}

func TestRunWeeklySummarySweepOncePerWeek(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, e.db, "weekly@example.com")
	idle := testutil.SeedUser(t, ctx, e.db, "nocourses@example.com")
	c := testutil.SeedCourse(t, ctx, e.db, u.ID, "Biology", 4)
	testutil.SeedSession(t, ctx, e.db, u.ID, c.ID, time.Date(2031, 5, 19, 9, 0, 0, 0, time.UTC), 180)
	// Before the week started.
	testutil.SeedSession(t, ctx, e.db, u.ID, c.ID, time.Date(2031, 5, 17, 9, 0, 0, 0, time.UTC), 600)

	first, err := e.sweep.RunWeeklySummarySweep(ctx, sweepNow)
	if err != nil {
		t.Fatalf("RunWeeklySummarySweep: %v", err)
	}
	if first.Scanned != 2 || first.Created != 2 {
		t.Fatalf("first run: got %+v", first)
	}
	second, err := e.sweep.RunWeeklySummarySweep(ctx, sweepNow.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("RunWeeklySummarySweep again: %v", err)
	}
	if second.Created != 0 || second.Skipped != 2 {
		t.Fatalf("second run: got %+v", second)
	}

	rows := e.notificationsFor(t, u.ID)
	if len(rows) != 1 {
		t.Fatalf("notifications: want=1 got=%d", len(rows))
	}
	n := rows[0]
	if n.Type != types.NotificationInfo {
		t.Fatalf("type: want=info got=%s", n.Type)
	}
	want := "This week you studied for 3.0 hours across 1 sessions covering 1 course. Your weekly goal: 4h (75% complete)"
	if n.Message != want {
		t.Fatalf("message:\nwant=%q\n got=%q", want, n.Message)
	}

	idleRows := e.notificationsFor(t, idle.ID)
	if len(idleRows) != 1 {
		t.Fatalf("user without courses: want=1 report got=%d", len(idleRows))
	}
	if idleRows[0].Type != types.NotificationInfo || idleRows[0].Message != "This week you studied for 0.0 hours across 0 sessions." {
		t.Fatalf("zero report: type=%s message=%q", idleRows[0].Type, idleRows[0].Message)
	}

	next, err := e.sweep.RunWeeklySummarySweep(ctx, sweepNow.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("RunWeeklySummarySweep next week: %v", err)
	}
	if next.Created != 2 {
		t.Fatalf("next week should report again, got %+v", next)
	}
}
