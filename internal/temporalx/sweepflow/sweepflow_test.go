package sweepflow

import (
	"context"
	"errors"
	"testing"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
	"github.com/yungbote/studyplanner-backend/internal/temporalx"
)

type fakeSweeps struct {
	calls []string
	at    []time.Time
	err   error
}

func (f *fakeSweeps) RunDueSweep(ctx context.Context, now time.Time) (services.SweepResult, error) {
	f.calls = append(f.calls, "due")
	f.at = append(f.at, now)
	return services.SweepResult{Scanned: 3, Created: 2, Skipped: 1}, f.err
}

func (f *fakeSweeps) RunWeeklySummarySweep(ctx context.Context, now time.Time) (services.SweepResult, error) {
	f.calls = append(f.calls, "weekly")
	f.at = append(f.at, now)
	return services.SweepResult{Scanned: 1, Created: 1}, f.err
}

func TestActivityRun(t *testing.T) {
	fixed := time.Date(2031, 5, 20, 10, 0, 0, 0, time.UTC)
	fake := &fakeSweeps{}
	a := &Activities{Log: logger.Nop(), Sweeps: fake, Now: func() time.Time { return fixed }}

	out, err := a.Run(context.Background(), Input{Kind: services.SweepDue})
	if err != nil {
		t.Fatalf("Run due: %v", err)
	}
	if out.Sums.Created != 2 || !out.At.Equal(fixed) {
		t.Fatalf("due result: %+v", out)
	}

	at := fixed.Add(-time.Hour)
	if _, err := a.Run(context.Background(), Input{Kind: services.SweepWeekly, At: at}); err != nil {
		t.Fatalf("Run weekly: %v", err)
	}
	if len(fake.calls) != 2 || fake.calls[1] != "weekly" || !fake.at[1].Equal(at) {
		t.Fatalf("calls: %v at=%v", fake.calls, fake.at)
	}

	if _, err := a.Run(context.Background(), Input{Kind: "monthly"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}

	fake.err = errors.New("db down")
	if _, err := a.Run(context.Background(), Input{Kind: services.SweepDue}); err == nil {
		t.Fatalf("expected sweep error to propagate")
	}

	var unset *Activities
	if _, err := unset.Run(context.Background(), Input{Kind: services.SweepDue}); err == nil {
		t.Fatalf("expected error for unconfigured activities")
	}
}

func TestScheduleOptions(t *testing.T) {
	cfg := temporalx.Config{
		TaskQueue:        "q",
		DueSweepCron:     "0 * * * *",
		WeeklySweepCron:  "0 18 * * 0",
		ScheduleTimezone: "Europe/Berlin",
	}
	got := ScheduleOptions(cfg)
	if len(got) != 2 {
		t.Fatalf("want 2 schedules, got %d", len(got))
	}
	want := map[string]services.SweepKind{DueScheduleID: services.SweepDue, WeeklyScheduleID: services.SweepWeekly}
	for _, opts := range got {
		kind, ok := want[opts.ID]
		if !ok {
			t.Fatalf("unexpected schedule %s", opts.ID)
		}
		if opts.Overlap != enumspb.SCHEDULE_OVERLAP_POLICY_SKIP || opts.Spec.TimeZoneName != "Europe/Berlin" {
			t.Fatalf("schedule %s options: %+v", opts.ID, opts)
		}
		action, ok := opts.Action.(*temporalsdkclient.ScheduleWorkflowAction)
		if !ok || action.TaskQueue != "q" || action.Workflow != WorkflowName {
			t.Fatalf("schedule %s action: %+v", opts.ID, opts.Action)
		}
		in, ok := action.Args[0].(Input)
		if !ok || in.Kind != kind || !in.At.IsZero() {
			t.Fatalf("schedule %s args: %+v", opts.ID, action.Args)
		}
	}
}
