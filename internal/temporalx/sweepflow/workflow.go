package sweepflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/studyplanner-backend/internal/services"
)

// Workflow runs a single sweep as one retried activity. The evaluation time is
// fixed before the activity starts so retries see the same day and week.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	switch in.Kind {
	case services.SweepDue, services.SweepWeekly:
	default:
		return Result{}, temporal.NewNonRetryableApplicationError(fmt.Sprintf("unknown sweep kind %q", in.Kind), "invalid_sweep", nil)
	}
	if in.At.IsZero() {
		in.At = workflow.Now(ctx).UTC()
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    5 * time.Minute,
			MaximumAttempts:    10,
		},
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivityRun, in).Get(ctx, &out); err != nil {
		return Result{}, err
	}
	workflow.GetLogger(ctx).Info("Sweep finished", "kind", out.Kind, "created", out.Sums.Created, "skipped", out.Sums.Skipped)
	return out, nil
}
