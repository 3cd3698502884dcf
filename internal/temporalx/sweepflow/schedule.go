package sweepflow

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
	"github.com/yungbote/studyplanner-backend/internal/temporalx"
)

// ScheduleOptions builds the Temporal schedules for both sweeps. Overlapping
// runs are skipped; a slow sweep just delays the next one.
func ScheduleOptions(cfg temporalx.Config) []temporalsdkclient.ScheduleOptions {
	mk := func(id, cron string, kind services.SweepKind) temporalsdkclient.ScheduleOptions {
		return temporalsdkclient.ScheduleOptions{
			ID: id,
			Spec: temporalsdkclient.ScheduleSpec{
				CronExpressions: []string{cron},
				TimeZoneName:    cfg.ScheduleTimezone,
			},
			Action: &temporalsdkclient.ScheduleWorkflowAction{
				ID:        id + "-run",
				Workflow:  WorkflowName,
				TaskQueue: cfg.TaskQueue,
				Args:      []interface{}{Input{Kind: kind}},
			},
			Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_SKIP,
		}
	}
	return []temporalsdkclient.ScheduleOptions{
		mk(DueScheduleID, cfg.DueSweepCron, services.SweepDue),
		mk(WeeklyScheduleID, cfg.WeeklySweepCron, services.SweepWeekly),
	}
}

// EnsureSchedules creates any sweep schedule that does not exist yet.
func EnsureSchedules(ctx context.Context, log *logger.Logger, c temporalsdkclient.Client, cfg temporalx.Config) error {
	if c == nil {
		return nil
	}
	for _, opts := range ScheduleOptions(cfg) {
		_, err := c.ScheduleClient().Create(ctx, opts)
		switch {
		case err == nil:
			log.Info("Created sweep schedule", "schedule_id", opts.ID, "cron", opts.Spec.CronExpressions[0])
		case errors.Is(err, temporal.ErrScheduleAlreadyRunning):
			log.Debug("Sweep schedule already exists", "schedule_id", opts.ID)
		default:
			return fmt.Errorf("create schedule %s: %w", opts.ID, err)
		}
	}
	return nil
}

// Trigger starts a one-off sweep workflow and waits for its result.
func Trigger(ctx context.Context, c temporalsdkclient.Client, cfg temporalx.Config, in Input) (Result, error) {
	run, err := c.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("sweep-%s-manual-%d", in.Kind, in.At.Unix()),
		TaskQueue: cfg.TaskQueue,
	}, WorkflowName, in)
	if err != nil {
		return Result{}, fmt.Errorf("start sweep workflow: %w", err)
	}
	var out Result
	if err := run.Get(ctx, &out); err != nil {
		return Result{}, fmt.Errorf("sweep workflow %s: %w", run.GetID(), err)
	}
	return out, nil
}
