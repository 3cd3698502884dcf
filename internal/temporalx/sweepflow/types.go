package sweepflow

import (
	"time"

	"github.com/yungbote/studyplanner-backend/internal/services"
)

const (
	WorkflowName = "notification_sweep"
	ActivityRun  = "notification_sweep_run"

	DueScheduleID    = "studyplanner-due-sweep"
	WeeklyScheduleID = "studyplanner-weekly-sweep"
)

type Input struct {
	Kind services.SweepKind `json:"kind"`
	// At overrides the evaluation time. Zero means the workflow's start time.
	At time.Time `json:"at,omitempty"`
}

type Result struct {
	Kind services.SweepKind   `json:"kind"`
	At   time.Time            `json:"at"`
	Sums services.SweepResult `json:"sums"`
}
