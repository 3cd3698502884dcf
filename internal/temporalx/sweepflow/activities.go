package sweepflow

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type Activities struct {
	Log     *logger.Logger
	Sweeps  services.SweepService
	Metrics *observability.Metrics
	// Now is used when the input carries no time.
	Now func() time.Time
}

func (a *Activities) Run(ctx context.Context, in Input) (Result, error) {
	if a == nil || a.Sweeps == nil {
		return Result{}, fmt.Errorf("sweepflow: activity not configured")
	}
	at := in.At
	if at.IsZero() {
		at = a.now()
	}
	start := time.Now()
	sums, err := services.RunSweep(ctx, a.Sweeps, in.Kind, at)
	a.Metrics.ObserveSweep(string(in.Kind), sums.Created, sums.Skipped, time.Since(start), err)
	if err != nil {
		a.Log.Warn("Sweep activity failed", "kind", in.Kind, "at", at, "error", err)
		return Result{}, err
	}
	a.Log.Info("Sweep activity done", "kind", in.Kind, "at", at, "scanned", sums.Scanned, "created", sums.Created, "skipped", sums.Skipped)
	return Result{Kind: in.Kind, At: at, Sums: sums}, nil
}

func (a *Activities) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
