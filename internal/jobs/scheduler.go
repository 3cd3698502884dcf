package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

// Locker elects a single instance per tick. It is an optimization: the
// notifications' dedupe keys already make concurrent sweeps harmless.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisLocker struct {
	rdb   *goredis.Client
	owner string
}

// NewRedisLocker takes locks with SET NX PX. owner identifies this process in
// the lock value.
func NewRedisLocker(rdb *goredis.Client, owner string) Locker {
	return &redisLocker{rdb: rdb, owner: owner}
}

func (l *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, l.owner, ttl).Result()
}

type Scheduler struct {
	log      *logger.Logger
	sweeps   services.SweepService
	locker   Locker
	metrics  *observability.Metrics
	interval time.Duration
	now      func() time.Time

	wg sync.WaitGroup
}

// NewScheduler runs both sweeps every interval. locker and metrics may be nil.
func NewScheduler(baseLog *logger.Logger, sweeps services.SweepService, locker Locker, metrics *observability.Metrics, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		log:      baseLog.With("component", "SweepScheduler"),
		sweeps:   sweeps,
		locker:   locker,
		metrics:  metrics,
		interval: interval,
		now:      time.Now,
	}
}

// Start launches one goroutine per sweep kind. Each runs once immediately and
// then on every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	for _, kind := range []services.SweepKind{services.SweepDue, services.SweepWeekly} {
		s.wg.Add(1)
		go func(kind services.SweepKind) {
			defer s.wg.Done()
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			s.Tick(ctx, kind)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.Tick(ctx, kind)
				}
			}
		}(kind)
	}
}

// Wait blocks until every loop started by Start has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

// Tick runs kind once if this instance wins the lock for the current tick.
// Failures are logged and retried on the next tick.
func (s *Scheduler) Tick(ctx context.Context, kind services.SweepKind) {
	now := s.now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Sweep panic", "kind", kind, "panic", r)
		}
	}()

	if s.locker != nil {
		key := lockKey(kind, now, s.interval)
		ok, err := s.locker.TryLock(ctx, key, s.interval/2)
		if err != nil {
			s.log.Warn("Sweep lock failed; running anyway", "kind", kind, "error", err)
		} else if !ok {
			s.log.Debug("Sweep already claimed by another instance", "kind", kind, "lock", key)
			return
		}
	}

	start := time.Now()
	res, err := services.RunSweep(ctx, s.sweeps, kind, now)
	s.metrics.ObserveSweep(string(kind), res.Created, res.Skipped, time.Since(start), err)
	if err != nil {
		s.log.Warn("Sweep failed", "kind", kind, "error", err)
		return
	}
	s.log.Info("Sweep done", "kind", kind, "scanned", res.Scanned, "created", res.Created, "skipped", res.Skipped)
}

func lockKey(kind services.SweepKind, now time.Time, interval time.Duration) string {
	return fmt.Sprintf("studyplanner:sweep:%s:%d", kind, now.Truncate(interval).Unix())
}
