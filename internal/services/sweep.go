package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	"github.com/yungbote/studyplanner-backend/internal/notify"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/progress"
)

const (
	// dueScanHorizon covers "tomorrow" in every timezone ahead of or behind the server.
	dueScanHorizon = 48 * time.Hour

	defaultSweepConcurrency = 4
)

// SweepResult counts what one sweep run did.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func (r *SweepResult) add(o SweepResult) {
	r.Scanned += o.Scanned
	r.Created += o.Created
	r.Skipped += o.Skipped
}

// SweepService runs the scheduled notification rules. Both sweeps are safe to
// repeat: every notification they write carries a dedupe key.
type SweepService interface {
	RunDueSweep(ctx context.Context, now time.Time) (SweepResult, error)
	RunWeeklySummarySweep(ctx context.Context, now time.Time) (SweepResult, error)
}

// SweepKind names one of the scheduled sweeps.
type SweepKind string

const (
	SweepDue    SweepKind = "due"
	SweepWeekly SweepKind = "weekly"
)

// RunSweep dispatches kind to the matching SweepService method.
func RunSweep(ctx context.Context, s SweepService, kind SweepKind, now time.Time) (SweepResult, error) {
	switch kind {
	case SweepDue:
		return s.RunDueSweep(ctx, now)
	case SweepWeekly:
		return s.RunWeeklySummarySweep(ctx, now)
	default:
		return SweepResult{}, fmt.Errorf("unknown sweep kind %q", kind)
	}
}

type sweepService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	sessionRepo    repos.StudySessionRepo
	assignmentRepo repos.AssignmentRepo
	notifications  NotificationService
	defaultLoc     *time.Location
	concurrency    int
}

func NewSweepService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	sessionRepo repos.StudySessionRepo,
	assignmentRepo repos.AssignmentRepo,
	notifications NotificationService,
	defaultLoc *time.Location,
	concurrency int,
) SweepService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}
	return &sweepService{
		db:             db,
		log:            baseLog.With("service", "SweepService"),
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		sessionRepo:    sessionRepo,
		assignmentRepo: assignmentRepo,
		notifications:  notifications,
		defaultLoc:     defaultLoc,
		concurrency:    concurrency,
	}
}

// RunDueSweep notifies owners of open assignments due tomorrow in their own
// timezone.
func (s *sweepService) RunDueSweep(ctx context.Context, now time.Time) (SweepResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	var res SweepResult

	assignments, err := s.assignmentRepo.GetIncompleteDueBetween(dbc, now, now.Add(dueScanHorizon))
	if err != nil {
		return res, fmt.Errorf("get assignments due soon: %w", err)
	}
	if len(assignments) == 0 {
		return res, nil
	}

	userIDs := make([]uuid.UUID, 0)
	courseIDs := make([]uuid.UUID, 0)
	seenUser := map[uuid.UUID]bool{}
	seenCourse := map[uuid.UUID]bool{}
	for _, a := range assignments {
		if !seenUser[a.UserID] {
			seenUser[a.UserID] = true
			userIDs = append(userIDs, a.UserID)
		}
		if a.CourseID != nil && !seenCourse[*a.CourseID] {
			seenCourse[*a.CourseID] = true
			courseIDs = append(courseIDs, *a.CourseID)
		}
	}
	locs, err := s.userLocations(dbc, userIDs)
	if err != nil {
		return res, err
	}
	names := map[uuid.UUID]string{}
	if len(courseIDs) > 0 {
		courses, err := s.courseRepo.GetByIDs(dbc, courseIDs)
		if err != nil {
			return res, fmt.Errorf("get courses: %w", err)
		}
		names = courseNames(courses)
	}

	for _, a := range assignments {
		res.Scanned++
		loc, ok := locs[a.UserID]
		if !ok {
			res.Skipped++
			continue
		}
		courseName := ""
		if a.CourseID != nil {
			courseName = names[*a.CourseID]
		}
		p := notify.AssignmentDueSoon(a, courseName, now.In(loc))
		if p == nil {
			res.Skipped++
			continue
		}
		_, created, err := s.notifications.CreateOnce(dbc, p)
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}
	s.log.Info("Due sweep finished", "scanned", res.Scanned, "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

// RunWeeklySummarySweep sends every user a report of the week containing now,
// at most once per user and week. Users without courses get a zero report.
func (s *sweepService) RunWeeklySummarySweep(ctx context.Context, now time.Time) (SweepResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	var res SweepResult

	userIDs, err := s.userRepo.ListIDs(dbc)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	if len(userIDs) == 0 {
		return res, nil
	}
	locs, err := s.userLocations(dbc, userIDs)
	if err != nil {
		return res, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userID := range userIDs {
		userID := userID
		loc, ok := locs[userID]
		if !ok {
			mu.Lock()
			res.add(SweepResult{Scanned: 1, Skipped: 1})
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			one, err := s.weeklySummaryFor(dbctx.Context{Ctx: gctx}, userID, now.In(loc))
			mu.Lock()
			res.add(one)
			mu.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Weekly summary sweep failed", "error", err)
		return res, err
	}
	s.log.Info("Weekly summary sweep finished", "scanned", res.Scanned, "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func (s *sweepService) weeklySummaryFor(dbc dbctx.Context, userID uuid.UUID, now time.Time) (SweepResult, error) {
	res := SweepResult{Scanned: 1}
	courses, err := s.courseRepo.GetByUserID(dbc, userID)
	if err != nil {
		return res, fmt.Errorf("get courses: %w", err)
	}
	start, _ := progress.WeekBounds(now)
	sessions, err := s.sessionRepo.GetByUserID(dbc, userID, &start)
	if err != nil {
		return res, fmt.Errorf("get study sessions: %w", err)
	}
	summary := progress.Summarize(courses, sessions, now)
	_, created, err := s.notifications.CreateOnce(dbc, notify.WeeklySummary(userID, summary))
	if err != nil {
		return res, err
	}
	if created {
		res.Created++
	} else {
		res.Skipped++
	}
	return res, nil
}

func (s *sweepService) userLocations(dbc dbctx.Context, userIDs []uuid.UUID) (map[uuid.UUID]*time.Location, error) {
	users, err := s.userRepo.GetByIDs(dbc, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	out := make(map[uuid.UUID]*time.Location, len(users))
	for _, u := range users {
		if u != nil {
			out[u.ID] = u.Location(s.defaultLoc)
		}
	}
	return out, nil
}
