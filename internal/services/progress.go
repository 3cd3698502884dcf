package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/notify"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/progress"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

const defaultHistoryLimit = 12

// UnitProgressView is one course's progress for the current week.
// TotalHours covers every session ever logged for the course.
type UnitProgressView struct {
	Course     *types.Course `json:"course"`
	Hours      float64       `json:"hours"`
	TotalHours float64       `json:"total_hours"`
	Progress   float64       `json:"progress"`
	Lagging    bool          `json:"lagging"`
}

type Dashboard struct {
	Now         time.Time                `json:"now"`
	CurrentWeek int                      `json:"current_week"`
	Phase       progress.Phase           `json:"phase"`
	Units       []UnitProgressView       `json:"units"`
	Lagging     []progress.LaggingUnit   `json:"lagging"`
	Suggestions []string                 `json:"suggestions"`
	Timetable   []progress.TimetableSlot `json:"timetable"`
	Summary     progress.WeekSummary     `json:"summary"`
	Assignments *ClassifiedAssignments   `json:"assignments"`
}

type ProgressService interface {
	Weekly(dbc dbctx.Context, now time.Time) ([]UnitProgressView, error)
	Lagging(dbc dbctx.Context, now time.Time) ([]progress.LaggingUnit, error)
	Suggestions(dbc dbctx.Context, now time.Time) ([]string, error)
	Dashboard(dbc dbctx.Context, now time.Time) (*Dashboard, error)
	// ResetWeek saves the current week as a snapshot and notifies the user.
	// keepLagging is recorded on the snapshot and in the notification.
	ResetWeek(dbc dbctx.Context, now time.Time, keepLagging bool) (*types.WeeklyProgressSnapshot, error)
	History(dbc dbctx.Context, limit int) ([]*types.WeeklyProgressSnapshot, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	sessionRepo    repos.StudySessionRepo
	assignmentRepo repos.AssignmentRepo
	weeklyRepo     repos.WeeklyProgressRepo
	notifications  NotificationService
	emitter        SSEEmitter
	calendar       progress.AcademicCalendar
	defaultLoc     *time.Location
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	sessionRepo repos.StudySessionRepo,
	assignmentRepo repos.AssignmentRepo,
	weeklyRepo repos.WeeklyProgressRepo,
	notifications NotificationService,
	emitter SSEEmitter,
	calendar progress.AcademicCalendar,
	defaultLoc *time.Location,
) ProgressService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &progressService{
		db:             db,
		log:            baseLog.With("service", "ProgressService"),
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		sessionRepo:    sessionRepo,
		assignmentRepo: assignmentRepo,
		weeklyRepo:     weeklyRepo,
		notifications:  notifications,
		emitter:        emitter,
		calendar:       calendar,
		defaultLoc:     defaultLoc,
	}
}

// workspace is everything the engine needs for one user and week.
type workspace struct {
	user        *types.User
	now         time.Time
	courses     []*types.Course
	sessions    []*types.StudySession
	assignments []*types.Assignment
	// totals is all-time minutes per course; nil unless requested.
	totals map[uuid.UUID]int
}

// loadParts selects the optional reads of load.
type loadParts struct {
	assignments bool
	totals      bool
}

// load fetches the user's courses, this week's sessions and the requested
// extras concurrently. Reads inside a transaction run one at a time.
func (ps *progressService) load(dbc dbctx.Context, now time.Time, parts loadParts) (*workspace, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	users, err := ps.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, apierr.NotFound("user_not_found", "user")
	}
	ws := &workspace{user: users[0], now: now.In(users[0].Location(ps.defaultLoc))}
	since := progress.WeekStart(ws.now, progress.FirstDayOfWeek)

	g, gctx := errgroup.WithContext(dbc.Ctx)
	if dbc.Tx != nil {
		g.SetLimit(1)
	}
	inner := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	g.Go(func() error {
		rows, err := ps.courseRepo.GetByUserID(inner, userID)
		if err != nil {
			return fmt.Errorf("get courses: %w", err)
		}
		ws.courses = rows
		return nil
	})
	g.Go(func() error {
		rows, err := ps.sessionRepo.GetByUserID(inner, userID, &since)
		if err != nil {
			return fmt.Errorf("get study sessions: %w", err)
		}
		ws.sessions = rows
		return nil
	})
	if parts.totals {
		g.Go(func() error {
			totals, err := ps.sessionRepo.TotalMinutesByCourse(inner, userID)
			if err != nil {
				return fmt.Errorf("get study totals: %w", err)
			}
			ws.totals = totals
			return nil
		})
	}
	if parts.assignments {
		g.Go(func() error {
			rows, err := ps.assignmentRepo.GetByUserID(inner, userID)
			if err != nil {
				return fmt.Errorf("get assignments: %w", err)
			}
			ws.assignments = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ps.log.Error("Load progress workspace failed", "error", err, "user_id", userID)
		return nil, err
	}
	return ws, nil
}

func (ps *progressService) Weekly(dbc dbctx.Context, now time.Time) ([]UnitProgressView, error) {
	ws, err := ps.load(dbc, now, loadParts{totals: true})
	if err != nil {
		return nil, err
	}
	return unitViews(ws), nil
}

func (ps *progressService) Lagging(dbc dbctx.Context, now time.Time) ([]progress.LaggingUnit, error) {
	ws, err := ps.load(dbc, now, loadParts{})
	if err != nil {
		return nil, err
	}
	return progress.LaggingUnits(ws.courses, ws.sessions, ws.now), nil
}

func (ps *progressService) Suggestions(dbc dbctx.Context, now time.Time) ([]string, error) {
	ws, err := ps.load(dbc, now, loadParts{})
	if err != nil {
		return nil, err
	}
	lagging := progress.LaggingUnits(ws.courses, ws.sessions, ws.now)
	return progress.StudySuggestions(ps.calendar, ws.user.CurrentWeek, lagging), nil
}

func (ps *progressService) Dashboard(dbc dbctx.Context, now time.Time) (*Dashboard, error) {
	ws, err := ps.load(dbc, now, loadParts{assignments: true, totals: true})
	if err != nil {
		return nil, err
	}
	lagging := progress.LaggingUnits(ws.courses, ws.sessions, ws.now)
	return &Dashboard{
		Now:         ws.now,
		CurrentWeek: ws.user.CurrentWeek,
		Phase:       ps.calendar.Phase(ws.user.CurrentWeek),
		Units:       unitViews(ws),
		Lagging:     lagging,
		Suggestions: progress.StudySuggestions(ps.calendar, ws.user.CurrentWeek, lagging),
		Timetable:   progress.Timetable(ws.courses, lagging),
		Summary:     progress.Summarize(ws.courses, ws.sessions, ws.now),
		Assignments: classifyAssignments(ws.assignments, courseNames(ws.courses), ws.now),
	}, nil
}

func (ps *progressService) ResetWeek(dbc dbctx.Context, now time.Time, keepLagging bool) (*types.WeeklyProgressSnapshot, error) {
	var snapshot *types.WeeklyProgressSnapshot
	err := inTx(ps.db, dbc, func(inner dbctx.Context) error {
		ws, err := ps.load(inner, now, loadParts{})
		if err != nil {
			return err
		}
		summary := progress.Summarize(ws.courses, ws.sessions, ws.now)
		lagging := progress.LaggingUnits(ws.courses, ws.sessions, ws.now)
		weekNumber := progress.WeekNumber(ws.now)

		units := unitViews(ws)
		entries := make([]types.UnitProgressEntry, 0, len(units))
		for _, u := range units {
			entries = append(entries, types.UnitProgressEntry{
				CourseID:   u.Course.ID,
				Name:       u.Course.Name,
				Code:       u.Course.Code,
				WeeklyGoal: u.Course.WeeklyGoal,
				Hours:      u.Hours,
				Progress:   u.Progress,
				Lagging:    u.Lagging,
			})
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encode unit progress: %w", err)
		}

		snapshot = &types.WeeklyProgressSnapshot{
			UserID:           ws.user.ID,
			WeekNumber:       weekNumber,
			StartDate:        summary.WeekStart.UTC(),
			EndDate:          summary.WeekEnd.UTC(),
			TotalHours:       summary.TotalHours,
			TotalGoals:       summary.TotalGoals,
			GoalsMet:         summary.GoalsMet,
			Summary:          progress.SnapshotSummary(weekNumber, summary),
			Recommendations:  progress.SnapshotRecommendations(lagging),
			UnitProgress:     datatypes.JSON(raw),
			LaggingPreserved: keepLagging,
		}
		if _, err := ps.weeklyRepo.Create(inner, []*types.WeeklyProgressSnapshot{snapshot}); err != nil {
			return fmt.Errorf("create weekly snapshot: %w", err)
		}
		if ps.notifications != nil {
			id := snapshot.ID
			if _, err := ps.notifications.Create(inner, notify.WeeklyReset(ws.user.ID, keepLagging, &id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		ps.log.Warn("ResetWeek failed", "error", err)
		return nil, err
	}
	ps.log.Info("Weekly progress reset", "user_id", snapshot.UserID, "week_number", snapshot.WeekNumber, "keep_lagging", keepLagging)
	queueSSE(dbc.Ctx, ps.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(snapshot.UserID),
		Event:   realtime.SSEEventWeeklyProgressReset,
		Data:    map[string]any{"snapshot": snapshot},
	})
	return snapshot, nil
}

func (ps *progressService) History(dbc dbctx.Context, limit int) ([]*types.WeeklyProgressSnapshot, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := ps.weeklyRepo.GetByUserID(dbc, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get weekly snapshots: %w", err)
	}
	return rows, nil
}

func unitViews(ws *workspace) []UnitProgressView {
	start, _ := progress.WeekBounds(ws.now)
	minutes := make(map[uuid.UUID]int, len(ws.courses))
	for _, s := range ws.sessions {
		if s == nil || s.Duration <= 0 || s.Date.Before(start) {
			continue
		}
		minutes[s.CourseID] += s.Duration
	}
	pct := progress.WeeklyProgress(ws.courses, ws.sessions, ws.now)
	out := make([]UnitProgressView, 0, len(ws.courses))
	for _, c := range ws.courses {
		if c == nil {
			continue
		}
		p := pct[c.ID]
		out = append(out, UnitProgressView{
			Course:     c,
			Hours:      float64(minutes[c.ID]) / 60,
			TotalHours: float64(ws.totals[c.ID]) / 60,
			Progress:   p,
			Lagging:    p < progress.LaggingThreshold,
		})
	}
	return out
}
