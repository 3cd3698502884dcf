package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/notify"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type StudySessionInput struct {
	CourseID         uuid.UUID  `json:"course_id"`
	Date             *time.Time `json:"date"`
	Duration         int        `json:"duration"`
	Notes            string     `json:"notes"`
	Subtopic         string     `json:"subtopic"`
	ConfidenceRating *int       `json:"confidence_rating"`
}

type StudySessionService interface {
	Log(dbc dbctx.Context, in StudySessionInput) (*types.StudySession, error)
	List(dbc dbctx.Context, since *time.Time) ([]*types.StudySession, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type studySessionService struct {
	db            *gorm.DB
	log           *logger.Logger
	sessionRepo   repos.StudySessionRepo
	courseRepo    repos.CourseRepo
	notifications NotificationService
	emitter       SSEEmitter
}

func NewStudySessionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.StudySessionRepo,
	courseRepo repos.CourseRepo,
	notifications NotificationService,
	emitter SSEEmitter,
) StudySessionService {
	return &studySessionService{
		db:            db,
		log:           baseLog.With("service", "StudySessionService"),
		sessionRepo:   sessionRepo,
		courseRepo:    courseRepo,
		notifications: notifications,
		emitter:       emitter,
	}
}

func (ss *studySessionService) Log(dbc dbctx.Context, in StudySessionInput) (*types.StudySession, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if in.CourseID == uuid.Nil {
		return nil, apierr.Invalid("invalid_session", "course is required")
	}
	if in.Duration <= 0 {
		return nil, apierr.Invalid("invalid_duration", "duration must be a positive number of minutes")
	}
	if r := in.ConfidenceRating; r != nil && (*r < 1 || *r > 5) {
		return nil, apierr.Invalid("invalid_confidence", "confidence rating must be between 1 and 5")
	}
	session := &types.StudySession{
		UserID:           userID,
		CourseID:         in.CourseID,
		Duration:         in.Duration,
		Notes:            strings.TrimSpace(in.Notes),
		Subtopic:         strings.TrimSpace(in.Subtopic),
		ConfidenceRating: in.ConfidenceRating,
		Date:             time.Now().UTC(),
	}
	if in.Date != nil && !in.Date.IsZero() {
		session.Date = in.Date.UTC()
	}

	err = inTx(ss.db, dbc, func(inner dbctx.Context) error {
		course, err := ownedCourse(inner, ss.courseRepo, userID, in.CourseID)
		if err != nil {
			return err
		}
		if _, err := ss.sessionRepo.Create(inner, []*types.StudySession{session}); err != nil {
			return fmt.Errorf("create study session: %w", err)
		}
		if ss.notifications != nil {
			if _, err := ss.notifications.Create(inner, notify.SessionLogged(session, course.Name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		ss.log.Warn("Log study session failed", "error", err, "user_id", userID)
		return nil, err
	}
	queueSSE(dbc.Ctx, ss.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventStudySessionLogged,
		Data:    map[string]any{"session": session},
	})
	return session, nil
}

func (ss *studySessionService) List(dbc dbctx.Context, since *time.Time) ([]*types.StudySession, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	rows, err := ss.sessionRepo.GetByUserID(dbc, userID, since)
	if err != nil {
		ss.log.Error("List study sessions failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("get study sessions: %w", err)
	}
	return rows, nil
}

func (ss *studySessionService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	n, err := ss.sessionRepo.DeleteByIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("delete study session: %w", err)
	}
	if n == 0 {
		return apierr.NotFound("session_not_found", "study session")
	}
	queueSSE(dbc.Ctx, ss.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventStudySessionDeleted,
		Data:    map[string]any{"id": id},
	})
	return nil
}
