package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type StudySessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.StudySession) ([]*types.StudySession, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID, since *time.Time) ([]*types.StudySession, error)
	GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.StudySession, error)
	TotalMinutesByCourse(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]int, error)
	DeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	DeleteByCourseIDs(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) (int64, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return &studySessionRepo{db: db, log: baseLog.With("repo", "StudySessionRepo")}
}

func (r *studySessionRepo) Create(dbc dbctx.Context, sessions []*types.StudySession) ([]*types.StudySession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sessions) == 0 {
		return []*types.StudySession{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByUserID returns sessions newest first. A non-nil since keeps only
// sessions dated at or after it.
func (r *studySessionRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID, since *time.Time) ([]*types.StudySession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudySession
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("date >= ?", since.UTC())
	}
	if err := q.Order("date DESC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.StudySession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudySession
	if userID == uuid.Nil || len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// TotalMinutesByCourse sums every session the user has logged, per course.
func (r *studySessionRepo) TotalMinutesByCourse(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := map[uuid.UUID]int{}
	if userID == uuid.Nil {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		Minutes  int
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.StudySession{}).
		Select("course_id, COALESCE(SUM(duration), 0) AS minutes").
		Where("user_id = ?", userID).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.Minutes
	}
	return out, nil
}

func (r *studySessionRepo) DeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.StudySession{})
	return res.RowsAffected, res.Error
}

func (r *studySessionRepo) DeleteByCourseIDs(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Delete(&types.StudySession{})
	return res.RowsAffected, res.Error
}
