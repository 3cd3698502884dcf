package planner

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

// WeeklyProgressRepo stores reset snapshots. Snapshots are never updated.
type WeeklyProgressRepo interface {
	Create(dbc dbctx.Context, snapshots []*types.WeeklyProgressSnapshot) ([]*types.WeeklyProgressSnapshot, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.WeeklyProgressSnapshot, error)
}

type weeklyProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyProgressRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyProgressRepo {
	return &weeklyProgressRepo{db: db, log: baseLog.With("repo", "WeeklyProgressRepo")}
}

func (r *weeklyProgressRepo) Create(dbc dbctx.Context, snapshots []*types.WeeklyProgressSnapshot) ([]*types.WeeklyProgressSnapshot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(snapshots) == 0 {
		return []*types.WeeklyProgressSnapshot{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *weeklyProgressRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.WeeklyProgressSnapshot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.WeeklyProgressSnapshot
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
