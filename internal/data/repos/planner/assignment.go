package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type AssignmentRepo interface {
	Create(dbc dbctx.Context, assignments []*types.Assignment) ([]*types.Assignment, error)
	GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.Assignment, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Assignment, error)
	GetIncompleteDueBetween(dbc dbctx.Context, from, to time.Time) ([]*types.Assignment, error)
	UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) (bool, error)
	SetCompleted(dbc dbctx.Context, userID, id uuid.UUID, from, to bool) (bool, error)
	SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) Create(dbc dbctx.Context, assignments []*types.Assignment) ([]*types.Assignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(assignments) == 0 {
		return []*types.Assignment{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.Assignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assignment
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

// GetByUserID returns the user's assignments ordered by due date.
func (r *assignmentRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Assignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assignment
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("due_date ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetIncompleteDueBetween scans all users for open assignments due in [from, to).
func (r *assignmentRepo) GetIncompleteDueBetween(dbc dbctx.Context, from, to time.Time) ([]*types.Assignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assignment
	if !to.After(from) {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("completed = ? AND due_date >= ? AND due_date < ?", false, from.UTC(), to.UTC()).
		Order("due_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || id == uuid.Nil || len(updates) == 0 {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Assignment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetCompleted writes to only while the stored flag still equals from. It
// reports false when the row is missing or was changed by someone else.
func (r *assignmentRepo) SetCompleted(dbc dbctx.Context, userID, id uuid.UUID, from, to bool) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Assignment{}).
		Where("id = ? AND user_id = ? AND completed = ?", id, userID, from).
		Updates(map[string]any{"completed": to})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *assignmentRepo) SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.Assignment{})
	return res.RowsAffected, res.Error
}
