package planner

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type FileRepo interface {
	Create(dbc dbctx.Context, files []*types.File) ([]*types.File, error)
	GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.File, error)
	GetByCourseID(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.File, error)
	GetByAssignmentID(dbc dbctx.Context, userID, assignmentID uuid.UUID) ([]*types.File, error)
	DeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type fileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFileRepo(db *gorm.DB, baseLog *logger.Logger) FileRepo {
	return &fileRepo{db: db, log: baseLog.With("repo", "FileRepo")}
}

func (r *fileRepo) Create(dbc dbctx.Context, files []*types.File) ([]*types.File, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(files) == 0 {
		return []*types.File{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.File, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.File
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

func (r *fileRepo) GetByCourseID(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.File, error) {
	return r.getByParent(dbc, userID, "course_id", courseID)
}

func (r *fileRepo) GetByAssignmentID(dbc dbctx.Context, userID, assignmentID uuid.UUID) ([]*types.File, error) {
	return r.getByParent(dbc, userID, "assignment_id", assignmentID)
}

func (r *fileRepo) getByParent(dbc dbctx.Context, userID uuid.UUID, column string, parentID uuid.UUID) ([]*types.File, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.File
	if userID == uuid.Nil || parentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND "+column+" = ?", userID, parentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fileRepo) DeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.File{})
	return res.RowsAffected, res.Error
}
