package notification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbpkg "github.com/yungbote/studyplanner-backend/internal/data/db"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Notification) ([]*types.Notification, error)
	// CreateOnce inserts row unless a notification with the same dedupe key
	// exists. It reports whether a row was written.
	CreateOnce(dbc dbctx.Context, row *types.Notification) (bool, error)
	ExistsByDedupeKey(dbc dbctx.Context, key string) (bool, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error)
	CountUnread(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	MarkRead(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllRead(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(dbc dbctx.Context, rows []*types.Notification) ([]*types.Notification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Notification{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) CreateOnce(dbc dbctx.Context, row *types.Notification) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return false, nil
	}
	if row.DedupeKey == nil || strings.TrimSpace(*row.DedupeKey) == "" {
		if err := transaction.WithContext(dbc.Ctx).Create(row).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	exists, err := r.ExistsByDedupeKey(dbc, *row.DedupeKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	// The existence check is only a fast path; the unique index decides races.
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		if dbpkg.IsUniqueViolation(res.Error) {
			r.log.Debug("Duplicate notification suppressed", "dedupe_key", *row.DedupeKey)
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepo) ExistsByDedupeKey(dbc dbctx.Context, key string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if strings.TrimSpace(key) == "" {
		return false, nil
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Notification{}).
		Where("dedupe_key = ?", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByUserID returns notifications newest first. limit <= 0 means no limit.
func (r *notificationRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Notification
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	q = q.Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) CountUnread(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepo) MarkAllRead(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepo) DeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.Notification{})
	return res.RowsAffected, res.Error
}
