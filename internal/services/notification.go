package services

import (
	"fmt"

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

const defaultNotificationLimit = 50

type NotificationService interface {
	List(dbc dbctx.Context, unreadOnly bool, limit int) ([]*types.Notification, error)
	UnreadCount(dbc dbctx.Context) (int64, error)
	MarkRead(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	MarkAllRead(dbc dbctx.Context) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error

	// Create persists p unconditionally. A nil payload is a no-op.
	Create(dbc dbctx.Context, p *notify.Payload) (*types.Notification, error)
	// CreateOnce persists p unless its dedupe key was already used. The bool
	// reports whether a row was written.
	CreateOnce(dbc dbctx.Context, p *notify.Payload) (*types.Notification, bool, error)
}

type notificationService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.NotificationRepo
	emitter SSEEmitter
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, repo repos.NotificationRepo, emitter SSEEmitter) NotificationService {
	return &notificationService{
		db:      db,
		log:     baseLog.With("service", "NotificationService"),
		repo:    repo,
		emitter: emitter,
	}
}

func (ns *notificationService) List(dbc dbctx.Context, unreadOnly bool, limit int) ([]*types.Notification, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = defaultNotificationLimit
	}
	rows, err := ns.repo.GetByUserID(dbc, userID, unreadOnly, limit)
	if err != nil {
		ns.log.Error("List notifications failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}

func (ns *notificationService) UnreadCount(dbc dbctx.Context) (int64, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return 0, err
	}
	n, err := ns.repo.CountUnread(dbc, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (ns *notificationService) MarkRead(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := ns.repo.MarkRead(dbc, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	if n > 0 {
		queueSSE(dbc.Ctx, ns.emitter, realtime.SSEMessage{
			Channel: realtime.UserChannel(userID),
			Event:   realtime.SSEEventNotificationsRead,
			Data:    map[string]any{"ids": ids},
		})
	}
	return n, nil
}

func (ns *notificationService) MarkAllRead(dbc dbctx.Context) (int64, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return 0, err
	}
	n, err := ns.repo.MarkAllRead(dbc, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	if n > 0 {
		queueSSE(dbc.Ctx, ns.emitter, realtime.SSEMessage{
			Channel: realtime.UserChannel(userID),
			Event:   realtime.SSEEventNotificationsRead,
			Data:    map[string]any{"all": true},
		})
	}
	return n, nil
}

func (ns *notificationService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	n, err := ns.repo.DeleteByIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if n == 0 {
		return apierr.NotFound("notification_not_found", "notification")
	}
	queueSSE(dbc.Ctx, ns.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventNotificationDeleted,
		Data:    map[string]any{"id": id},
	})
	return nil
}

func (ns *notificationService) Create(dbc dbctx.Context, p *notify.Payload) (*types.Notification, error) {
	if p == nil {
		return nil, nil
	}
	row := p.Notification()
	if _, err := ns.repo.Create(dbc, []*types.Notification{row}); err != nil {
		ns.log.Error("Create notification failed", "error", err, "user_id", p.UserID, "title", p.Title)
		return nil, fmt.Errorf("create notification: %w", err)
	}
	ns.publish(dbc, row)
	return row, nil
}

func (ns *notificationService) CreateOnce(dbc dbctx.Context, p *notify.Payload) (*types.Notification, bool, error) {
	if p == nil {
		return nil, false, nil
	}
	row := p.Notification()
	created, err := ns.repo.CreateOnce(dbc, row)
	if err != nil {
		ns.log.Error("CreateOnce notification failed", "error", err, "user_id", p.UserID, "dedupe_key", p.DedupeKey)
		return nil, false, fmt.Errorf("create notification once: %w", err)
	}
	if !created {
		ns.log.Debug("Notification already sent", "user_id", p.UserID, "dedupe_key", p.DedupeKey)
		return nil, false, nil
	}
	ns.publish(dbc, row)
	return row, true, nil
}

func (ns *notificationService) publish(dbc dbctx.Context, row *types.Notification) {
	queueSSE(dbc.Ctx, ns.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(row.UserID),
		Event:   realtime.SSEEventNotificationCreated,
		Data:    map[string]any{"notification": row},
	})
}
