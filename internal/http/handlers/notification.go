package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /notifications?unread=true&limit=N
func (h *NotificationHandler) List(c *gin.Context) {
	rows, err := h.notificationService.List(dbcFrom(c), queryBool(c, "unread"), queryInt(c, "limit", 0))
	if err != nil {
		response.RespondServiceError(c, "list_notifications_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}

// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notificationService.UnreadCount(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, "unread_count_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"count": n})
}

// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.notificationService.MarkRead(dbcFrom(c), []uuid.UUID{id})
	if err != nil {
		response.RespondServiceError(c, "mark_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}

// POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notificationService.MarkAllRead(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, "mark_all_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}

// DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, "delete_notification_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
