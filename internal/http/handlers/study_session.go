package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type StudySessionHandler struct {
	sessionService services.StudySessionService
}

func NewStudySessionHandler(sessionService services.StudySessionService) *StudySessionHandler {
	return &StudySessionHandler{sessionService: sessionService}
}

// GET /sessions?since=RFC3339
func (h *StudySessionHandler) List(c *gin.Context) {
	since, ok := queryTime(c, "since")
	if !ok {
		return
	}
	rows, err := h.sessionService.List(dbcFrom(c), since)
	if err != nil {
		response.RespondServiceError(c, "list_sessions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": rows})
}

// POST /sessions
func (h *StudySessionHandler) Log(c *gin.Context) {
	var req services.StudySessionInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.sessionService.Log(dbcFrom(c), req)
	if err != nil {
		response.RespondServiceError(c, "log_session_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"session": row})
}

// DELETE /sessions/:id
func (h *StudySessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sessionService.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, "delete_session_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
