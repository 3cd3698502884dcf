package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
	now             func() time.Time
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, now: time.Now}
}

// GET /progress/weekly
func (h *ProgressHandler) Weekly(c *gin.Context) {
	units, err := h.progressService.Weekly(dbcFrom(c), h.now())
	if err != nil {
		response.RespondServiceError(c, "weekly_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"units": units})
}

// GET /progress/lagging
func (h *ProgressHandler) Lagging(c *gin.Context) {
	units, err := h.progressService.Lagging(dbcFrom(c), h.now())
	if err != nil {
		response.RespondServiceError(c, "lagging_units_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"lagging": units})
}

// GET /progress/suggestions
func (h *ProgressHandler) Suggestions(c *gin.Context) {
	out, err := h.progressService.Suggestions(dbcFrom(c), h.now())
	if err != nil {
		response.RespondServiceError(c, "suggestions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": out})
}

// GET /progress/dashboard
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	out, err := h.progressService.Dashboard(dbcFrom(c), h.now())
	if err != nil {
		response.RespondServiceError(c, "dashboard_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /progress/reset
// body (optional): { "keep_lagging": true }
func (h *ProgressHandler) Reset(c *gin.Context) {
	var req struct {
		KeepLagging bool `json:"keep_lagging"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	snap, err := h.progressService.ResetWeek(dbcFrom(c), h.now(), req.KeepLagging)
	if err != nil {
		response.RespondServiceError(c, "reset_week_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"snapshot": snap})
}

// GET /progress/history?limit=N
func (h *ProgressHandler) History(c *gin.Context) {
	rows, err := h.progressService.History(dbcFrom(c), queryInt(c, "limit", 0))
	if err != nil {
		response.RespondServiceError(c, "progress_history_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"history": rows})
}
