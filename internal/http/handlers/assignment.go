package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type AssignmentHandler struct {
	assignmentService services.AssignmentService
	now               func() time.Time
}

func NewAssignmentHandler(assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService, now: time.Now}
}

// GET /assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	rows, err := h.assignmentService.List(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, "list_assignments_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": rows})
}

// GET /assignments/classified
func (h *AssignmentHandler) Classified(c *gin.Context) {
	out, err := h.assignmentService.Classified(dbcFrom(c), h.now())
	if err != nil {
		response.RespondServiceError(c, "classify_assignments_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req services.AssignmentInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.assignmentService.Create(dbcFrom(c), req)
	if err != nil {
		response.RespondServiceError(c, "create_assignment_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"assignment": row})
}

// PATCH /assignments/:id
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.AssignmentPatch
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.assignmentService.Update(dbcFrom(c), id, req)
	if err != nil {
		response.RespondServiceError(c, "update_assignment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": row})
}

// POST /assignments/:id/toggle
func (h *AssignmentHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.assignmentService.ToggleComplete(dbcFrom(c), id)
	if err != nil {
		response.RespondServiceError(c, "toggle_assignment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": row})
}

// DELETE /assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assignmentService.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, "delete_assignment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
