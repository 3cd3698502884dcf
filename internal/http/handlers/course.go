package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, "list_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// POST /courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req services.CourseInput
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courseService.Create(dbcFrom(c), req)
	if err != nil {
		response.RespondServiceError(c, "create_course_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// GET /courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := h.courseService.Get(dbcFrom(c), id)
	if err != nil {
		response.RespondServiceError(c, "get_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// PATCH /courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CoursePatch
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courseService.Update(dbcFrom(c), id, req)
	if err != nil {
		response.RespondServiceError(c, "update_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// DELETE /courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.courseService.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, "delete_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
