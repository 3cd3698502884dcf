package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

const maxUploadBytes = 25 << 20

var errStorageDisabled = errors.New("file storage is not configured")

// FileHandler serves attachments. fileService is nil when no bucket is configured.
type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) enabled(c *gin.Context) bool {
	if h.fileService == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "file_storage_disabled", errStorageDisabled)
		return false
	}
	return true
}

// GET /courses/:id/files
func (h *FileHandler) ListCourseFiles(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	h.list(c, h.fileService.ListCourseFiles)
}

// GET /assignments/:id/files
func (h *FileHandler) ListAssignmentFiles(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	h.list(c, h.fileService.ListAssignmentFiles)
}

// POST /courses/:id/files (multipart, field "file")
func (h *FileHandler) UploadCourseFile(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	h.upload(c, h.fileService.UploadCourseFile)
}

// POST /assignments/:id/files (multipart, field "file")
func (h *FileHandler) UploadAssignmentFile(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	h.upload(c, h.fileService.UploadAssignmentFile)
}

// DELETE /files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.fileService.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, "delete_file_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *FileHandler) list(c *gin.Context, fn func(dbctx.Context, uuid.UUID) ([]*types.File, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := fn(dbcFrom(c), id)
	if err != nil {
		response.RespondServiceError(c, "list_files_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"files": rows})
}

func (h *FileHandler) upload(c *gin.Context, fn func(dbctx.Context, uuid.UUID, services.FileUpload) (*types.File, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", fmt.Errorf("multipart field \"file\": %w", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()

	row, err := fn(dbcFrom(c), id, services.FileUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		SizeBytes:   fh.Size,
		Body:        f,
	})
	if err != nil {
		response.RespondServiceError(c, "upload_file_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"file": row})
}
