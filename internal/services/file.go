package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/gcp"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

// FileUpload describes one attachment being uploaded.
type FileUpload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

type FileService interface {
	UploadCourseFile(dbc dbctx.Context, courseID uuid.UUID, up FileUpload) (*types.File, error)
	UploadAssignmentFile(dbc dbctx.Context, assignmentID uuid.UUID, up FileUpload) (*types.File, error)
	ListCourseFiles(dbc dbctx.Context, courseID uuid.UUID) ([]*types.File, error)
	ListAssignmentFiles(dbc dbctx.Context, assignmentID uuid.UUID) ([]*types.File, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error

	// DetachCourse removes the metadata rows of a course's attachments and
	// returns the storage prefix holding their objects.
	DetachCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (string, error)
	// PurgePrefix deletes stored objects under prefix. Failures are logged.
	PurgePrefix(ctx context.Context, prefix string)
}

type fileService struct {
	db             *gorm.DB
	log            *logger.Logger
	store          gcp.FileStore
	fileRepo       repos.FileRepo
	courseRepo     repos.CourseRepo
	assignmentRepo repos.AssignmentRepo
	emitter        SSEEmitter
}

func NewFileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	store gcp.FileStore,
	fileRepo repos.FileRepo,
	courseRepo repos.CourseRepo,
	assignmentRepo repos.AssignmentRepo,
	emitter SSEEmitter,
) FileService {
	return &fileService{
		db:             db,
		log:            baseLog.With("service", "FileService"),
		store:          store,
		fileRepo:       fileRepo,
		courseRepo:     courseRepo,
		assignmentRepo: assignmentRepo,
		emitter:        emitter,
	}
}

func courseStoragePrefix(userID, courseID uuid.UUID) string {
	return fmt.Sprintf("users/%s/courses/%s/", userID, courseID)
}

func assignmentStoragePrefix(userID, assignmentID uuid.UUID) string {
	return fmt.Sprintf("users/%s/assignments/%s/", userID, assignmentID)
}

// sanitizeFileName keeps the base name and drops characters that are awkward in object keys.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '?', r == '#', r == '%':
			return -1
		}
		return r
	}, name)
}

func (fs *fileService) UploadCourseFile(dbc dbctx.Context, courseID uuid.UUID, up FileUpload) (*types.File, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCourse(dbc, fs.courseRepo, userID, courseID); err != nil {
		return nil, err
	}
	row := &types.File{UserID: userID, CourseID: &courseID}
	return fs.upload(dbc, row, courseStoragePrefix(userID, courseID), up)
}

func (fs *fileService) UploadAssignmentFile(dbc dbctx.Context, assignmentID uuid.UUID, up FileUpload) (*types.File, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if err := fs.ownsAssignment(dbc, userID, assignmentID); err != nil {
		return nil, err
	}
	row := &types.File{UserID: userID, AssignmentID: &assignmentID}
	return fs.upload(dbc, row, assignmentStoragePrefix(userID, assignmentID), up)
}

func (fs *fileService) upload(dbc dbctx.Context, row *types.File, prefix string, up FileUpload) (*types.File, error) {
	name := sanitizeFileName(up.FileName)
	if name == "" || up.Body == nil {
		return nil, apierr.Invalid("invalid_file", "a named file is required")
	}
	row.ID = uuid.New()
	row.FileName = name
	row.StorageKey = prefix + row.ID.String() + "/" + name
	row.SizeBytes = up.SizeBytes
	row.ContentType = up.ContentType
	if row.ContentType == "" {
		row.ContentType = gcp.ContentTypeForKey(name)
	}

	if err := fs.store.UploadFile(dbc, row.StorageKey, up.Body, row.ContentType); err != nil {
		fs.log.Error("Upload to object storage failed", "error", err, "storage_key", row.StorageKey)
		return nil, fmt.Errorf("upload file: %w", err)
	}
	row.FileURL = fs.store.GetPublicURL(row.StorageKey)

	if _, err := fs.fileRepo.Create(dbc, []*types.File{row}); err != nil {
		if delErr := fs.store.DeleteFile(dbctx.Context{Ctx: dbc.Ctx}, row.StorageKey); delErr != nil {
			fs.log.Warn("Failed to remove orphaned object", "error", delErr, "storage_key", row.StorageKey)
		}
		return nil, fmt.Errorf("create file row: %w", err)
	}
	queueSSE(dbc.Ctx, fs.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(row.UserID),
		Event:   realtime.SSEEventFileUploaded,
		Data:    map[string]any{"file": row},
	})
	return row, nil
}

func (fs *fileService) ListCourseFiles(dbc dbctx.Context, courseID uuid.UUID) ([]*types.File, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCourse(dbc, fs.courseRepo, userID, courseID); err != nil {
		return nil, err
	}
	rows, err := fs.fileRepo.GetByCourseID(dbc, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course files: %w", err)
	}
	return rows, nil
}

func (fs *fileService) ListAssignmentFiles(dbc dbctx.Context, assignmentID uuid.UUID) ([]*types.File, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	if err := fs.ownsAssignment(dbc, userID, assignmentID); err != nil {
		return nil, err
	}
	rows, err := fs.fileRepo.GetByAssignmentID(dbc, userID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("get assignment files: %w", err)
	}
	return rows, nil
}

func (fs *fileService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	found, err := fs.fileRepo.GetByUserAndIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return apierr.NotFound("file_not_found", "file")
	}
	if err := fs.store.DeleteFile(dbc, found[0].StorageKey); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	if _, err := fs.fileRepo.DeleteByIDs(dbc, userID, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete file row: %w", err)
	}
	queueSSE(dbc.Ctx, fs.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventFileDeleted,
		Data:    map[string]any{"id": id},
	})
	return nil
}

func (fs *fileService) DetachCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (string, error) {
	rows, err := fs.fileRepo.GetByCourseID(dbc, userID, courseID)
	if err != nil {
		return "", fmt.Errorf("get course files: %w", err)
	}
	if len(rows) > 0 {
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		if _, err := fs.fileRepo.DeleteByIDs(dbc, userID, ids); err != nil {
			return "", fmt.Errorf("delete course files: %w", err)
		}
	}
	return courseStoragePrefix(userID, courseID), nil
}

func (fs *fileService) PurgePrefix(ctx context.Context, prefix string) {
	if err := fs.store.DeletePrefix(ctx, prefix); err != nil {
		fs.log.Warn("Failed to purge stored files", "error", err, "prefix", prefix)
	}
}

func (fs *fileService) ownsAssignment(dbc dbctx.Context, userID, assignmentID uuid.UUID) error {
	found, err := fs.assignmentRepo.GetByUserAndIDs(dbc, userID, []uuid.UUID{assignmentID})
	if err != nil {
		return fmt.Errorf("get assignment: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return apierr.NotFound("assignment_not_found", "assignment")
	}
	return nil
}
