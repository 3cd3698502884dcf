package services

import (
	"fmt"
	"math"
	"strings"

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

type CourseInput struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	Instructor  string  `json:"instructor"`
	Semester    string  `json:"semester"`
	Year        int     `json:"year"`
	Credits     int     `json:"credits"`
	WeeklyGoal  float64 `json:"weekly_goal"`
}

// CoursePatch updates only the non-nil fields.
type CoursePatch struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	Color       *string  `json:"color"`
	Description *string  `json:"description"`
	Instructor  *string  `json:"instructor"`
	Semester    *string  `json:"semester"`
	Year        *int     `json:"year"`
	Credits     *int     `json:"credits"`
	WeeklyGoal  *float64 `json:"weekly_goal"`
}

type CourseService interface {
	Create(dbc dbctx.Context, in CourseInput) (*types.Course, error)
	List(dbc dbctx.Context) ([]*types.Course, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch CoursePatch) (*types.Course, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type courseService struct {
	db            *gorm.DB
	log           *logger.Logger
	courseRepo    repos.CourseRepo
	sessionRepo   repos.StudySessionRepo
	notifications NotificationService
	files         FileService
	emitter       SSEEmitter
}

// NewCourseService wires the course service. files may be nil when object
// storage is not configured.
func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	sessionRepo repos.StudySessionRepo,
	notifications NotificationService,
	files FileService,
	emitter SSEEmitter,
) CourseService {
	return &courseService{
		db:            db,
		log:           baseLog.With("service", "CourseService"),
		courseRepo:    courseRepo,
		sessionRepo:   sessionRepo,
		notifications: notifications,
		files:         files,
		emitter:       emitter,
	}
}

func validWeeklyGoal(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (cs *courseService) Create(dbc dbctx.Context, in CourseInput) (*types.Course, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	course := &types.Course{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Code:        strings.TrimSpace(in.Code),
		Color:       strings.TrimSpace(in.Color),
		Description: strings.TrimSpace(in.Description),
		Instructor:  strings.TrimSpace(in.Instructor),
		Semester:    strings.TrimSpace(in.Semester),
		Year:        in.Year,
		Credits:     in.Credits,
		WeeklyGoal:  in.WeeklyGoal,
	}
	if course.Name == "" || course.Code == "" {
		return nil, apierr.Invalid("invalid_course", "name and code are required")
	}
	if !validWeeklyGoal(course.WeeklyGoal) {
		return nil, apierr.Invalid("invalid_weekly_goal", "weekly goal must be a non-negative number")
	}

	err = inTx(cs.db, dbc, func(inner dbctx.Context) error {
		if _, err := cs.courseRepo.Create(inner, []*types.Course{course}); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		if cs.notifications != nil {
			if _, err := cs.notifications.Create(inner, notify.CourseCreated(course)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cs.log.Error("Create course failed", "error", err, "user_id", userID)
		return nil, err
	}

	queueSSE(dbc.Ctx, cs.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventCourseCreated,
		Data:    map[string]any{"course": course},
	})
	return course, nil
}

func (cs *courseService) List(dbc dbctx.Context) ([]*types.Course, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	courses, err := cs.courseRepo.GetByUserID(dbc, userID)
	if err != nil {
		cs.log.Error("List courses failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("get user courses: %w", err)
	}
	return courses, nil
}

func (cs *courseService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	return ownedCourse(dbc, cs.courseRepo, userID, id)
}

func (cs *courseService) Update(dbc dbctx.Context, id uuid.UUID, patch CoursePatch) (*types.Course, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	setText := func(col string, v *string, required bool) error {
		if v == nil {
			return nil
		}
		s := strings.TrimSpace(*v)
		if required && s == "" {
			return apierr.Invalid("invalid_course", "%s cannot be empty", col)
		}
		updates[col] = s
		return nil
	}
	if err := setText("name", patch.Name, true); err != nil {
		return nil, err
	}
	if err := setText("code", patch.Code, true); err != nil {
		return nil, err
	}
	_ = setText("color", patch.Color, false)
	_ = setText("description", patch.Description, false)
	_ = setText("instructor", patch.Instructor, false)
	_ = setText("semester", patch.Semester, false)
	if patch.Year != nil {
		updates["year"] = *patch.Year
	}
	if patch.Credits != nil {
		updates["credits"] = *patch.Credits
	}
	if patch.WeeklyGoal != nil {
		if !validWeeklyGoal(*patch.WeeklyGoal) {
			return nil, apierr.Invalid("invalid_weekly_goal", "weekly goal must be a non-negative number")
		}
		updates["weekly_goal"] = *patch.WeeklyGoal
	}

	var course *types.Course
	err = inTx(cs.db, dbc, func(inner dbctx.Context) error {
		if len(updates) > 0 {
			ok, err := cs.courseRepo.UpdateFields(inner, userID, id, updates)
			if err != nil {
				return fmt.Errorf("update course: %w", err)
			}
			if !ok {
				return apierr.NotFound("course_not_found", "course")
			}
		}
		c, err := ownedCourse(inner, cs.courseRepo, userID, id)
		if err != nil {
			return err
		}
		course = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	queueSSE(dbc.Ctx, cs.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventCourseUpdated,
		Data:    map[string]any{"course": course},
	})
	return course, nil
}

// Delete soft-deletes the course, removes its study sessions and attachments,
// and leaves assignments in place without a course.
func (cs *courseService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	var storagePrefix string
	err = inTx(cs.db, dbc, func(inner dbctx.Context) error {
		n, err := cs.courseRepo.SoftDeleteByIDs(inner, userID, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		if n == 0 {
			return apierr.NotFound("course_not_found", "course")
		}
		if _, err := cs.sessionRepo.DeleteByCourseIDs(inner, userID, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("delete course sessions: %w", err)
		}
		if cs.files != nil {
			prefix, err := cs.files.DetachCourse(inner, userID, id)
			if err != nil {
				return err
			}
			storagePrefix = prefix
		}
		return nil
	})
	if err != nil {
		return err
	}
	if cs.files != nil && storagePrefix != "" {
		cs.files.PurgePrefix(dbc.Ctx, storagePrefix)
	}
	queueSSE(dbc.Ctx, cs.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventCourseDeleted,
		Data:    map[string]any{"id": id},
	})
	return nil
}

func ownedCourse(dbc dbctx.Context, repo repos.CourseRepo, userID, id uuid.UUID) (*types.Course, error) {
	found, err := repo.GetByUserAndIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.NotFound("course_not_found", "course")
	}
	return found[0], nil
}

// courseNames maps course ids to display names.
func courseNames(courses []*types.Course) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(courses))
	for _, c := range courses {
		if c != nil {
			out[c.ID] = c.Name
		}
	}
	return out
}
