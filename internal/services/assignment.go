package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	"github.com/yungbote/studyplanner-backend/internal/deadline"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/notify"
	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
	"github.com/yungbote/studyplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type AssignmentInput struct {
	CourseID    *uuid.UUID     `json:"course_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     time.Time      `json:"due_date"`
	Priority    types.Priority `json:"priority"`
}

// AssignmentPatch updates only the non-nil fields. ClearCourse detaches the
// assignment from its course.
type AssignmentPatch struct {
	CourseID    *uuid.UUID      `json:"course_id"`
	ClearCourse bool            `json:"clear_course"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	DueDate     *time.Time      `json:"due_date"`
	Priority    *types.Priority `json:"priority"`
}

// LabeledAssignment is an assignment as shown in the tracker.
type LabeledAssignment struct {
	*types.Assignment
	CourseName string `json:"course_name"`
	DueLabel   string `json:"due_label"`
}

type ClassifiedAssignments struct {
	Overdue   []LabeledAssignment `json:"overdue"`
	Upcoming  []LabeledAssignment `json:"upcoming"`
	Completed []LabeledAssignment `json:"completed"`
}

type AssignmentService interface {
	Create(dbc dbctx.Context, in AssignmentInput) (*types.Assignment, error)
	List(dbc dbctx.Context) ([]*types.Assignment, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch AssignmentPatch) (*types.Assignment, error)
	ToggleComplete(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Classified(dbc dbctx.Context, now time.Time) (*ClassifiedAssignments, error)
}

type assignmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assignmentRepo repos.AssignmentRepo
	courseRepo     repos.CourseRepo
	userRepo       repos.UserRepo
	notifications  NotificationService
	emitter        SSEEmitter
	defaultLoc     *time.Location
}

func NewAssignmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assignmentRepo repos.AssignmentRepo,
	courseRepo repos.CourseRepo,
	userRepo repos.UserRepo,
	notifications NotificationService,
	emitter SSEEmitter,
	defaultLoc *time.Location,
) AssignmentService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &assignmentService{
		db:             db,
		log:            baseLog.With("service", "AssignmentService"),
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		emitter:        emitter,
		defaultLoc:     defaultLoc,
	}
}

func (as *assignmentService) Create(dbc dbctx.Context, in AssignmentInput) (*types.Assignment, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	a := &types.Assignment{
		UserID:      userID,
		CourseID:    in.CourseID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate.UTC(),
		Priority:    in.Priority,
	}
	if a.Title == "" {
		return nil, apierr.Invalid("invalid_assignment", "title is required")
	}
	if in.DueDate.IsZero() {
		return nil, apierr.Invalid("invalid_assignment", "due date is required")
	}
	if a.Priority == "" {
		a.Priority = types.PriorityMedium
	}
	if !a.Priority.Valid() {
		return nil, apierr.Invalid("invalid_priority", "priority must be low, medium or high")
	}

	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		courseName := ""
		if a.CourseID != nil {
			c, err := ownedCourse(inner, as.courseRepo, userID, *a.CourseID)
			if err != nil {
				return err
			}
			courseName = c.Name
		}
		if _, err := as.assignmentRepo.Create(inner, []*types.Assignment{a}); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		if as.notifications != nil {
			if _, err := as.notifications.Create(inner, notify.AssignmentCreated(a, courseName)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		as.log.Warn("Create assignment failed", "error", err, "user_id", userID)
		return nil, err
	}
	as.emit(dbc, realtime.SSEEventAssignmentCreated, map[string]any{"assignment": a})
	return a, nil
}

func (as *assignmentService) List(dbc dbctx.Context) ([]*types.Assignment, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	rows, err := as.assignmentRepo.GetByUserID(dbc, userID)
	if err != nil {
		as.log.Error("List assignments failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("get user assignments: %w", err)
	}
	return rows, nil
}

func (as *assignmentService) Update(dbc dbctx.Context, id uuid.UUID, patch AssignmentPatch) (*types.Assignment, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, apierr.Invalid("invalid_assignment", "title cannot be empty")
		}
		updates["title"] = t
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			return nil, apierr.Invalid("invalid_assignment", "due date cannot be empty")
		}
		updates["due_date"] = patch.DueDate.UTC()
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apierr.Invalid("invalid_priority", "priority must be low, medium or high")
		}
		updates["priority"] = *patch.Priority
	}

	var updated *types.Assignment
	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		switch {
		case patch.ClearCourse:
			updates["course_id"] = nil
		case patch.CourseID != nil:
			if _, err := ownedCourse(inner, as.courseRepo, userID, *patch.CourseID); err != nil {
				return err
			}
			updates["course_id"] = *patch.CourseID
		}
		if len(updates) > 0 {
			ok, err := as.assignmentRepo.UpdateFields(inner, userID, id, updates)
			if err != nil {
				return fmt.Errorf("update assignment: %w", err)
			}
			if !ok {
				return apierr.NotFound("assignment_not_found", "assignment")
			}
		}
		a, err := as.owned(inner, userID, id)
		if err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.emit(dbc, realtime.SSEEventAssignmentUpdated, map[string]any{"assignment": updated})
	return updated, nil
}

// ToggleComplete flips the completed flag. Only the transition to completed
// produces a notification. The write is conditional on the flag that was read,
// so a concurrent toggle of the same assignment fails with a conflict.
func (as *assignmentService) ToggleComplete(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	var updated *types.Assignment
	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		a, err := as.owned(inner, userID, id)
		if err != nil {
			return err
		}
		wasCompleted := a.Completed
		swapped, err := as.assignmentRepo.SetCompleted(inner, userID, id, wasCompleted, !wasCompleted)
		if err != nil {
			return fmt.Errorf("toggle assignment: %w", err)
		}
		if !swapped {
			return apierr.Conflict("assignment_changed", fmt.Errorf("assignment %s was modified concurrently", id))
		}
		a.Completed = !wasCompleted
		if as.notifications != nil {
			if _, err := as.notifications.Create(inner, notify.AssignmentToggled(a, wasCompleted)); err != nil {
				return err
			}
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.emit(dbc, realtime.SSEEventAssignmentUpdated, map[string]any{"assignment": updated})
	return updated, nil
}

func (as *assignmentService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	userID, err := requireUser(dbc)
	if err != nil {
		return err
	}
	n, err := as.assignmentRepo.SoftDeleteByIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n == 0 {
		return apierr.NotFound("assignment_not_found", "assignment")
	}
	as.emit(dbc, realtime.SSEEventAssignmentDeleted, map[string]any{"id": id})
	return nil
}

// Classified partitions the caller's assignments relative to now, in the
// caller's timezone, and labels each with its relative due date.
func (as *assignmentService) Classified(dbc dbctx.Context, now time.Time) (*ClassifiedAssignments, error) {
	userID, err := requireUser(dbc)
	if err != nil {
		return nil, err
	}
	users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", "user")
	}
	assignments, err := as.assignmentRepo.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("get user assignments: %w", err)
	}
	courses, err := as.courseRepo.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("get user courses: %w", err)
	}
	now = now.In(users[0].Location(as.defaultLoc))
	return classifyAssignments(assignments, courseNames(courses), now), nil
}

func classifyAssignments(assignments []*types.Assignment, names map[uuid.UUID]string, now time.Time) *ClassifiedAssignments {
	b := deadline.Classify(assignments, now)
	label := func(in []*types.Assignment) []LabeledAssignment {
		out := make([]LabeledAssignment, 0, len(in))
		for _, a := range in {
			la := LabeledAssignment{Assignment: a, DueLabel: deadline.RelativeDueLabel(a.DueDate, now)}
			if a.CourseID != nil {
				la.CourseName = names[*a.CourseID]
			}
			out = append(out, la)
		}
		return out
	}
	return &ClassifiedAssignments{
		Overdue:   label(b.Overdue),
		Upcoming:  label(b.Upcoming),
		Completed: label(b.Completed),
	}
}

func (as *assignmentService) owned(dbc dbctx.Context, userID, id uuid.UUID) (*types.Assignment, error) {
	found, err := as.assignmentRepo.GetByUserAndIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.NotFound("assignment_not_found", "assignment")
	}
	return found[0], nil
}

func (as *assignmentService) emit(dbc dbctx.Context, event realtime.SSEEvent, data map[string]any) {
	queueSSE(dbc.Ctx, as.emitter, realtime.SSEMessage{
		Channel: realtime.UserChannel(ctxUser(dbc)),
		Event:   event,
		Data:    data,
	})
}
