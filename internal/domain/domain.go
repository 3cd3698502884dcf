package domain

import (
	"github.com/yungbote/studyplanner-backend/internal/domain/auth"
	"github.com/yungbote/studyplanner-backend/internal/domain/notification"
	"github.com/yungbote/studyplanner-backend/internal/domain/planner"
	"github.com/yungbote/studyplanner-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Course = planner.Course
type Assignment = planner.Assignment
type Priority = planner.Priority
type StudySession = planner.StudySession
type WeeklyProgressSnapshot = planner.WeeklyProgressSnapshot
type UnitProgressEntry = planner.UnitProgressEntry
type File = planner.File

type Notification = notification.Notification
type NotificationType = notification.Type

const (
	PriorityLow    = planner.PriorityLow
	PriorityMedium = planner.PriorityMedium
	PriorityHigh   = planner.PriorityHigh

	NotificationInfo    = notification.TypeInfo
	NotificationSuccess = notification.TypeSuccess
	NotificationWarning = notification.TypeWarning
	NotificationError   = notification.TypeError
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Course{},
		&Assignment{},
		&StudySession{},
		&WeeklyProgressSnapshot{},
		&Notification{},
		&File{},
	}
}
