package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	SSEEventUserUpdated SSEEvent = "UserUpdated"

	SSEEventCourseCreated SSEEvent = "CourseCreated"
	SSEEventCourseUpdated SSEEvent = "CourseUpdated"
	SSEEventCourseDeleted SSEEvent = "CourseDeleted"

	SSEEventAssignmentCreated SSEEvent = "AssignmentCreated"
	SSEEventAssignmentUpdated SSEEvent = "AssignmentUpdated"
	SSEEventAssignmentDeleted SSEEvent = "AssignmentDeleted"

	SSEEventStudySessionLogged  SSEEvent = "StudySessionLogged"
	SSEEventStudySessionDeleted SSEEvent = "StudySessionDeleted"

	SSEEventWeeklyProgressReset SSEEvent = "WeeklyProgressReset"

	SSEEventFileUploaded SSEEvent = "FileUploaded"
	SSEEventFileDeleted  SSEEvent = "FileDeleted"

	SSEEventNotificationCreated SSEEvent = "NotificationCreated"
	SSEEventNotificationsRead   SSEEvent = "NotificationsRead"
	SSEEventNotificationDeleted SSEEvent = "NotificationDeleted"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the channel every client of a user subscribes to.
func UserChannel(userID uuid.UUID) string { return userID.String() }
