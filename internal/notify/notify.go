// Package notify maps domain events to notification payloads. Rules are pure:
// they decide whether a notification is due and what it says, and leave
// persistence to the caller.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/deadline"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"github.com/yungbote/studyplanner-backend/internal/progress"
)

const (
	TableAssignments    = "assignments"
	TableCourses        = "courses"
	TableStudySessions  = "study_sessions"
	TableWeeklyProgress = "weekly_progress"

	// LongSessionMinutes is the duration at which a logged session is celebrated.
	LongSessionMinutes = 120

	unknownCourse = "Unknown Course"
	dueLayout     = "Monday, Jan 2, 03:04 PM"
)

// Payload is a request to create one notification.
type Payload struct {
	UserID       uuid.UUID
	Title        string
	Message      string
	Type         types.NotificationType
	RelatedTable string
	RelatedID    *uuid.UUID
	// DedupeKey is set by scheduled rules that must fire at most once per period.
	DedupeKey string
}

// Notification converts p into an unsaved row.
func (p *Payload) Notification() *types.Notification {
	if p == nil {
		return nil
	}
	n := &types.Notification{
		UserID:       p.UserID,
		Title:        p.Title,
		Message:      p.Message,
		Type:         p.Type,
		RelatedTable: p.RelatedTable,
		RelatedID:    p.RelatedID,
	}
	if p.DedupeKey != "" {
		key := p.DedupeKey
		n.DedupeKey = &key
	}
	return n
}

func AssignmentCreated(a *types.Assignment, courseName string) *Payload {
	if a == nil {
		return nil
	}
	return &Payload{
		UserID:       a.UserID,
		Title:        "Assignment Created",
		Message:      fmt.Sprintf("\"%s\" for %s has been added to your assignments.", a.Title, courseOrUnknown(courseName)),
		Type:         types.NotificationInfo,
		RelatedTable: TableAssignments,
		RelatedID:    ptr(a.ID),
	}
}

// AssignmentToggled fires only on the transition from open to completed.
func AssignmentToggled(a *types.Assignment, wasCompleted bool) *Payload {
	if a == nil || wasCompleted || !a.Completed {
		return nil
	}
	return &Payload{
		UserID:       a.UserID,
		Title:        "Assignment Completed!",
		Message:      fmt.Sprintf("Great job! You've completed \"%s\".", a.Title),
		Type:         types.NotificationSuccess,
		RelatedTable: TableAssignments,
		RelatedID:    ptr(a.ID),
	}
}

func CourseCreated(c *types.Course) *Payload {
	if c == nil {
		return nil
	}
	return &Payload{
		UserID:       c.UserID,
		Title:        "Course Added",
		Message:      fmt.Sprintf("\"%s (%s)\" has been successfully added to your courses.", c.Name, c.Code),
		Type:         types.NotificationSuccess,
		RelatedTable: TableCourses,
		RelatedID:    ptr(c.ID),
	}
}

func SessionLogged(s *types.StudySession, courseName string) *Payload {
	if s == nil {
		return nil
	}
	subject := courseOrUnknown(courseName)
	if sub := strings.TrimSpace(s.Subtopic); sub != "" {
		subject = fmt.Sprintf("%s (%s)", subject, sub)
	}
	p := &Payload{
		UserID:       s.UserID,
		RelatedTable: TableStudySessions,
		RelatedID:    ptr(s.ID),
	}
	if s.Duration >= LongSessionMinutes {
		p.Title = "Great Study Session!"
		p.Message = fmt.Sprintf("Impressive focus! You studied %s for %s.", subject, FormatDuration(s.Duration))
		p.Type = types.NotificationSuccess
	} else {
		p.Title = "Study Session Logged"
		p.Message = fmt.Sprintf("Logged %s for %s.", FormatDuration(s.Duration), subject)
		p.Type = types.NotificationInfo
	}
	return p
}

func WeeklyReset(userID uuid.UUID, keepLagging bool, snapshotID *uuid.UUID) *Payload {
	status := "All unit statuses reset."
	if keepLagging {
		status = "Lagging units status preserved."
	}
	return &Payload{
		UserID:       userID,
		Title:        "Weekly Progress Reset",
		Message:      "Weekly progress has been saved and reset. " + status,
		Type:         types.NotificationInfo,
		RelatedTable: TableWeeklyProgress,
		RelatedID:    snapshotID,
	}
}

// AssignmentDueSoon fires for an open assignment due on the calendar day after
// now. The dedupe key pins it to one notification per assignment per day.
func AssignmentDueSoon(a *types.Assignment, courseName string, now time.Time) *Payload {
	if a == nil || a.Completed || !deadline.DueWithinNextDay(a.DueDate, now) {
		return nil
	}
	formatted := a.DueDate.In(now.Location()).Format(dueLayout)
	return &Payload{
		UserID:       a.UserID,
		Title:        "Assignment Due Tomorrow",
		Message:      fmt.Sprintf("\"%s\" for %s is due tomorrow (%s). Don't forget to complete it!", a.Title, courseOrUnknown(courseName), formatted),
		Type:         types.NotificationWarning,
		RelatedTable: TableAssignments,
		RelatedID:    ptr(a.ID),
		DedupeKey:    DueSoonKey(a.ID, now),
	}
}

func DueSoonKey(assignmentID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("assignment_due:%s:%s", assignmentID, now.Format("2006-01-02"))
}

// WeeklySummary reports a week of study. The type follows goal attainment:
// success at 100% or more, warning below 50%, info otherwise or without a goal.
func WeeklySummary(userID uuid.UUID, s progress.WeekSummary) *Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "This week you studied for %.1f hours across %d sessions", s.TotalHours, s.SessionCount)
	if s.CoursesStudied > 0 {
		plural := ""
		if s.CoursesStudied > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, " covering %d course%s", s.CoursesStudied, plural)
	}
	b.WriteString(".")

	typ := types.NotificationInfo
	if s.GoalHours > 0 {
		fmt.Fprintf(&b, " Your weekly goal: %sh (%d%% complete)", strconv.FormatFloat(s.GoalHours, 'f', -1, 64), s.GoalPercent)
		switch {
		case s.GoalPercent >= 100:
			typ = types.NotificationSuccess
		case s.GoalPercent < 50:
			typ = types.NotificationWarning
		}
	}
	return &Payload{
		UserID:       userID,
		Title:        "Weekly Progress Report",
		Message:      b.String(),
		Type:         typ,
		RelatedTable: TableStudySessions,
		DedupeKey:    WeeklySummaryKey(userID, s.WeekStart),
	}
}

func WeeklySummaryKey(userID uuid.UUID, weekStart time.Time) string {
	return fmt.Sprintf("weekly_summary:%s:%s", userID, weekStart.Format("2006-01-02"))
}

func Welcome(userID uuid.UUID) *Payload {
	return &Payload{
		UserID:  userID,
		Title:   "Welcome to Smart Study Planner!",
		Message: "Start tracking your study sessions, manage assignments, and achieve your academic goals efficiently.",
		Type:    types.NotificationInfo,
	}
}

// FormatDuration renders minutes as "2h 5m" or "45m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func courseOrUnknown(name string) string {
	if strings.TrimSpace(name) == "" {
		return unknownCourse
	}
	return name
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
