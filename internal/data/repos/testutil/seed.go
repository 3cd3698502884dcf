package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/studyplanner-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string, weeklyGoal float64) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		Code:       "C-" + name,
		Color:      "#3366ff",
		WeeklyGoal: weeklyGoal,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseID *uuid.UUID, title string, due time.Time, completed bool) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Title:     title,
		DueDate:   due.UTC(),
		Priority:  types.PriorityMedium,
		Completed: completed,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, date time.Time, minutes int) *types.StudySession {
	tb.Helper()
	s := &types.StudySession{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Date:     date.UTC(),
		Duration: minutes,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }
