package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos/auth"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/notification"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/planner"
	"github.com/yungbote/studyplanner-backend/internal/data/repos/user"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type CourseRepo = planner.CourseRepo
type AssignmentRepo = planner.AssignmentRepo
type StudySessionRepo = planner.StudySessionRepo
type WeeklyProgressRepo = planner.WeeklyProgressRepo
type FileRepo = planner.FileRepo

type NotificationRepo = notification.NotificationRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewCourseRepo(db *gorm.DB, log *logger.Logger) CourseRepo { return planner.NewCourseRepo(db, log) }
func NewAssignmentRepo(db *gorm.DB, log *logger.Logger) AssignmentRepo {
	return planner.NewAssignmentRepo(db, log)
}
func NewStudySessionRepo(db *gorm.DB, log *logger.Logger) StudySessionRepo {
	return planner.NewStudySessionRepo(db, log)
}
func NewWeeklyProgressRepo(db *gorm.DB, log *logger.Logger) WeeklyProgressRepo {
	return planner.NewWeeklyProgressRepo(db, log)
}
func NewFileRepo(db *gorm.DB, log *logger.Logger) FileRepo { return planner.NewFileRepo(db, log) }

func NewNotificationRepo(db *gorm.DB, log *logger.Logger) NotificationRepo {
	return notification.NewNotificationRepo(db, log)
}
