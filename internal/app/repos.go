package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/repos"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Course         repos.CourseRepo
	Assignment     repos.AssignmentRepo
	StudySession   repos.StudySessionRepo
	WeeklyProgress repos.WeeklyProgressRepo
	File           repos.FileRepo
	Notification   repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		Assignment:     repos.NewAssignmentRepo(db, log),
		StudySession:   repos.NewStudySessionRepo(db, log),
		WeeklyProgress: repos.NewWeeklyProgressRepo(db, log),
		File:           repos.NewFileRepo(db, log),
		Notification:   repos.NewNotificationRepo(db, log),
	}
}
