package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type Services struct {
	// Realtime
	Emitter services.SSEEmitter

	// Auth + domain
	Auth         services.AuthService
	User         services.UserService
	Notification services.NotificationService
	Course       services.CourseService
	Assignment   services.AssignmentService
	StudySession services.StudySessionService
	Progress     services.ProgressService

	// File is nil when object storage is not configured.
	File services.FileService

	// Scheduled notifications
	Sweep services.SweepService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	emitter := &services.BusEmitter{Bus: clients.SSEBus, Log: log.With("component", "BusEmitter")}

	notificationService := services.NewNotificationService(db, log, repos.Notification, emitter)

	var fileService services.FileService
	if clients.Files != nil {
		fileService = services.NewFileService(db, log, clients.Files, repos.File, repos.Course, repos.Assignment, emitter)
	}

	authService := services.NewAuthService(
		db, log,
		repos.User,
		repos.UserToken,
		notificationService,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, repos.User, emitter)
	courseService := services.NewCourseService(db, log, repos.Course, repos.StudySession, notificationService, fileService, emitter)
	assignmentService := services.NewAssignmentService(
		db, log,
		repos.Assignment,
		repos.Course,
		repos.User,
		notificationService,
		emitter,
		cfg.Location,
	)
	studySessionService := services.NewStudySessionService(db, log, repos.StudySession, repos.Course, notificationService, emitter)
	progressService := services.NewProgressService(
		db, log,
		repos.User,
		repos.Course,
		repos.StudySession,
		repos.Assignment,
		repos.WeeklyProgress,
		notificationService,
		emitter,
		cfg.Calendar,
		cfg.Location,
	)
	sweepService := services.NewSweepService(
		db, log,
		repos.User,
		repos.Course,
		repos.StudySession,
		repos.Assignment,
		notificationService,
		cfg.Location,
		cfg.SweepConcurrency,
	)

	return Services{
		Emitter:      emitter,
		Auth:         authService,
		User:         userService,
		Notification: notificationService,
		Course:       courseService,
		Assignment:   assignmentService,
		StudySession: studySessionService,
		Progress:     progressService,
		File:         fileService,
		Sweep:        sweepService,
	}
}
