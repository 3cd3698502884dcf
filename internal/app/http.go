package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/http"
	httpH "github.com/yungbote/studyplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplanner-backend/internal/http/middleware"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Realtime     *httpH.RealtimeHandler
	Course       *httpH.CourseHandler
	Assignment   *httpH.AssignmentHandler
	StudySession *httpH.StudySessionHandler
	Progress     *httpH.ProgressHandler
	Notification *httpH.NotificationHandler
	File         *httpH.FileHandler
}

func wireHandlers(log *logger.Logger, services Services, sseHub *realtime.SSEHub, checks map[string]httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(checks),
		Auth:         httpH.NewAuthHandler(services.Auth),
		User:         httpH.NewUserHandler(services.User),
		Realtime:     httpH.NewRealtimeHandler(log, sseHub),
		Course:       httpH.NewCourseHandler(services.Course),
		Assignment:   httpH.NewAssignmentHandler(services.Assignment),
		StudySession: httpH.NewStudySessionHandler(services.StudySession),
		Progress:     httpH.NewProgressHandler(services.Progress),
		Notification: httpH.NewNotificationHandler(services.Notification),
		File:         httpH.NewFileHandler(services.File),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, services Services, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	// A dedicated metrics listener keeps /metrics off the public port.
	routeMetrics := metrics
	if cfg.MetricsAddr != "" {
		routeMetrics = nil
	}
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		Tracing:             cfg.Otel.Enabled,
		Metrics:             routeMetrics,
		Emitter:             services.Emitter,
		AllowedOrigins:      cfg.AllowedOrigins,
		HealthHandler:       handlers.Health,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		UserHandler:         handlers.User,
		RealtimeHandler:     handlers.Realtime,
		CourseHandler:       handlers.Course,
		AssignmentHandler:   handlers.Assignment,
		StudySessionHandler: handlers.StudySession,
		ProgressHandler:     handlers.Progress,
		NotificationHandler: handlers.Notification,
		FileHandler:         handlers.File,
	})
}

func healthChecks(db *gorm.DB, rdb *goredis.Client) map[string]httpH.Pinger {
	checks := map[string]httpH.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
