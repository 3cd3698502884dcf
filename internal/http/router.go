package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplanner-backend/internal/http/middleware"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	// Tracing adds the otelgin middleware. Off unless OpenTelemetry is initialised.
	Tracing        bool
	Metrics        *observability.Metrics
	Emitter        services.SSEEmitter
	AllowedOrigins []string

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	RealtimeHandler *httpH.RealtimeHandler

	CourseHandler       *httpH.CourseHandler
	AssignmentHandler   *httpH.AssignmentHandler
	StudySessionHandler *httpH.StudySessionHandler
	ProgressHandler     *httpH.ProgressHandler
	NotificationHandler *httpH.NotificationHandler
	FileHandler         *httpH.FileHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/metrics", "/api/sse/stream"))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.AttachRequestContext(cfg.Emitter))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/user/name", cfg.UserHandler.ChangeName)
			protected.PATCH("/user/theme", cfg.UserHandler.ChangeTheme)
			protected.PATCH("/user/week", cfg.UserHandler.ChangeWeek)
			protected.PATCH("/user/timezone", cfg.UserHandler.ChangeTimezone)
		}

		// Courses
		if cfg.CourseHandler != nil {
			protected.GET("/courses", cfg.CourseHandler.List)
			protected.POST("/courses", cfg.CourseHandler.Create)
			protected.GET("/courses/:id", cfg.CourseHandler.Get)
			protected.PATCH("/courses/:id", cfg.CourseHandler.Update)
			protected.DELETE("/courses/:id", cfg.CourseHandler.Delete)
		}

		// Assignments
		if cfg.AssignmentHandler != nil {
			protected.GET("/assignments", cfg.AssignmentHandler.List)
			protected.POST("/assignments", cfg.AssignmentHandler.Create)
			protected.GET("/assignments/classified", cfg.AssignmentHandler.Classified)
			protected.PATCH("/assignments/:id", cfg.AssignmentHandler.Update)
			protected.DELETE("/assignments/:id", cfg.AssignmentHandler.Delete)
			protected.POST("/assignments/:id/toggle", cfg.AssignmentHandler.Toggle)
		}

		// Files
		if cfg.FileHandler != nil {
			protected.GET("/courses/:id/files", cfg.FileHandler.ListCourseFiles)
			protected.POST("/courses/:id/files", cfg.FileHandler.UploadCourseFile)
			protected.GET("/assignments/:id/files", cfg.FileHandler.ListAssignmentFiles)
			protected.POST("/assignments/:id/files", cfg.FileHandler.UploadAssignmentFile)
			protected.DELETE("/files/:id", cfg.FileHandler.Delete)
		}

		// Study sessions
		if cfg.StudySessionHandler != nil {
			protected.GET("/sessions", cfg.StudySessionHandler.List)
			protected.POST("/sessions", cfg.StudySessionHandler.Log)
			protected.DELETE("/sessions/:id", cfg.StudySessionHandler.Delete)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.GET("/progress/weekly", cfg.ProgressHandler.Weekly)
			protected.GET("/progress/lagging", cfg.ProgressHandler.Lagging)
			protected.GET("/progress/suggestions", cfg.ProgressHandler.Suggestions)
			protected.GET("/progress/dashboard", cfg.ProgressHandler.Dashboard)
			protected.POST("/progress/reset", cfg.ProgressHandler.Reset)
			protected.GET("/progress/history", cfg.ProgressHandler.History)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.GET("/notifications/unread-count", cfg.NotificationHandler.UnreadCount)
			protected.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
			protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
			protected.DELETE("/notifications/:id", cfg.NotificationHandler.Delete)
		}
	}

	return r
}
