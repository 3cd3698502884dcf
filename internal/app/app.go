package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	dbpkg "github.com/yungbote/studyplanner-backend/internal/data/db"
	"github.com/yungbote/studyplanner-backend/internal/http"
	"github.com/yungbote/studyplanner-backend/internal/jobs"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
	"github.com/yungbote/studyplanner-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	SSEHub   *realtime.SSEHub
	Server   *http.Server
	Metrics  *observability.Metrics

	pg           *dbpkg.PostgresService
	shutdownOtel func(context.Context) error
	scheduler    *jobs.Scheduler
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE (default development).
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB connects to Postgres and, when enabled, migrates the schema.
func OpenDB(log *logger.Logger, cfg Config) (*dbpkg.PostgresService, error) {
	pg, err := dbpkg.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if cfg.AutoMigrate {
		if err := dbpkg.AutoMigrateAll(pg.DB()); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
	}
	return pg, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log)

	pg, err := OpenDB(log, cfg)
	if err != nil {
		_ = shutdownOtel(ctx)
		return nil, err
	}
	theDB := pg.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = pg.Close()
		_ = shutdownOtel(ctx)
		return nil, err
	}

	ssehub := realtime.NewSSEHub(log)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset, ssehub, healthChecks(theDB, clients.Redis))
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, serviceset, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		SSEHub:       ssehub,
		Server:       server,
		Metrics:      metrics,
		pg:           pg,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Start launches background work: the realtime forwarder, metrics collectors
// and the sweep runner (Temporal when configured, the ticker otherwise).
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		return fmt.Errorf("start realtime forwarder: %w", err)
	}

	if a.Metrics != nil {
		if err := a.Metrics.RegisterDB(a.DB, "postgres"); err != nil {
			a.Log.Warn("Failed to register db metrics", "error", err)
		}
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, 15*time.Second)
		}
		if a.Cfg.MetricsAddr != "" {
			a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		}
	}

	switch {
	case a.Clients.Temporal != nil:
		runner, err := temporalworker.NewRunner(a.Log, a.Clients.Temporal, a.Cfg.Temporal, a.Services.Sweep, a.Metrics)
		if err != nil {
			return err
		}
		if err := runner.Start(ctx); err != nil {
			return fmt.Errorf("start temporal worker: %w", err)
		}
	case a.Cfg.SweepEnabled:
		var locker jobs.Locker
		if a.Clients.Redis != nil {
			host, _ := os.Hostname()
			locker = jobs.NewRedisLocker(a.Clients.Redis, fmt.Sprintf("%s-%d", host, os.Getpid()))
		}
		a.scheduler = jobs.NewScheduler(a.Log, a.Services.Sweep, locker, a.Metrics, a.Cfg.SweepInterval)
		a.scheduler.Start(ctx)
	default:
		a.Log.Info("Notification sweeps disabled")
	}
	return nil
}

// Run serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.scheduler != nil {
		a.scheduler.Wait()
	}
	a.Clients.Close()
	if a.pg != nil {
		_ = a.pg.Close()
		a.pg = nil
	}
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.shutdownOtel(ctx)
		cancel()
		a.shutdownOtel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
