package app

import (
	"fmt"
	"strings"
	"time"
	// zoneinfo for minimal images
	_ "time/tzdata"

	dbpkg "github.com/yungbote/studyplanner-backend/internal/data/db"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/gcp"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/progress"
	"github.com/yungbote/studyplanner-backend/internal/realtime/bus"
	"github.com/yungbote/studyplanner-backend/internal/temporalx"
)

const serviceName = "studyplanner-backend"

type Config struct {
	Port           string
	AllowedOrigins []string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Postgres    dbpkg.PostgresConfig
	AutoMigrate bool

	RedisAddr    string
	RedisChannel string

	// Location is used for users who have not set a timezone.
	Location *time.Location
	Calendar progress.AcademicCalendar

	SweepEnabled     bool
	SweepInterval    time.Duration
	SweepConcurrency int

	// Storage is nil when FILES_GCS_BUCKET_NAME is unset; attachments are then disabled.
	Storage *gcp.StorageConfig

	Temporal    temporalx.Config
	Otel        observability.OtelConfig
	MetricsAddr string
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:             envutil.String("PORT", "8080", log),
		AllowedOrigins:   splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:   envutil.Seconds("ACCESS_TOKEN_TTL", 3600, log),
		RefreshTokenTTL:  envutil.Seconds("REFRESH_TOKEN_TTL", 86400, log),
		Postgres:         dbpkg.PostgresConfigFromEnv(log),
		AutoMigrate:      envutil.Bool("DB_AUTO_MIGRATE", true, log),
		RedisAddr:        envutil.String("REDIS_ADDR", "", log),
		RedisChannel:     envutil.String("REDIS_CHANNEL", bus.DefaultChannel, log),
		SweepEnabled:     envutil.Bool("SWEEP_ENABLED", true, log),
		SweepInterval:    envutil.Seconds("SWEEP_INTERVAL_SECONDS", 900, log),
		SweepConcurrency: envutil.Int("SWEEP_CONCURRENCY", 4, log),
		Temporal:         temporalx.LoadConfig(log),
		Otel:             observability.OtelConfigFromEnv(log, serviceName),
		MetricsAddr:      envutil.String("METRICS_ADDR", "", log),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY is not set; using an insecure default")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return cfg, fmt.Errorf("token ttls must be positive (access=%s refresh=%s)", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}

	tz := envutil.String("APP_TIMEZONE", "UTC", log)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return cfg, fmt.Errorf("invalid APP_TIMEZONE=%q: %w", tz, err)
	}
	cfg.Location = loc

	cal, err := progress.LoadCalendar(envutil.String("ACADEMIC_CALENDAR_PATH", "", log))
	if err != nil {
		return cfg, err
	}
	cfg.Calendar = cal

	if envutil.String("FILES_GCS_BUCKET_NAME", "", log) != "" {
		sc, err := gcp.StorageConfigFromEnv(log)
		if err != nil {
			return cfg, &StorageProviderBootstrapError{Code: storageErrorCode(err), Mode: string(sc.Mode), EmulatorHost: sc.EmulatorHost, Cause: err}
		}
		cfg.Storage = &sc
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
