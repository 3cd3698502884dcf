package temporalx

import (
	"strings"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	AutoRegisterNamespace bool
	NamespaceRetention    time.Duration

	DialTimeout time.Duration
	DialMaxWait time.Duration

	// Cron expressions for the scheduled sweeps, evaluated in ScheduleTimezone.
	DueSweepCron     string
	WeeklySweepCron  string
	ScheduleTimezone string

	WorkerConcurrency int
}

func LoadConfig(log *logger.Logger) Config {
	retentionDays := envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7, log)
	if retentionDays < 1 || retentionDays > 365 {
		retentionDays = 7
	}
	concurrency := envutil.Int("TEMPORAL_WORKER_CONCURRENCY", 4, log)
	if concurrency < 1 {
		concurrency = 1
	}
	return Config{
		Address:   envutil.String("TEMPORAL_ADDRESS", "", log),
		Namespace: envutil.String("TEMPORAL_NAMESPACE", "studyplanner", log),
		TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "studyplanner-sweeps", log),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", "", log),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", "", log),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", "", log),

		AutoRegisterNamespace: envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false, log),
		NamespaceRetention:    time.Duration(retentionDays) * 24 * time.Hour,

		DialTimeout: envutil.Seconds("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5, log),
		DialMaxWait: envutil.Seconds("TEMPORAL_DIAL_MAX_WAIT_SECONDS", 60, log),

		DueSweepCron:     envutil.String("TEMPORAL_DUE_SWEEP_CRON", "0 * * * *", log),
		WeeklySweepCron:  envutil.String("TEMPORAL_WEEKLY_SWEEP_CRON", "0 18 * * 0", log),
		ScheduleTimezone: envutil.String("APP_TIMEZONE", "UTC", log),

		WorkerConcurrency: concurrency,
	}
}

func (c Config) Enabled() bool { return strings.TrimSpace(c.Address) != "" }

func (c Config) usesTLS() bool {
	return c.ClientCertPath != "" || c.ClientKeyPath != "" || c.ClientCAPath != ""
}
