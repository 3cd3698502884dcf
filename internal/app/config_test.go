package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_TIMEZONE", "ACADEMIC_CALENDAR_PATH", "FILES_GCS_BUCKET_NAME", "SWEEP_INTERVAL_SECONDS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.Location != time.UTC || cfg.SweepInterval != 15*time.Minute {
		t.Fatalf("unexpected defaults: port=%s loc=%v interval=%s", cfg.Port, cfg.Location, cfg.SweepInterval)
	}
	if cfg.Storage != nil {
		t.Fatalf("storage should be disabled without a bucket")
	}
	if len(cfg.Calendar.Assessments) != 2 {
		t.Fatalf("expected default calendar, got %+v", cfg.Calendar)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	calPath := filepath.Join(dir, "calendar.yaml")
	if err := os.WriteFile(calPath, []byte("assessments:\n  - week: 6\n    label: Midterm\n    advice: Revise.\n"), 0o600); err != nil {
		t.Fatalf("write calendar: %v", err)
	}
	t.Setenv("APP_TIMEZONE", "Africa/Nairobi")
	t.Setenv("ACADEMIC_CALENDAR_PATH", calPath)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("FILES_GCS_BUCKET_NAME", "planner-files")
	t.Setenv("OBJECT_STORAGE_MODE", "gcs")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Location.String() != "Africa/Nairobi" {
		t.Fatalf("location: %v", cfg.Location)
	}
	if len(cfg.Calendar.Assessments) != 1 || cfg.Calendar.Assessments[0].Label != "Midterm" {
		t.Fatalf("calendar: %+v", cfg.Calendar)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("origins: %v", cfg.AllowedOrigins)
	}
	if cfg.Storage == nil || cfg.Storage.Bucket != "planner-files" {
		t.Fatalf("storage: %+v", cfg.Storage)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	if _, err := LoadConfig(logger.Nop()); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}

	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("FILES_GCS_BUCKET_NAME", "planner-files")
	t.Setenv("OBJECT_STORAGE_MODE", "s3")
	_, err := LoadConfig(logger.Nop())
	var bootErr *StorageProviderBootstrapError
	if !errors.As(err, &bootErr) || bootErr.Code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("expected invalid_mode bootstrap error, got %v", err)
	}
}
