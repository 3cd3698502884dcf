package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/studyplanner-backend/internal/platform/envutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModeEmulator StorageMode = "gcs_emulator"
)

// StorageConfig describes where course and assignment attachments live.
type StorageConfig struct {
	Mode          StorageMode
	Bucket        string
	CDNDomain     string
	EmulatorHost  string
	PublicBaseURL string
}

// StorageConfigFromEnv reads FILES_GCS_BUCKET_NAME, FILES_CDN_DOMAIN, OBJECT_STORAGE_MODE,
// STORAGE_EMULATOR_HOST and OBJECT_STORAGE_PUBLIC_BASE_URL. An emulator host with no
// explicit mode selects emulator mode.
// StorageConfigError reports an invalid storage setting. Code names the setting at fault.
type StorageConfigError struct {
	Code StorageConfigErrorCode
	Err  error
}

type StorageConfigErrorCode string

const (
	StorageConfigErrorInvalidMode         StorageConfigErrorCode = "invalid_mode"
	StorageConfigErrorMissingBucket       StorageConfigErrorCode = "missing_bucket"
	StorageConfigErrorMissingEmulatorHost StorageConfigErrorCode = "missing_emulator_host"
	StorageConfigErrorInvalidEmulatorHost StorageConfigErrorCode = "invalid_emulator_host"
	StorageConfigErrorInvalidPublicURL    StorageConfigErrorCode = "invalid_public_base_url"
)

func (e *StorageConfigError) Error() string { return e.Err.Error() }

func (e *StorageConfigError) Unwrap() error { return e.Err }

func configErr(code StorageConfigErrorCode, format string, args ...any) error {
	return &StorageConfigError{Code: code, Err: fmt.Errorf(format, args...)}
}

// StorageConfigFromEnv reads FILES_GCS_BUCKET_NAME, FILES_CDN_DOMAIN, OBJECT_STORAGE_MODE,
// STORAGE_EMULATOR_HOST and OBJECT_STORAGE_PUBLIC_BASE_URL. An emulator host with no
// explicit mode selects emulator mode.
func StorageConfigFromEnv(log *logger.Logger) (StorageConfig, error) {
	cfg := StorageConfig{
		Bucket:        envutil.String("FILES_GCS_BUCKET_NAME", "", log),
		CDNDomain:     envutil.String("FILES_CDN_DOMAIN", "", log),
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", "", log), "/"),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", "", log), "/"),
	}
	switch mode := StorageMode(strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "", log))); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeEmulator
		} else {
			cfg.Mode = StorageModeGCS
		}
	case StorageModeGCS, StorageModeEmulator:
		cfg.Mode = mode
	default:
		cfg.Mode = mode
		return cfg, configErr(StorageConfigErrorInvalidMode, "invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", mode, StorageModeGCS, StorageModeEmulator)
	}
	return cfg, cfg.Validate()
}

func (c StorageConfig) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return configErr(StorageConfigErrorMissingBucket, "missing env var FILES_GCS_BUCKET_NAME")
	}
	switch c.Mode {
	case StorageModeGCS:
	case StorageModeEmulator:
		if c.EmulatorHost == "" {
			return configErr(StorageConfigErrorMissingEmulatorHost, "OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", StorageModeEmulator)
		}
		if !isAbsoluteURL(c.EmulatorHost) {
			return configErr(StorageConfigErrorInvalidEmulatorHost, "invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", c.EmulatorHost)
		}
	default:
		return configErr(StorageConfigErrorInvalidMode, "invalid storage mode %q", c.Mode)
	}
	if c.PublicBaseURL != "" && !isAbsoluteURL(c.PublicBaseURL) {
		return configErr(StorageConfigErrorInvalidPublicURL, "invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", c.PublicBaseURL)
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.TrimSpace(u.Scheme) != "" && strings.TrimSpace(u.Host) != ""
}
