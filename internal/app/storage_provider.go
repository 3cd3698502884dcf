package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/studyplanner-backend/internal/platform/gcp"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

var newFileStore = gcp.NewFileStore

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorInvalidConfig       StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveFileStore opens the attachment bucket. A nil config means storage is
// disabled and yields a nil store.
func resolveFileStore(ctx context.Context, log *logger.Logger, cfg *gcp.StorageConfig) (gcp.FileStore, error) {
	if cfg == nil {
		log.Info("Object storage disabled; file attachments are unavailable")
		return nil, nil
	}
	log.Info("Selecting object storage provider", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)

	store, err := newFileStore(ctx, log, *cfg)
	if err != nil {
		bootstrapErr := &StorageProviderBootstrapError{
			Code:         storageErrorCode(err),
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", cfg.Mode,
			"emulator_host", cfg.EmulatorHost,
			"error_code", bootstrapErr.Code,
			"error", err,
		)
		return nil, bootstrapErr
	}
	return store, nil
}

// storageErrorCode classifies a storage bootstrap failure. Anything that is
// not a configuration problem is treated as a connection failure.
func storageErrorCode(err error) StorageProviderBootstrapErrorCode {
	var cfgErr *gcp.StorageConfigError
	if !errors.As(err, &cfgErr) {
		return StorageProviderBootstrapErrorConnectFailed
	}
	switch cfgErr.Code {
	case gcp.StorageConfigErrorInvalidMode:
		return StorageProviderBootstrapErrorInvalidMode
	case gcp.StorageConfigErrorMissingEmulatorHost:
		return StorageProviderBootstrapErrorMissingEmulatorHost
	case gcp.StorageConfigErrorInvalidEmulatorHost:
		return StorageProviderBootstrapErrorInvalidEmulatorHost
	default:
		return StorageProviderBootstrapErrorInvalidConfig
	}
}
