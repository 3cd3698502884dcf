package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yungbote/studyplanner-backend/internal/platform/gcp"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

func TestStorageErrorCode(t *testing.T) {
	cases := []struct {
		name string
		cfg  gcp.StorageConfig
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", gcp.StorageConfig{Bucket: "b", Mode: "s3"}, StorageProviderBootstrapErrorInvalidMode},
		{"missing bucket", gcp.StorageConfig{Mode: gcp.StorageModeGCS}, StorageProviderBootstrapErrorInvalidConfig},
		{"missing emulator host", gcp.StorageConfig{Bucket: "b", Mode: gcp.StorageModeEmulator}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", gcp.StorageConfig{Bucket: "b", Mode: gcp.StorageModeEmulator, EmulatorHost: "fake-gcs:4443"}, StorageProviderBootstrapErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if got := storageErrorCode(err); got != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got)
			}
		})
	}
	if got := storageErrorCode(errors.New("dial tcp: refused")); got != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("plain error: got=%q", got)
	}
}

func TestResolveFileStoreDisabled(t *testing.T) {
	store, err := resolveFileStore(context.Background(), logger.Nop(), nil)
	if err != nil || store != nil {
		t.Fatalf("disabled storage: store=%v err=%v", store, err)
	}
}

func TestResolveFileStoreWrapsConnectFailure(t *testing.T) {
	orig := newFileStore
	t.Cleanup(func() { newFileStore = orig })
	newFileStore = func(ctx context.Context, log *logger.Logger, cfg gcp.StorageConfig) (gcp.FileStore, error) {
		return nil, fmt.Errorf("failed to create storage client: %w", errors.New("no credentials"))
	}

	cfg := &gcp.StorageConfig{Mode: gcp.StorageModeGCS, Bucket: "planner-files"}
	_, err := resolveFileStore(context.Background(), logger.Nop(), cfg)
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
	}
	if got.Code != StorageProviderBootstrapErrorConnectFailed || got.Mode != "gcs" {
		t.Fatalf("unexpected bootstrap error: %+v", got)
	}
}
