package app

import (
	"context"
	"fmt"

	"github.com/yungbote/honeyshop-backend/internal/platform/gcp"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

var newImageStore = gcp.NewImageStore

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidConfig StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	Bucket       string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q bucket=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.Bucket,
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

// resolveImageStore returns nil when no bucket is configured; image upload
// then answers unavailable while the rest of the storefront runs.
func resolveImageStore(ctx context.Context, log *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.ImageStore, error) {
	if !cfg.Enabled() {
		log.Info("Product image storage disabled", "reason", "PRODUCT_IMAGE_GCS_BUCKET not set")
		return nil, nil
	}
	bootstrapErr := func(code StorageProviderBootstrapErrorCode, cause error) error {
		err := &StorageProviderBootstrapError{
			Code:         code,
			Mode:         string(cfg.Mode),
			Bucket:       cfg.Bucket,
			EmulatorHost: cfg.EmulatorHost,
			Cause:        cause,
		}
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", cfg.Mode,
			"bucket", cfg.Bucket,
			"emulator_host", cfg.EmulatorHost,
			"error_code", code,
			"error", cause,
		)
		return err
	}

	if err := gcp.ValidateObjectStorageConfig(cfg); err != nil {
		return nil, bootstrapErr(StorageProviderBootstrapErrorInvalidConfig, err)
	}
	log.Info("Selecting object storage provider", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	store, err := newImageStore(ctx, log, cfg)
	if err != nil {
		return nil, bootstrapErr(StorageProviderBootstrapErrorConnectFailed, err)
	}
	return store, nil
}
