package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

// ImageStore persists product images and resolves their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Close() error
}

type imageStore struct {
	log    *logger.Logger
	client *storage.Client
	cfg    ObjectStorageConfig
}

func NewImageStore(ctx context.Context, log *logger.Logger, cfg ObjectStorageConfig) (ImageStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing env var PRODUCT_IMAGE_GCS_BUCKET")
	}
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	storeLog := log.With("service", "ImageStore")
	storeLog.Info("Object storage initialized", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &imageStore{log: storeLog, client: client, cfg: cfg}, nil
}

func newStorageClient(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	opts := cfg.clientOptions()
	if cfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	return storage.NewClient(ctx, opts...)
}

func (s *imageStore) Upload(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = ContentTypeForKey(key)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *imageStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.client.Bucket(s.cfg.Bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.cfg.Bucket, err)
	}
	return nil
}

func (s *imageStore) PublicURL(key string) string {
	return PublicURL(s.cfg, key)
}

func (s *imageStore) Close() error {
	return s.client.Close()
}

// PublicURL prefers the CDN domain, then the emulator media endpoint, then
// the public storage.googleapis.com address.
func PublicURL(cfg ObjectStorageConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case cfg.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", cfg.CDNDomain, key)
	case cfg.IsEmulatorMode() && cfg.EmulatorHost != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
			strings.TrimRight(cfg.EmulatorHost, "/"),
			url.PathEscape(cfg.Bucket),
			url.PathEscape(key),
		)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Bucket, key)
	}
}

// ContentTypeForKey maps image extensions to MIME types.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(strings.TrimSpace(key))) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// IsImageKey reports whether key carries an image extension we serve.
func IsImageKey(key string) bool {
	return strings.HasPrefix(ContentTypeForKey(key), "image/")
}
