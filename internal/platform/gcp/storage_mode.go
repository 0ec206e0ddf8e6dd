package gcp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"google.golang.org/api/option"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
	Bucket       string
	CDNDomain    string
	// Credentials is either inline service account JSON or a key file path.
	// Empty means application default credentials.
	Credentials string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

// Enabled reports whether a product image bucket was configured at all.
func (cfg ObjectStorageConfig) Enabled() bool {
	return strings.TrimSpace(cfg.Bucket) != ""
}

// ResolveObjectStorageConfigFromEnv infers the mode from OBJECT_STORAGE_MODE,
// falling back to the emulator when only STORAGE_EMULATOR_HOST is set.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost: strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/"),
		Bucket:       strings.TrimSpace(os.Getenv("PRODUCT_IMAGE_GCS_BUCKET")),
		CDNDomain:    strings.TrimSpace(os.Getenv("PRODUCT_IMAGE_CDN_DOMAIN")),
		Credentials:  firstEnv("PRODUCT_IMAGE_GCS_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS_JSON", "GOOGLE_APPLICATION_CREDENTIALS"),
	}

	raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch ObjectStorageMode(strings.ToLower(raw)) {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS:
		cfg.Mode = ObjectStorageModeGCS
	case ObjectStorageModeGCSEmulator:
		cfg.Mode = ObjectStorageModeGCSEmulator
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", raw, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}
	return cfg, ValidateObjectStorageConfig(cfg)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func (cfg ObjectStorageConfig) inlineCredentials() bool {
	return strings.HasPrefix(cfg.Credentials, "{")
}

// clientOptions picks the storage client auth. The emulator never
// authenticates; configured credentials are ignored there.
func (cfg ObjectStorageConfig) clientOptions() []option.ClientOption {
	switch {
	case cfg.IsEmulatorMode():
		return []option.ClientOption{option.WithoutAuthentication()}
	case cfg.Credentials == "":
		return nil
	case cfg.inlineCredentials():
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.Credentials))}
	default:
		return []option.ClientOption{option.WithCredentialsFile(cfg.Credentials)}
	}
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		if cfg.inlineCredentials() && !json.Valid([]byte(cfg.Credentials)) {
			return fmt.Errorf("image store credentials look like inline JSON but do not parse")
		}
		return nil
	case ObjectStorageModeGCSEmulator:
	default:
		return fmt.Errorf("invalid object storage mode %q", cfg.Mode)
	}
	if cfg.EmulatorHost == "" {
		return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
	}
	return nil
}
