package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yungbote/honeyshop-backend/internal/clients/redis"
	"github.com/yungbote/honeyshop-backend/internal/data/db"
	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/domain/commerce"
	httpMW "github.com/yungbote/honeyshop-backend/internal/http/middleware"
	"github.com/yungbote/honeyshop-backend/internal/platform/envutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/gcp"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	LogMode string
	Port    string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Pricing     commerce.Pricing
	VerifyTotal bool

	Postgres     db.PostgresConfig
	Mongo        mongodb.Config
	Redis        redis.Config
	ImageStorage gcp.ObjectStorageConfig

	AllowedOrigins []string
}

// LoadConfig reads the environment once. Only malformed values that would
// otherwise be silently replaced by defaults are reported as errors.
func LoadConfig() (Config, error) {
	pricing, err := pricingFromEnv()
	if err != nil {
		return Config{}, err
	}
	images, err := gcp.ResolveObjectStorageConfigFromEnv()
	if err != nil && images.Enabled() {
		return Config{}, fmt.Errorf("object storage config: %w", err)
	}
	return Config{
		LogMode:         envutil.String("LOG_MODE", "development"),
		Port:            envutil.String("PORT", "8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour),
		Pricing:         pricing,
		VerifyTotal:     envutil.Bool("CHECKOUT_VERIFY_TOTAL", false),
		Postgres:        db.PostgresConfigFromEnv(),
		Mongo:           mongodb.ConfigFromEnv(),
		Redis:           redis.ConfigFromEnv(),
		ImageStorage:    images,
		AllowedOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", httpMW.DefaultAllowedOrigins),
	}, nil
}

func pricingFromEnv() (commerce.Pricing, error) {
	shipping, err := moneyFromEnv("CART_SHIPPING_FEE", commerce.DefaultPricing.Shipping)
	if err != nil {
		return commerce.Pricing{}, err
	}
	tax, err := moneyFromEnv("CART_TAX", commerce.DefaultPricing.Tax)
	if err != nil {
		return commerce.Pricing{}, err
	}
	if shipping.IsNegative() || tax.IsNegative() {
		return commerce.Pricing{}, fmt.Errorf("CART_SHIPPING_FEE and CART_TAX must not be negative")
	}
	return commerce.Pricing{Shipping: shipping, Tax: tax}, nil
}

func moneyFromEnv(name string, def catalog.Money) (catalog.Money, error) {
	raw := envutil.String(name, "")
	if raw == "" {
		return def, nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return catalog.Money{}, fmt.Errorf("invalid %s=%q", name, raw)
	}
	return catalog.ParseMoney(raw)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
