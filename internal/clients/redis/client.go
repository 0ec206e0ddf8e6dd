package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/honeyshop-backend/internal/platform/envutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// ProductTTL bounds how long a cached product survives without an
	// explicit invalidation.
	ProductTTL time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Addr:       envutil.String("REDIS_ADDR", ""),
		Password:   envutil.String("REDIS_PASSWORD", ""),
		DB:         envutil.Int("REDIS_DB", 0),
		ProductTTL: envutil.Seconds("REDIS_PRODUCT_CACHE_TTL", 5*time.Minute),
	}
}

// Enabled reports whether a cache server was configured.
func (c Config) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

// NewClient dials and pings the cache server.
func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*goredis.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.With("service", "RedisClient").Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return rdb, nil
}
