package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/honeyshop-backend/internal/clients/redis"
	"github.com/yungbote/honeyshop-backend/internal/data/db"
	"github.com/yungbote/honeyshop-backend/internal/platform/gcp"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

// Clients are the process-wide store handles. They are opened once in New
// and released by App.Close.
type Clients struct {
	Postgres *db.PostgresService
	Mongo    *mongodb.Client
	Redis    *goredis.Client
	Images   gcp.ImageStore
}

func (c Clients) DB() *gorm.DB {
	if c.Postgres == nil {
		return nil
	}
	return c.Postgres.DB()
}

// wireClients connects the required stores (retrying per policy) and the
// optional ones. A missing optional store is logged and left nil.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	pg, err := db.NewPostgresService(ctx, log, cfg.Postgres)
	if err != nil {
		return out, fmt.Errorf("init postgres: %w", err)
	}
	out.Postgres = pg

	mc, err := mongodb.Connect(ctx, log, cfg.Mongo)
	if err != nil {
		out.Close(log)
		return Clients{}, fmt.Errorf("init mongodb: %w", err)
	}
	out.Mongo = mc

	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, log, cfg.Redis)
		if err != nil {
			out.Close(log)
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	} else {
		log.Info("Product cache disabled", "reason", "REDIS_ADDR not set")
	}

	images, err := resolveImageStore(ctx, log, cfg.ImageStorage)
	if err != nil {
		out.Close(log)
		return Clients{}, err
	}
	out.Images = images
	return out, nil
}

// Close releases every open handle, logging failures.
func (c Clients) Close(log *logger.Logger) {
	if c.Images != nil {
		if err := c.Images.Close(); err != nil {
			log.Warn("Close image store failed", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("Close redis failed", "error", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Close(context.Background()); err != nil {
			log.Warn("Close mongodb failed", "error", err)
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			log.Warn("Close postgres failed", "error", err)
		}
	}
}
