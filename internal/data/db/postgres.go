package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/honeyshop-backend/internal/platform/envutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/startup"
)

type PostgresConfig struct {
	DSN   string
	Retry startup.Policy
}

// PostgresConfigFromEnv prefers POSTGRES_DSN and otherwise builds a DSN
// from the POSTGRES_HOST/PORT/USER/PASSWORD/NAME parts.
func PostgresConfigFromEnv() PostgresConfig {
	dsn := envutil.String("POSTGRES_DSN", "")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
			envutil.String("POSTGRES_HOST", "localhost"),
			envutil.String("POSTGRES_PORT", "5432"),
			envutil.String("POSTGRES_NAME", "honeyshop"),
		)
	}
	return PostgresConfig{
		DSN: dsn,
		Retry: startup.Policy{
			Attempts: envutil.Int("POSTGRES_CONNECT_RETRIES", startup.DefaultPolicy.Attempts),
			Delay:    envutil.Millis("POSTGRES_CONNECT_RETRY_DELAY_MS", startup.DefaultPolicy.Delay),
		},
	}
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(ctx context.Context, logg *logger.Logger, cfg PostgresConfig) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var db *gorm.DB
	err := startup.Retry(ctx, serviceLog, cfg.Retry, "postgres", func(ctx context.Context) error {
		conn, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLog,
		})
		if err != nil {
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			_ = sqlDB.Close()
			return err
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	serviceLog.Info("Postgres connected")
	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
