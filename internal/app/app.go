package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/honeyshop-backend/internal/data/db"
	"github.com/yungbote/honeyshop-backend/internal/http"
	"github.com/yungbote/honeyshop-backend/internal/observability"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

const serviceName = "honeyshop"

// Version is stamped at build time via -ldflags.
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the insecure default")
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.LogMode,
		Version:     Version,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(clients.DB(), clients.Mongo.Database(), log)
	serviceset := wireServices(log, clients, cfg, reposet)
	handlerset := wireHandlers(log, clients, serviceset)
	middleware := wireMiddleware(log, serviceset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       wireServer(log, cfg, handlerset, middleware),
		otelShutdown: otelShutdown,
	}, nil
}

// Migrate brings both stores to the current schema. Safe to repeat.
func (a *App) Migrate(ctx context.Context) error {
	a.Log.Info("Migrating identity store...")
	if err := db.AutoMigrateAll(a.Clients.DB()); err != nil {
		return fmt.Errorf("postgres automigrate: %w", err)
	}
	a.Log.Info("Ensuring document store indexes...")
	if err := mongodb.EnsureIndexes(ctx, a.Clients.Mongo.Database()); err != nil {
		return fmt.Errorf("mongodb indexes: %w", err)
	}
	pruned, err := a.Repos.UserToken.DeleteExpired(dbctx.Context{Ctx: ctx}, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("prune expired tokens: %w", err)
	}
	a.Log.Info("Pruned expired tokens", "count", pruned)
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, a.Cfg.Addr())
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close(a.Log)
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
