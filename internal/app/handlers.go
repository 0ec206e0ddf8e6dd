package app

import (
	"context"

	httpH "github.com/yungbote/honeyshop-backend/internal/http/handlers"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Address *httpH.AddressHandler
	Catalog *httpH.CatalogHandler
	Cart    *httpH.CartHandler
	Order   *httpH.OrderHandler
	Review  *httpH.ReviewHandler
	Contact *httpH.ContactHandler
}

func healthChecks(clients Clients) map[string]httpH.Pinger {
	checks := map[string]httpH.Pinger{}
	if db := clients.DB(); db != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if clients.Mongo != nil {
		checks["mongodb"] = func(ctx context.Context) error {
			return clients.Mongo.Database().Client().Ping(ctx, nil)
		}
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func wireHandlers(log *logger.Logger, clients Clients, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(healthChecks(clients)),
		Auth:    httpH.NewAuthHandler(log, s.Auth),
		User:    httpH.NewUserHandler(log, s.User, s.Profile),
		Address: httpH.NewAddressHandler(log, s.Address),
		Catalog: httpH.NewCatalogHandler(log, s.Catalog),
		Cart:    httpH.NewCartHandler(log, s.Cart),
		Order:   httpH.NewOrderHandler(log, s.Order),
		Review:  httpH.NewReviewHandler(log, s.Review),
		Contact: httpH.NewContactHandler(log, s.Contact),
	}
}
