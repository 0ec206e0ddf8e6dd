package app

import (
	"github.com/yungbote/honeyshop-backend/internal/http"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: mw.Auth,
		AuthHandler:    h.Auth,
		UserHandler:    h.User,
		AddressHandler: h.Address,
		CatalogHandler: h.Catalog,
		CartHandler:    h.Cart,
		OrderHandler:   h.Order,
		ReviewHandler:  h.Review,
		ContactHandler: h.Contact,
		HealthHandler:  h.Health,
	})
}
