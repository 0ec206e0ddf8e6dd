package app

import (
	"github.com/yungbote/honeyshop-backend/internal/clients/redis"
	"github.com/yungbote/honeyshop-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/honeyshop-backend/internal/domain/aggregates"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/services"
)

type Aggregates struct {
	AddressBook domainagg.AddressBookAggregate
	Cart        domainagg.CartAggregate
	Order       domainagg.OrderAggregate
	Review      domainagg.ReviewAggregate
}

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Profile services.ProfileService
	Address services.AddressService
	Catalog services.CatalogService
	Cart    services.CartService
	Order   services.OrderService
	Review  services.ReviewService
	Contact services.ContactService
}

// productLookup picks the read-through cache when the cache server is up,
// else the catalog repo itself. The invalidator is nil without a cache.
func productLookup(log *logger.Logger, clients Clients, cfg Config, r Repos) (aggregates.ProductLookup, services.ProductInvalidator) {
	if clients.Redis == nil {
		return r.Product, nil
	}
	cache := redis.NewProductCache(log, clients.Redis, r.Product, cfg.Redis.ProductTTL)
	return cache, cache
}

func wireAggregates(log *logger.Logger, clients Clients, cfg Config, r Repos, products aggregates.ProductLookup) Aggregates {
	log.Info("Wiring aggregates...")
	hooks := aggregates.NewLogHooks(log)
	return Aggregates{
		AddressBook: aggregates.NewAddressBookAggregate(aggregates.AddressBookAggregateDeps{
			Base:      aggregates.BaseDeps{DB: clients.DB(), Log: log, Hooks: hooks},
			Users:     r.User,
			Addresses: r.Address,
		}),
		Cart: aggregates.NewCartAggregate(aggregates.CartAggregateDeps{
			Base:     aggregates.BaseDeps{Log: log, Hooks: hooks},
			Carts:    r.Cart,
			Products: products,
		}),
		Order: aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{
			Base:        aggregates.BaseDeps{Log: log, Hooks: hooks},
			Mongo:       clients.Mongo,
			Carts:       r.Cart,
			Orders:      r.Order,
			Products:    products,
			Addresses:   r.Address,
			Pricing:     cfg.Pricing,
			VerifyTotal: cfg.VerifyTotal,
		}),
		Review: aggregates.NewReviewAggregate(aggregates.ReviewAggregateDeps{
			Base:     aggregates.BaseDeps{Log: log, Hooks: hooks},
			Reviews:  r.Review,
			Products: products,
		}),
	}
}

func wireServices(log *logger.Logger, clients Clients, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	products, invalidator := productLookup(log, clients, cfg, r)
	aggs := wireAggregates(log, clients, cfg, r, products)
	db := clients.DB()

	authService := services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(db, log, r.User, r.UserToken)
	reviewService := services.NewReviewService(log, aggs.Review, r.Review, r.User)
	orderService := services.NewOrderService(log, aggs.Order, r.Order, products)

	return Services{
		Auth:    authService,
		User:    userService,
		Profile: services.NewProfileService(log, userService, r.Address, orderService, reviewService),
		Address: services.NewAddressService(log, r.Address, aggs.AddressBook),
		Catalog: services.NewCatalogService(log, r.Category, r.Product, reviewService, invalidator, clients.Images),
		Cart:    services.NewCartService(log, aggs.Cart, products, r.Address, cfg.Pricing),
		Order:   orderService,
		Review:  reviewService,
		Contact: services.NewContactService(log, r.Contact),
	}
}
