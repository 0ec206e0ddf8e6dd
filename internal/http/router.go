package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/honeyshop-backend/internal/http/handlers"
	httpMW "github.com/yungbote/honeyshop-backend/internal/http/middleware"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	AddressHandler *httpH.AddressHandler
	CatalogHandler *httpH.CatalogHandler
	CartHandler    *httpH.CartHandler
	OrderHandler   *httpH.OrderHandler
	ReviewHandler  *httpH.ReviewHandler
	ContactHandler *httpH.ContactHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "honeyshop"
	}

	r := gin.New()
	r.Use(httpMW.Recovery(log))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Storefront (public)
		if cfg.CatalogHandler != nil {
			api.GET("/home", cfg.CatalogHandler.Home)
			api.GET("/categories", cfg.CatalogHandler.Categories)
			api.GET("/products", cfg.CatalogHandler.Products)
			api.GET("/products/:slug", cfg.CatalogHandler.ProductDetail)
			api.GET("/shop", cfg.CatalogHandler.Shop)
		}
		if cfg.ContactHandler != nil {
			api.POST("/contact", cfg.ContactHandler.Submit)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/profile", cfg.UserHandler.Profile)
			protected.PATCH("/profile", cfg.UserHandler.UpdateProfile)
			protected.POST("/profile/password", cfg.UserHandler.ChangePassword)
		}

		if cfg.AddressHandler != nil {
			protected.GET("/addresses", cfg.AddressHandler.List)
			protected.POST("/addresses", cfg.AddressHandler.Create)
			protected.PATCH("/addresses/:id", cfg.AddressHandler.Update)
			protected.DELETE("/addresses/:id", cfg.AddressHandler.Delete)
			protected.POST("/addresses/:id/default", cfg.AddressHandler.SetDefault)
		}

		if cfg.CartHandler != nil {
			protected.GET("/cart", cfg.CartHandler.View)
			protected.DELETE("/cart", cfg.CartHandler.Clear)
			protected.POST("/cart/items", cfg.CartHandler.AddItem)
			protected.DELETE("/cart/items/:slug", cfg.CartHandler.RemoveItem)
			protected.GET("/checkout", cfg.CartHandler.Checkout)
		}

		if cfg.OrderHandler != nil {
			protected.POST("/orders", cfg.OrderHandler.Place)
			protected.GET("/orders", cfg.OrderHandler.List)
		}

		if cfg.ReviewHandler != nil {
			protected.POST("/reviews", cfg.ReviewHandler.Add)
		}
	}

	admin := protected.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireStaff())
	}
	{
		if cfg.CatalogHandler != nil {
			admin.POST("/categories", cfg.CatalogHandler.CreateCategory)
			admin.POST("/products", cfg.CatalogHandler.CreateProduct)
			admin.GET("/products/export", cfg.CatalogHandler.ExportProducts)
			admin.PATCH("/products/:slug", cfg.CatalogHandler.UpdateProduct)
			admin.POST("/products/:slug/images", cfg.CatalogHandler.UploadImage)
		}
		if cfg.ContactHandler != nil {
			admin.GET("/contacts", cfg.ContactHandler.ListRecent)
		}
	}

	return r
}
