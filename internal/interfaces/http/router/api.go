package router

import (
	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/interfaces/http/handler"
	"github.com/erp/productext/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIHandlers are the handlers mounted by PricingAPI
type APIHandlers struct {
	Auth       *handler.AuthHandler
	Products   *handler.ProductHandler
	Pricelists *handler.PricelistHandler
	Jobs       *handler.JobHandler
}

// APIConfig holds what the route groups need besides handlers
type APIConfig struct {
	// Authenticate validates the caller's token on every protected route
	Authenticate gin.HandlerFunc
	// LoginLimiter throttles login attempts; nil disables it
	LoginLimiter gin.HandlerFunc
	// Profiling labels authenticated requests for Pyroscope; nil disables it
	Profiling    gin.HandlerFunc
	Guard        catalogapp.AccessGuard
	Logger       *zap.Logger
}

// PricingAPI returns the route groups of the pricing API:
//
//	/auth        login and current user
//	/catalog     product templates, planned prices and the update job
//	/pricing     pricelists and price lookups
func PricingAPI(h APIHandlers, cfg APIConfig) []RouteRegistrar {
	authGroup := NewDomainGroup("auth", "/auth")
	if cfg.LoginLimiter != nil {
		authGroup.POST("/login", cfg.LoginLimiter, h.Auth.Login)
	} else {
		authGroup.POST("/login", h.Auth.Login)
	}
	authGroup.GET("/me", cfg.Authenticate, h.Auth.GetCurrentUser)

	protected := []gin.HandlerFunc{cfg.Authenticate, middleware.SpanEnricher()}
	if cfg.Profiling != nil {
		protected = append(protected, cfg.Profiling)
	}

	catalog := NewDomainGroup("catalog", "/catalog").Use(protected...)
	catalog.Group("products", "/products").
		POST("", h.Products.Create).
		GET("", h.Products.List).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Archive).
		PUT("/:id/planned-price", h.Products.ConfigurePlannedPrice).
		POST("/:id/update-from-planned", h.Products.UpdateFromPlanned).
		GET("/:id/price", h.Products.PriceCompute).
		POST("/:id/variants", h.Products.CreateVariant).
		GET("/:id/variants", h.Products.ListVariants)
	catalog.Group("planned-price", "/planned-price").
		Use(middleware.RequireModelAccessMode(cfg.Guard, identity.ModelProductTemplate, identity.AccessModeWrite, cfg.Logger)).
		POST("/run", h.Jobs.RunPlannedPrice).
		POST("/queue", h.Jobs.QueuePlannedPrice)

	pricing := NewDomainGroup("pricing", "/pricing").Use(protected...)
	pricing.Group("pricelists", "/pricelists").
		POST("", h.Pricelists.Create).
		GET("", h.Pricelists.List).
		GET("/:id", h.Pricelists.GetByID).
		POST("/:id/items", h.Pricelists.AddItem).
		DELETE("/:id/items/:item_id", h.Pricelists.RemoveItem).
		POST("/:id/prices", h.Pricelists.ProductsPrice).
		GET("/:id/products/:product_id/price", h.Pricelists.ProductPrice)

	return []RouteRegistrar{authGroup, catalog, pricing}
}
