package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/labelwise/backend/config"
	"github.com/labelwise/backend/internal/infrastructure/proxy"
	"github.com/labelwise/backend/internal/usecase"
	"go.uber.org/zap"
)

// Dependencies groups what the router needs
type Dependencies struct {
	Handler  *Handler
	Proxy    *ProxyHandler
	Identity *usecase.IdentityService
	Logger   *zap.Logger
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// ClientIP only honors forwarding headers from configured proxies
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))

	// Health check endpoint
	router.GET("/health", deps.Handler.HealthCheck)

	// Analysis proxy: open to any origin, every method reaches the handler.
	// Loopback callers are the server's own pipeline and are not limited.
	if cfg.Proxy.Enabled && deps.Proxy != nil {
		functions := router.Group("/")
		functions.Use(cors.New(cors.Config{
			AllowAllOrigins:           true,
			AllowMethods:              []string{http.MethodPost, http.MethodOptions},
			AllowHeaders:              []string{"Content-Type", "Authorization"},
			OptionsResponseStatusCode: http.StatusOK,
		}))
		functions.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, isLoopback))
		functions.Any(proxy.DefaultPath, deps.Proxy.Analyze)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, nil))
	{
		// Preflight never reaches auth
		v1.OPTIONS("/*path", func(c *gin.Context) {})

		authed := v1.Group("")
		authed.Use(AuthMiddleware(deps.Identity))
		{
			authed.GET("/me", deps.Handler.GetMe)

			products := authed.Group("/products")
			{
				products.GET("", deps.Handler.ListProducts)
				products.POST("", deps.Handler.AddProduct)
				products.DELETE("", deps.Handler.ClearProducts)
				products.POST("/compare", deps.Handler.CompareProducts)
				products.GET("/comparison", deps.Handler.GetComparison)
				products.GET("/:id/image", deps.Handler.GetProductImage)
				products.DELETE("/:id", deps.Handler.RemoveProduct)
			}
		}
	}

	return router
}
