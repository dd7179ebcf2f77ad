package configs

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quochao170402/ecommerce-aws/webshop-service/auth"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/catalog"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/handler"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/queue"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/repository"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/service"
	"github.com/quochao170402/ecommerce-aws/webshop-service/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the connections SetupRoutes wires into the handlers.
// Redis and Catalog may be nil.
type Dependencies struct {
	Config  *Config
	DB      *gorm.DB
	Redis   *redis.Client
	Catalog catalog.ProductCatalog
	Mail    queue.Dispatcher
	Logger  *slog.Logger
}

// NewRoleRegistry builds the registry over the roles table.
func NewRoleRegistry(db *gorm.DB, cfg *Config, logger *slog.Logger) *service.RoleRegistry {
	return service.NewRoleRegistry(repository.NewRoleRepository(db), cfg.Roles, logger)
}

func corsConfig(app AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(app.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = app.AllowOrigins
	c.AllowCredentials = true
	return c
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	logger := deps.Logger

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.App)))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "API is running",
		})
	})

	roleRepo := repository.NewRoleRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(deps.DB)
	resetTokenRepo := repository.NewPasswordResetTokenRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB, logger)
	orderItemRepo := repository.NewOrderItemRepository(deps.DB, logger)

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessExpire())
	registry := service.NewRoleRegistry(roleRepo, cfg.Roles, logger)
	validator := service.NewSignupValidator(userRepo, registry, logger)
	refreshTokens := service.NewRefreshTokenService(refreshTokenRepo, cfg.Auth.RefreshExpiry())
	authService := service.NewAuthService(userRepo, registry, refreshTokens, issuer, cfg.Auth.BcryptCost, logger)
	resets := service.NewPasswordResetService(userRepo, resetTokenRepo, deps.Mail, service.PasswordResetConfig{
		BaseURL:     cfg.Auth.BaseURL,
		BcryptCost:  cfg.Auth.BcryptCost,
		TokenExpiry: cfg.Auth.PwResetExpiry(),
	}, logger)

	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	var limiter redis.Scripter
	if deps.Redis != nil {
		limiter = deps.Redis
	}
	requireAuth := middleware.AuthMiddleware(issuer)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth", middleware.RateLimitMiddleware(cfg.RateLimit, limiter, logger))
		{
			handler.RegisterAuthRoutes(authGroup,
				handler.NewAuthHandler(authService, resets, logger),
				middleware.SignupVerification(validator),
				requireAuth)
		}

		roles := v1.Group("/roles", requireAuth, middleware.RequireRole("admin"))
		{
			handler.RegisterRoleRoutes(roles, handler.NewRoleHandler(roleRepo, logger))
		}

		orders := v1.Group("/orders", requireAuth)
		orderItems := v1.Group("/order-items", requireAuth)
		{
			handler.RegisterOrderRoutes(orders, handler.NewOrderHandler(orderRepo, deps.Catalog, logger))
			handler.RegisterOrderItemRoutes(orders, orderItems,
				handler.NewOrderItemHandler(orderItemRepo, orderRepo, deps.Catalog, logger))
		}
	}
}
