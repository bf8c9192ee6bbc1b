// internal/router/router.go
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/arclabs/buttonshop/internal/cache"
	"github.com/arclabs/buttonshop/internal/config"
	"github.com/arclabs/buttonshop/internal/economy"
	"github.com/arclabs/buttonshop/internal/handlers"
	"github.com/arclabs/buttonshop/internal/inventory"
	"github.com/arclabs/buttonshop/internal/middleware"
	"github.com/arclabs/buttonshop/internal/notify"
	"github.com/arclabs/buttonshop/internal/settings"
	"github.com/arclabs/buttonshop/internal/shop"
	"github.com/arclabs/buttonshop/internal/store"
	"github.com/arclabs/buttonshop/internal/trade"
	"github.com/arclabs/buttonshop/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *gin.Engine {
	// Shared infrastructure
	var chunkCache cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Warn("redis unavailable, falling back to memory cache")
			chunkCache = cache.NewMemoryCache()
		} else {
			chunkCache = redisCache
		}
	} else {
		chunkCache = cache.NewMemoryCache()
	}

	shopStore := store.NewShopStore(db, chunkCache, log)
	locks := store.NewKeyedMutex()
	registry := inventory.NewRegistry()
	notifier := notify.NewQueueNotifier(100, log)
	ledger := economy.NewWalletLedger(db)
	settingsService := settings.NewService(db, log)

	processor := trade.NewProcessor(shopStore, ledger, settingsService, registry, notifier, locks, log)
	lifecycle := shop.NewLifecycle(shopStore, ledger, settingsService, registry, notifier, locks, log)
	sessions := shop.NewSessionManager()

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg)
	shopHandler := handlers.NewShopHandler(lifecycle, processor, sessions, registry, notifier, shopStore, cfg.Bridge.SlotCount)
	adminHandler := handlers.NewAdminHandler(lifecycle, settingsService, ledger, shopStore)
	walletHandler := handlers.NewWalletHandler(ledger)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst).Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/token", authHandler.IssueToken)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/containers/:actorID", shopHandler.PushContainer)
			protected.GET("/containers/:actorID", shopHandler.GetContainer)
			protected.DELETE("/containers/:actorID", shopHandler.DropContainer)
			protected.GET("/notifications/:actorID", shopHandler.DrainNotifications)

			protected.GET("/wallet", walletHandler.GetBalance)

			shops := protected.Group("/shops")
			{
				shops.POST("/lookup", shopHandler.Lookup)
				shops.POST("/break", shopHandler.Break)
				shops.GET("/nearby", shopHandler.Nearby)
				shops.POST("/sessions", shopHandler.BeginSession)
				shops.DELETE("/sessions", shopHandler.CancelSession)
				shops.POST("", shopHandler.Create)
				shops.GET("", shopHandler.ListOwned)
				shops.GET("/:uuid", shopHandler.Get)
				shops.GET("/:uuid/transactions", shopHandler.Transactions)
				shops.POST("/:uuid/buy", shopHandler.Buy)
				shops.POST("/:uuid/sell", shopHandler.Sell)
				shops.POST("/:uuid/restock", shopHandler.Restock)
				shops.POST("/:uuid/budget", shopHandler.AddBudget)
				shops.POST("/:uuid/collect", shopHandler.Collect)
				shops.DELETE("/:uuid", shopHandler.Delete)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.OperatorRequired())
			{
				admin.GET("/shops", adminHandler.ListShops)
				admin.DELETE("/shops", adminHandler.ClearShops)
				admin.DELETE("/shops/:uuid", adminHandler.DeleteShop)
				admin.GET("/transactions", adminHandler.ListTransactions)
				admin.POST("/reload", adminHandler.Reload)
				admin.GET("/settings", adminHandler.GetSettings)
				admin.PUT("/settings/:key", adminHandler.UpdateSetting)
				admin.POST("/wallets/:actorID/credit", adminHandler.CreditWallet)
			}
		}
	}

	// Seed settings at startup so trades never observe missing keys.
	if err := settingsService.Seed(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to seed settings")
	}

	return r
}
