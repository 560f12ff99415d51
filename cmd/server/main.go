package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bizorder/backend/internal/application/catalog"
	"github.com/bizorder/backend/internal/application/orders"
	"github.com/bizorder/backend/internal/application/reconcile"
	"github.com/bizorder/backend/internal/infrastructure/auth"
	"github.com/bizorder/backend/internal/infrastructure/cache"
	"github.com/bizorder/backend/internal/infrastructure/config"
	"github.com/bizorder/backend/internal/infrastructure/feed"
	"github.com/bizorder/backend/internal/infrastructure/logger"
	"github.com/bizorder/backend/internal/infrastructure/persistence"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/bizorder/backend/internal/interfaces/http/handler"
	"github.com/bizorder/backend/internal/interfaces/http/middleware"
	"github.com/bizorder/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting bizorder backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	lock, err := cache.NewRedisReconcileLock(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Sync.LockTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := lock.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	var seedOrgID uuid.UUID
	if cfg.Sync.SeedOrganizationID != "" {
		seedOrgID, err = uuid.Parse(cfg.Sync.SeedOrganizationID)
		if err != nil {
			log.Fatal("Invalid sync.seed_organization_id", zap.Error(err))
		}
	}

	engine := reconcile.NewEngine(
		persistence.NewGormUnitRunner(db.DB),
		lock,
		reconcile.EngineConfig{
			ResyncTimeout:      cfg.Sync.ResyncTimeout,
			LoadTimeout:        cfg.Sync.LoadTimeout,
			SeedOrganizationID: seedOrgID,
		},
		log,
	)

	feedSource, err := feed.NewSource(&cfg.Feed, log)
	if err != nil {
		log.Fatal("Failed to configure feed source", zap.Error(err))
	}

	// Repositories
	envelopeRepo := persistence.NewGormEnvelopeRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	catalogItemRepo := persistence.NewGormCatalogItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	// Application services
	requestService := orders.NewRequestService(txManager, envelopeRepo, orderRepo, cartRepo, catalogItemRepo, log)
	orderService := orders.NewOrderService(txManager, orderRepo, log)
	cartService := orders.NewCartService(txManager, cartRepo, catalogItemRepo, log)
	browseService := catalogapp.NewBrowseService(catalogItemRepo, categoryRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.Secure())

	ginEngine.GET("/health", healthHandler(db))

	r := router.NewRouter(ginEngine)
	r.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))
	r.Register(
		handler.NewSystemHandler(),
		handler.NewAuthHandler(accountRepo, jwtService, log),
		handler.NewSyncHandler(engine, feedSource),
		handler.NewRequestHandler(requestService),
		handler.NewOrderHandler(orderService),
		handler.NewCartHandler(cartService),
		handler.NewCatalogHandler(browseService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      ginEngine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse("UNHEALTHY", "Database unreachable"))
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	}
}
