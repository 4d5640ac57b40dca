package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/reseller/backoffice/internal/application/catalog"
	pricingapp "github.com/reseller/backoffice/internal/application/pricing"
	reportapp "github.com/reseller/backoffice/internal/application/report"
	tradeapp "github.com/reseller/backoffice/internal/application/trade"
	"github.com/reseller/backoffice/internal/infrastructure/cache"
	"github.com/reseller/backoffice/internal/infrastructure/config"
	"github.com/reseller/backoffice/internal/infrastructure/logger"
	"github.com/reseller/backoffice/internal/infrastructure/persistence"
	"github.com/reseller/backoffice/internal/infrastructure/scheduler"
	"github.com/reseller/backoffice/internal/interfaces/http/handler"
	"github.com/reseller/backoffice/internal/interfaces/http/middleware"
	"github.com/reseller/backoffice/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting reseller backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	competitorRepo := persistence.NewGormCompetitorPriceRepository(db.DB)
	runRepo := persistence.NewGormRunRepository(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB)

	// Webhook delivery dedup: Redis when enabled, in-memory otherwise
	dedupStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := dedupStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, listingRepo)
	listingService := catalogapp.NewListingService(listingRepo, productRepo)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo)
	ingestService := tradeapp.NewOrderIngestService(
		orderRepo, productRepo, listingRepo, dedupStore, cfg.Marketplace, log,
	)
	ruleService := pricingapp.NewRuleService(ruleRepo, competitorRepo, runRepo, productRepo)
	autoPricingService := pricingapp.NewAutoPricingService(
		ruleRepo, productRepo, listingRepo, competitorRepo, runRepo,
		cfg.Marketplace.CompetitorWindow, log,
	)
	analyticsService := reportapp.NewAnalyticsService(analyticsRepo)

	// Repricing scheduler sweeps all enabled rules on an interval
	repricingScheduler, err := scheduler.NewRepricingScheduler(scheduler.RepricingSchedulerConfig{
		Enabled:    cfg.Scheduler.Enabled,
		Interval:   cfg.Scheduler.Interval,
		RunOnStart: cfg.Scheduler.RunOnStart,
		JobTimeout: cfg.Scheduler.JobTimeout,
	}, autoPricingService, log)
	if err != nil {
		log.Fatal("Failed to create repricing scheduler", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := repricingScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start repricing scheduler", zap.Error(err))
		}
		defer func() {
			if err := repricingScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping repricing scheduler", zap.Error(err))
			}
		}()
		log.Info("Repricing scheduler started",
			zap.Duration("interval", cfg.Scheduler.Interval),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, listingService)
	listingHandler := handler.NewListingHandler(listingService)
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(ingestService, log)
	pricingHandler := handler.NewPricingHandler(ruleService, cfg.Marketplace.CompetitorWindow)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	systemHandler := handler.NewSystemHandler(repricingScheduler)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Liveness endpoint outside API versioning, with a database check
	engine.GET("/health", healthHandler(db))

	// Register API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(productHandler).
		Register(listingHandler).
		Register(orderHandler).
		Register(webhookHandler).
		Register(pricingHandler).
		Register(analyticsHandler).
		Register(systemHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
