package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	consumableapp "github.com/labstock/backend/internal/application/consumable"
	partnerapp "github.com/labstock/backend/internal/application/partner"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/auth"
	"github.com/labstock/backend/internal/infrastructure/cache"
	"github.com/labstock/backend/internal/infrastructure/config"
	"github.com/labstock/backend/internal/infrastructure/event"
	"github.com/labstock/backend/internal/infrastructure/logger"
	"github.com/labstock/backend/internal/infrastructure/persistence"
	"github.com/labstock/backend/internal/infrastructure/telemetry"
	"github.com/labstock/backend/internal/interfaces/http/handler"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
	"github.com/labstock/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
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

	log.Info("Starting Labstock Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

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

	// Instrument GORM with tracing spans
	if err := telemetry.RegisterOtelGorm(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled,
		LogFullSQL: cfg.App.Env != "production",
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	consumableRepo := persistence.NewGormConsumableRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	ledgerService := consumableapp.NewLedgerService(consumableRepo, ledgerRepo, txScope)
	consumableService := consumableapp.NewConsumableService(consumableRepo, categoryRepo)
	categoryService := consumableapp.NewCategoryService(categoryRepo, consumableRepo)
	vendorService := partnerapp.NewVendorService(vendorRepo)
	memberService := partnerapp.NewMemberService(memberRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Idempotency store for event handlers (Redis or in-memory fallback)
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore(cfg.Event.UseRedisStore)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Stock below threshold -> low stock alert
	lowStockHandler := consumableapp.NewLowStockHandler(log)
	idempotentLowStock := event.NewIdempotentHandler(lowStockHandler, idempotencyStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.Event.IdempotencyTTL,
			Enabled: true,
		}),
	)
	eventBus.Subscribe(idempotentLowStock)

	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	ledgerService.SetEventPublisher(eventBus)
	consumableService.SetEventPublisher(eventBus)
	vendorService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	consumableHandler := handler.NewConsumableHandler(consumableService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	memberHandler := handler.NewMemberHandler(memberService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
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
	// 4. Tracing - Record request spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Stock domain (consumables, ledger, categories)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "stock service ready"})
	})

	// Ledger routes
	stockRoutes.POST("/ledger/add", ledgerHandler.AddStock)
	stockRoutes.POST("/ledger/issue", ledgerHandler.IssueStock)
	stockRoutes.GET("/ledger/:id", ledgerHandler.GetEntry)
	stockRoutes.PATCH("/ledger/:id", ledgerHandler.EditEntry)
	stockRoutes.DELETE("/ledger/:id", ledgerHandler.DeleteEntry)

	// Consumable routes
	stockRoutes.POST("/consumables", consumableHandler.Create)
	stockRoutes.GET("/consumables", consumableHandler.List)
	stockRoutes.GET("/consumables/:id", consumableHandler.Get)
	stockRoutes.PUT("/consumables/:id", consumableHandler.Update)
	stockRoutes.DELETE("/consumables/:id", consumableHandler.Delete)
	stockRoutes.GET("/consumables/:id/ledger", ledgerHandler.ListLedger)
	stockRoutes.GET("/low-stock", consumableHandler.ListLowStock)

	// Category routes
	stockRoutes.POST("/categories", categoryHandler.Create)
	stockRoutes.GET("/categories", categoryHandler.List)
	stockRoutes.GET("/categories/:id", categoryHandler.Get)
	stockRoutes.PUT("/categories/:id", categoryHandler.Update)
	stockRoutes.DELETE("/categories/:id", categoryHandler.Delete)

	// Partner domain (vendors, lab members)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "partner service ready"})
	})

	// Vendor routes
	partnerRoutes.POST("/vendors", vendorHandler.Create)
	partnerRoutes.GET("/vendors", vendorHandler.List)
	partnerRoutes.GET("/vendors/:id", vendorHandler.Get)
	partnerRoutes.PUT("/vendors/:id", vendorHandler.Update)
	partnerRoutes.POST("/vendors/:id/activate", vendorHandler.Activate)
	partnerRoutes.POST("/vendors/:id/deactivate", vendorHandler.Deactivate)

	// Member routes
	partnerRoutes.POST("/members", memberHandler.Create)
	partnerRoutes.GET("/members", memberHandler.List)
	partnerRoutes.GET("/members/:id", memberHandler.Get)
	partnerRoutes.PUT("/members/:id", memberHandler.Update)
	partnerRoutes.POST("/members/:id/deactivate", memberHandler.Deactivate)

	// Register all domain groups
	r.Register(stockRoutes).
		Register(partnerRoutes)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler reports liveness along with database reachability.
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
