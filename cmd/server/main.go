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

	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	experimentapp "github.com/storefront/backend/internal/application/experiment"
	integrationapp "github.com/storefront/backend/internal/application/integration"
	pluginapp "github.com/storefront/backend/internal/application/plugin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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
		_ = log.Sync()
	}()

	log.Info("Starting Storefront Builder Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing has to come up before the database so gorm instrumentation
	// hooks into a real provider.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

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

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := tracerProvider.InstrumentGorm(db.DB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to instrument database tracing", zap.Error(err))
		}
	}

	// Published config cache: Redis when reachable, in-memory otherwise so
	// a cache outage never blocks publishing.
	cacheFactory := cache.NewPublishedConfigCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	publishedCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize published config cache", zap.Error(err))
	}

	// Repositories
	pageVersionRepo := persistence.NewGormPageVersionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeRepository(db.DB)
	experimentRepo := persistence.NewGormExperimentRepository(db.DB)
	interactionRepo := persistence.NewGormInteractionRepository(db.DB)
	connectionRepo := persistence.NewGormShopifyConnectionRepository(db.DB)
	installationRepo := persistence.NewGormInstallationRepository(db.DB)

	// Domain event bus with an audit trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	versionService := storefrontapp.NewVersionService(pageVersionRepo, publishedCache, log)
	versionService.SetEventPublisher(eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	categoryService.SetEventPublisher(eventBus)
	attributeService := catalogapp.NewAttributeService(attributeRepo)
	experimentService := experimentapp.NewExperimentService(experimentRepo, pageVersionRepo, log)
	experimentService.SetEventPublisher(eventBus)
	trackingService := analyticsapp.NewTrackingService(interactionRepo, log)
	connectionService := integrationapp.NewConnectionService(connectionRepo, log)
	installationService := pluginapp.NewInstallationService(installationRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	pageVersionHandler := handler.NewPageVersionHandler(versionService)
	catalogHandler := handler.NewCatalogHandler(categoryService, attributeService)
	experimentHandler := handler.NewExperimentHandler(experimentService)
	analyticsHandler := handler.NewAnalyticsHandler(trackingService)
	integrationHandler := handler.NewIntegrationHandler(connectionService)
	pluginHandler := handler.NewPluginHandler(installationService)
	systemHandler := handler.NewSystemHandler(db.Ping, func() map[string]any {
		stats, err := db.Stats()
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		return map[string]any{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if tracerProvider.IsEnabled() {
		engine.Use(tracerProvider.GinMiddleware())
	}

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			// The storefront read surface is consumed by shoppers'
			// browsers and carries no credentials.
			"/api/v1/storefront",
		},
		Logger: log,
	}))

	// Liveness and readiness outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/healthz", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Page version lifecycle (builder, authenticated)
	pageRoutes := router.NewDomainGroup("pages", "/pages")
	pageRoutes.PUT("/draft", pageVersionHandler.UpsertDraft)
	pageRoutes.POST("/publish-acceptance", pageVersionHandler.PublishToAcceptance)
	pageRoutes.POST("/publish-production", pageVersionHandler.PublishToProduction)
	pageRoutes.POST("/publish", pageVersionHandler.PublishDraft)
	pageRoutes.POST("/revert", pageVersionHandler.Revert)
	pageRoutes.GET("/active", pageVersionHandler.ActiveVersion)
	pageRoutes.GET("/versions", pageVersionHandler.History)
	pageRoutes.GET("/versions/:id", pageVersionHandler.GetVersion)
	pageRoutes.PUT("/current-edit", pageVersionHandler.SetCurrentEdit)

	// Public storefront read surface
	storefrontRoutes := router.NewDomainGroup("storefront", "/storefront")
	storefrontRoutes.GET("/:store_id/pages/:page_type/config", pageVersionHandler.PublishedConfiguration)
	storefrontRoutes.GET("/:store_id/pages/:page_type/experiment", experimentHandler.Assign)
	storefrontRoutes.POST("/:store_id/track", analyticsHandler.TrackBatch)

	// Catalog (categories, attributes)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/categories", catalogHandler.CreateCategory)
	catalogRoutes.GET("/categories", catalogHandler.CategoryTree)
	catalogRoutes.GET("/categories/:id", catalogHandler.GetCategory)
	catalogRoutes.GET("/categories/:id/children", catalogHandler.CategoryChildren)
	catalogRoutes.PUT("/categories/:id", catalogHandler.UpdateCategory)
	catalogRoutes.PUT("/categories/:id/status", catalogHandler.SetCategoryStatus)
	catalogRoutes.DELETE("/categories/:id", catalogHandler.DeleteCategory)
	catalogRoutes.POST("/attributes", catalogHandler.CreateAttribute)
	catalogRoutes.GET("/attributes", catalogHandler.ListAttributes)
	catalogRoutes.GET("/attributes/:id", catalogHandler.GetAttribute)
	catalogRoutes.PUT("/attributes/:id", catalogHandler.UpdateAttribute)
	catalogRoutes.DELETE("/attributes/:id", catalogHandler.DeleteAttribute)

	// Experiments
	experimentRoutes := router.NewDomainGroup("experiments", "/experiments")
	experimentRoutes.POST("", experimentHandler.Create)
	experimentRoutes.GET("", experimentHandler.List)
	experimentRoutes.GET("/:id", experimentHandler.Get)
	experimentRoutes.POST("/:id/variants", experimentHandler.AddVariant)
	experimentRoutes.DELETE("/:id", experimentHandler.Delete)
	experimentRoutes.DELETE("/:id/variants/:name", experimentHandler.RemoveVariant)
	experimentRoutes.POST("/:id/start", experimentHandler.Start)
	experimentRoutes.POST("/:id/pause", experimentHandler.Pause)
	experimentRoutes.POST("/:id/complete", experimentHandler.Complete)

	// Analytics (builder-facing heatmap reads)
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.GET("/interactions", analyticsHandler.Recent)

	// Shopify integration
	integrationRoutes := router.NewDomainGroup("integrations", "/integrations")
	integrationRoutes.POST("/shopify", integrationHandler.Connect)
	integrationRoutes.GET("/shopify", integrationHandler.List)
	integrationRoutes.GET("/shopify/:id", integrationHandler.Get)
	integrationRoutes.POST("/shopify/:id/complete", integrationHandler.Complete)
	integrationRoutes.POST("/shopify/:id/rotate-token", integrationHandler.RotateToken)
	integrationRoutes.POST("/shopify/:id/revoke", integrationHandler.Revoke)
	integrationRoutes.DELETE("/shopify/:id", integrationHandler.Delete)

	// Plugins
	pluginRoutes := router.NewDomainGroup("plugins", "/plugins")
	pluginRoutes.POST("/installations", pluginHandler.Install)
	pluginRoutes.GET("/installations", pluginHandler.List)
	pluginRoutes.GET("/installations/:id", pluginHandler.Get)
	pluginRoutes.POST("/installations/:id/enable", pluginHandler.Enable)
	pluginRoutes.POST("/installations/:id/disable", pluginHandler.Disable)
	pluginRoutes.POST("/installations/:id/upgrade", pluginHandler.Upgrade)
	pluginRoutes.DELETE("/installations/:id", pluginHandler.Uninstall)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(pageRoutes).
		Register(storefrontRoutes).
		Register(catalogRoutes).
		Register(experimentRoutes).
		Register(analyticsRoutes).
		Register(integrationRoutes).
		Register(pluginRoutes).
		Register(systemRoutes)

	r.Setup()

	// Background retention loop for raw interaction data
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	if cfg.Analytics.PurgeEnabled {
		go runRetentionLoop(purgeCtx, trackingService, cfg.Analytics, log)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopPurge()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runRetentionLoop periodically deletes raw interactions older than the
// configured retention window.
func runRetentionLoop(ctx context.Context, tracking *analyticsapp.TrackingService, cfg config.AnalyticsConfig, log *zap.Logger) {
	log.Info("Interaction retention loop started",
		zap.Duration("retention", cfg.Retention),
		zap.Duration("every", cfg.PurgeEvery),
	)

	ticker := time.NewTicker(cfg.PurgeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Interaction retention loop stopped")
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(ctx, time.Minute)
			removed, err := tracking.PurgeAllExpired(purgeCtx, cfg.Retention)
			cancel()
			if err != nil {
				log.Warn("Interaction purge failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("Interaction purge pass complete", zap.Int64("removed", removed))
			}
		}
	}
}
