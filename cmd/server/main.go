package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	activityapp "github.com/salespulse/backend/internal/application/activity"
	documentapp "github.com/salespulse/backend/internal/application/document"
	flagapp "github.com/salespulse/backend/internal/application/featureflag"
	identityapp "github.com/salespulse/backend/internal/application/identity"
	recruitingapp "github.com/salespulse/backend/internal/application/recruiting"
	reportapp "github.com/salespulse/backend/internal/application/report"
	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/infrastructure/auth"
	"github.com/salespulse/backend/internal/infrastructure/cache"
	"github.com/salespulse/backend/internal/infrastructure/config"
	"github.com/salespulse/backend/internal/infrastructure/event"
	"github.com/salespulse/backend/internal/infrastructure/logger"
	"github.com/salespulse/backend/internal/infrastructure/persistence"
	"github.com/salespulse/backend/internal/infrastructure/storage"
	"github.com/salespulse/backend/internal/infrastructure/telemetry"
	"github.com/salespulse/backend/internal/interfaces/http/handler"
	"github.com/salespulse/backend/internal/interfaces/http/middleware"
	"github.com/salespulse/backend/internal/interfaces/http/router"
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

	log.Info("Starting SalesPulse Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
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

	// Initialize database connection with zap-backed GORM logging
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db.DB.Logger = logger.NewGormLogger(log, gormLogLevel)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register query tracing on the GORM connection
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: cfg.App.Env == "production",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	teamRepo := persistence.NewGormTeamRepository(db.DB)
	inviteRepo := persistence.NewGormInviteRepository(db.DB)
	edgeRepo := persistence.NewGormEdgeRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	flagRepo := persistence.NewGormFeatureFlagRepository(db.DB)
	recruitRepo := persistence.NewGormRecruitRepository(db.DB)
	interviewRepo := persistence.NewGormInterviewRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	docRepo := persistence.NewGormDocumentRepository(db.DB)

	// Token handling: JWT service plus a Redis blacklist for revocation.
	// Without Redis, logout still works process-locally.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
	}

	// Feature flag cache: tiered over Redis when reachable
	flagCache, err := cache.NewFlagCacheFactory(cfg.Redis, cache.WithFactoryLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create flag cache", zap.Error(err))
	}
	switch fc := flagCache.(type) {
	case *cache.TieredFlagCache:
		fc.StartInvalidationListener(context.Background())
		defer func() {
			if err := fc.Close(); err != nil {
				log.Error("Error closing flag cache", zap.Error(err))
			}
		}()
	case *cache.MemoryFlagCache:
		defer fc.Stop()
	}

	// Object storage for documents. The stub keeps the document flow
	// testable without S3 credentials.
	var objectStorage documentapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithDefaultExpiry(cfg.Storage.PresignExpiry),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Info("Object storage disabled, using stub presigner")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Event bus for cross-context integration
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	visibilityService := identityapp.NewVisibilityService(userRepo, edgeRepo, log)
	authService := identityapp.NewAuthService(userRepo, teamRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxFailedAttempts,
		LockDuration:     cfg.Auth.LockoutDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, teamRepo, visibilityService, eventBus, log)
	teamService := identityapp.NewTeamService(teamRepo, userRepo, eventBus, log)
	inviteService := identityapp.NewInviteService(inviteRepo, userRepo, teamRepo, eventBus, log)
	activityService := activityapp.NewActivityService(activityRepo, userRepo, teamRepo, visibilityService, eventBus, log)
	evaluationService := flagapp.NewEvaluationService(flagRepo, flagCache, featureflag.DefaultCacheConfig(), log)
	flagService := flagapp.NewFlagService(flagRepo, teamRepo, flagCache, log)
	recruitService := recruitingapp.NewRecruitService(recruitRepo, userRepo, visibilityService, eventBus, log)
	interviewService := recruitingapp.NewInterviewService(interviewRepo, recruitService, eventBus, log)
	reportService := reportapp.NewReportService(reportRepo, userRepo, teamRepo, visibilityService, log)
	trackerService := reportapp.NewTrackerService(reportRepo, userRepo, teamRepo, visibilityService, log)
	exportService := reportapp.NewExportService(reportService, log)
	documentService := documentapp.NewDocumentService(docRepo, objectStorage, log)
	if cfg.Storage.PresignExpiry > 0 {
		documentService.SetConfig(documentapp.DocumentServiceConfig{
			UploadURLExpiry:   cfg.Storage.PresignExpiry,
			DownloadURLExpiry: cfg.Storage.PresignExpiry,
		})
	}

	// A hired recruit produces an invite so the new agent can join
	recruitHiredHandler := identityapp.NewRecruitHiredHandler(inviteRepo, userRepo, log)
	eventBus.Subscribe(recruitHiredHandler)
	log.Info("Event handlers registered",
		zap.Strings("recruit_hired_events", recruitHiredHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// HTTP handlers
	featureGate := func(feature featureflag.Feature) gin.HandlerFunc {
		return middleware.RequireFeature(evaluationService, feature)
	}

	systemHandler := handler.NewSystemHandler(cfg)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, visibilityService)
	teamHandler := handler.NewTeamHandler(teamService)
	inviteHandler := handler.NewInviteHandler(inviteService)
	activityHandler := handler.NewActivityHandler(activityService)
	reportHandler := handler.NewReportHandler(reportService, trackerService, exportService)
	reportHandler.SetFeatureGate(featureGate)
	featureFlagHandler := handler.NewFeatureFlagHandler(flagService, evaluationService)
	recruitingHandler := handler.NewRecruitingHandler(recruitService, interviewService)
	recruitingHandler.SetFeatureGate(featureGate(featureflag.FeatureRecruiting))
	documentHandler := handler.NewDocumentHandler(documentService)
	documentHandler.SetFeatureGate(featureGate(featureflag.FeatureDocuments))

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
	// 4. Tracing - OpenTelemetry spans
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
	}
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

	// Credential endpoints get a tighter limit to slow brute forcing
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit := middleware.RateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth/") {
				authLimit(c)
				return
			}
			c.Next()
		})
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Public paths skip both authentication layers
	skipPaths := []string{
		"/health",
		"/api/v1/health",
		"/api/v1/ping",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
	}
	skipPathPrefixes := []string{
		"/api/v1/invites/accept",
	}

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:       jwtService,
		TokenBlacklist:   blacklist,
		SkipPaths:        skipPaths,
		SkipPathPrefixes: skipPathPrefixes,
		Logger:           log,
	}))
	r.Use(middleware.ActorMiddlewareWithConfig(middleware.ActorMiddlewareConfig{
		Loader:           userRepo,
		SkipPaths:        skipPaths,
		SkipPathPrefixes: skipPathPrefixes,
	}))

	r.Register(systemHandler).
		Register(authHandler).
		Register(userHandler).
		Register(teamHandler).
		Register(inviteHandler).
		Register(activityHandler).
		Register(reportHandler).
		Register(featureFlagHandler).
		Register(recruitingHandler).
		Register(documentHandler)

	r.Setup()

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
