package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	identityapp "github.com/erp/productext/internal/application/identity"
	pricingapp "github.com/erp/productext/internal/application/pricing"
	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/pricing"
	"github.com/erp/productext/internal/infrastructure/auth"
	"github.com/erp/productext/internal/infrastructure/cache"
	"github.com/erp/productext/internal/infrastructure/config"
	"github.com/erp/productext/internal/infrastructure/event"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/erp/productext/internal/infrastructure/metrics"
	"github.com/erp/productext/internal/infrastructure/persistence"
	"github.com/erp/productext/internal/infrastructure/scheduler"
	"github.com/erp/productext/internal/infrastructure/telemetry"
	"github.com/erp/productext/internal/interfaces/http/handler"
	"github.com/erp/productext/internal/interfaces/http/middleware"
	"github.com/erp/productext/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

//	@title			Product Pricing API
//	@version		1.0
//	@description	Product list prices, planned prices and pricelist price computation
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OpenTelemetry: spans and, optionally, a log bridge
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.TracingEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Telemetry.ProfilingEnabled,
		ServerAddress:        cfg.Telemetry.ProfilerAddress,
		ApplicationName:      cfg.App.Name,
		BasicAuthUser:        cfg.Telemetry.ProfilerAuthUser,
		BasicAuthPassword:    cfg.Telemetry.ProfilerAuthPass,
		ProfileTypes:         cfg.Telemetry.ProfileTypes,
		MutexProfileFraction: cfg.Telemetry.MutexProfileRate,
		BlockProfileRate:     cfg.Telemetry.BlockProfileRateNs,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	var exportLevel zapcore.Level
	if err := exportLevel.Set(cfg.Telemetry.LogsLevel); err != nil {
		exportLevel = zapcore.InfoLevel
	}
	log = loggerProvider.Bridge(log, exportLevel)

	log.Info("Starting product price service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTracingEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.SlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	templateRepo := persistence.NewGormProductTemplateRepository(db.DB)
	variantRepo := persistence.NewGormProductVariantRepository(db.DB)
	pricelistRepo := persistence.NewGormPricelistRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	taxRepo := persistence.NewGormTaxRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	accessRepo := persistence.NewGormModelAccessRepository(db.DB)
	paramRepo := persistence.NewGormConfigParameterRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Events and metrics
	promMetrics := metrics.New()
	eventBus := event.NewInMemoryEventBus(log)
	priceChanges := catalogapp.NewListPriceChangedHandler(promMetrics, log)
	eventBus.Subscribe(priceChanges, priceChanges.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	accessService := identityapp.NewAccessService(userRepo, accessRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	calculator := catalog.NewPriceCalculator()
	loader := catalogapp.NewPricedProductLoader(templateRepo, variantRepo, taxRepo, currencyRepo)
	plannedService := catalogapp.NewPlannedPriceService(
		templateRepo, companyRepo, currencyRepo, loader, calculator, eventBus, cfg.Pricing.ProductPriceDigits,
	)
	templateService := catalogapp.NewProductTemplateService(templateRepo, variantRepo, accessService, plannedService, eventBus)

	engine := pricing.NewTaxesIncludedEngine(
		pricing.NewRuleEngine(calculator, pricelistRepo, companyRepo, currencyRepo),
		companyRepo, currencyRepo,
	)
	pricelistService := pricingapp.NewPricelistService(pricelistRepo, loader, engine, accessService)

	// Planned price job: lock, optional scheduler
	lock, err := cache.NewJobLockFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateLock()
	if err != nil {
		log.Fatal("Failed to create job lock", zap.Error(err))
	}
	job := catalogapp.NewPlannedPriceJob(
		templateRepo, paramRepo, txScope, plannedService, lock, promMetrics, cfg.PlannedPrice.LockTTL, log,
	)

	var (
		plannedScheduler *scheduler.PlannedPriceScheduler
		runQueue         handler.RunQueue
	)
	if cfg.PlannedPrice.Enabled {
		schedule, err := scheduler.ParseDailySchedule(cfg.PlannedPrice.DailyCronSchedule)
		if err != nil {
			log.Fatal("Invalid planned price schedule", zap.Error(err))
		}
		schedulerCfg := scheduler.DefaultConfig()
		schedulerCfg.Schedule = schedule
		schedulerCfg.BatchSize = cfg.PlannedPrice.BatchSize
		schedulerCfg.RetriggerDelay = cfg.PlannedPrice.RetriggerDelay
		schedulerCfg.JobTimeout = cfg.PlannedPrice.JobTimeout
		plannedScheduler = scheduler.NewPlannedPriceScheduler(schedulerCfg, job, log)
		job.SetTrigger(plannedScheduler)
		runQueue = plannedScheduler
	} else {
		log.Info("Planned price scheduler disabled")
	}

	// HTTP
	gin.SetMode(ginMode(cfg.App.Env))
	middleware.SetupValidator()

	engineHTTP := gin.New()
	engineHTTP.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.App.Name,
			Enabled:     cfg.Telemetry.TracingEnabled,
		}),
		middleware.HTTPMetrics(promMetrics),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	checks := map[string]handler.Pinger{"database": db}
	if pinger, ok := lock.(handler.Pinger); ok {
		checks["redis"] = pinger
	}
	health := handler.NewHealthHandler(checks)
	engineHTTP.GET("/health", health.Ready)
	engineHTTP.GET("/health/live", health.Live)
	if cfg.Telemetry.MetricsEnabled {
		engineHTTP.GET(cfg.Telemetry.MetricsPath, gin.WrapH(promMetrics.Handler()))
	}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	authenticate := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})

	router.NewRouter(engineHTTP, router.WithAPIVersion("v1")).
		Register(router.PricingAPI(router.APIHandlers{
			Auth:       handler.NewAuthHandler(authService),
			Products:   handler.NewProductHandler(templateService),
			Pricelists: handler.NewPricelistHandler(pricelistService),
			Jobs:       handler.NewJobHandler(job, runQueue),
		}, router.APIConfig{
			Authenticate: authenticate,
			LoginLimiter: middleware.RateLimit(loginLimiter),
			Profiling:    profilingMiddleware(profiler),
			Guard:        accessService,
			Logger:       log,
		})...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engineHTTP,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if plannedScheduler != nil {
		g.Go(func() error {
			return plannedScheduler.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if plannedScheduler != nil {
			if err := plannedScheduler.Stop(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		loginLimiter.Stop()
		if err := eventBus.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if closer, ok := lock.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := profiler.Stop(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func ginMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// profilingMiddleware returns nil when no profiler runs, leaving the route
// groups unlabelled.
func profilingMiddleware(p *telemetry.Profiler) gin.HandlerFunc {
	if !p.IsEnabled() {
		return nil
	}
	return middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig())
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
