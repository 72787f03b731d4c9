package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	apptrading "github.com/dukahub/backend/internal/application/trading"
	"github.com/dukahub/backend/internal/infrastructure/cache"
	"github.com/dukahub/backend/internal/infrastructure/config"
	"github.com/dukahub/backend/internal/infrastructure/event"
	infrafiscal "github.com/dukahub/backend/internal/infrastructure/fiscal"
	"github.com/dukahub/backend/internal/infrastructure/logger"
	"github.com/dukahub/backend/internal/infrastructure/persistence"
	"github.com/dukahub/backend/internal/infrastructure/printing"
	"github.com/dukahub/backend/internal/infrastructure/scheduler"
	"github.com/dukahub/backend/internal/infrastructure/telemetry"
	"github.com/dukahub/backend/internal/interfaces/http/handler"
	"github.com/dukahub/backend/internal/interfaces/http/middleware"
	"github.com/dukahub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	gormLogLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabase(&cfg.Database,
		logger.NewGormLogger(log, gormLogLevel, cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	sessionRepo := persistence.NewGormStockSessionRepository(db.DB)
	summaryRepo := persistence.NewGormDailySummaryRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	snapshots := persistence.NewGormStockSnapshotProvider(db.DB)

	// Tax authority gateway
	traConfig := infrafiscal.NewTRAConfig(cfg.Fiscal.APIKey)
	traConfig.BaseURL = cfg.Fiscal.BaseURL
	traConfig.TimeoutSeconds = int(cfg.Fiscal.RequestTimeout.Seconds())
	gateway, err := infrafiscal.NewTRAAdapter(traConfig)
	if err != nil {
		log.Fatal("Failed to initialize TRA adapter", zap.Error(err))
	}

	// Per-tenant submission lock; falls back to an in-process lock when
	// Redis is unreachable
	lockerFactory := cache.NewTenantLockerFactory(cfg.Redis, cfg.Fiscal.LockTTL,
		cache.WithLogger(log), cache.WithInMemoryFallback(true))
	locker, err := lockerFactory.CreateLocker()
	if err != nil {
		log.Warn("Tenant locker unavailable, relying on database claim alone", zap.Error(err))
		locker = nil
	}

	// Daily summary renderer is optional; session close works without it
	var renderer apptrading.ReportRenderer
	fileRenderer, err := printing.NewFileSummaryRenderer(printing.FileSummaryRendererConfig{
		OutputDir: cfg.Reports.OutputDir,
		Logger:    log,
	})
	if err != nil {
		log.Warn("Daily summary renderer disabled", zap.Error(err))
	} else {
		renderer = fileRenderer
	}

	// Domain event fan-out; the audit handler records every state change
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	sessionService := apptrading.NewSessionService(sessionRepo, summaryRepo, snapshots, receiptRepo, renderer, eventBus)
	aggregator := appfiscal.NewAggregationService(receiptRepo, nil)
	submitter := appfiscal.NewSubmissionService(tenantRepo, aggregator, gateway, locker, eventBus)
	batch := appfiscal.NewBatchService(tenantRepo, submitter, nil)

	// Daily Z-Report cron scheduler
	var cronScheduler *scheduler.ZReportCronScheduler
	if cfg.Scheduler.Enabled {
		hour, minute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Fatal("Invalid scheduler cron schedule", zap.Error(err))
		}
		cronScheduler = scheduler.NewZReportCronScheduler(scheduler.ZReportCronSchedulerConfig{
			Enabled:           true,
			CronHour:          hour,
			CronMinute:        minute,
			DailyCronSchedule: cfg.Scheduler.DailyCronSchedule,
			RunOnStart:        cfg.Scheduler.RunOnStart,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}, batch, nil, log)

		if err := cronScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}
	systemHandler := handler.NewSystemHandler(sqlDB, cfg.App.Name)
	systemHandler.RegisterProbes(engine)

	var schedulerControl handler.SchedulerControl
	if cronScheduler != nil {
		schedulerControl = cronScheduler
	}

	router.NewRouter(engine).
		Register(systemHandler).
		Register(handler.NewSessionHandler(sessionService)).
		Register(handler.NewFiscalHandler(batch, submitter, aggregator, schedulerControl)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cronScheduler != nil {
		if err := cronScheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler shutdown failed", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}
