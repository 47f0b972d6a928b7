package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/auth"
	"github.com/mamadbah2/washify/internal/cache"
	"github.com/mamadbah2/washify/internal/config"
	"github.com/mamadbah2/washify/internal/events"
	"github.com/mamadbah2/washify/internal/repository/mongodb"
	"github.com/mamadbah2/washify/internal/repository/sheets"
	"github.com/mamadbah2/washify/internal/scheduler"
	"github.com/mamadbah2/washify/internal/server/handlers"
	"github.com/mamadbah2/washify/internal/server/router"
	expensesvc "github.com/mamadbah2/washify/internal/service/expenses"
	exportsvc "github.com/mamadbah2/washify/internal/service/export"
	ordersvc "github.com/mamadbah2/washify/internal/service/orders"
	reportingsvc "github.com/mamadbah2/washify/internal/service/reporting"
	usersvc "github.com/mamadbah2/washify/internal/service/users"
	whatsappsvc "github.com/mamadbah2/washify/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/washify/pkg/clients/whatsapp"
	"github.com/mamadbah2/washify/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// Money leaves the API as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	var (
		summaryCache reportingsvc.SummaryCache
		invalidator  ordersvc.CacheInvalidator
		expenseCache expensesvc.CacheInvalidator
	)
	if cfg.Redis.URL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			baseLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		redisCache := cache.NewRedisCache(redisClient, cfg.Redis.TTL, baseLogger.Named("cache.redis"))
		summaryCache, invalidator, expenseCache = redisCache, redisCache, redisCache
		baseLogger.Info("summary cache enabled")
	} else {
		baseLogger.Warn("REDIS_URL missing, summary cache disabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), baseLogger.Named("events.kafka"))
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				baseLogger.Error("failed to close kafka writer", zap.Error(err))
			}
		}()
		publisher = kafkaPublisher
		baseLogger.Info("domain events enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		baseLogger.Fatal("failed to init token manager", zap.Error(err))
	}

	location := cfg.Reporting.Location()
	userSvc := usersvc.NewService(mongoRepo, tokens, baseLogger.Named("svc.users"))
	orderSvc := ordersvc.NewService(mongoRepo, invalidator, publisher, location, baseLogger.Named("svc.orders"))
	expenseSvc := expensesvc.NewService(mongoRepo, expenseCache, publisher, baseLogger.Named("svc.expenses"))
	reportingSvc := reportingsvc.NewService(mongoRepo, mongoRepo, mongoRepo, summaryCache, location, baseLogger.Named("svc.reporting"))

	var sheetsPusher handlers.SheetsPusher
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsPusher = exportsvc.NewSheetsExporter(sheetsRepo, baseLogger.Named("svc.sheets"))
		baseLogger.Info("sheets export enabled", zap.String("spreadsheet", sheetsRepo.SpreadsheetURL()))
	} else {
		baseLogger.Warn("google sheets credentials missing, sheets export disabled")
	}

	var notifier scheduler.DailyNotifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappsvc.NewNotifier(whatsappclient.NewClient(cfg.WhatsApp), baseLogger.Named("svc.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp credentials missing, daily notifications disabled")
	}

	clock := handlers.Clock{Now: time.Now, Location: location}
	engine := router.New(router.Dependencies{
		Auth:       userSvc,
		CookieName: cfg.Auth.CookieName,
		Users:      handlers.NewUserHandler(userSvc, cfg.Auth, baseLogger.Named("handlers.users")),
		Orders:     handlers.NewOrderHandler(orderSvc, clock, baseLogger.Named("handlers.orders")),
		Expenses:   handlers.NewExpenseHandler(expenseSvc, clock, baseLogger.Named("handlers.expenses")),
		Reports:    handlers.NewReportHandler(reportingSvc, sheetsPusher, clock, baseLogger.Named("handlers.reports")),
		Store:      mongoRepo,
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, mongoRepo, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler.Handler(engine),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("timezone", location.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
