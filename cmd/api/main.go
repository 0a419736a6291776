package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Profanor/micro-commerce-app/internal/app"
	"github.com/Profanor/micro-commerce-app/internal/clock"
	"github.com/Profanor/micro-commerce-app/internal/config"
	"github.com/Profanor/micro-commerce-app/internal/events"
	"github.com/Profanor/micro-commerce-app/internal/storage/postgres"
	transporthttp "github.com/Profanor/micro-commerce-app/internal/transport/http"
	"github.com/Profanor/micro-commerce-app/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	orderRepo := postgres.NewOrderRepository(pool)
	orderSvc := app.NewOrderService(orderRepo, clock.NewSystem())
	queryRepo := postgres.NewOrderQueryRepository(pool)
	querySvc := app.NewOrderQueryService(queryRepo)
	productRepo := postgres.NewProductRepository(pool)
	productSvc := app.NewProductService(productRepo, clock.NewSystem())

	var notifier transporthttp.OrderCreatedNotifier
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName, logger)
		defer func() { _ = publisher.Close() }()
		notifier = publisher
		logger.Info("order events enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	handler := transporthttp.NewRouter(transporthttp.RouterDeps{
		Orders:   orderSvc,
		Queries:  querySvc,
		Products: productSvc,
		Notifier: notifier,
		Logger:   logger,
		CORS:     cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	logger.Info("api listening", zap.String("addr", cfg.HTTPAddr))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
