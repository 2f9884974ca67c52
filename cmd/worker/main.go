package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/config"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/handler"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/infra/postgresql"
	infraredis "github.com/abdarbaaz-byte/studyscrip-push/internal/infra/redis"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/observability"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/provider"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/queue"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/repository"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/service"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/transport"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout  = 10 * time.Second
	dispatchGuardTTL = 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	broker, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	consumer := queue.NewRabbitMQConsumer(broker, cfg.WorkerConcurrency, logger)
	defer consumer.Close()

	records := repository.NewGormNotificationRepo(db)
	registry := repository.NewGormTokenRegistry(db)

	fcm, err := provider.NewFCMProvider(cfg.FCMEndpoint, cfg.FCMServerKey)
	if err != nil {
		logger.Fatal("fcm provider init failed", zap.Error(err))
	}

	collector, err := service.NewRegistryCollector(registry, cfg.WorkerConcurrency, logger)
	if err != nil {
		logger.Fatal("registry collector init failed", zap.Error(err))
	}

	delivery, err := service.NewDeliveryService(records, registry, fcm, collector, cfg.NotificationIcon, logger)
	if err != nil {
		logger.Fatal("delivery service init failed", zap.Error(err))
	}

	guard, err := infraredis.NewDispatchGuard(rdb, dispatchGuardTTL)
	if err != nil {
		logger.Fatal("dispatch guard init failed", zap.Error(err))
	}

	worker, err := service.NewFanoutWorker(consumer, delivery, guard, cfg.WorkerConcurrency, logger)
	if err != nil {
		logger.Fatal("fan-out worker init failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	delivery.SetMetrics(metrics)
	worker.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(recover.New())
	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("studyscrip-push worker started",
			zap.Int("concurrency", cfg.WorkerConcurrency),
		)
		return worker.Start(groupCtx)
	})

	g.Go(func() error {
		logger.Info("worker admin server started", zap.Int("port", cfg.WorkerPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.WorkerPort))
	})

	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down worker")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
