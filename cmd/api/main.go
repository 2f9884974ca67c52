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
	"github.com/abdarbaaz-byte/studyscrip-push/internal/infra/postgresql/migrations"
	infraredis "github.com/abdarbaaz-byte/studyscrip-push/internal/infra/redis"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/observability"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/queue"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/repository"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/service"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/transport"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

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

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
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
	publisher := queue.NewRabbitMQPublisher(broker)
	defer publisher.Close()

	records := repository.NewGormNotificationRepo(db)
	registry := repository.NewGormTokenRegistry(db)

	notificationService, err := service.NewNotificationService(records, publisher, logger)
	if err != nil {
		logger.Fatal("notification service init failed", zap.Error(err))
	}
	deviceService, err := service.NewDeviceService(registry, logger)
	if err != nil {
		logger.Fatal("device service init failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if err := handler.RegisterNotificationRoutes(app, notificationService); err != nil {
		logger.Fatal("notification routes init failed", zap.Error(err))
	}
	if err := handler.RegisterDeviceRoutes(app, deviceService); err != nil {
		logger.Fatal("device routes init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down api")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("api shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("studyscrip-push api started", zap.Int("port", cfg.APIPort))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
		logger.Fatal("api server stopped", zap.Error(err))
	}
}
