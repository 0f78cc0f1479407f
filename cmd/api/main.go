package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"hireForm/internal/api"
	"hireForm/internal/application"
	"hireForm/internal/auth"
	"hireForm/internal/config"
	"hireForm/internal/database"
	"hireForm/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})).With(
		slog.String("service", "hireform-api"),
		slog.String("env", envOrDefault("APP_ENV", "development")),
		slog.String("version", envOrDefault("APP_VERSION", "dev")),
	)
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database migrated")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	gate, err := auth.NewGate(cfg.Admin)
	if err != nil {
		log.Fatalf("init admin gate: %v", err)
	}

	var exportStorage api.ExportStorage
	if cfg.MinIO.Enabled() {
		storageClient, err := storage.NewClient(context.Background(), cfg.MinIO)
		if err != nil {
			log.Fatalf("init storage client: %v", err)
		}
		exportStorage = storageClient
		logger.Info("export storage ready", slog.String("bucket", cfg.MinIO.Bucket))
	} else {
		logger.Info("export storage disabled")
	}

	service := application.NewService(
		application.NewGormStore(db),
		application.WithNotifier(application.NewTaskNotifier(asynqClient)),
		application.WithLogger(logger),
		application.WithTimeout(cfg.API.RequestTimeout),
	)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, api.Handlers{
		Applications: api.NewApplicationHandler(service, redisClient, cfg.Intake.RateLimitPerHour, logger),
		Admin:        api.NewAdminHandler(gate, service, exportStorage, redisClient, cfg.Admin.LoginRateLimitPerHour, logger),
		WS:           api.NewWsHandler(redisClient, gate, logger, cfg.API.CORSOrigins),
		Gate:         gate,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr), slog.String("auth_mode", cfg.Admin.AuthMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	logger.Info("api exited")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
