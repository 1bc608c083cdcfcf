package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carhub/car-inventory/internal/adapter/httpapi"
	natsAdapter "github.com/carhub/car-inventory/internal/adapter/messaging/nats"
	"github.com/carhub/car-inventory/internal/adapter/repository/cache"
	"github.com/carhub/car-inventory/internal/adapter/repository/mongodb"
	"github.com/carhub/car-inventory/internal/adapter/storage/s3"
	carusecase "github.com/carhub/car-inventory/internal/car/usecase"
	"github.com/carhub/car-inventory/internal/config"
	"github.com/carhub/car-inventory/internal/mailer"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/carhub/car-inventory/internal/platform/metrics"
	"github.com/carhub/car-inventory/internal/platform/tracer"
	userusecase "github.com/carhub/car-inventory/internal/user/usecase"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const serviceName = "car_inventory"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()
	appLogger.Info("application starting", zap.String("service", serviceName))

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	if cfg.OTLPEndpoint != "" {
		tp, err := tracer.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
		if err != nil {
			appLogger.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDB)

	tokenCache, err := cache.NewTokenCache(cfg.RedisAddress)
	if err != nil {
		appLogger.Fatal("failed to connect to Redis", zap.String("address", cfg.RedisAddress), zap.Error(err))
	}
	defer tokenCache.Close()

	publisher, err := natsAdapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		appLogger.Fatal("failed to connect to NATS", zap.String("url", cfg.NATSURL), zap.Error(err))
	}
	defer publisher.Close()

	storage, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("failed to initialize photo storage", zap.Error(err))
	}

	var mail mailer.Mailer
	if cfg.SMTPEmail != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	carRepo := mongodb.NewCarRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)

	carUC := carusecase.NewCarUsecase(carRepo, publisher, appLogger)
	photoUC := carusecase.NewPhotoUsecase(carRepo, storage, appLogger)
	userUC := userusecase.NewUserUsecase(userRepo, tokenCache, mail, cfg.JWTSecret, appLogger)

	m := metrics.NewMetricsManager(serviceName)
	carHandler := httpapi.NewCarHandler(carUC, photoUC, m, appLogger)
	userHandler := httpapi.NewUserHandler(userUC, appLogger)
	router := httpapi.NewRouter(carHandler, userHandler, m, cfg.JWTSecret, tokenCache, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		appLogger.Info("starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
