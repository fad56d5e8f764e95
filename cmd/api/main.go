package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/review_moderation/internal/config"
	httpDelivery "github.com/Pesokrava/review_moderation/internal/delivery/http"
	"github.com/Pesokrava/review_moderation/internal/delivery/http/handler"
	"github.com/Pesokrava/review_moderation/internal/pkg/auth"
	"github.com/Pesokrava/review_moderation/internal/pkg/cache"
	"github.com/Pesokrava/review_moderation/internal/pkg/database"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/review_moderation/internal/repository/cache"
	"github.com/Pesokrava/review_moderation/internal/repository/postgres"
	"github.com/Pesokrava/review_moderation/internal/usecase/moderation"
	"github.com/Pesokrava/review_moderation/internal/usecase/review"
	"github.com/Pesokrava/review_moderation/internal/usecase/stats"

	_ "github.com/Pesokrava/review_moderation/docs"
)

// @title Product Review Moderation API
// @version 1.0
// @description Product reviews with moderation, images, helpfulness votes, business responses and aggregate statistics.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/review_moderation
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a moderator token.

// @tag.name Reviews
// @tag.description Public review endpoints

// @tag.name Admin
// @tag.description Moderation endpoints

type statsCache interface {
	stats.Cache
	review.StatsInvalidator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewWithLevel(cfg.Env, cfg.LogLevel)
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Product Review Moderation API...")
	if cfg.Auth.EphemeralSecret {
		appLogger.Warn("AUTH_JWT_SECRET is not set; using a random secret for this process, admin tokens will not survive a restart")
	}

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, appLogger, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if cfg.Database.AutoMigrate {
		applied, err := database.RunMigrations(db, cfg.Database.MigrationsDir)
		if err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
		appLogger.Infof("Applied %d migrations from %s", len(applied), cfg.Database.MigrationsDir)
	}

	var statsStore statsCache = cacheRepo.NoopCache{}
	if cfg.Redis.Enabled {
		appLogger.Info("Connecting to Redis...")
		redisClient, err := cache.WaitForRedis(cfg, appLogger, 10, 2*time.Second)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", err)
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis successfully")

		statsStore = cacheRepo.NewRedisCache(redisClient, cfg.Cache.ProductStatsTTL)
	} else {
		appLogger.Warn("Redis disabled, product stats are computed on every request")
	}

	reviewRepo := postgres.NewReviewRepository(db)
	imageRepo := postgres.NewImageRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	limits := review.ImageLimits{MaxBytes: cfg.Images.MaxBytes, MaxPerReview: cfg.Images.MaxPerReview}
	reviewService := review.NewService(reviewRepo, imageRepo, voteRepo, responseRepo, statsStore, limits, appLogger)
	moderationService := moderation.NewService(reviewRepo, responseRepo, statsStore, appLogger)
	statsService := stats.NewService(statsRepo, statsStore, appLogger)

	router := httpDelivery.NewRouter(
		handler.NewReviewHandler(reviewService, appLogger),
		handler.NewStatsHandler(statsService, appLogger),
		handler.NewAdminHandler(moderationService, appLogger),
		auth.NewAuthenticator(cfg.Auth),
		cfg,
		appLogger,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
