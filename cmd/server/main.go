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

	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/internal/app/controller"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	"github.com/jobnest/jobnest-backend/internal/db"
	"github.com/jobnest/jobnest-backend/internal/middleware"
	"github.com/jobnest/jobnest-backend/internal/ratelimit"
	"github.com/jobnest/jobnest-backend/internal/router"
	"github.com/jobnest/jobnest-backend/internal/scheduler"
	"github.com/jobnest/jobnest-backend/internal/storage"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jobnest/jobnest-backend/pkg/mailer"
	redisclient "github.com/jobnest/jobnest-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting JobNest Backend Server", map[string]interface{}{
		"environment":        cfg.Server.Environment,
		"port":               cfg.Server.Port,
		"rate_limit_backend": cfg.RateLimit.Backend,
	})

	database, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedSuperadmin(database, &cfg.Bootstrap); err != nil {
		logger.Fatal("Failed to create bootstrap superadmin", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	resetRepo := repository.NewPasswordResetRepository(database)
	docRepo := repository.NewDocumentRepository(database)

	// Initialize services
	fileStorage := storage.NewS3Storage(context.Background(), cfg.S3)
	authService := service.NewAuthService(userRepo, resetRepo, cfg.JWT.Secret, cfg.JWT.SessionExpiry)
	resetService := service.NewPasswordResetService(resetRepo, userRepo, mailer.New(cfg.SMTP), cfg.ResetToken.TTL)
	userService := service.NewUserService(userRepo, resetService)
	documentService := service.NewDocumentService(docRepo, fileStorage)

	// Rate limiter
	policy := ratelimit.Policy{Window: cfg.RateLimit.Window, MaxRequests: cfg.RateLimit.MaxRequests}
	var limiter ratelimit.Limiter
	var sweeper *scheduler.RateLimitSweeper
	var redisClient *redis.Client

	switch cfg.RateLimit.Backend {
	case "redis":
		redisClient, err = redisclient.New(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", err)
		}
		limiter = ratelimit.NewRedisLimiter(redisClient, policy)
	default:
		memory := ratelimit.NewMemoryLimiter(policy, cfg.RateLimit.MaxKeys)
		sweeper = scheduler.NewRateLimitSweeper(memory, cfg.RateLimit.SweepSchedule)
		if err := sweeper.Start(); err != nil {
			logger.Fatal("Failed to start rate limit sweeper", err)
		}
		limiter = memory
	}

	var identities middleware.IdentityLookup
	if cfg.JWT.RevalidateRole {
		identities = authService
	}

	r := router.NewRouter(
		controller.NewAuthController(authService, resetService, cfg.JWT),
		controller.NewAdminController(userService, documentService),
		controller.NewDocumentController(documentService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.CookieName, identities),
		limiter,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	if redisClient != nil {
		if err := redisclient.Close(redisClient); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}

	logger.Info("Server stopped successfully")
}
