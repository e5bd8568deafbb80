package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cozinhecomigo/recipes/backend/config"
	"github.com/cozinhecomigo/recipes/backend/internal/api"
	"github.com/cozinhecomigo/recipes/backend/internal/database"
	"github.com/cozinhecomigo/recipes/backend/internal/logger"
	"github.com/cozinhecomigo/recipes/backend/internal/media"
	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/server"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/validation"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply migrations before serving (always on for sqlite)")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(string(config.GetEnvironment()), "info").Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(string(config.GetEnvironment()), cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrate || cfg.DBDriver == "sqlite" {
		if err := database.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Redis only backs rate limiting, so the API keeps running without it
	var redisClient *redis.Client
	if rc, err := database.NewRedisClient(cfg, log); err != nil {
		log.WithError(err).Warn("Redis unavailable, rate limiting falls back to in-process counters")
	} else {
		redisClient = rc
		defer redisClient.Close()
	}

	var resolver media.Resolver = media.PassthroughResolver{}
	if cfg.S3BucketName != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg.S3BucketName, cfg.S3Region)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		resolver = media.NewS3Resolver(s3cfg, cfg.S3PresignTTL)
	}

	auth := service.NewAuthService(db, cfg.TokenTTL)
	srv := server.New(cfg, api.Dependencies{
		DB:             db,
		AuthService:    auth,
		RecipeService:  service.NewRecipeService(db, auth, resolver),
		CommentService: service.NewCommentService(db, auth, resolver),
		WriteLimiter:   middleware.NewWriteRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax, log),
		Log:            log,
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received signal")
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Info("Server stopped")
}
