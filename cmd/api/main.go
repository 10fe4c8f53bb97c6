package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"moviequiz/internal/adapter"
	"moviequiz/internal/adapter/llm"
	"moviequiz/internal/adapter/omdb"
	"moviequiz/internal/cache"
	"moviequiz/internal/config"
	"moviequiz/internal/domain"
	"moviequiz/internal/handler"
	"moviequiz/internal/logger"
	"moviequiz/internal/middleware"
	"moviequiz/internal/service"
	"moviequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Text generation backend
	appLogger.Info("Initializing text generator",
		zap.String("source", cfg.LLM.Source),
		zap.String("model", cfg.LLM.Model))
	generator, err := llm.New(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}

	// Movie metadata provider
	metadataProvider, err := omdb.NewClient(cfg.OMDB)
	if err != nil {
		appLogger.Fatal("Failed to create OMDb client", zap.Error(err))
	}
	appLogger.Info("OMDb client initialized")

	// Redis cache is optional: without it every run hits the upstreams.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Warn("Redis address not configured; metadata and synopsis caching disabled")
	}

	// Services
	sessionService := service.NewSessionService(service.DefaultSessionCapacity)
	studyGuideService := service.NewStudyGuideService(
		generator,
		metadataProvider,
		cacheAdapter,
		sessionService,
		cfg.LLM.MaxTokens,
	)

	// Handlers
	validator := validation.NewValidator()
	studyGuideHandler := handler.NewStudyGuideHandler(studyGuideService, validator)
	sessionHandler := handler.NewSessionHandler(sessionService, validator)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")
	apiGroup.Post("/studyguide", studyGuideHandler.Generate)
	apiGroup.Post("/sessions/:id/answers", sessionHandler.RecordAnswer)
	apiGroup.Post("/sessions/:id/submit", sessionHandler.Submit)
	apiGroup.Get("/sessions/:id/report", sessionHandler.Report)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
