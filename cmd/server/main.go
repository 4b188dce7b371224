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

	"go.uber.org/zap"

	"synergy-backend/internal/config"
	"synergy-backend/internal/database"
	"synergy-backend/internal/handlers"
	"synergy-backend/internal/logging"
	"synergy-backend/internal/middleware"
	"synergy-backend/internal/repository"
	"synergy-backend/internal/router"
	"synergy-backend/internal/services"
	"synergy-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration error: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	logger.Info("🚀 Starting Synergy Backend...")
	logger.Info("✓ Environment variables loaded", zap.String("env", cfg.Env), zap.String("timezone", cfg.Location.String()))

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("✗ PostgreSQL connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		logger.Fatal("✗ Redis connection failed", zap.Error(err))
	}
	defer redisClients.Close()
	logger.Info("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("✗ Database migration failed", zap.Error(err))
	}
	logger.Info("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	contextRepo := repository.NewContextRepo(pool)
	chatMessageRepo := repository.NewChatMessageRepo(pool)
	quoteRepo := repository.NewQuoteRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, logger)
	if err != nil {
		logger.Fatal("✗ Gemini client initialization failed", zap.Error(err))
	}
	defer geminiService.Close()
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; chat and quote generation will fail until it is configured")
	} else {
		logger.Info("✓ Gemini client initialized", zap.String("model", cfg.GeminiModel))
	}

	// ──── Initialize Services ────
	tokenAuth := middleware.NewTokenAuth(cfg.JWTSecret, logger)
	publisher := websocket.NewRedisPublisher(redisClients.Command)
	aggregator := services.NewContextAggregator(contextRepo, cfg.ContextQueryTimeout, logger)
	recorder := services.NewTranscriptRecorder(chatMessageRepo, publisher, cfg.TranscriptWriteTimeout, logger)
	chatService := services.NewChatService(tokenAuth, aggregator, geminiService, recorder, cfg.Location, logger)
	quoteService := services.NewQuoteService(geminiService, quoteRepo, cfg.Location, logger)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(chatService, logger)
	quoteHandler := handlers.NewQuoteHandler(quoteService, logger)
	healthHandler := handlers.NewHealthHandler(
		handlers.HealthCheck{Name: "postgres", Check: pool.Ping},
		handlers.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClients.Command.Ping(ctx).Err()
		}},
	)

	// ──── Step 6: Start Quote Scheduler ────
	quoteScheduler := services.NewQuoteScheduler(
		quoteService,
		services.NewRedisLock(redisClients.Command),
		cfg.QuotesRefreshInterval,
		logger,
	)
	if cfg.QuotesAutoRefresh {
		quoteScheduler.Start()
	}

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, tokenAuth, logger)
	defer wsHub.Close()
	logger.Info("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(chatHandler, quoteHandler, healthHandler, wsHub)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// A chat request may wait the full model timeout plus two writes.
		WriteTimeout: cfg.GeminiTimeout + 2*cfg.TranscriptWriteTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		quoteScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("✓ Synergy Backend ready",
		zap.String("chat", fmt.Sprintf("http://localhost:%s/chat", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/ws", cfg.Port)),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}
