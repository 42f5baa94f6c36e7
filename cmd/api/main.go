package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joaoac/cryptofolio/internal/infra/postgres"
	infraRedis "github.com/joaoac/cryptofolio/internal/infra/redis"
	"github.com/joaoac/cryptofolio/internal/platform/transaction"
	"github.com/joaoac/cryptofolio/internal/platform/wallet"
	"github.com/joaoac/cryptofolio/internal/transport/httpapi"
	"github.com/joaoac/cryptofolio/internal/transport/httpapi/handler"
	"github.com/joaoac/cryptofolio/internal/transport/httpapi/middleware"
	"github.com/joaoac/cryptofolio/pkg/config"
	"github.com/joaoac/cryptofolio/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Cryptofolio API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for balance caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	// The balance cache is optional: when Redis is unreachable balances are
	// computed from the transaction history on every request.
	var balanceCache *infraRedis.BalanceCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, balance caching disabled", "error", err)
	} else {
		balanceCache = infraRedis.NewBalanceCache(redisClient, log)
		log.Info("Redis connection established")
	}

	// Initialize repositories
	walletRepo := postgres.NewWalletRepository(db.Pool)
	transactionRepo := postgres.NewTransactionRepository(db.Pool)

	// Initialize services. A nil *BalanceCache must not reach the services
	// as a non-nil interface.
	var (
		walletCache      wallet.BalanceCache
		invalidatorCache transaction.BalanceInvalidator
	)
	if balanceCache != nil {
		walletCache = balanceCache
		invalidatorCache = balanceCache
	}
	walletSvc := wallet.NewService(walletRepo, transactionRepo, walletCache)
	transactionSvc := transaction.NewService(transactionRepo, walletRepo, invalidatorCache)

	// Initialize HTTP handlers
	walletHandler := handler.NewWalletHandler(walletSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	healthHandler := handler.NewHealthHandler(db)

	// Token auth is optional; without it the API is open
	var (
		authHandler   *handler.AuthHandler
		jwtMiddleware func(http.Handler) http.Handler
	)
	if cfg.AuthEnabled() {
		jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
		authHandler = handler.NewAuthHandler(cfg.APIKeyHash, jwtSvc)
		jwtMiddleware = middleware.JWTMiddleware(jwtSvc)
		log.Info("Token authentication enabled")
	} else {
		log.Warn("JWT_SECRET/API_KEY_HASH not configured, API is open")
	}

	// Determine allowed origins for CORS
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     allowedOrigins,
		AuthHandler:        authHandler,
		WalletHandler:      walletHandler,
		TransactionHandler: transactionHandler,
		HealthHandler:      healthHandler,
		JWTMiddleware:      jwtMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
