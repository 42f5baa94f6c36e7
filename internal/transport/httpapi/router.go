package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/joaoac/cryptofolio/internal/transport/httpapi/handler"
	"github.com/joaoac/cryptofolio/internal/transport/httpapi/middleware"
	"github.com/joaoac/cryptofolio/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	WalletHandler      *handler.WalletHandler
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Token exchange (public, only mounted when auth is configured)
		if cfg.AuthHandler != nil {
			r.Post("/auth/token", cfg.AuthHandler.IssueToken)
		}

		// When auth is configured, everything below requires a valid token
		r.Group(func(r chi.Router) {
			if cfg.JWTMiddleware != nil {
				r.Use(cfg.JWTMiddleware)
			}

			// Wallet routes
			r.Post("/wallets", cfg.WalletHandler.CreateWallet)
			r.Get("/wallets", cfg.WalletHandler.GetWallets)
			r.Get("/wallets/{walletID}", cfg.WalletHandler.GetWallet)
			r.Put("/wallets/{walletID}", cfg.WalletHandler.UpdateWallet)
			r.Delete("/wallets/{walletID}", cfg.WalletHandler.DeleteWallet)
			r.Get("/wallets/{walletID}/balance", cfg.WalletHandler.GetBalance)
			r.Get("/wallets/{walletID}/total-invested", cfg.WalletHandler.GetTotalInvested)
			r.Get("/wallets/{walletID}/balance-check", cfg.WalletHandler.CheckBalance)

			// Wallet-scoped transaction routes
			r.Route("/wallets/{walletID}/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.CreateTransaction)
				r.Get("/", cfg.TransactionHandler.GetWalletTransactions)
				r.Get("/latest", cfg.TransactionHandler.GetLatestTransaction)
				r.Get("/crypto/{symbol}", cfg.TransactionHandler.GetTransactionsByCrypto)
				r.Get("/period", cfg.TransactionHandler.GetTransactionsByPeriod)
				r.Get("/stats", cfg.TransactionHandler.GetWalletStats)
			})

			// Transaction routes
			r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
			r.Get("/transactions/{id}", cfg.TransactionHandler.GetTransaction)
			r.Put("/transactions/{id}", cfg.TransactionHandler.UpdateTransaction)
			r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)

			r.Get("/transaction-types", handler.GetTransactionTypes)
		})
	})

	return r
}
