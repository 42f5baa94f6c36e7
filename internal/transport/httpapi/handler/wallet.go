package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/internal/platform/wallet"
)

// WalletServiceInterface defines the interface for wallet operations
type WalletServiceInterface interface {
	Create(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error)
	GetByID(ctx context.Context, id int64) (*wallet.Wallet, error)
	List(ctx context.Context) ([]*wallet.Wallet, error)
	SearchByName(ctx context.Context, name string) ([]*wallet.Wallet, error)
	Update(ctx context.Context, id int64, name, description string) (*wallet.Wallet, error)
	Delete(ctx context.Context, id int64) error
	Balance(ctx context.Context, walletID int64) (map[string]decimal.Decimal, error)
	TotalInvested(ctx context.Context, walletID int64) (decimal.Decimal, error)
	HasSufficientBalance(ctx context.Context, walletID int64, symbol string, quantity decimal.Decimal) (bool, error)
}

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService WalletServiceInterface
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService WalletServiceInterface) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// WalletRequest represents the wallet create/update request
type WalletRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BalanceResponse represents a wallet's per-asset balance
type BalanceResponse struct {
	WalletID int64                      `json:"wallet_id"`
	Balances map[string]decimal.Decimal `json:"balances"`
}

// TotalInvestedResponse represents a wallet's total invested amount
type TotalInvestedResponse struct {
	WalletID      int64           `json:"wallet_id"`
	TotalInvested decimal.Decimal `json:"total_invested"`
}

// BalanceCheckResponse represents the result of a sufficiency check
type BalanceCheckResponse struct {
	WalletID       int64           `json:"wallet_id"`
	Cryptocurrency string          `json:"cryptocurrency"`
	Quantity       decimal.Decimal `json:"quantity"`
	Sufficient     bool            `json:"sufficient"`
}

// CreateWallet handles POST /wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req WalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wlt := &wallet.Wallet{
		Name:        req.Name,
		Description: req.Description,
	}

	created, err := h.walletService.Create(r.Context(), wlt)
	if err != nil {
		respondWalletError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetWallets handles GET /wallets with an optional ?name= substring filter
func (h *WalletHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	var (
		wallets []*wallet.Wallet
		err     error
	)

	if name := r.URL.Query().Get("name"); name != "" {
		wallets, err = h.walletService.SearchByName(r.Context(), name)
	} else {
		wallets, err = h.walletService.List(r.Context())
	}

	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch wallets")
		return
	}

	if wallets == nil {
		wallets = []*wallet.Wallet{}
	}
	respondWithJSON(w, http.StatusOK, wallets)
}

// GetWallet handles GET /wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	id, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	wlt, err := h.walletService.GetByID(r.Context(), id)
	if err != nil {
		respondWalletError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wlt)
}

// UpdateWallet handles PUT /wallets/{id}
func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	var req WalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.walletService.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		respondWalletError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteWallet handles DELETE /wallets/{id}
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	id, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	if err := h.walletService.Delete(r.Context(), id); err != nil {
		respondWalletError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBalance handles GET /wallets/{id}/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	balances, err := h.walletService.Balance(r.Context(), id)
	if err != nil {
		respondWalletError(w, err)
		return
	}

	if balances == nil {
		balances = map[string]decimal.Decimal{}
	}
	respondWithJSON(w, http.StatusOK, BalanceResponse{
		WalletID: id,
		Balances: balances,
	})
}

// GetTotalInvested handles GET /wallets/{id}/total-invested
func (h *WalletHandler) GetTotalInvested(w http.ResponseWriter, r *http.Request) {
	id, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	total, err := h.walletService.TotalInvested(r.Context(), id)
	if err != nil {
		respondWalletError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, TotalInvestedResponse{
		WalletID:      id,
		TotalInvested: total,
	})
}

// CheckBalance handles GET /wallets/{walletID}/balance-check
func (h *WalletHandler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	symbol := r.URL.Query().Get("cryptocurrency")
	if symbol == "" {
		respondWithError(w, http.StatusBadRequest, "cryptocurrency is required")
		return
	}

	quantity, err := decimal.NewFromString(r.URL.Query().Get("quantity"))
	if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, http.StatusBadRequest, "quantity must be a positive number")
		return
	}

	sufficient, err := h.walletService.HasSufficientBalance(r.Context(), id, symbol, quantity)
	if err != nil {
		respondWalletError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BalanceCheckResponse{
		WalletID:       id,
		Cryptocurrency: symbol,
		Quantity:       quantity,
		Sufficient:     sufficient,
	})
}

// walletIDParam parses the {walletID} URL parameter
func walletIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid wallet ID")
		return 0, false
	}
	return id, true
}

// respondWalletError maps wallet domain errors to HTTP status codes
func respondWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound):
		respondWithError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, wallet.ErrWalletHasTransactions):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wallet.ErrMissingName),
		errors.Is(err, wallet.ErrNameTooLong),
		errors.Is(err, wallet.ErrDescriptionTooLong):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
