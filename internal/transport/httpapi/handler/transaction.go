package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/internal/platform/crypto"
	"github.com/joaoac/cryptofolio/internal/platform/transaction"
)

// TransactionServiceInterface defines the interface for transaction operations
type TransactionServiceInterface interface {
	Create(ctx context.Context, walletID int64, tx *transaction.Transaction) (*transaction.Transaction, error)
	GetByID(ctx context.Context, id int64) (*transaction.Transaction, error)
	List(ctx context.Context) ([]*transaction.Transaction, error)
	ListByWallet(ctx context.Context, walletID int64) ([]*transaction.Transaction, error)
	ListByWalletAndAsset(ctx context.Context, walletID int64, symbol string) ([]*transaction.Transaction, error)
	ListByWalletAndType(ctx context.Context, walletID int64, txType transaction.Type) ([]*transaction.Transaction, error)
	ListByWalletAndDateRange(ctx context.Context, walletID int64, start, end time.Time) ([]*transaction.Transaction, error)
	Latest(ctx context.Context, walletID int64) (*transaction.Transaction, error)
	StatsByWallet(ctx context.Context, walletID int64) (*transaction.Stats, error)
	Update(ctx context.Context, id int64, details *transaction.Transaction) (*transaction.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionRequest represents the transaction create/update request
type TransactionRequest struct {
	Cryptocurrency  string          `json:"cryptocurrency"`
	Type            string          `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TransactionDate time.Time       `json:"transaction_date"`
	Notes           string          `json:"notes"`
}

// toDomain maps the request onto a domain transaction. Field validation is
// left to the service.
func (req *TransactionRequest) toDomain() *transaction.Transaction {
	return &transaction.Transaction{
		Cryptocurrency:  req.Cryptocurrency,
		Type:            transaction.Type(crypto.Normalize(req.Type)),
		Quantity:        req.Quantity,
		PricePerUnit:    req.PricePerUnit,
		TotalValue:      req.TotalValue,
		TransactionDate: req.TransactionDate,
		Notes:           req.Notes,
	}
}

// CreateTransaction handles POST /wallets/{walletID}/transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	walletID, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.transactionService.Create(r.Context(), walletID, req.toDomain())
	if err != nil {
		respondTransactionError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactionService.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	respondWithJSON(w, http.StatusOK, transactionList(txs))
}

// GetTransaction handles GET /transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := transactionIDParam(w, r)
	if !ok {
		return
	}

	tx, err := h.transactionService.GetByID(r.Context(), id)
	if err != nil {
		respondTransactionError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tx)
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := transactionIDParam(w, r)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.transactionService.Update(r.Context(), id, req.toDomain())
	if err != nil {
		respondTransactionError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := transactionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.transactionService.Delete(r.Context(), id); err != nil {
		respondTransactionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetWalletTransactions handles GET /wallets/{walletID}/transactions with an
// optional ?type= filter
func (h *TransactionHandler) GetWalletTransactions(w http.ResponseWriter, r *http.Request) {
	walletID, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	var (
		txs []*transaction.Transaction
		err error
	)

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		txType, parseErr := transaction.ParseType(typeParam)
		if parseErr != nil {
			respondWithError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		txs, err = h.transactionService.ListByWalletAndType(r.Context(), walletID, txType)
	} else {
		txs, err = h.transactionService.ListByWallet(r.Context(), walletID)
	}

	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch wallet transactions")
		return
	}

	respondWithJSON(w, http.StatusOK, transactionList(txs))
}

// GetLatestTransaction handles GET /wallets/{walletID}/transactions/latest
func (h *TransactionHandler) GetLatestTransaction(w http.ResponseWriter, r *http.Request) {
	walletID, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	tx, err := h.transactionService.Latest(r.Context(), walletID)
	if err != nil {
		respondTransactionError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tx)
}

// GetTransactionsByCrypto handles GET /wallets/{walletID}/transactions/crypto/{symbol}
func (h *TransactionHandler) GetTransactionsByCrypto(w http.ResponseWriter, r *http.Request) {
	walletID, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		respondWithError(w, http.StatusBadRequest, "cryptocurrency symbol is required")
		return
	}

	txs, err := h.transactionService.ListByWalletAndAsset(r.Context(), walletID, symbol)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	respondWithJSON(w, http.StatusOK, transactionList(txs))
}

// GetTransactionsByPeriod handles GET /wallets/{walletID}/transactions/period
func (h *TransactionHandler) GetTransactionsByPeriod(w http.ResponseWriter, r *http.Request) {
	walletID, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start must be an RFC 3339 timestamp")
		return
	}

	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "end must be an RFC 3339 timestamp")
		return
	}

	if end.Before(start) {
		respondWithError(w, http.StatusBadRequest, "end must not precede start")
		return
	}

	txs, err := h.transactionService.ListByWalletAndDateRange(r.Context(), walletID, start, end)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	respondWithJSON(w, http.StatusOK, transactionList(txs))
}

// GetWalletStats handles GET /wallets/{walletID}/transactions/stats
func (h *TransactionHandler) GetWalletStats(w http.ResponseWriter, r *http.Request) {
	walletID, ok := walletIDParam(w, r)
	if !ok {
		return
	}

	stats, err := h.transactionService.StatsByWallet(r.Context(), walletID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute wallet stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetTransactionTypes handles GET /transaction-types
func GetTransactionTypes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, []transaction.Type{
		transaction.TypeBuy,
		transaction.TypeSell,
	})
}

// transactionIDParam parses the {id} URL parameter as a transaction ID
func transactionIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid transaction ID")
		return 0, false
	}
	return id, true
}

// transactionList normalizes a nil slice to an empty JSON array
func transactionList(txs []*transaction.Transaction) []*transaction.Transaction {
	if txs == nil {
		return []*transaction.Transaction{}
	}
	return txs
}

// respondTransactionError maps transaction domain errors to HTTP status codes
func respondTransactionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound):
		respondWithError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, transaction.ErrWalletNotFound):
		respondWithError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, transaction.ErrInsufficientBalance):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, transaction.ErrMissingCryptocurrency),
		errors.Is(err, transaction.ErrUnsupportedCryptocurrency),
		errors.Is(err, transaction.ErrMissingType),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidQuantity),
		errors.Is(err, transaction.ErrInvalidPrice),
		errors.Is(err, transaction.ErrFutureDate),
		errors.Is(err, transaction.ErrNotesTooLong):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
