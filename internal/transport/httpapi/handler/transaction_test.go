package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joaoac/cryptofolio/internal/platform/transaction"
	"github.com/joaoac/cryptofolio/internal/transport/httpapi/handler"
)

// MockTransactionService is a mock implementation of the transaction service
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, walletID int64, tx *transaction.Transaction) (*transaction.Transaction, error) {
	args := m.Called(ctx, walletID, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context) ([]*transaction.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListByWallet(ctx context.Context, walletID int64) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListByWalletAndAsset(ctx context.Context, walletID int64, symbol string) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, walletID, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListByWalletAndType(ctx context.Context, walletID int64, txType transaction.Type) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, walletID, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListByWalletAndDateRange(ctx context.Context, walletID int64, start, end time.Time) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, walletID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) Latest(ctx context.Context, walletID int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) StatsByWallet(ctx context.Context, walletID int64) (*transaction.Stats, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Stats), args.Error(1)
}

func (m *MockTransactionService) Update(ctx context.Context, id int64, details *transaction.Transaction) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func transactionRouter(svc *MockTransactionService) *chi.Mux {
	h := handler.NewTransactionHandler(svc)
	r := chi.NewRouter()
	r.Route("/wallets/{walletID}/transactions", func(r chi.Router) {
		r.Post("/", h.CreateTransaction)
		r.Get("/", h.GetWalletTransactions)
		r.Get("/latest", h.GetLatestTransaction)
		r.Get("/crypto/{symbol}", h.GetTransactionsByCrypto)
		r.Get("/period", h.GetTransactionsByPeriod)
		r.Get("/stats", h.GetWalletStats)
	})
	r.Get("/transactions", h.GetTransactions)
	r.Get("/transactions/{id}", h.GetTransaction)
	r.Put("/transactions/{id}", h.UpdateTransaction)
	r.Delete("/transactions/{id}", h.DeleteTransaction)
	r.Get("/transaction-types", handler.GetTransactionTypes)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	body := `{"cryptocurrency":"BTC","transaction_type":"buy","quantity":"0.5","price_per_unit":"50000"}`

	t.Run("created", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Create", mock.Anything, int64(1), mock.AnythingOfType("*transaction.Transaction")).
			Return(&transaction.Transaction{ID: 10, WalletID: 1, Cryptocurrency: "BTC"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/wallets/1/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp transaction.Transaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(10), resp.ID)

		// The lowercase wire type must reach the service normalized
		call := svc.Calls[0].Arguments.Get(2).(*transaction.Transaction)
		assert.Equal(t, transaction.TypeBuy, call.Type)
	})

	t.Run("wallet not found", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Create", mock.Anything, int64(404), mock.Anything).
			Return(nil, transaction.ErrWalletNotFound)

		req := httptest.NewRequest(http.MethodPost, "/wallets/404/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("insufficient balance conflict", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Create", mock.Anything, int64(1), mock.Anything).
			Return(nil, transaction.ErrInsufficientBalance)

		req := httptest.NewRequest(http.MethodPost, "/wallets/1/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unsupported cryptocurrency", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Create", mock.Anything, int64(1), mock.Anything).
			Return(nil, transaction.ErrUnsupportedCryptocurrency)

		req := httptest.NewRequest(http.MethodPost, "/wallets/1/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionHandler_GetWalletTransactions(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("ListByWallet", mock.Anything, int64(1)).
			Return([]*transaction.Transaction{{ID: 1}, {ID: 2}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/wallets/1/transactions", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("type filter", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("ListByWalletAndType", mock.Anything, int64(1), transaction.TypeSell).
			Return([]*transaction.Transaction{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/wallets/1/transactions?type=sell", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("bad type filter", func(t *testing.T) {
		svc := new(MockTransactionService)

		req := httptest.NewRequest(http.MethodGet, "/wallets/1/transactions?type=HOLD", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionHandler_GetLatestTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Latest", mock.Anything, int64(1)).
			Return(&transaction.Transaction{ID: 7}, nil)

		req := httptest.NewRequest(http.MethodGet, "/wallets/1/transactions/latest", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty wallet", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Latest", mock.Anything, int64(1)).
			Return(nil, transaction.ErrTransactionNotFound)

		req := httptest.NewRequest(http.MethodGet, "/wallets/1/transactions/latest", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTransactionHandler_GetTransactionsByPeriod(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

		svc := new(MockTransactionService)
		svc.On("ListByWalletAndDateRange", mock.Anything, int64(1), start, end).
			Return([]*transaction.Transaction{}, nil)

		url := "/wallets/1/transactions/period?start=2025-01-01T00:00:00Z&end=2025-02-01T00:00:00Z"
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing start", func(t *testing.T) {
		svc := new(MockTransactionService)

		req := httptest.NewRequest(http.MethodGet, "/wallets/1/transactions/period?end=2025-02-01T00:00:00Z", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := new(MockTransactionService)

		url := "/wallets/1/transactions/period?start=2025-02-01T00:00:00Z&end=2025-01-01T00:00:00Z"
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	svc := new(MockTransactionService)
	svc.On("Update", mock.Anything, int64(5), mock.AnythingOfType("*transaction.Transaction")).
		Return(&transaction.Transaction{ID: 5, Cryptocurrency: "ETH"}, nil)

	body := `{"cryptocurrency":"ETH","transaction_type":"BUY","quantity":"10","price_per_unit":"3000"}`
	req := httptest.NewRequest(http.MethodPut, "/transactions/5", strings.NewReader(body))
	rec := httptest.NewRecorder()
	transactionRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Delete", mock.Anything, int64(5)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/transactions/5", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Delete", mock.Anything, int64(5)).Return(transaction.ErrTransactionNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/transactions/5", nil)
		rec := httptest.NewRecorder()
		transactionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetTransactionTypes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transaction-types", nil)
	rec := httptest.NewRecorder()
	transactionRouter(new(MockTransactionService)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["BUY","SELL"]`, rec.Body.String())
}
