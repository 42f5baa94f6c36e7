package wallet_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joaoac/cryptofolio/internal/platform/transaction"
	"github.com/joaoac/cryptofolio/internal/platform/wallet"
)

// MockWalletRepository is a mock implementation of the wallet repository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id int64) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetAll(ctx context.Context) ([]*wallet.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) SearchByName(ctx context.Context, name string) ([]*wallet.Wallet, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWalletRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockTransactionStore is a mock implementation of the transaction history access
type MockTransactionStore struct {
	mock.Mock
}

func (m *MockTransactionStore) GetByWallet(ctx context.Context, walletID int64) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionStore) CountByWallet(ctx context.Context, walletID int64) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBalanceCache is a mock implementation of the balance cache
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Get(ctx context.Context, walletID int64) (map[string]decimal.Decimal, bool, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) Set(ctx context.Context, walletID int64, balances map[string]decimal.Decimal) error {
	args := m.Called(ctx, walletID, balances)
	return args.Error(0)
}

func TestWalletService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		wallet    *wallet.Wallet
		setupMock func(*MockWalletRepository)
		wantErr   error
	}{
		{
			name:   "valid wallet",
			wallet: &wallet.Wallet{Name: "Long-term holdings", Description: "Cold storage"},
			setupMock: func(m *MockWalletRepository) {
				m.On("Create", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)
			},
		},
		{
			name:      "missing name",
			wallet:    &wallet.Wallet{Name: "   "},
			setupMock: func(m *MockWalletRepository) {},
			wantErr:   wallet.ErrMissingName,
		},
		{
			name:      "name too long",
			wallet:    &wallet.Wallet{Name: strings.Repeat("a", 101)},
			setupMock: func(m *MockWalletRepository) {},
			wantErr:   wallet.ErrNameTooLong,
		},
		{
			name: "description too long",
			wallet: &wallet.Wallet{
				Name:        "Trading",
				Description: strings.Repeat("b", 256),
			},
			setupMock: func(m *MockWalletRepository) {},
			wantErr:   wallet.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockWalletRepository)
			tt.setupMock(mockRepo)

			svc := wallet.NewService(mockRepo, new(MockTransactionStore), nil)
			created, err := svc.Create(ctx, tt.wallet)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.False(t, created.CreatedAt.IsZero())
				assert.Equal(t, created.CreatedAt, created.UpdatedAt)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWalletService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites name and description", func(t *testing.T) {
		existing := &wallet.Wallet{ID: 1, Name: "Old", Description: "Old desc"}

		mockRepo := new(MockWalletRepository)
		mockRepo.On("GetByID", ctx, int64(1)).Return(existing, nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)

		svc := wallet.NewService(mockRepo, new(MockTransactionStore), nil)
		updated, err := svc.Update(ctx, 1, "New", "New desc")

		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.ID)
		assert.Equal(t, "New", updated.Name)
		assert.Equal(t, "New desc", updated.Description)
		assert.False(t, updated.UpdatedAt.IsZero())
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockRepo.On("GetByID", ctx, int64(404)).Return(nil, wallet.ErrWalletNotFound)

		svc := wallet.NewService(mockRepo, new(MockTransactionStore), nil)
		_, err := svc.Update(ctx, 404, "New", "")

		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})

	t.Run("invalid new name", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockRepo.On("GetByID", ctx, int64(1)).Return(&wallet.Wallet{ID: 1, Name: "Old"}, nil)

		svc := wallet.NewService(mockRepo, new(MockTransactionStore), nil)
		_, err := svc.Update(ctx, 1, "", "")

		assert.ErrorIs(t, err, wallet.ErrMissingName)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestWalletService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes empty wallet", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockTxs.On("CountByWallet", ctx, int64(1)).Return(int64(0), nil)
		mockRepo.On("Delete", ctx, int64(1)).Return(nil)

		svc := wallet.NewService(mockRepo, mockTxs, nil)
		require.NoError(t, svc.Delete(ctx, 1))
		mockRepo.AssertExpectations(t)
	})

	t.Run("refuses wallet with transactions", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockTxs.On("CountByWallet", ctx, int64(1)).Return(int64(3), nil)

		svc := wallet.NewService(mockRepo, mockTxs, nil)
		err := svc.Delete(ctx, 1)

		assert.ErrorIs(t, err, wallet.ErrWalletHasTransactions)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockRepo.On("Exists", ctx, int64(404)).Return(false, nil)

		svc := wallet.NewService(mockRepo, new(MockTransactionStore), nil)
		assert.ErrorIs(t, svc.Delete(ctx, 404), wallet.ErrWalletNotFound)
	})
}

func TestWalletService_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("reports only open positions", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockTxs.On("GetByWallet", ctx, int64(1)).Return([]*transaction.Transaction{
			{Cryptocurrency: "BTC", Type: transaction.TypeBuy, Quantity: decimal.NewFromInt(1)},
			{Cryptocurrency: "BTC", Type: transaction.TypeSell, Quantity: decimal.NewFromFloat(0.4)},
			{Cryptocurrency: "ETH", Type: transaction.TypeBuy, Quantity: decimal.NewFromInt(5)},
			{Cryptocurrency: "ETH", Type: transaction.TypeSell, Quantity: decimal.NewFromInt(5)},
		}, nil)

		svc := wallet.NewService(mockRepo, mockTxs, nil)
		balances, err := svc.Balance(ctx, 1)

		require.NoError(t, err)
		assert.Len(t, balances, 1)
		assert.True(t, balances["BTC"].Equal(decimal.NewFromFloat(0.6)))
	})

	t.Run("wallet not found", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockRepo.On("Exists", ctx, int64(404)).Return(false, nil)

		svc := wallet.NewService(mockRepo, new(MockTransactionStore), nil)
		_, err := svc.Balance(ctx, 404)

		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})

	t.Run("cache hit skips history", func(t *testing.T) {
		cached := map[string]decimal.Decimal{"BTC": decimal.NewFromInt(2)}

		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockCache := new(MockBalanceCache)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockCache.On("Get", ctx, int64(1)).Return(cached, true, nil)

		svc := wallet.NewService(mockRepo, mockTxs, mockCache)
		balances, err := svc.Balance(ctx, 1)

		require.NoError(t, err)
		assert.True(t, balances["BTC"].Equal(decimal.NewFromInt(2)))
		mockTxs.AssertNotCalled(t, "GetByWallet", mock.Anything, mock.Anything)
	})

	t.Run("cache miss computes and stores", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockCache := new(MockBalanceCache)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockCache.On("Get", ctx, int64(1)).Return(nil, false, nil)
		mockTxs.On("GetByWallet", ctx, int64(1)).Return([]*transaction.Transaction{
			{Cryptocurrency: "BTC", Type: transaction.TypeBuy, Quantity: decimal.NewFromInt(1)},
		}, nil)
		mockCache.On("Set", ctx, int64(1), mock.Anything).Return(nil)

		svc := wallet.NewService(mockRepo, mockTxs, mockCache)
		balances, err := svc.Balance(ctx, 1)

		require.NoError(t, err)
		assert.True(t, balances["BTC"].Equal(decimal.NewFromInt(1)))
		mockCache.AssertExpectations(t)
	})
}

func TestWalletService_TotalInvested(t *testing.T) {
	ctx := context.Background()

	t.Run("sums buys only", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockTxs.On("GetByWallet", ctx, int64(1)).Return([]*transaction.Transaction{
			{Type: transaction.TypeBuy, TotalValue: decimal.NewFromInt(1000)},
			{Type: transaction.TypeSell, TotalValue: decimal.NewFromInt(700)},
			{Type: transaction.TypeBuy, TotalValue: decimal.NewFromInt(250)},
		}, nil)

		svc := wallet.NewService(mockRepo, mockTxs, nil)
		total, err := svc.TotalInvested(ctx, 1)

		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(1250)))
	})

	t.Run("empty wallet", func(t *testing.T) {
		mockRepo := new(MockWalletRepository)
		mockTxs := new(MockTransactionStore)
		mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockTxs.On("GetByWallet", ctx, int64(1)).Return([]*transaction.Transaction{}, nil)

		svc := wallet.NewService(mockRepo, mockTxs, nil)
		total, err := svc.TotalInvested(ctx, 1)

		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestWalletService_HasSufficientBalance(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockWalletRepository)
	mockTxs := new(MockTransactionStore)
	mockRepo.On("Exists", ctx, int64(1)).Return(true, nil)
	mockTxs.On("GetByWallet", ctx, int64(1)).Return([]*transaction.Transaction{
		{Cryptocurrency: "BTC", Type: transaction.TypeBuy, Quantity: decimal.NewFromInt(1)},
		{Cryptocurrency: "BTC", Type: transaction.TypeSell, Quantity: decimal.NewFromFloat(0.4)},
	}, nil)

	svc := wallet.NewService(mockRepo, mockTxs, nil)

	sufficient, err := svc.HasSufficientBalance(ctx, 1, "btc", decimal.NewFromFloat(0.5))
	require.NoError(t, err)
	assert.True(t, sufficient)

	sufficient, err = svc.HasSufficientBalance(ctx, 1, "BTC", decimal.NewFromFloat(0.7))
	require.NoError(t, err)
	assert.False(t, sufficient)

	sufficient, err = svc.HasSufficientBalance(ctx, 1, "ETH", decimal.NewFromFloat(0.1))
	require.NoError(t, err)
	assert.False(t, sufficient)
}
