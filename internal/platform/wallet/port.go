package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/internal/platform/transaction"
)

// Repository defines the interface for wallet data access
type Repository interface {
	// Create persists a new wallet and assigns its ID
	Create(ctx context.Context, w *Wallet) error

	// GetByID retrieves a wallet by ID
	GetByID(ctx context.Context, id int64) (*Wallet, error)

	// GetAll retrieves all wallets
	GetAll(ctx context.Context) ([]*Wallet, error)

	// SearchByName retrieves wallets whose name contains the given
	// substring, case-insensitively
	SearchByName(ctx context.Context, name string) ([]*Wallet, error)

	// Update updates an existing wallet
	Update(ctx context.Context, w *Wallet) error

	// Delete deletes a wallet by ID
	Delete(ctx context.Context, id int64) error

	// Exists checks if a wallet with the given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}

// TransactionStore is the slice of the transaction repository the wallet
// service needs for balance computation and the deletion guard
type TransactionStore interface {
	GetByWallet(ctx context.Context, walletID int64) ([]*transaction.Transaction, error)
	CountByWallet(ctx context.Context, walletID int64) (int64, error)
}

// BalanceCache caches computed per-wallet balance maps
type BalanceCache interface {
	Get(ctx context.Context, walletID int64) (map[string]decimal.Decimal, bool, error)
	Set(ctx context.Context, walletID int64, balances map[string]decimal.Decimal) error
}
