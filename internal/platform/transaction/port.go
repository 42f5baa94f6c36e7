package transaction

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data access
type Repository interface {
	// Create persists a new transaction and assigns its ID
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by ID
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// GetAll retrieves all transactions
	GetAll(ctx context.Context) ([]*Transaction, error)

	// GetByWallet retrieves all transactions owned by a wallet
	GetByWallet(ctx context.Context, walletID int64) ([]*Transaction, error)

	// GetByWalletAndAsset retrieves a wallet's transactions for one ticker
	GetByWalletAndAsset(ctx context.Context, walletID int64, symbol string) ([]*Transaction, error)

	// GetByWalletAndType retrieves a wallet's transactions of one type
	GetByWalletAndType(ctx context.Context, walletID int64, txType Type) ([]*Transaction, error)

	// GetByWalletAndDateRange retrieves a wallet's transactions within [start, end]
	GetByWalletAndDateRange(ctx context.Context, walletID int64, start, end time.Time) ([]*Transaction, error)

	// GetLatestByWallet retrieves the wallet's most recent transaction by
	// transaction date, highest ID winning ties
	GetLatestByWallet(ctx context.Context, walletID int64) (*Transaction, error)

	// Update replaces an existing transaction
	Update(ctx context.Context, tx *Transaction) error

	// Delete deletes a transaction by ID
	Delete(ctx context.Context, id int64) error

	// Exists checks if a transaction with the given ID exists
	Exists(ctx context.Context, id int64) (bool, error)

	// CountByWallet counts the transactions owned by a wallet
	CountByWallet(ctx context.Context, walletID int64) (int64, error)
}

// WalletStore is the slice of the wallet repository this service needs to
// verify ownership targets
type WalletStore interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BalanceInvalidator invalidates cached balance data for a wallet after its
// transaction history changes
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, walletID int64) error
}
