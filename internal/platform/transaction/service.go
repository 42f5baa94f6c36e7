package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/internal/platform/crypto"
)

// Service provides business logic for transaction operations
type Service struct {
	repo    Repository
	wallets WalletStore
	cache   BalanceInvalidator
}

// NewService creates a new transaction service. cache may be nil, in which
// case no invalidation is performed.
func NewService(repo Repository, wallets WalletStore, cache BalanceInvalidator) *Service {
	return &Service{
		repo:    repo,
		wallets: wallets,
		cache:   cache,
	}
}

// Create validates and persists a new transaction under an existing wallet.
// SELL transactions are gated on the wallet holding enough of the asset,
// derived from its full transaction history.
func (s *Service) Create(ctx context.Context, walletID int64, tx *Transaction) (*Transaction, error) {
	exists, err := s.wallets.Exists(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if !exists {
		return nil, ErrWalletNotFound
	}

	// Wallet binding is assigned here and never changes afterwards
	tx.WalletID = walletID

	if err := tx.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}
	tx.ComputeTotalValue()

	if tx.Type == TypeSell {
		sufficient, err := s.CheckSufficientBalance(ctx, walletID, tx.Cryptocurrency, tx.Quantity)
		if err != nil {
			return nil, err
		}
		if !sufficient {
			return nil, fmt.Errorf("%w: %s %s", ErrInsufficientBalance, tx.Quantity, tx.Cryptocurrency)
		}
	}

	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.invalidateBalance(ctx, walletID)
	return tx, nil
}

// Update replaces an existing transaction. The original wallet binding is
// preserved regardless of what the caller supplies; every other field is
// replaced. Sell sufficiency is not re-checked on update.
func (s *Service) Update(ctx context.Context, id int64, details *Transaction) (*Transaction, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details.ID = id
	details.WalletID = existing.WalletID
	details.CreatedAt = existing.CreatedAt

	if err := details.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}
	details.ComputeTotalValue()
	details.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, details); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.invalidateBalance(ctx, existing.WalletID)
	return details, nil
}

// Delete removes a transaction by ID
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.invalidateBalance(ctx, existing.WalletID)
	return nil
}

// CheckSufficientBalance reports whether the wallet's net holdings of the
// asset cover the requested quantity. The ticker is matched
// case-insensitively.
func (s *Service) CheckSufficientBalance(ctx context.Context, walletID int64, symbol string, quantity decimal.Decimal) (bool, error) {
	txs, err := s.repo.GetByWallet(ctx, walletID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch wallet transactions: %w", err)
	}

	balances := NetQuantities(txs)
	current := balances[crypto.Normalize(symbol)]
	return current.GreaterThanOrEqual(quantity), nil
}

// GetByID retrieves a transaction by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all transactions
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	txs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// ListByWallet retrieves all transactions of a wallet
func (s *Service) ListByWallet(ctx context.Context, walletID int64) ([]*Transaction, error) {
	txs, err := s.repo.GetByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txs, nil
}

// ListByWalletAndAsset retrieves a wallet's transactions for one ticker
func (s *Service) ListByWalletAndAsset(ctx context.Context, walletID int64, symbol string) ([]*Transaction, error) {
	txs, err := s.repo.GetByWalletAndAsset(ctx, walletID, crypto.Normalize(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by asset: %w", err)
	}
	return txs, nil
}

// ListByWalletAndType retrieves a wallet's transactions of one type
func (s *Service) ListByWalletAndType(ctx context.Context, walletID int64, txType Type) ([]*Transaction, error) {
	txs, err := s.repo.GetByWalletAndType(ctx, walletID, txType)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by type: %w", err)
	}
	return txs, nil
}

// ListByWalletAndDateRange retrieves a wallet's transactions within [start, end]
func (s *Service) ListByWalletAndDateRange(ctx context.Context, walletID int64, start, end time.Time) ([]*Transaction, error) {
	txs, err := s.repo.GetByWalletAndDateRange(ctx, walletID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	return txs, nil
}

// Latest retrieves the wallet's most recent transaction by transaction date.
// Returns ErrTransactionNotFound when the wallet has no transactions.
func (s *Service) Latest(ctx context.Context, walletID int64) (*Transaction, error) {
	return s.repo.GetLatestByWallet(ctx, walletID)
}

// StatsByWallet computes count and value summaries over a wallet's history
func (s *Service) StatsByWallet(ctx context.Context, walletID int64) (*Stats, error) {
	txs, err := s.repo.GetByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet transactions: %w", err)
	}

	stats := &Stats{
		TotalTransactions: int64(len(txs)),
		TotalInvested:     decimal.Zero,
		TotalWithdrawn:    decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Type {
		case TypeBuy:
			stats.BuyTransactions++
			stats.TotalInvested = stats.TotalInvested.Add(tx.TotalValue)
		case TypeSell:
			stats.SellTransactions++
			stats.TotalWithdrawn = stats.TotalWithdrawn.Add(tx.TotalValue)
		}
	}
	stats.NetInvestment = stats.TotalInvested.Sub(stats.TotalWithdrawn)

	return stats, nil
}

func (s *Service) invalidateBalance(ctx context.Context, walletID int64) {
	if s.cache == nil {
		return
	}
	// Cache errors must not fail the write; the cache logs them itself
	_ = s.cache.Invalidate(ctx, walletID)
}
