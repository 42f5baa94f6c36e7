package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/internal/platform/crypto"
	"github.com/joaoac/cryptofolio/internal/platform/transaction"
)

// Service provides business logic for wallet operations
type Service struct {
	repo         Repository
	transactions TransactionStore
	cache        BalanceCache
}

// NewService creates a new wallet service. cache may be nil, in which case
// balances are always computed from the transaction history.
func NewService(repo Repository, transactions TransactionStore, cache BalanceCache) *Service {
	return &Service{
		repo:         repo,
		transactions: transactions,
		cache:        cache,
	}
}

// Create validates and persists a new wallet
func (s *Service) Create(ctx context.Context, w *Wallet) (*Wallet, error) {
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := w.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return w, nil
}

// GetByID retrieves a wallet by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Wallet, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all wallets
func (s *Service) List(ctx context.Context) ([]*Wallet, error) {
	wallets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// SearchByName retrieves wallets whose name contains the given substring,
// case-insensitively
func (s *Service) SearchByName(ctx context.Context, name string) ([]*Wallet, error) {
	wallets, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search wallets: %w", err)
	}
	return wallets, nil
}

// Update overwrites the name and description of an existing wallet. Identity
// and creation time are preserved; the update timestamp is refreshed.
func (s *Service) Update(ctx context.Context, id int64, name, description string) (*Wallet, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return existing, nil
}

// Delete removes a wallet. Wallets still owning transactions cannot be
// deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if !exists {
		return ErrWalletNotFound
	}

	count, err := s.transactions.CountByWallet(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count wallet transactions: %w", err)
	}
	if count > 0 {
		return ErrWalletHasTransactions
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	return nil
}

// Balance computes the net quantity held per asset within a wallet. Assets
// whose net quantity is zero or negative are dropped: only open positions
// are reported.
func (s *Service) Balance(ctx context.Context, walletID int64) (map[string]decimal.Decimal, error) {
	exists, err := s.repo.Exists(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if !exists {
		return nil, ErrWalletNotFound
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, walletID); err == nil && ok {
			return cached, nil
		}
	}

	txs, err := s.transactions.GetByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet transactions: %w", err)
	}

	balances := transaction.NetQuantities(txs)
	for symbol, quantity := range balances {
		if quantity.LessThanOrEqual(decimal.Zero) {
			delete(balances, symbol)
		}
	}

	if s.cache != nil {
		// Best effort; the cache logs its own failures
		_ = s.cache.Set(ctx, walletID, balances)
	}

	return balances, nil
}

// TotalInvested sums the total value of the wallet's BUY transactions.
// Sales are not subtracted; this reports money put in, not net position.
func (s *Service) TotalInvested(ctx context.Context, walletID int64) (decimal.Decimal, error) {
	exists, err := s.repo.Exists(ctx, walletID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if !exists {
		return decimal.Zero, ErrWalletNotFound
	}

	txs, err := s.transactions.GetByWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch wallet transactions: %w", err)
	}

	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == transaction.TypeBuy {
			total = total.Add(tx.TotalValue)
		}
	}

	return total, nil
}

// HasSufficientBalance reports whether the wallet's open position in the
// asset covers the requested quantity
func (s *Service) HasSufficientBalance(ctx context.Context, walletID int64, symbol string, quantity decimal.Decimal) (bool, error) {
	balances, err := s.Balance(ctx, walletID)
	if err != nil {
		return false, err
	}

	current := balances[crypto.Normalize(symbol)]
	return current.GreaterThanOrEqual(quantity), nil
}
