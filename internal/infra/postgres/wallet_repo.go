package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaoac/cryptofolio/internal/platform/wallet"
)

// WalletRepository implements the wallet repository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create persists a new wallet and assigns its ID
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		w.Name,
		w.Description,
		w.CreatedAt,
		w.UpdatedAt,
	).Scan(&w.ID)

	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id int64) (*wallet.Wallet, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	w := &wallet.Wallet{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Name,
		&w.Description,
		&w.CreatedAt,
		&w.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return w, nil
}

// GetAll retrieves all wallets, newest first
func (r *WalletRepository) GetAll(ctx context.Context) ([]*wallet.Wallet, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM wallets
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// SearchByName retrieves wallets whose name contains the given substring,
// case-insensitively
func (r *WalletRepository) SearchByName(ctx context.Context, name string) ([]*wallet.Wallet, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM wallets
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search wallets: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// Update updates an existing wallet
func (r *WalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query,
		w.Name,
		w.Description,
		w.UpdatedAt,
		w.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// Delete deletes a wallet by ID
func (r *WalletRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM wallets WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// Exists checks if a wallet with the given ID exists
func (r *WalletRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	return exists, nil
}

func scanWallets(rows pgx.Rows) ([]*wallet.Wallet, error) {
	var wallets []*wallet.Wallet
	for rows.Next() {
		w := &wallet.Wallet{}
		err := rows.Scan(
			&w.ID,
			&w.Name,
			&w.Description,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}
