package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaoac/cryptofolio/internal/platform/transaction"
)

const transactionColumns = `id, wallet_id, cryptocurrency, transaction_type, quantity,
		price_per_unit, total_value, transaction_date, notes, created_at, updated_at`

// TransactionRepository implements the transaction repository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create persists a new transaction and assigns its ID
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			wallet_id, cryptocurrency, transaction_type, quantity,
			price_per_unit, total_value, transaction_date, notes,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		tx.WalletID,
		tx.Cryptocurrency,
		tx.Type,
		tx.Quantity,
		tx.PricePerUnit,
		tx.TotalValue,
		tx.TransactionDate,
		tx.Notes,
		tx.CreatedAt,
		tx.UpdatedAt,
	).Scan(&tx.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// GetAll retrieves all transactions, most recent first
func (r *TransactionRepository) GetAll(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY transaction_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByWallet retrieves all transactions owned by a wallet
func (r *TransactionRepository) GetByWallet(ctx context.Context, walletID int64) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY transaction_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByWalletAndAsset retrieves a wallet's transactions for one ticker
func (r *TransactionRepository) GetByWalletAndAsset(ctx context.Context, walletID int64, symbol string) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1 AND cryptocurrency = $2
		ORDER BY transaction_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, walletID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by asset: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByWalletAndType retrieves a wallet's transactions of one type
func (r *TransactionRepository) GetByWalletAndType(ctx context.Context, walletID int64, txType transaction.Type) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1 AND transaction_type = $2
		ORDER BY transaction_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, walletID, txType)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by type: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByWalletAndDateRange retrieves a wallet's transactions within [start, end]
func (r *TransactionRepository) GetByWalletAndDateRange(ctx context.Context, walletID int64, start, end time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, walletID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by date range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetLatestByWallet retrieves the wallet's most recent transaction. Ties on
// transaction date resolve to the highest ID.
func (r *TransactionRepository) GetLatestByWallet(ctx context.Context, walletID int64) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY transaction_date DESC, id DESC
		LIMIT 1
	`

	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get latest transaction: %w", err)
	}

	return tx, nil
}

// Update replaces an existing transaction
func (r *TransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET cryptocurrency = $1, transaction_type = $2, quantity = $3,
			price_per_unit = $4, total_value = $5, transaction_date = $6,
			notes = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.pool.Exec(ctx, query,
		tx.Cryptocurrency,
		tx.Type,
		tx.Quantity,
		tx.PricePerUnit,
		tx.TotalValue,
		tx.TransactionDate,
		tx.Notes,
		tx.UpdatedAt,
		tx.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound
	}

	return nil
}

// Delete deletes a transaction by ID
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound
	}

	return nil
}

// Exists checks if a transaction with the given ID exists
func (r *TransactionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}

	return exists, nil
}

// CountByWallet counts the transactions owned by a wallet
func (r *TransactionRepository) CountByWallet(ctx context.Context, walletID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	return count, nil
}

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	tx := &transaction.Transaction{}
	err := row.Scan(
		&tx.ID,
		&tx.WalletID,
		&tx.Cryptocurrency,
		&tx.Type,
		&tx.Quantity,
		&tx.PricePerUnit,
		&tx.TotalValue,
		&tx.TransactionDate,
		&tx.Notes,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func scanTransactions(rows pgx.Rows) ([]*transaction.Transaction, error) {
	var txs []*transaction.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}
