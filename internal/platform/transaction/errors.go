package transaction

import "errors"

var (
	// Validation errors
	ErrMissingCryptocurrency     = errors.New("cryptocurrency is required")
	ErrUnsupportedCryptocurrency = errors.New("unsupported cryptocurrency")
	ErrMissingType               = errors.New("transaction type is required")
	ErrInvalidType               = errors.New("invalid transaction type (must be BUY or SELL)")
	ErrInvalidQuantity           = errors.New("quantity must be greater than zero")
	ErrInvalidPrice              = errors.New("price per unit must be greater than zero")
	ErrFutureDate                = errors.New("transaction date cannot be in the future")
	ErrNotesTooLong              = errors.New("notes exceed 255 characters")

	// Business rule errors
	ErrInsufficientBalance = errors.New("insufficient balance for sale")

	// Repository errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrWalletNotFound      = errors.New("wallet not found")
)
