package wallet

import "errors"

var (
	// Validation errors
	ErrMissingName        = errors.New("wallet name is required")
	ErrNameTooLong        = errors.New("wallet name exceeds 100 characters")
	ErrDescriptionTooLong = errors.New("wallet description exceeds 255 characters")

	// Business rule errors
	ErrWalletHasTransactions = errors.New("cannot delete wallet with associated transactions")

	// Repository errors
	ErrWalletNotFound = errors.New("wallet not found")
)
