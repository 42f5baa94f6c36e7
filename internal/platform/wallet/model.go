package wallet

import (
	"strings"
	"time"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 255
)

// Wallet represents a named portfolio owning zero or more transactions
type Wallet struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks wallet fields
func (w *Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrMissingName
	}

	if len(w.Name) > maxNameLength {
		return ErrNameTooLong
	}

	if len(w.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}

	return nil
}
