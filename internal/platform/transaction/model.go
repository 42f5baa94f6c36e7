package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/internal/platform/crypto"
)

// Type represents the direction of a transaction
type Type string

const (
	TypeBuy  Type = "BUY"
	TypeSell Type = "SELL"
)

// IsValid checks if the transaction type is valid
func (t Type) IsValid() bool {
	return t == TypeBuy || t == TypeSell
}

// ParseType parses a transaction type from its string form, case-insensitively
func ParseType(s string) (Type, error) {
	t := Type(crypto.Normalize(s))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Transaction represents a single buy or sell of a crypto asset within a wallet
type Transaction struct {
	ID              int64           `json:"id" db:"id"`
	WalletID        int64           `json:"wallet_id" db:"wallet_id"`
	Cryptocurrency  string          `json:"cryptocurrency" db:"cryptocurrency"`
	Type            Type            `json:"transaction_type" db:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`
	TotalValue      decimal.Decimal `json:"total_value" db:"total_value"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// maxNotesLength is the upper bound for the free-text notes field
const maxNotesLength = 255

// Validate checks transaction fields in a fixed order and returns the first
// violation. The cryptocurrency ticker is normalized to uppercase in place
// and the transaction date is defaulted to now when unset.
func (t *Transaction) Validate(now time.Time) error {
	if crypto.Normalize(t.Cryptocurrency) == "" {
		return ErrMissingCryptocurrency
	}
	if !crypto.Supported(t.Cryptocurrency) {
		return ErrUnsupportedCryptocurrency
	}
	t.Cryptocurrency = crypto.Normalize(t.Cryptocurrency)

	if t.Type == "" {
		return ErrMissingType
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}

	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}

	if t.PricePerUnit.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}

	if t.TransactionDate.IsZero() {
		t.TransactionDate = now
	}
	if t.TransactionDate.After(now) {
		return ErrFutureDate
	}

	if len(t.Notes) > maxNotesLength {
		return ErrNotesTooLong
	}

	return nil
}

// ComputeTotalValue fills in TotalValue from Quantity and PricePerUnit when
// the caller did not supply one. A supplied total is kept as-is, even when it
// disagrees with quantity x price.
func (t *Transaction) ComputeTotalValue() {
	if t.TotalValue.IsZero() {
		t.TotalValue = t.PricePerUnit.Mul(t.Quantity)
	}
}

// NetQuantities folds a transaction list into net quantity held per asset:
// BUY adds, SELL subtracts. Keys are normalized uppercase tickers. Assets
// that were fully sold off keep their (zero or negative) entry; callers that
// only report open positions filter those out.
func NetQuantities(txs []*Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		symbol := crypto.Normalize(tx.Cryptocurrency)
		switch tx.Type {
		case TypeBuy:
			balances[symbol] = balances[symbol].Add(tx.Quantity)
		case TypeSell:
			balances[symbol] = balances[symbol].Sub(tx.Quantity)
		}
	}
	return balances
}

// Stats summarizes the transactions of one wallet
type Stats struct {
	TotalTransactions int64           `json:"total_transactions"`
	BuyTransactions   int64           `json:"buy_transactions"`
	SellTransactions  int64           `json:"sell_transactions"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalWithdrawn    decimal.Decimal `json:"total_withdrawn"`
	NetInvestment     decimal.Decimal `json:"net_investment"`
}
