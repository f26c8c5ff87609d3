package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrWalletNotFound indicates that the wallet does not exist or belongs to another owner.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrInvalidWalletKind indicates an unknown wallet kind.
	ErrInvalidWalletKind = errors.New("invalid wallet kind")
	// ErrInvalidBalance indicates an unparsable opening balance.
	ErrInvalidBalance = errors.New("invalid balance")
	// ErrUnsupportedCurrency indicates a currency outside the supported set.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// WalletKind is the type of a wallet.
type WalletKind string

// Supported wallet kinds.
const (
	WalletBank WalletKind = "bank"
	WalletCard WalletKind = "card"
	WalletApp  WalletKind = "app"
)

// WalletKinds lists every valid wallet kind.
var WalletKinds = []WalletKind{WalletBank, WalletCard, WalletApp}

// Valid reports whether k is a known wallet kind.
func (k WalletKind) Valid() bool {
	switch k {
	case WalletBank, WalletCard, WalletApp:
		return true
	}

	return false
}

// Wallet is a named account holding a running balance in one currency.
type Wallet struct {
	ID        int64           `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Name      string          `json:"name"`
	Kind      WalletKind      `json:"kind"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateWalletParams is the input data to create a wallet.
type CreateWalletParams struct {
	OwnerID  string
	Name     string
	Kind     WalletKind
	Balance  decimal.Decimal
	Currency string
}
