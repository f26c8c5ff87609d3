package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates an unparsable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates an amount that is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInvalidMovementKind indicates an unknown movement kind.
	ErrInvalidMovementKind = errors.New("invalid movement kind")
	// ErrInvalidDate indicates a missing or malformed movement date.
	ErrInvalidDate = errors.New("invalid date")
)

// MoneyScale is the number of decimal places kept by money columns.
const MoneyScale = 4

// FitsMoneyScale reports whether d is stored without rounding.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// MovementKind tells whether a movement adds to or takes from a balance.
type MovementKind string

// Supported movement kinds.
const (
	Income  MovementKind = "income"
	Expense MovementKind = "expense"
)

// Valid reports whether k is a known movement kind.
func (k MovementKind) Valid() bool {
	return k == Income || k == Expense
}

// Apply returns balance after a movement of kind k and the given amount.
//
// Amount is the stored, non-negative value; the sign comes from k.
func (k MovementKind) Apply(balance, amount decimal.Decimal) decimal.Decimal {
	if k == Income {
		return balance.Add(amount)
	}

	return balance.Sub(amount)
}

// WalletRef is the relation of a movement to a wallet.
//
// Movements recorded through the balance-consistency operation are
// wallet scoped. Legacy standalone entries are unscoped and never count
// towards a wallet balance.
type WalletRef struct {
	id     int64
	scoped bool
}

// WalletScoped references the wallet with the given id.
func WalletScoped(walletID int64) WalletRef {
	return WalletRef{id: walletID, scoped: true}
}

// Unscoped references no wallet.
func Unscoped() WalletRef {
	return WalletRef{}
}

// WalletID returns the referenced wallet id, if any.
func (r WalletRef) WalletID() (int64, bool) {
	return r.id, r.scoped
}

// IsScoped reports whether the movement references a wallet.
func (r WalletRef) IsScoped() bool {
	return r.scoped
}

// Equal reports whether both references point to the same wallet or are both unscoped.
func (r WalletRef) Equal(o WalletRef) bool {
	return r == o
}

// MarshalJSON encodes the reference as a wallet id or null.
func (r WalletRef) MarshalJSON() ([]byte, error) {
	if !r.scoped {
		return []byte("null"), nil
	}

	return json.Marshal(r.id)
}

// UnmarshalJSON decodes a wallet id or null.
func (r *WalletRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Unscoped()
		return nil
	}

	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}

	*r = WalletScoped(id)

	return nil
}

// Location is a picked map point with its resolved address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Movement is a single dated income or expense event.
type Movement struct {
	ID           int64           `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Wallet       WalletRef       `json:"wallet_id"`
	Kind         MovementKind    `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty"`
	Date         Date            `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
	Location     *Location       `json:"location,omitempty"`
}

// RecordMovementParams is the input of the balance-consistency operation.
type RecordMovementParams struct {
	OwnerID      string
	WalletID     int64
	Kind         MovementKind
	Amount       decimal.Decimal
	Counterparty string
	Date         Date
}

// RecordUnscopedParams is the input of a standalone ledger entry.
type RecordUnscopedParams struct {
	OwnerID      string
	Kind         MovementKind
	Amount       decimal.Decimal
	Counterparty string
	Date         Date
	Location     *Location
}

// RecordMovementResult is the outcome of the balance-consistency operation.
type RecordMovementResult struct {
	Movement Movement `json:"movement"`
	Wallet   Wallet   `json:"wallet"`
}
