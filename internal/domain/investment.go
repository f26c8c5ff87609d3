package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a tracked position outside the wallets.
type Investment struct {
	ID           int64           `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	CurrentValue decimal.Decimal `json:"current_value"`
	StartDate    Date            `json:"start_date"`
	LastUpdate   time.Time       `json:"last_update"`
}

// CreateInvestmentParams is the input data to create an investment.
type CreateInvestmentParams struct {
	OwnerID      string
	Name         string
	Kind         string
	Amount       decimal.Decimal
	CurrentValue decimal.Decimal
	StartDate    Date
}
