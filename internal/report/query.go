package report

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-petr/pet-wallet/internal/domain"
)

// ErrInvalidWalletFilter indicates a wallet filter that is neither "all" nor a wallet id.
var ErrInvalidWalletFilter = errors.New("invalid wallet filter")

// All is the query value that disables the type and wallet filters.
const All = "all"

// Query is the query string form of a Filter.
type Query struct {
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	Type         string `form:"type"`
	WalletID     string `form:"wallet_id"`
	Counterparty string `form:"counterparty"`
}

// Filter converts q into a Filter. Missing dates default to the last month up
// to today, and missing type or wallet values filter nothing.
func (q Query) Filter(today domain.Date) (Filter, error) {
	f := DefaultFilter(today)

	if s := strings.TrimSpace(q.StartDate); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return Filter{}, domain.ErrInvalidDate
		}
		f.Range.Start = d
	}

	if s := strings.TrimSpace(q.EndDate); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return Filter{}, domain.ErrInvalidDate
		}
		f.Range.End = d
	}

	switch kind := domain.MovementKind(strings.ToLower(strings.TrimSpace(q.Type))); kind {
	case "", All:
	default:
		if !kind.Valid() {
			return Filter{}, domain.ErrInvalidMovementKind
		}
		f.Kind = ByValue(kind)
	}

	switch s := strings.TrimSpace(q.WalletID); s {
	case "", All:
	default:
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			return Filter{}, ErrInvalidWalletFilter
		}
		f.Wallet = ByValue(id)
	}

	f.Counterparty = strings.TrimSpace(q.Counterparty)

	return f, nil
}
