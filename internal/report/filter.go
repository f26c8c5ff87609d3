// Package report filters movements and aggregates them into chartable views.
//
// Everything here is pure: the same input always yields the same output and
// nothing is cached between calls.
package report

import (
	"strings"

	"github.com/go-petr/pet-wallet/internal/domain"
)

// Option is either no filter or a filter on one value.
type Option[T comparable] struct {
	value T
	set   bool
}

// NoFilter returns an option that matches every value.
func NoFilter[T comparable]() Option[T] {
	return Option[T]{}
}

// ByValue returns an option that matches only v.
func ByValue[T comparable](v T) Option[T] {
	return Option[T]{value: v, set: true}
}

// Value returns the filtered value, if any.
func (o Option[T]) Value() (T, bool) {
	return o.value, o.set
}

// Matches reports whether v passes the option.
func (o Option[T]) Matches(v T) bool {
	return !o.set || o.value == v
}

// Filter selects the movements shown in a view. All criteria must hold.
type Filter struct {
	Range        domain.DateRange
	Kind         Option[domain.MovementKind]
	Wallet       Option[int64]
	Counterparty string
}

// DefaultFilter returns the filter used when none is given: the last month up
// to today with every kind, wallet and counterparty.
func DefaultFilter(today domain.Date) Filter {
	return Filter{Range: domain.LastMonth(today)}
}

// Match reports whether m satisfies every criterion of f.
func (f Filter) Match(m domain.Movement) bool {
	if !f.Range.Contains(m.Date) {
		return false
	}

	if !f.Kind.Matches(m.Kind) {
		return false
	}

	if walletID, ok := f.Wallet.Value(); ok {
		id, scoped := m.Wallet.WalletID()
		if !scoped || id != walletID {
			return false
		}
	}

	if f.Counterparty != "" &&
		!strings.Contains(strings.ToLower(m.Counterparty), strings.ToLower(f.Counterparty)) {
		return false
	}

	return true
}

// Apply returns the movements matching f, in their original order.
func (f Filter) Apply(movements []domain.Movement) []domain.Movement {
	out := make([]domain.Movement, 0, len(movements))

	for _, m := range movements {
		if f.Match(m) {
			out = append(out, m)
		}
	}

	return out
}
