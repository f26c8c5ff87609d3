package test

import (
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
)

// RandomWallet returns random wallet owned by the given owner.
func RandomWallet(ownerID string) domain.Wallet {
	now := time.Now().Truncate(time.Second).UTC()

	return domain.Wallet{
		ID:        randompkg.IntBetween(1, 100),
		OwnerID:   ownerID,
		Name:      randompkg.Name(),
		Kind:      domain.WalletKinds[randompkg.Intn(len(domain.WalletKinds))],
		Balance:   randompkg.MoneyAmountBetween(1000, 10_000),
		Currency:  randompkg.Currency(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RandomMovement returns random movement of the owner recorded against wallet.
func RandomMovement(ownerID string, wallet domain.WalletRef) domain.Movement {
	kind := domain.Income
	if randompkg.Intn(2) == 0 {
		kind = domain.Expense
	}

	return domain.Movement{
		ID:           randompkg.IntBetween(1, 1000),
		OwnerID:      ownerID,
		Wallet:       wallet,
		Kind:         kind,
		Amount:       randompkg.MoneyAmountBetween(1, 500),
		Counterparty: randompkg.Name(),
		Date:         domain.DateOf(time.Now()),
		CreatedAt:    time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomInvestment returns random investment owned by the given owner.
func RandomInvestment(ownerID string) domain.Investment {
	return domain.Investment{
		ID:           randompkg.IntBetween(1, 100),
		OwnerID:      ownerID,
		Name:         randompkg.Name(),
		Kind:         "stocks",
		Amount:       randompkg.MoneyAmountBetween(100, 1000),
		CurrentValue: randompkg.MoneyAmountBetween(100, 1000),
		StartDate:    domain.NewDate(2024, time.January, 15),
		LastUpdate:   time.Now().Truncate(time.Second).UTC(),
	}
}
