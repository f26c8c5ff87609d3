// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/sessionrepo"
	"github.com/go-petr/pet-wallet/internal/userrepo"
	"github.com/go-petr/pet-wallet/internal/walletrepo"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/passpkg"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedUser creates random User with the given password inside a test transaction.
func SeedUser(t *testing.T, tx dbpkg.SQLInterface, password string) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		t.Fatalf("passpkg.Hash(%q) returned error: %v", password, err)
	}

	arg := domain.CreateUserParams{
		ID:             uuid.NewString(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
	}

	userRepo := userrepo.NewRepoPGS(tx)
	user, err := userRepo.Create(context.Background(), arg)

	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedWallet creates a bank wallet in USD with the given opening balance inside a test transaction.
func SeedWallet(t *testing.T, tx dbpkg.SQLInterface, ownerID, balance string) domain.Wallet {
	t.Helper()

	arg := domain.CreateWalletParams{
		OwnerID:  ownerID,
		Name:     randompkg.Name(),
		Kind:     domain.WalletBank,
		Balance:  decimal.RequireFromString(balance),
		Currency: currencypkg.USD,
	}

	walletRepo := walletrepo.NewRepoPGS(tx)

	wallet, err := walletRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("walletRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return wallet
}

// SeedSession stores the session described by arg inside a test transaction.
func SeedSession(t *testing.T, tx dbpkg.SQLInterface, arg domain.CreateSessionParams) domain.Session {
	t.Helper()

	sessionRepo := sessionrepo.NewRepoPGS(tx)

	session, err := sessionRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("sessionRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return session
}
