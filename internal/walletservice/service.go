// Package walletservice manages business logic layer of wallets.
package walletservice

import (
	"context"
	"strings"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by wallet service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package walletservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateWalletParams) (domain.Wallet, error)
	Get(ctx context.Context, ownerID string, id int64) (domain.Wallet, error)
	List(ctx context.Context, ownerID string) ([]domain.Wallet, error)
}

// Service facilitates wallet service layer logic.
type Service struct {
	repo   Repo
	broker livefeed.Broker
}

// New returns wallet service struct to manage wallet business logic.
func New(wr Repo, b livefeed.Broker) *Service {
	return &Service{repo: wr, broker: b}
}

// Create validates the input and creates a wallet with the given opening balance.
func (s *Service) Create(ctx context.Context, ownerID, name string, kind domain.WalletKind, balance, currency string) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	if !kind.Valid() {
		l.Info().Str("kind", string(kind)).Err(domain.ErrInvalidWalletKind).Send()
		return domain.Wallet{}, domain.ErrInvalidWalletKind
	}

	if !currencypkg.IsSupportedCurrency(currency) {
		l.Info().Str("currency", currency).Err(domain.ErrUnsupportedCurrency).Send()
		return domain.Wallet{}, domain.ErrUnsupportedCurrency
	}

	opening := decimal.Zero
	if balance = strings.TrimSpace(balance); balance != "" {
		var err error

		opening, err = decimal.NewFromString(balance)
		if err == nil && !domain.FitsMoneyScale(opening) {
			err = domain.ErrInvalidBalance
		}
		if err != nil {
			l.Info().Str("balance", balance).Err(err).Send()
			return domain.Wallet{}, domain.ErrInvalidBalance
		}
	}

	w, err := s.repo.Create(ctx, domain.CreateWalletParams{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(name),
		Kind:     kind,
		Balance:  opening,
		Currency: currency,
	})
	if err != nil {
		return domain.Wallet{}, err
	}

	if err := s.broker.Publish(ctx, livefeed.WalletsTopic(ownerID)); err != nil {
		l.Warn().Err(err).Msg("cannot publish wallet change")
	}

	return w, nil
}

// Get returns the owner's wallet with the given id.
func (s *Service) Get(ctx context.Context, ownerID string, id int64) (domain.Wallet, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List returns the owner's wallets ordered by creation time.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	return s.repo.List(ctx, ownerID)
}

// Watch streams the owner's wallet list, reloaded after every wallet change.
func (s *Service) Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Wallet], error) {
	return livefeed.Watch(ctx, s.broker, livefeed.WalletsTopic(ownerID), func(ctx context.Context) ([]domain.Wallet, error) {
		return s.repo.List(ctx, ownerID)
	})
}
