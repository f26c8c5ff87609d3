// Package investmentservice manages business logic layer of investments.
package investmentservice

import (
	"context"
	"strings"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by investment service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package investmentservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateInvestmentParams) (domain.Investment, error)
	List(ctx context.Context, ownerID string) ([]domain.Investment, error)
}

// Service facilitates investment service layer logic.
type Service struct {
	repo   Repo
	broker livefeed.Broker
}

// New returns investment service struct to manage investment business logic.
func New(ir Repo, b livefeed.Broker) *Service {
	return &Service{repo: ir, broker: b}
}

// Create validates the input and creates an investment. An empty current
// value starts out equal to the invested amount.
func (s *Service) Create(ctx context.Context, ownerID, name, kind, amount, currentValue, startDate string) (domain.Investment, error) {
	l := zerolog.Ctx(ctx)

	invested, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err == nil && !domain.FitsMoneyScale(invested) {
		err = domain.ErrInvalidAmount
	}
	if err != nil {
		l.Info().Str("amount", amount).Err(err).Send()
		return domain.Investment{}, domain.ErrInvalidAmount
	}

	if !invested.IsPositive() {
		return domain.Investment{}, domain.ErrNonPositiveAmount
	}

	current := invested
	if v := strings.TrimSpace(currentValue); v != "" {
		current, err = decimal.NewFromString(v)
		if err != nil || current.IsNegative() || !domain.FitsMoneyScale(current) {
			l.Info().Str("current_value", currentValue).Err(err).Send()
			return domain.Investment{}, domain.ErrInvalidAmount
		}
	}

	start, err := domain.ParseDate(strings.TrimSpace(startDate))
	if err != nil {
		l.Info().Str("start_date", startDate).Err(err).Send()
		return domain.Investment{}, domain.ErrInvalidDate
	}

	inv, err := s.repo.Create(ctx, domain.CreateInvestmentParams{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(name),
		Kind:         strings.TrimSpace(kind),
		Amount:       invested,
		CurrentValue: current,
		StartDate:    start,
	})
	if err != nil {
		return domain.Investment{}, err
	}

	if err := s.broker.Publish(ctx, livefeed.InvestmentsTopic(ownerID)); err != nil {
		l.Warn().Err(err).Msg("cannot publish investment change")
	}

	return inv, nil
}

// List returns the owner's investments ordered by start date.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Investment, error) {
	return s.repo.List(ctx, ownerID)
}

// Watch streams the owner's investments, reloaded after every investment change.
func (s *Service) Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Investment], error) {
	return livefeed.Watch(ctx, s.broker, livefeed.InvestmentsTopic(ownerID), func(ctx context.Context) ([]domain.Investment, error) {
		return s.repo.List(ctx, ownerID)
	})
}
