// Package movementservice manages business logic layer of movements.
package movementservice

import (
	"context"
	"strings"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by movement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package movementservice
type Repo interface {
	Record(ctx context.Context, arg domain.RecordMovementParams) (domain.RecordMovementResult, error)
	RecordUnscoped(ctx context.Context, arg domain.RecordUnscopedParams) (domain.Movement, error)
	List(ctx context.Context, ownerID string) ([]domain.Movement, error)
}

// Geocoder resolves the address of a map point.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) domain.Location
}

// Service facilitates movement service layer logic.
type Service struct {
	repo     Repo
	broker   livefeed.Broker
	geocoder Geocoder
}

// New returns movement service struct to manage movement business logic.
//
// The geocoder is optional. Without it a location keeps the address it was
// submitted with.
func New(mr Repo, b livefeed.Broker, g Geocoder) *Service {
	return &Service{repo: mr, broker: b, geocoder: g}
}

type movementInput struct {
	kind   domain.MovementKind
	amount decimal.Decimal
	date   domain.Date
}

func parseInput(ctx context.Context, kind domain.MovementKind, amount, date string) (movementInput, error) {
	l := zerolog.Ctx(ctx)

	if !kind.Valid() {
		l.Info().Str("kind", string(kind)).Err(domain.ErrInvalidMovementKind).Send()
		return movementInput{}, domain.ErrInvalidMovementKind
	}

	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		l.Info().Str("amount", amount).Err(err).Send()
		return movementInput{}, domain.ErrInvalidAmount
	}

	if !domain.FitsMoneyScale(a) {
		l.Info().Str("amount", amount).Err(domain.ErrInvalidAmount).Msg("too many decimal places")
		return movementInput{}, domain.ErrInvalidAmount
	}

	if !a.IsPositive() {
		l.Info().Str("amount", amount).Err(domain.ErrNonPositiveAmount).Send()
		return movementInput{}, domain.ErrNonPositiveAmount
	}

	d, err := domain.ParseDate(strings.TrimSpace(date))
	if err != nil {
		l.Info().Str("date", date).Err(err).Send()
		return movementInput{}, domain.ErrInvalidDate
	}

	return movementInput{kind: kind, amount: a, date: d}, nil
}

// userFacing keeps errors the user can act on and hides everything else
// behind the generic movement failure.
func userFacing(err error) error {
	switch err {
	case domain.ErrWalletNotFound,
		domain.ErrInvalidAmount,
		domain.ErrNonPositiveAmount,
		domain.ErrInvalidMovementKind,
		domain.ErrInvalidDate,
		domain.ErrUserNotFound:
		return err
	}

	return errorspkg.ErrMovementFailed
}

// Record validates the input and records a movement against the owner's
// wallet, updating its balance in the same atomic unit.
func (s *Service) Record(ctx context.Context, ownerID string, walletID int64, kind domain.MovementKind,
	amount, counterparty, date string) (domain.RecordMovementResult, error) {
	in, err := parseInput(ctx, kind, amount, date)
	if err != nil {
		return domain.RecordMovementResult{}, err
	}

	result, err := s.repo.Record(ctx, domain.RecordMovementParams{
		OwnerID:      ownerID,
		WalletID:     walletID,
		Kind:         in.kind,
		Amount:       in.amount,
		Counterparty: strings.TrimSpace(counterparty),
		Date:         in.date,
	})
	if err != nil {
		return domain.RecordMovementResult{}, userFacing(err)
	}

	s.publish(ctx, livefeed.WalletsTopic(ownerID), livefeed.MovementsTopic(ownerID))

	return result, nil
}

// RecordUnscoped validates the input and records a standalone movement that
// does not touch any wallet balance.
func (s *Service) RecordUnscoped(ctx context.Context, ownerID string, kind domain.MovementKind,
	amount, counterparty, date string, loc *domain.Location) (domain.Movement, error) {
	in, err := parseInput(ctx, kind, amount, date)
	if err != nil {
		return domain.Movement{}, err
	}

	if loc != nil {
		resolved := s.locate(ctx, *loc)
		loc = &resolved
	}

	m, err := s.repo.RecordUnscoped(ctx, domain.RecordUnscopedParams{
		OwnerID:      ownerID,
		Kind:         in.kind,
		Amount:       in.amount,
		Counterparty: strings.TrimSpace(counterparty),
		Date:         in.date,
		Location:     loc,
	})
	if err != nil {
		return domain.Movement{}, userFacing(err)
	}

	s.publish(ctx, livefeed.MovementsTopic(ownerID))

	return m, nil
}

func (s *Service) locate(ctx context.Context, loc domain.Location) domain.Location {
	if strings.TrimSpace(loc.Address) != "" || s.geocoder == nil {
		return loc
	}

	return s.geocoder.Reverse(ctx, loc.Lat, loc.Lng)
}

func (s *Service) publish(ctx context.Context, topics ...string) {
	for _, topic := range topics {
		if err := s.broker.Publish(ctx, topic); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("cannot publish movement change")
		}
	}
}

// List returns the owner's movements ordered by date, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Movement, error) {
	return s.repo.List(ctx, ownerID)
}

// Watch streams the owner's movements, reloaded after every movement change.
func (s *Service) Watch(ctx context.Context, ownerID string) (*livefeed.Stream[[]domain.Movement], error) {
	return livefeed.Watch(ctx, s.broker, livefeed.MovementsTopic(ownerID), func(ctx context.Context) ([]domain.Movement, error) {
		return s.repo.List(ctx, ownerID)
	})
}
