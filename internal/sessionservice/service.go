// Package sessionservice manages business logic layer of sessions.
package sessionservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by session service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sessionservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateSessionParams) (domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Block(ctx context.Context, id uuid.UUID) error
}

// Service facilitates session service layer logic.
type Service struct {
	repo       Repo
	tokenMaker tokenpkg.Maker
	broker     livefeed.Broker
	config     configpkg.Config
}

// New returns session service struct to manage session business logic.
func New(sr Repo, config configpkg.Config, tm tokenpkg.Maker, b livefeed.Broker) (*Service, error) {
	if tm == nil {
		return nil, errors.New("session service needs a token maker")
	}

	return &Service{
		repo:       sr,
		tokenMaker: tm,
		broker:     b,
		config:     config,
	}, nil
}

// Create issues an access token and a refresh token and stores the refresh
// token's session.
func (s *Service) Create(ctx context.Context, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error) {
	l := zerolog.Ctx(ctx)

	accessToken, accessPayload, err := s.tokenMaker.CreateToken(arg.UserID, arg.Email, s.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", time.Time{}, domain.Session{}, err
	}

	refreshToken, refreshPayload, err := s.tokenMaker.CreateToken(arg.UserID, arg.Email, s.config.RefreshTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", time.Time{}, domain.Session{}, err
	}

	arg.ID = refreshPayload.ID
	arg.RefreshToken = refreshToken
	arg.ExpiresAt = refreshPayload.ExpiredAt

	sess, err := s.repo.Create(ctx, arg)
	if err != nil {
		return "", time.Time{}, domain.Session{}, err
	}

	return accessToken, accessPayload.ExpiredAt, sess, nil
}

// session verifies the refresh token and returns its active session.
func (s *Service) session(ctx context.Context, refreshToken string) (domain.Session, *tokenpkg.Payload, error) {
	l := zerolog.Ctx(ctx)

	refreshPayload, err := s.tokenMaker.VerifyToken(refreshToken)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Session{}, nil, err
	}

	sess, err := s.repo.Get(ctx, refreshPayload.ID)
	if err != nil {
		return domain.Session{}, nil, err
	}

	switch {
	case sess.IsBlocked:
		err = domain.ErrBlockedSession
	case sess.UserID != refreshPayload.UserID:
		err = domain.ErrInvalidUser
	case sess.RefreshToken != refreshToken:
		err = domain.ErrMismatchedRefreshToken
	case time.Now().After(sess.ExpiresAt):
		err = domain.ErrExpiredSession
	}

	if err != nil {
		l.Info().Err(err).Send()
		return domain.Session{}, nil, err
	}

	return sess, refreshPayload, nil
}

// RenewAccessToken issues a new access token for the session behind refreshToken.
func (s *Service) RenewAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	l := zerolog.Ctx(ctx)

	_, refreshPayload, err := s.session(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	accessToken, accessPayload, err := s.tokenMaker.CreateToken(
		refreshPayload.UserID, refreshPayload.Email, s.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", time.Time{}, err
	}

	return accessToken, accessPayload.ExpiredAt, nil
}

// SignOut blocks the session behind refreshToken and signals the owner's
// identity topic.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	l := zerolog.Ctx(ctx)

	sess, _, err := s.session(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.repo.Block(ctx, sess.ID); err != nil {
		return err
	}

	if err := s.broker.Publish(ctx, livefeed.IdentityTopic(sess.UserID)); err != nil {
		l.Warn().Err(err).Str("user_id", sess.UserID).Msg("cannot publish sign out")
	}

	return nil
}
