// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"unicode/utf8"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/passpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// SignUp registers a new user and returns its identity.
func (s *Service) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	l := zerolog.Ctx(ctx)

	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		l.Info().Err(domain.ErrWeakPassword).Send()
		return domain.Identity{}, domain.ErrWeakPassword
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Identity{}, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
	}

	user, err := s.repo.Create(ctx, arg)
	if err != nil {
		return domain.Identity{}, err
	}

	return user.Identity(), nil
}

// SignIn checks the credentials and returns the matching identity.
//
// An unknown email and a wrong password are reported the same way.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}

		return domain.Identity{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return user.Identity(), nil
}
