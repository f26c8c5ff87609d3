package sessionrepo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "user_id", "refresh_token", "user_agent", "client_ip", "is_blocked", "expires_at", "created_at",
}

func newMock(t *testing.T) (*RepoPGS, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewRepoPGS(db), mock
}

func randomSession() domain.Session {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.Session{
		ID:           uuid.New(),
		UserID:       randompkg.UserID(),
		RefreshToken: randompkg.String(32),
		UserAgent:    randompkg.String(10),
		ClientIP:     "127.0.0.1",
		ExpiresAt:    now.Add(time.Hour),
		CreatedAt:    now,
	}
}

func sessionRow(s domain.Session) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		s.ID.String(), s.UserID, s.RefreshToken, s.UserAgent, s.ClientIP, s.IsBlocked, s.ExpiresAt, s.CreatedAt,
	)
}

func TestCreate(t *testing.T) {
	s := randomSession()
	arg := domain.CreateSessionParams{
		ID:           s.ID,
		UserID:       s.UserID,
		RefreshToken: s.RefreshToken,
		UserAgent:    s.UserAgent,
		ClientIP:     s.ClientIP,
		ExpiresAt:    s.ExpiresAt,
	}

	testCases := []struct {
		name      string
		buildStub func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "OK",
			buildStub: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
					WithArgs(arg.ID, arg.UserID, arg.RefreshToken, arg.UserAgent, arg.ClientIP, arg.IsBlocked, arg.ExpiresAt).
					WillReturnRows(sessionRow(s))
			},
		},
		{
			name: "UnknownUser",
			buildStub: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
					WillReturnError(&pq.Error{Code: "23503", Constraint: "sessions_user_id_fkey"})
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "InternalError",
			buildStub: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMock(t)
			tc.buildStub(mock)

			got, err := repo.Create(context.Background(), arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, got)

				return
			}

			require.NoError(t, err)
			require.Equal(t, s, got)
		})
	}
}

func TestGet(t *testing.T) {
	s := randomSession()

	t.Run("OK", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(GetQuery)).
			WithArgs(s.ID).
			WillReturnRows(sessionRow(s))

		got, err := repo.Get(context.Background(), s.ID)
		require.NoError(t, err)
		require.Equal(t, s, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(GetQuery)).
			WithArgs(s.ID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), s.ID)
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("InternalError", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(GetQuery)).
			WithArgs(s.ID).
			WillReturnError(sql.ErrConnDone)

		_, err := repo.Get(context.Background(), s.ID)
		require.ErrorIs(t, err, errorspkg.ErrInternal)
	})
}

func TestBlock(t *testing.T) {
	id := uuid.New()

	t.Run("OK", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta(BlockQuery)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Block(context.Background(), id))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta(BlockQuery)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.Block(context.Background(), id), domain.ErrSessionNotFound)
	})

	t.Run("InternalError", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta(BlockQuery)).
			WithArgs(id).
			WillReturnError(errors.New("connection reset"))

		require.ErrorIs(t, repo.Block(context.Background(), id), errorspkg.ErrInternal)
	})
}
