package movementrepo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/walletrepo"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	walletColumns   = []string{"id", "owner_id", "name", "kind", "balance", "currency", "created_at", "updated_at"}
	movementCols = []string{
		"id", "owner_id", "wallet_id", "kind", "amount", "counterparty", "date",
		"location_lat", "location_lng", "location_address", "created_at",
	}
)

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

func walletRow(w domain.Wallet) *sqlmock.Rows {
	return sqlmock.NewRows(walletColumns).
		AddRow(w.ID, w.OwnerID, w.Name, string(w.Kind), w.Balance.String(), w.Currency, w.CreatedAt, w.UpdatedAt)
}

func movementRow(m domain.Movement) *sqlmock.Rows {
	return sqlmock.NewRows(movementCols).AddRow(movementValues(m)...)
}

func movementValues(m domain.Movement) []driver.Value {
	var walletID driver.Value
	if id, ok := m.Wallet.WalletID(); ok {
		walletID = id
	}

	var lat, lng, address driver.Value
	if m.Location != nil {
		lat, lng, address = m.Location.Lat, m.Location.Lng, m.Location.Address
	}

	return []driver.Value{
		m.ID, m.OwnerID, walletID, string(m.Kind), m.Amount.String(), m.Counterparty, m.Date.Time(),
		lat, lng, address, m.CreatedAt,
	}
}

func newWallet(ownerID string, balance string) domain.Wallet {
	now := time.Now().UTC().Truncate(time.Second)

	return domain.Wallet{
		ID:        randompkg.IntBetween(1, 1000),
		OwnerID:   ownerID,
		Name:      randompkg.Name(),
		Kind:      domain.WalletBank,
		Balance:   decimal.RequireFromString(balance),
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// expectRecord stubs one successful Record of arg against w and returns the
// wallet after the movement.
func expectRecord(mock sqlmock.Sqlmock, w domain.Wallet, arg domain.RecordMovementParams, movementID int64) domain.Wallet {
	updated := w
	updated.Balance = arg.Kind.Apply(w.Balance, arg.Amount)

	m := domain.Movement{
		ID:           movementID,
		OwnerID:      arg.OwnerID,
		Wallet:       domain.WalletScoped(w.ID),
		Kind:         arg.Kind,
		Amount:       arg.Amount,
		Counterparty: arg.Counterparty,
		Date:         arg.Date,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(walletrepo.GetForUpdateQuery)).
		WithArgs(w.ID, w.OwnerID).
		WillReturnRows(walletRow(w))
	mock.ExpectQuery(regexp.QuoteMeta(walletrepo.SetBalanceQuery)).
		WithArgs(updated.Balance, w.ID).
		WillReturnRows(walletRow(updated))
	mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
		WithArgs(arg.OwnerID, w.ID, arg.Kind, arg.Amount, arg.Counterparty, arg.Date, nil, nil, nil).
		WillReturnRows(movementRow(m))
	mock.ExpectCommit()

	return updated
}

func TestRecordKeepsBalanceConsistent(t *testing.T) {
	repo, mock := newMock(t)

	ownerID := randompkg.UserID()
	w := newWallet(ownerID, "100")
	date := domain.NewDate(2024, time.January, 2)

	expense := domain.RecordMovementParams{
		OwnerID:      ownerID,
		WalletID:     w.ID,
		Kind:         domain.Expense,
		Amount:       decimal.RequireFromString("30"),
		Counterparty: "Grocery",
		Date:         date,
	}
	income := domain.RecordMovementParams{
		OwnerID:      ownerID,
		WalletID:     w.ID,
		Kind:         domain.Income,
		Amount:       decimal.RequireFromString("15.50"),
		Counterparty: "Refund",
		Date:         date,
	}

	afterExpense := expectRecord(mock, w, expense, 1)
	expectRecord(mock, afterExpense, income, 2)

	got, err := repo.Record(context.Background(), expense)
	require.NoError(t, err)
	require.Equal(t, "70", got.Wallet.Balance.String())
	require.Equal(t, domain.WalletScoped(w.ID), got.Movement.Wallet)
	require.Equal(t, domain.Expense, got.Movement.Kind)

	got, err = repo.Record(context.Background(), income)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("85.50").Equal(got.Wallet.Balance))
	require.Equal(t, date, got.Movement.Date)
}

func TestRecordBalanceMatchesMovements(t *testing.T) {
	repo, mock := newMock(t)

	ownerID := randompkg.UserID()
	initial := randompkg.MoneyAmountBetween(0, 1000)
	w := newWallet(ownerID, initial.String())

	n := int(randompkg.IntBetween(5, 20))
	args := make([]domain.RecordMovementParams, n)
	want := initial

	for i := range args {
		kind := domain.Income
		if randompkg.Intn(2) == 0 {
			kind = domain.Expense
		}

		args[i] = domain.RecordMovementParams{
			OwnerID:      ownerID,
			WalletID:     w.ID,
			Kind:         kind,
			Amount:       randompkg.MoneyAmountBetween(1, 500),
			Counterparty: randompkg.Name(),
			Date:         domain.NewDate(2024, time.January, i+1),
		}

		w = expectRecord(mock, w, args[i], int64(i+1))
		want = kind.Apply(want, args[i].Amount)
	}

	var got domain.RecordMovementResult
	var err error

	for _, arg := range args {
		got, err = repo.Record(context.Background(), arg)
		require.NoError(t, err)
	}

	require.True(t, want.Equal(got.Wallet.Balance), "want %s, got %s", want, got.Wallet.Balance)
}

func TestRecordRollsBack(t *testing.T) {
	ownerID := randompkg.UserID()
	w := newWallet(ownerID, "100")
	arg := domain.RecordMovementParams{
		OwnerID:      ownerID,
		WalletID:     w.ID,
		Kind:         domain.Expense,
		Amount:       decimal.RequireFromString("30"),
		Counterparty: "Grocery",
		Date:         domain.NewDate(2024, time.January, 2),
	}

	testCases := []struct {
		name      string
		buildStub func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "BeginFails",
			buildStub: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			wantErr: errorspkg.ErrInternal,
		},
		{
			name: "WalletNotFound",
			buildStub: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(walletrepo.GetForUpdateQuery)).
					WithArgs(w.ID, ownerID).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrWalletNotFound,
		},
		{
			name: "UpdateFails",
			buildStub: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(walletrepo.GetForUpdateQuery)).
					WithArgs(w.ID, ownerID).
					WillReturnRows(walletRow(w))
				mock.ExpectQuery(regexp.QuoteMeta(walletrepo.SetBalanceQuery)).
					WillReturnError(errors.New("deadlock detected"))
				mock.ExpectRollback()
			},
			wantErr: errorspkg.ErrInternal,
		},
		{
			name: "InsertFails",
			buildStub: func(mock sqlmock.Sqlmock) {
				updated := w
				updated.Balance = decimal.RequireFromString("70")

				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(walletrepo.GetForUpdateQuery)).
					WithArgs(w.ID, ownerID).
					WillReturnRows(walletRow(w))
				mock.ExpectQuery(regexp.QuoteMeta(walletrepo.SetBalanceQuery)).
					WithArgs(updated.Balance, w.ID).
					WillReturnRows(walletRow(updated))
				mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
					WillReturnError(&pq.Error{Code: "23514", Constraint: "transactions_amount_check"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNonPositiveAmount,
		},
		{
			name: "CommitFails",
			buildStub: func(mock sqlmock.Sqlmock) {
				expectRecordUntilCommit(mock, w, arg)
				mock.ExpectCommit().WillReturnError(sql.ErrConnDone)
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMock(t)
			tc.buildStub(mock)

			got, err := repo.Record(context.Background(), arg)
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, got)
		})
	}
}

func expectRecordUntilCommit(mock sqlmock.Sqlmock, w domain.Wallet, arg domain.RecordMovementParams) {
	updated := w
	updated.Balance = arg.Kind.Apply(w.Balance, arg.Amount)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(walletrepo.GetForUpdateQuery)).
		WithArgs(w.ID, w.OwnerID).
		WillReturnRows(walletRow(w))
	mock.ExpectQuery(regexp.QuoteMeta(walletrepo.SetBalanceQuery)).
		WithArgs(updated.Balance, w.ID).
		WillReturnRows(walletRow(updated))
	mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
		WillReturnRows(movementRow(domain.Movement{
			ID:           1,
			OwnerID:      arg.OwnerID,
			Wallet:       domain.WalletScoped(w.ID),
			Kind:         arg.Kind,
			Amount:       arg.Amount,
			Counterparty: arg.Counterparty,
			Date:         arg.Date,
			CreatedAt:    time.Now().UTC(),
		}))
}

func TestRecordUnscoped(t *testing.T) {
	ownerID := randompkg.UserID()
	loc := &domain.Location{Lat: 51.5, Lng: -0.09, Address: "London"}
	arg := domain.RecordUnscopedParams{
		OwnerID:      ownerID,
		Kind:         domain.Income,
		Amount:       decimal.RequireFromString("12.25"),
		Counterparty: "Market",
		Date:         domain.NewDate(2024, time.March, 5),
		Location:     loc,
	}

	t.Run("WithLocation", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
			WithArgs(ownerID, nil, arg.Kind, arg.Amount, arg.Counterparty, arg.Date, loc.Lat, loc.Lng, loc.Address).
			WillReturnRows(movementRow(domain.Movement{
				ID:           7,
				OwnerID:      ownerID,
				Wallet:       domain.Unscoped(),
				Kind:         arg.Kind,
				Amount:       arg.Amount,
				Counterparty: arg.Counterparty,
				Date:         arg.Date,
				Location:     loc,
				CreatedAt:    time.Now().UTC(),
			}))

		got, err := repo.RecordUnscoped(context.Background(), arg)
		require.NoError(t, err)
		require.False(t, got.Wallet.IsScoped())
		require.Equal(t, loc, got.Location)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(CreateQuery)).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "transactions_owner_id_fkey"})

		_, err := repo.RecordUnscoped(context.Background(), arg)
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestList(t *testing.T) {
	ownerID := randompkg.UserID()
	now := time.Now().UTC().Truncate(time.Second)

	scoped := domain.Movement{
		ID:           2,
		OwnerID:      ownerID,
		Wallet:       domain.WalletScoped(5),
		Kind:         domain.Expense,
		Amount:       decimal.RequireFromString("20"),
		Counterparty: "Cafe",
		Date:         domain.NewDate(2024, time.January, 2),
		CreatedAt:    now,
	}
	unscoped := domain.Movement{
		ID:           1,
		OwnerID:      ownerID,
		Wallet:       domain.Unscoped(),
		Kind:         domain.Income,
		Amount:       decimal.RequireFromString("50"),
		Counterparty: "Salary",
		Date:         domain.NewDate(2024, time.January, 1),
		CreatedAt:    now,
		Location:     &domain.Location{Lat: 1, Lng: 2, Address: "1, 2"},
	}

	t.Run("OK", func(t *testing.T) {
		repo, mock := newMock(t)

		rows := sqlmock.NewRows(movementCols).
			AddRow(movementValues(scoped)...).
			AddRow(movementValues(unscoped)...)
		mock.ExpectQuery(regexp.QuoteMeta(ListQuery)).
			WithArgs(ownerID).
			WillReturnRows(rows)

		got, err := repo.List(context.Background(), ownerID)
		require.NoError(t, err)
		require.Len(t, got, 2)

		id, ok := got[0].Wallet.WalletID()
		require.True(t, ok)
		require.Equal(t, int64(5), id)
		require.Nil(t, got[0].Location)
		require.Equal(t, scoped.Date, got[0].Date)

		require.False(t, got[1].Wallet.IsScoped())
		require.Equal(t, unscoped.Location, got[1].Location)
		require.True(t, unscoped.Amount.Equal(got[1].Amount))
	})

	t.Run("Empty", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(ListQuery)).
			WithArgs(ownerID).
			WillReturnRows(sqlmock.NewRows(movementCols))

		got, err := repo.List(context.Background(), ownerID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("QueryFails", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(ListQuery)).
			WithArgs(ownerID).
			WillReturnError(sql.ErrConnDone)

		_, err := repo.List(context.Background(), ownerID)
		require.ErrorIs(t, err, errorspkg.ErrInternal)
	})
}
