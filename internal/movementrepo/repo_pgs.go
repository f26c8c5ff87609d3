// Package movementrepo manages repository layer of movements.
package movementrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/walletrepo"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates movement repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns movement RepoPGS bound to a running transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns movement RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const movementColumns = `id, owner_id, wallet_id, kind, amount, counterparty, date,
    location_lat, location_lng, location_address, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMovement(row scanner) (domain.Movement, error) {
	var (
		m        domain.Movement
		walletID sql.NullInt64
		lat, lng sql.NullFloat64
		address  sql.NullString
	)

	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&walletID,
		&m.Kind,
		&m.Amount,
		&m.Counterparty,
		&m.Date,
		&lat,
		&lng,
		&address,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.Movement{}, err
	}

	if walletID.Valid {
		m.Wallet = domain.WalletScoped(walletID.Int64)
	}

	if lat.Valid && lng.Valid {
		m.Location = &domain.Location{Lat: lat.Float64, Lng: lng.Float64, Address: address.String}
	}

	return m, nil
}

// CreateQuery inserts one movement row.
const CreateQuery = `
INSERT INTO
    transactions (owner_id, wallet_id, kind, amount, counterparty, date, location_lat, location_lng, location_address)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + movementColumns

func (r *RepoPGS) create(ctx context.Context, m domain.Movement) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	var walletID sql.NullInt64
	if id, ok := m.Wallet.WalletID(); ok {
		walletID = sql.NullInt64{Int64: id, Valid: true}
	}

	var lat, lng sql.NullFloat64
	var address sql.NullString
	if m.Location != nil {
		lat = sql.NullFloat64{Float64: m.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: m.Location.Lng, Valid: true}
		address = sql.NullString{String: m.Location.Address, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, CreateQuery,
		m.OwnerID,
		walletID,
		m.Kind,
		m.Amount,
		m.Counterparty,
		m.Date,
		lat,
		lng,
		address,
	)

	created, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_owner_id_fkey":
				return domain.Movement{}, domain.ErrUserNotFound
			case "transactions_wallet_id_fkey":
				return domain.Movement{}, domain.ErrWalletNotFound
			case "transactions_amount_check":
				return domain.Movement{}, domain.ErrNonPositiveAmount
			case "transactions_kind_check":
				return domain.Movement{}, domain.ErrInvalidMovementKind
			}
		}

		return domain.Movement{}, errorspkg.ErrInternal
	}

	return created, nil
}

// Record stores a wallet-scoped movement and applies it to the wallet balance.
//
// The wallet row is locked, its balance updated and the movement inserted
// within a single transaction. Either all of it is committed or nothing.
func (r *RepoPGS) Record(ctx context.Context, arg domain.RecordMovementParams) (domain.RecordMovementResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.RecordMovementResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	walletRepo := walletrepo.NewRepoPGS(tx)
	movementRepo := NewTxRepoPGS(tx)

	wallet, err := walletRepo.GetForUpdate(ctx, arg.OwnerID, arg.WalletID)
	if err != nil {
		return result, err
	}

	result.Wallet, err = walletRepo.SetBalance(ctx, wallet.ID, arg.Kind.Apply(wallet.Balance, arg.Amount))
	if err != nil {
		return domain.RecordMovementResult{}, err
	}

	result.Movement, err = movementRepo.create(ctx, domain.Movement{
		OwnerID:      arg.OwnerID,
		Wallet:       domain.WalletScoped(wallet.ID),
		Kind:         arg.Kind,
		Amount:       arg.Amount,
		Counterparty: arg.Counterparty,
		Date:         arg.Date,
	})
	if err != nil {
		return domain.RecordMovementResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.RecordMovementResult{}, errorspkg.ErrInternal
	}

	return result, nil
}

// RecordUnscoped stores a standalone movement that references no wallet.
func (r *RepoPGS) RecordUnscoped(ctx context.Context, arg domain.RecordUnscopedParams) (domain.Movement, error) {
	return r.create(ctx, domain.Movement{
		OwnerID:      arg.OwnerID,
		Wallet:       domain.Unscoped(),
		Kind:         arg.Kind,
		Amount:       arg.Amount,
		Counterparty: arg.Counterparty,
		Date:         arg.Date,
		Location:     arg.Location,
	})
}

// ListQuery selects every movement of an owner, newest first.
const ListQuery = `
SELECT ` + movementColumns + `
FROM transactions
WHERE owner_id = $1
ORDER BY date DESC, created_at DESC, id DESC
`

// List returns the movements of the owner ordered by date, newest first.
func (r *RepoPGS) List(ctx context.Context, ownerID string) ([]domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, ListQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	movements := []domain.Movement{}

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return movements, nil
}
