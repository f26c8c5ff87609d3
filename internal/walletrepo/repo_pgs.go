// Package walletrepo manages repository layer of wallets.
package walletrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates wallet repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns wallet RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const walletColumns = `id, owner_id, name, kind, balance, currency, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanWallet(row scanner) (domain.Wallet, error) {
	var w domain.Wallet

	err := row.Scan(
		&w.ID,
		&w.OwnerID,
		&w.Name,
		&w.Kind,
		&w.Balance,
		&w.Currency,
		&w.CreatedAt,
		&w.UpdatedAt,
	)

	return w, err
}

// CreateQuery inserts a wallet with its opening balance.
const CreateQuery = `
INSERT INTO
    wallets (owner_id, name, kind, balance, currency)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING ` + walletColumns

// Create creates the wallet and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateWalletParams) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, CreateQuery, arg.OwnerID, arg.Name, arg.Kind, arg.Balance, arg.Currency)

	w, err := scanWallet(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "wallets_owner_id_fkey":
				return domain.Wallet{}, domain.ErrUserNotFound
			case "wallets_kind_check":
				return domain.Wallet{}, domain.ErrInvalidWalletKind
			}
		}

		return domain.Wallet{}, errorspkg.ErrInternal
	}

	return w, nil
}

// GetQuery selects one wallet of an owner.
const GetQuery = `
SELECT ` + walletColumns + `
FROM wallets
WHERE id = $1 AND owner_id = $2
`

// Get returns the owner's wallet with the given id.
func (r *RepoPGS) Get(ctx context.Context, ownerID string, id int64) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	w, err := scanWallet(r.db.QueryRowContext(ctx, GetQuery, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Wallet{}, domain.ErrWalletNotFound
		}

		l.Error().Err(err).Send()

		return domain.Wallet{}, errorspkg.ErrInternal
	}

	return w, nil
}

// ListQuery selects every wallet of an owner in creation order.
const ListQuery = `
SELECT ` + walletColumns + `
FROM wallets
WHERE owner_id = $1
ORDER BY created_at, id
`

// List returns the wallets of the owner ordered by creation time.
func (r *RepoPGS) List(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, ListQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	wallets := []domain.Wallet{}

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return wallets, nil
}

// GetForUpdateQuery selects one wallet of an owner and locks its row until the
// surrounding transaction ends.
const GetForUpdateQuery = `
SELECT ` + walletColumns + `
FROM wallets
WHERE id = $1 AND owner_id = $2
FOR UPDATE
`

// GetForUpdate returns the owner's wallet with the given id and holds a row
// lock on it. It must run inside a transaction.
func (r *RepoPGS) GetForUpdate(ctx context.Context, ownerID string, id int64) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	w, err := scanWallet(r.db.QueryRowContext(ctx, GetForUpdateQuery, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Wallet{}, domain.ErrWalletNotFound
		}

		l.Error().Err(err).Send()

		return domain.Wallet{}, errorspkg.ErrInternal
	}

	return w, nil
}

// SetBalanceQuery overwrites the balance of a wallet.
const SetBalanceQuery = `
UPDATE wallets
SET balance = $1, updated_at = now()
WHERE id = $2
RETURNING ` + walletColumns

// SetBalance stores the new balance of the wallet and returns the updated wallet.
func (r *RepoPGS) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	w, err := scanWallet(r.db.QueryRowContext(ctx, SetBalanceQuery, balance, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return domain.Wallet{}, domain.ErrWalletNotFound
		}

		return domain.Wallet{}, errorspkg.ErrInternal
	}

	return w, nil
}
