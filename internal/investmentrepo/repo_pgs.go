// Package investmentrepo manages repository layer of investments.
package investmentrepo

import (
	"context"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates investment repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns investment RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const investmentColumns = `id, owner_id, name, kind, amount, current_value, start_date, last_update`

type scanner interface {
	Scan(dest ...any) error
}

func scanInvestment(row scanner) (domain.Investment, error) {
	var i domain.Investment

	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Kind,
		&i.Amount,
		&i.CurrentValue,
		&i.StartDate,
		&i.LastUpdate,
	)

	return i, err
}

// CreateQuery inserts an investment.
const CreateQuery = `
INSERT INTO
    investments (owner_id, name, kind, amount, current_value, start_date)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING ` + investmentColumns

// Create creates the investment and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateInvestmentParams) (domain.Investment, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, CreateQuery,
		arg.OwnerID,
		arg.Name,
		arg.Kind,
		arg.Amount,
		arg.CurrentValue,
		arg.StartDate,
	)

	i, err := scanInvestment(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "investments_owner_id_fkey" {
			return domain.Investment{}, domain.ErrUserNotFound
		}

		return domain.Investment{}, errorspkg.ErrInternal
	}

	return i, nil
}

// ListQuery selects every investment of an owner by start date.
const ListQuery = `
SELECT ` + investmentColumns + `
FROM investments
WHERE owner_id = $1
ORDER BY start_date, id
`

// List returns the investments of the owner ordered by start date.
func (r *RepoPGS) List(ctx context.Context, ownerID string) ([]domain.Investment, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, ListQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	investments := []domain.Investment{}

	for rows.Next() {
		i, err := scanInvestment(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		investments = append(investments, i)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return investments, nil
}
