package report

import (
	"testing"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestQueryFilter(t *testing.T) {
	today := domain.NewDate(2024, time.March, 15)

	testCases := []struct {
		name    string
		query   Query
		want    Filter
		wantErr error
	}{
		{
			name:  "Defaults",
			query: Query{},
			want:  DefaultFilter(today),
		},
		{
			name:  "AllSentinels",
			query: Query{Type: "all", WalletID: "all"},
			want:  DefaultFilter(today),
		},
		{
			name: "Everything",
			query: Query{
				StartDate:    "2024-01-01",
				EndDate:      "2024-01-31",
				Type:         "Expense",
				WalletID:     "7",
				Counterparty: " cafe ",
			},
			want: Filter{
				Range:        domain.DateRange{Start: domain.NewDate(2024, 1, 1), End: domain.NewDate(2024, 1, 31)},
				Kind:         ByValue(domain.Expense),
				Wallet:       ByValue(int64(7)),
				Counterparty: "cafe",
			},
		},
		{
			name:    "BadDate",
			query:   Query{StartDate: "01/01/2024"},
			wantErr: domain.ErrInvalidDate,
		},
		{
			name:    "BadType",
			query:   Query{Type: "transfer"},
			wantErr: domain.ErrInvalidMovementKind,
		},
		{
			name:    "BadWallet",
			query:   Query{WalletID: "cash"},
			wantErr: ErrInvalidWalletFilter,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.query.Filter(today)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.want, got)
		})
	}
}
