package report

import (
	"testing"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/test"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func movement(id int64, wallet domain.WalletRef, kind domain.MovementKind, amount, counterparty string, date domain.Date) domain.Movement {
	return domain.Movement{
		ID:           id,
		Wallet:       wallet,
		Kind:         kind,
		Amount:       decimal.RequireFromString(amount),
		Counterparty: counterparty,
		Date:         date,
	}
}

var (
	jan1 = domain.NewDate(2024, time.January, 1)
	jan2 = domain.NewDate(2024, time.January, 2)
	jan3 = domain.NewDate(2024, time.January, 3)
	all  = domain.DateRange{Start: domain.NewDate(2000, time.January, 1), End: domain.NewDate(2100, time.January, 1)}
)

func TestChartScenario(t *testing.T) {
	movements := []domain.Movement{
		movement(2, domain.WalletScoped(1), domain.Income, "50", "Salary", jan2),
		movement(1, domain.WalletScoped(1), domain.Expense, "20", "Cafe", jan1),
	}

	want := []ChartPoint{
		{Date: jan1, Income: decimal.Zero, Expense: decimal.RequireFromString("20")},
		{Date: jan2, Income: decimal.RequireFromString("50"), Expense: decimal.Zero},
	}

	if diff := cmp.Diff(want, Chart(movements)); diff != "" {
		t.Errorf("Chart(...) mismatch (-want +got):\n%s", diff)
	}
}

func TestChartSumsSameDate(t *testing.T) {
	var movements []domain.Movement
	income, expense := decimal.Zero, decimal.Zero

	for i := 0; i < 20; i++ {
		m := test.RandomMovement(randompkg.UserID(), domain.Unscoped())
		m.Date = jan3

		if m.Kind == domain.Income {
			income = income.Add(m.Amount)
		} else {
			expense = expense.Add(m.Amount)
		}

		movements = append(movements, m)
	}

	points := Chart(movements)
	require.Len(t, points, 1)
	require.True(t, income.Equal(points[0].Income))
	require.True(t, expense.Equal(points[0].Expense))
}

func TestChartAscending(t *testing.T) {
	var movements []domain.Movement
	for i := 0; i < 50; i++ {
		m := test.RandomMovement(randompkg.UserID(), domain.Unscoped())
		m.Date = domain.NewDate(2024, time.January, int(randompkg.IntBetween(1, 28)))
		movements = append(movements, m)
	}

	points := Chart(movements)
	for i := 1; i < len(points); i++ {
		require.True(t, points[i-1].Date.Before(points[i].Date))
	}

	require.Empty(t, Chart(nil))
}

func TestFilter(t *testing.T) {
	movements := []domain.Movement{
		movement(1, domain.WalletScoped(1), domain.Expense, "20", "Corner Cafe", jan1),
		movement(2, domain.WalletScoped(2), domain.Income, "50", "ACME Payroll", jan2),
		movement(3, domain.Unscoped(), domain.Expense, "5", "cafe au lait", jan3),
	}

	ids := func(ms []domain.Movement) []int64 {
		out := []int64{}
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	testCases := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{
			name:   "NoFilter",
			filter: Filter{Range: all},
			want:   []int64{1, 2, 3},
		},
		{
			name:   "RangeInclusive",
			filter: Filter{Range: domain.DateRange{Start: jan1, End: jan2}},
			want:   []int64{1, 2},
		},
		{
			name:   "Kind",
			filter: Filter{Range: all, Kind: ByValue(domain.Expense)},
			want:   []int64{1, 3},
		},
		{
			name:   "WalletSkipsUnscoped",
			filter: Filter{Range: all, Wallet: ByValue(int64(1))},
			want:   []int64{1},
		},
		{
			name:   "CounterpartyCaseInsensitive",
			filter: Filter{Range: all, Counterparty: "CAFE"},
			want:   []int64{1, 3},
		},
		{
			name: "AllCriteria",
			filter: Filter{
				Range:        domain.DateRange{Start: jan1, End: jan3},
				Kind:         ByValue(domain.Expense),
				Wallet:       NoFilter[int64](),
				Counterparty: "lait",
			},
			want: []int64{3},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Apply(movements)
			require.Equal(t, tc.want, ids(got))

			// Filtering an already filtered list changes nothing.
			require.Equal(t, got, tc.filter.Apply(got))
		})
	}
}

func TestOption(t *testing.T) {
	none := NoFilter[domain.MovementKind]()
	_, ok := none.Value()
	require.False(t, ok)
	require.True(t, none.Matches(domain.Income))
	require.True(t, none.Matches(domain.Expense))

	income := ByValue(domain.Income)
	v, ok := income.Value()
	require.True(t, ok)
	require.Equal(t, domain.Income, v)
	require.True(t, income.Matches(domain.Income))
	require.False(t, income.Matches(domain.Expense))
}

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter(domain.NewDate(2024, time.March, 15))
	require.Equal(t, domain.NewDate(2024, time.February, 15), f.Range.Start)
	require.Equal(t, domain.NewDate(2024, time.March, 15), f.Range.End)

	_, ok := f.Kind.Value()
	require.False(t, ok)
	_, ok = f.Wallet.Value()
	require.False(t, ok)
}

func TestTotals(t *testing.T) {
	s := Totals([]domain.Movement{
		movement(1, domain.WalletScoped(1), domain.Income, "50", "", jan1),
		movement(2, domain.WalletScoped(1), domain.Expense, "20.25", "", jan1),
	})

	require.Equal(t, "50", s.Income.String())
	require.Equal(t, "20.25", s.Expense.String())
	require.Equal(t, "29.75", s.Net.String())
}

func TestBuild(t *testing.T) {
	wallets := []domain.Wallet{{ID: 1, Name: "Checking"}}
	movements := []domain.Movement{
		movement(1, domain.WalletScoped(1), domain.Expense, "20", "Cafe", jan1),
		movement(2, domain.WalletScoped(9), domain.Income, "50", "Salary", jan2),
		movement(3, domain.Unscoped(), domain.Income, "5", "Gift", jan3),
	}

	view := Build(movements, wallets, Filter{Range: all})

	require.Len(t, view.Rows, 3)
	require.Equal(t, "Checking", view.Rows[0].WalletName)
	require.False(t, view.Rows[0].Unscoped)
	require.Equal(t, UnknownWallet, view.Rows[1].WalletName)
	require.True(t, view.Rows[2].Unscoped)
	require.Empty(t, view.Rows[2].WalletName)
	require.Len(t, view.Chart, 3)
	require.Equal(t, "35", view.Totals.Net.String())
	require.Equal(t, wallets, view.Wallets)

	again := Build(movements, wallets, Filter{Range: all})
	if diff := cmp.Diff(view, again); diff != "" {
		t.Errorf("Build(...) is not deterministic (-first +second):\n%s", diff)
	}

	empty := Build(nil, nil, Filter{Range: all})
	require.NotNil(t, empty.Rows)
	require.NotNil(t, empty.Wallets)
	require.Empty(t, empty.Chart)
}
