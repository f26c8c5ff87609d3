package report

import (
	"github.com/go-petr/pet-wallet/internal/domain"
)

// UnknownWallet is shown for a wallet-scoped movement whose wallet is not in
// the owner's wallet list.
const UnknownWallet = "Unknown Wallet"

// Row is a movement with its wallet resolved for display.
type Row struct {
	domain.Movement
	WalletName string `json:"wallet_name"`
	Unscoped   bool   `json:"unscoped"`
}

// View is the computed movements page: filtered rows, chart and totals.
type View struct {
	Range   domain.DateRange `json:"range"`
	Rows    []Row            `json:"rows"`
	Chart   []ChartPoint     `json:"chart"`
	Totals  Summary          `json:"totals"`
	Wallets []domain.Wallet  `json:"wallets"`
}

// Build filters movements and derives the view from the result.
func Build(movements []domain.Movement, wallets []domain.Wallet, f Filter) View {
	names := make(map[int64]string, len(wallets))
	for _, w := range wallets {
		names[w.ID] = w.Name
	}

	filtered := f.Apply(movements)

	rows := make([]Row, 0, len(filtered))
	for _, m := range filtered {
		row := Row{Movement: m}

		if id, ok := m.Wallet.WalletID(); ok {
			row.WalletName = UnknownWallet
			if name, found := names[id]; found {
				row.WalletName = name
			}
		} else {
			row.Unscoped = true
		}

		rows = append(rows, row)
	}

	if wallets == nil {
		wallets = []domain.Wallet{}
	}

	return View{
		Range:   f.Range,
		Rows:    rows,
		Chart:   Chart(filtered),
		Totals:  Totals(filtered),
		Wallets: wallets,
	}
}
