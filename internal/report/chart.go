package report

import (
	"sort"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/shopspring/decimal"
)

// ChartPoint holds the income and expense sums of one calendar date.
type ChartPoint struct {
	Date    domain.Date     `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Chart buckets movements by their calendar date and returns the buckets in
// ascending date order.
func Chart(movements []domain.Movement) []ChartPoint {
	buckets := make(map[string]*ChartPoint)

	for _, m := range movements {
		key := m.Date.String()

		p, ok := buckets[key]
		if !ok {
			p = &ChartPoint{Date: m.Date, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = p
		}

		switch m.Kind {
		case domain.Income:
			p.Income = p.Income.Add(m.Amount)
		case domain.Expense:
			p.Expense = p.Expense.Add(m.Amount)
		}
	}

	points := make([]ChartPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// Summary holds the totals of a set of movements.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Totals sums income and expense, and their difference.
func Totals(movements []domain.Movement) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}

	for _, m := range movements {
		switch m.Kind {
		case domain.Income:
			s.Income = s.Income.Add(m.Amount)
		case domain.Expense:
			s.Expense = s.Expense.Add(m.Amount)
		}
	}

	s.Net = s.Income.Sub(s.Expense)

	return s
}
