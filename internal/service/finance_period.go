package service

import (
	"sort"

	"go-estoque-condo/internal/model"

	"github.com/shopspring/decimal"
)

// FilterByPeriod keeps the records whose effective month and year match.
// A nil month or year matches every value of that dimension.
func FilterByPeriod[T model.Periodic](records []T, month, year *int) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if inPeriod(r, month, year) {
			out = append(out, r)
		}
	}
	return out
}

func inPeriod(r model.Periodic, month, year *int) bool {
	m, y := r.Period()
	if month != nil && *month != m {
		return false
	}
	if year != nil && *year != y {
		return false
	}
	return true
}

type Delinquency struct {
	PaidCount            int   `json:"paid_count"`
	DelinquentCount      int   `json:"delinquent_count"`
	TotalApartments      int   `json:"total_apartments"`
	PaidApartments       []int `json:"paid_apartments"`
	DelinquentApartments []int `json:"delinquent_apartments"`
}

// ComputeDelinquency counts the roster apartments with at least one payment
// in the period. Payments for apartments outside the roster are ignored.
func ComputeDelinquency(payments []model.Payment, roster []int, month, year *int) Delinquency {
	inRoster := make(map[int]bool, len(roster))
	for _, apt := range roster {
		inRoster[apt] = true
	}

	paid := make(map[int]bool)
	for _, p := range FilterByPeriod(payments, month, year) {
		if inRoster[p.ApartmentNumber] {
			paid[p.ApartmentNumber] = true
		}
	}

	d := Delinquency{
		TotalApartments:      len(inRoster),
		PaidApartments:       []int{},
		DelinquentApartments: []int{},
	}
	for apt := range inRoster {
		if paid[apt] {
			d.PaidApartments = append(d.PaidApartments, apt)
		} else {
			d.DelinquentApartments = append(d.DelinquentApartments, apt)
		}
	}
	sort.Ints(d.PaidApartments)
	sort.Ints(d.DelinquentApartments)
	d.PaidCount = len(d.PaidApartments)
	d.DelinquentCount = len(d.DelinquentApartments)
	return d
}

type Balance struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ComputeIncomeExpenseBalance sums the period's payments and expenses
// separately, to two decimal places.
func ComputeIncomeExpenseBalance(payments []model.Payment, expenses []model.Expense, month, year *int) Balance {
	income := decimal.Zero
	for _, p := range FilterByPeriod(payments, month, year) {
		income = income.Add(p.Amount)
	}
	expense := decimal.Zero
	for _, e := range FilterByPeriod(expenses, month, year) {
		expense = expense.Add(e.Amount)
	}
	return Balance{
		Income:  income.Round(2),
		Expense: expense.Round(2),
		Balance: income.Sub(expense).Round(2),
	}
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ExpensesByCategory totals the period's expenses per category, largest first.
func ExpensesByCategory(expenses []model.Expense, month, year *int) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range FilterByPeriod(expenses, month, year) {
		category := e.Category
		if category == "" {
			category = "Outros"
		}
		totals[category] = totals[category].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, CategoryTotal{Category: category, Total: total.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
