package views

import (
	"sort"
	"time"

	"github.com/khanehapp/khaneh/state"
	"github.com/khanehapp/khaneh/types"
)

// TransactionKind tags a merged ledger row.
type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// Transaction is one row of the unified finance ledger: bought items
// rendered as expenses and income records as incomes.
type Transaction struct {
	ID       string
	Title    string
	Amount   int
	Date     time.Time
	Kind     TransactionKind
	Category string
}

// FinanceSummary is the headline figure set of the finance page.
type FinanceSummary struct {
	TotalIncome   int
	TotalExpenses int
	Balance       int
}

// Summarize computes all-time income, expense and balance figures.
// Expenses count every BOUGHT item regardless of month; the month-scoped
// figure is MonthlySpend.
func Summarize(snap state.Snapshot) FinanceSummary {
	var s FinanceSummary
	for _, it := range snap.Items {
		if it.Status == types.StatusBought {
			s.TotalExpenses += it.Cost()
		}
	}
	for _, rec := range snap.Incomes {
		s.TotalIncome += rec.Amount
	}
	s.Balance = s.TotalIncome - s.TotalExpenses
	return s
}

// Transactions merges bought items and income records into one ledger
// sorted most-recent-first.
func Transactions(snap state.Snapshot) []Transaction {
	out := make([]Transaction, 0, len(snap.Items)+len(snap.Incomes))
	for _, it := range snap.Items {
		if it.Status != types.StatusBought {
			continue
		}
		out = append(out, Transaction{
			ID:       it.ID,
			Title:    it.Name,
			Amount:   it.Cost(),
			Date:     it.DateAdded,
			Kind:     KindExpense,
			Category: it.Category,
		})
	}
	for _, rec := range snap.Incomes {
		out = append(out, Transaction{
			ID:       rec.ID,
			Title:    rec.Title,
			Amount:   rec.Amount,
			Date:     rec.Date,
			Kind:     KindIncome,
			Category: rec.Category,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// TasksDueToday returns tasks due on or before today plus tasks already
// completed today, the set the tasks page shows, with completed tasks
// sorted last.
func TasksDueToday(tasks []types.HouseTask, now time.Time) []types.HouseTask {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	due := make([]types.HouseTask, 0, len(tasks))
	for _, t := range tasks {
		d := t.NextDue
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		if t.DoneToday || !day.After(today) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return !due[i].DoneToday && due[j].DoneToday
	})
	return due
}
