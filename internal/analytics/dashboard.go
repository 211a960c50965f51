package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// Number of buckets in the dashboard's short trend and the recent list cap.
const (
	dashboardTrendDays = 7
	recentTransactions = 5
)

// DashboardStats is the current-month snapshot.
type DashboardStats struct {
	TotalIncome   core.Money
	TotalExpenses core.Money
	Balance       core.Money
	// MonthlyBudget is budgeted capacity: the sum of all monthly budget
	// ceilings, not tied to any category's actual spend.
	MonthlyBudget core.Money
	BudgetUsed    float64
}

// Dashboard is the presentation-ready dashboard payload.
type Dashboard struct {
	Stats             DashboardStats
	Recent            []core.Transaction
	Daily             []DayBucket
	ExpenseByCategory []CategoryTotal
}

// BuildDashboard reduces the current month's transactions and the monthly
// budgets into the dashboard view. now anchors the month and the 7-day trend.
func BuildDashboard(txs []core.Transaction, budgets []core.Budget, now time.Time) Dashboard {
	income := SumByType(txs, core.Income)
	expenses := SumByType(txs, core.Expense)

	var monthlyBudget core.Money
	for _, b := range budgets {
		if b.Period == core.Monthly {
			monthlyBudget = monthlyBudget.Add(b.Amount)
		}
	}

	return Dashboard{
		Stats: DashboardStats{
			TotalIncome:   income,
			TotalExpenses: expenses,
			Balance:       income.Sub(expenses),
			MonthlyBudget: monthlyBudget,
			BudgetUsed:    Percentage(expenses.Cents, monthlyBudget.Cents),
		},
		Recent:            Recent(txs, recentTransactions),
		Daily:             DailySeries(txs, dashboardTrendDays, now),
		ExpenseByCategory: GroupByCategory(txs, core.Expense),
	}
}

// Recent returns the n most recent transactions by date descending. Same-day
// ordering is stable with respect to the input slice, which is not modified.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
