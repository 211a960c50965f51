package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

const (
	reportTrendMonths   = 6
	reportTopCategories = 8
	reportDailyDays     = 14
	reportTopSpending   = 5
)

// ReportSummary aggregates a date range into headline figures.
type ReportSummary struct {
	TotalIncome      core.Money
	TotalExpenses    core.Money
	NetSavings       core.Money
	SavingsRate      float64
	AvgDailySpending core.Money
	TransactionCount int
}

// CategoryShare is a category total with its share of overall spending.
type CategoryShare struct {
	Name  string
	Color string
	Total core.Money
	Share float64
}

// NamedTotal is a labeled amount, used for the income versus expense pair.
type NamedTotal struct {
	Name  string
	Total core.Money
}

// Report is the full date-range breakdown served to reporting views.
type Report struct {
	Window          core.Window
	Summary         ReportSummary
	MonthlyTrend    []MonthBucket
	ByCategory      []CategoryTotal
	IncomeVsExpense []NamedTotal
	Daily           []DayBucket
	TopSpending     []CategoryShare
}

// BuildReport reduces the transactions of a date range into summary
// figures, a trailing six month trend, category breakdowns, and a daily
// income/expense series. Transactions outside the window are dropped
// first. The monthly trend always ends at now's month regardless of the
// selected range. An empty range yields a report with every section empty.
func BuildReport(txs []core.Transaction, window core.Window, now time.Time) Report {
	inRange := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if window.Contains(tx.Date) {
			inRange = append(inRange, tx)
		}
	}

	if len(inRange) == 0 {
		return Report{Window: window}
	}

	income := SumByType(inRange, core.Income)
	expenses := SumByType(inRange, core.Expense)
	net := income.Sub(expenses)

	// The divisor is the span between the endpoints, not the inclusive
	// day count, so a single-day range still averages over one day.
	spanDays := window.Days() - 1
	if spanDays < 1 {
		spanDays = 1
	}

	byCategory := GroupByCategory(inRange, core.Expense)
	if len(byCategory) > reportTopCategories {
		byCategory = byCategory[:reportTopCategories]
	}

	return Report{
		Window: window,
		Summary: ReportSummary{
			TotalIncome:      income,
			TotalExpenses:    expenses,
			NetSavings:       net,
			SavingsRate:      Percentage(net.Cents, income.Cents),
			AvgDailySpending: core.Money{Cents: expenses.Cents / int64(spanDays)},
			TransactionCount: len(inRange),
		},
		MonthlyTrend: MonthlySeries(inRange, reportTrendMonths, now),
		ByCategory:   byCategory,
		IncomeVsExpense: []NamedTotal{
			{Name: "Income", Total: income},
			{Name: "Expenses", Total: expenses},
		},
		Daily:       presentDays(inRange, reportDailyDays),
		TopSpending: topSpending(inRange, reportTopSpending),
	}
}

// presentDays buckets income and expenses by calendar day, keeping only
// days that actually have activity, limited to the most recent n.
func presentDays(txs []core.Transaction, n int) []DayBucket {
	totals := make(map[string]*DayBucket)
	for _, tx := range txs {
		key := dayKey(tx.Date)
		b, ok := totals[key]
		if !ok {
			b = &DayBucket{Date: tx.Date}
			totals[key] = b
		}
		switch tx.Type {
		case core.Income:
			b.Income = b.Income.Add(tx.Amount)
		case core.Expense:
			b.Expense = b.Expense.Add(tx.Amount)
		}
	}

	days := make([]DayBucket, 0, len(totals))
	for _, b := range totals {
		days = append(days, *b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	if len(days) > n {
		days = days[len(days)-n:]
	}
	return days
}

// topSpending ranks expense categories by total and annotates each with
// its share of overall spending.
func topSpending(txs []core.Transaction, n int) []CategoryShare {
	grouped := GroupByCategory(txs, core.Expense)
	if len(grouped) > n {
		grouped = grouped[:n]
	}
	total := SumByType(txs, core.Expense)

	shares := make([]CategoryShare, 0, len(grouped))
	for _, g := range grouped {
		shares = append(shares, CategoryShare{
			Name:  g.Name,
			Color: g.Color,
			Total: g.Total,
			Share: Percentage(g.Total.Cents, total.Cents),
		})
	}
	return shares
}
