package analytics

import (
	"strings"
	"time"

	"fintrack/internal/core"
)

const incomeTrendDays = 30

// IncomeStats summarizes all income transactions of an owner.
type IncomeStats struct {
	TotalIncome      core.Money
	MonthlyIncome    core.Money
	LastMonthIncome  core.Money
	MonthlyGrowth    float64
	AvgTransaction   core.Money
	TransactionCount int
}

// IncomeAnalytics is the presentation-ready income view.
type IncomeAnalytics struct {
	Stats      IncomeStats
	Daily      []DayBucket
	ByCategory []CategoryTotal
}

// BuildIncomeAnalytics reduces income transactions into totals, a
// month-over-month growth rate, a 30-day trend, and a category grouping.
// Expense transactions in the input are ignored.
func BuildIncomeAnalytics(txs []core.Transaction, now time.Time) IncomeAnalytics {
	incomes := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == core.Income {
			incomes = append(incomes, tx)
		}
	}

	total := SumByType(incomes, core.Income)
	monthly := SumByTypeInWindow(incomes, core.Income, core.MonthWindow(now))
	lastMonth := SumByTypeInWindow(incomes, core.Income, core.MonthWindowOffset(now, -1))

	// Growth is 0 when there was no income last month; a jump from nothing
	// is not an infinite rate.
	var growth float64
	if lastMonth.Cents > 0 {
		growth = float64(monthly.Cents-lastMonth.Cents) / float64(lastMonth.Cents) * 100
	}

	var avg core.Money
	if len(incomes) > 0 {
		avg = core.Money{Cents: total.Cents / int64(len(incomes))}
	}

	return IncomeAnalytics{
		Stats: IncomeStats{
			TotalIncome:      total,
			MonthlyIncome:    monthly,
			LastMonthIncome:  lastMonth,
			MonthlyGrowth:    growth,
			AvgTransaction:   avg,
			TransactionCount: len(incomes),
		},
		Daily:      DailySeries(incomes, incomeTrendDays, now),
		ByCategory: GroupByCategory(incomes, core.Income),
	}
}

// FilterIncome narrows a transaction list by a case-insensitive substring
// match on description or category name, and by an exact category name.
// Either filter may be empty; both are AND-combined.
func FilterIncome(txs []core.Transaction, search, category string) []core.Transaction {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" {
			desc := strings.ToLower(tx.Description)
			cat := strings.ToLower(tx.CategoryName(""))
			if !strings.Contains(desc, search) && !strings.Contains(cat, search) {
				continue
			}
		}
		if category != "" && tx.CategoryName("") != category {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}
