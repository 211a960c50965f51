// Package analytics is the aggregation and reporting engine. Every function
// here is a pure computation over the records passed in plus an explicit
// reference instant: no storage access, no clock reads, no error returns.
// Malformed relations and empty inputs degrade to fallbacks and zeroes so
// dashboard, income, report, and budget views can compose safely.
package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// Fallback join values for transactions whose category was deleted after
// they were recorded.
const (
	FallbackCategoryName  = "Other"
	FallbackCategoryColor = "#6b7280"
)

// CategoryTotal is an amount aggregated under one category name.
type CategoryTotal struct {
	Name  string
	Color string
	Total core.Money
}

// DayBucket is one day of a daily series. Empty days stay in the series
// with zero totals.
type DayBucket struct {
	Date    core.Date
	Income  core.Money
	Expense core.Money
}

// MonthBucket is one calendar month of a monthly series.
type MonthBucket struct {
	Year    int
	Month   time.Month
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// Sum totals the amounts of transactions matching keep. A nil predicate
// keeps everything; an empty set sums to zero.
func Sum(txs []core.Transaction, keep func(core.Transaction) bool) core.Money {
	var total core.Money
	for _, tx := range txs {
		if keep == nil || keep(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// SumByType totals the amounts of transactions of the given type.
func SumByType(txs []core.Transaction, t core.TransactionType) core.Money {
	return Sum(txs, func(tx core.Transaction) bool { return tx.Type == t })
}

// SumByTypeInWindow totals transactions of the given type whose date falls
// inside w, bounds inclusive.
func SumByTypeInWindow(txs []core.Transaction, t core.TransactionType, w core.Window) core.Money {
	return Sum(txs, func(tx core.Transaction) bool {
		return tx.Type == t && w.Contains(tx.Date)
	})
}

// GroupByCategory reduces transactions of the given type into per-category
// totals, sorted descending by total. Transactions whose category relation is
// missing are grouped under the "Other" fallback so the series never loses
// amounts. Ties keep first-seen input order.
func GroupByCategory(txs []core.Transaction, t core.TransactionType) []CategoryTotal {
	index := make(map[string]int)
	var groups []CategoryTotal
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		name := FallbackCategoryName
		color := FallbackCategoryColor
		if tx.Category != nil && tx.Category.Name != "" {
			name = tx.Category.Name
			if tx.Category.Color != "" {
				color = tx.Category.Color
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryTotal{Name: name, Color: color})
		}
		groups[i].Total = groups[i].Total.Add(tx.Amount)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.Cents > groups[j].Total.Cents
	})
	return groups
}

// DailySeries buckets transactions into exactly `days` consecutive calendar
// days ending at ref's day, ascending, zero-filled. A transaction lands in a
// bucket solely on its date field.
func DailySeries(txs []core.Transaction, days int, ref time.Time) []DayBucket {
	dates := core.LastNDays(ref, days)
	buckets := make([]DayBucket, len(dates))
	index := make(map[string]int, len(dates))
	for i, d := range dates {
		buckets[i] = DayBucket{Date: d}
		index[dayKey(d)] = i
	}
	for _, tx := range txs {
		i, ok := index[dayKey(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			buckets[i].Income = buckets[i].Income.Add(tx.Amount)
		case core.Expense:
			buckets[i].Expense = buckets[i].Expense.Add(tx.Amount)
		}
	}
	return buckets
}

// MonthlySeries buckets transactions into exactly `months` consecutive
// calendar months ending at the month containing ref, ascending, zero-filled.
func MonthlySeries(txs []core.Transaction, months int, ref time.Time) []MonthBucket {
	if months <= 0 {
		return nil
	}
	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		w := core.MonthWindowOffset(ref, i-months+1)
		buckets[i] = MonthBucket{Year: w.Start.Year(), Month: w.Start.Time.Month()}
		index[monthKey(w.Start)] = i
	}
	for _, tx := range txs {
		i, ok := index[monthKey(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			buckets[i].Income = buckets[i].Income.Add(tx.Amount)
		case core.Expense:
			buckets[i].Expense = buckets[i].Expense.Add(tx.Amount)
		}
	}
	for i := range buckets {
		buckets[i].Net = buckets[i].Income.Sub(buckets[i].Expense)
	}
	return buckets
}

// Percentage returns num/den as a percentage, and 0 whenever den is not
// positive. Ratios in this package never divide by zero and never produce
// NaN or infinities.
func Percentage(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

func dayKey(d core.Date) string {
	return d.Format("2006-01-02")
}

func monthKey(d core.Date) string {
	return d.Format("2006-01")
}
