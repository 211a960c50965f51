package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func expense(date core.Date, cents int64, category string) core.Transaction {
	return testTx(date, core.Expense, cents, category)
}

func income(date core.Date, cents int64, category string) core.Transaction {
	return testTx(date, core.Income, cents, category)
}

func testTx(date core.Date, typ core.TransactionType, cents int64, category string) core.Transaction {
	tx := core.Transaction{
		Amount: core.Money{Cents: cents},
		Date:   date,
		Type:   typ,
	}
	if category != "" {
		tx.Category = &core.CategoryRef{Name: category, Color: "#123456"}
	}
	return tx
}

func TestSumByType(t *testing.T) {
	d := core.NewDate(2026, time.March, 10)
	txs := []core.Transaction{
		expense(d, 1000, "Food"),
		expense(d, 2500, "Transport"),
		income(d, 50000, "Salary"),
	}

	if got := SumByType(txs, core.Expense); got.Cents != 3500 {
		t.Errorf("expense sum = %d, want 3500", got.Cents)
	}
	if got := SumByType(txs, core.Income); got.Cents != 50000 {
		t.Errorf("income sum = %d, want 50000", got.Cents)
	}
	if got := SumByType(nil, core.Expense); got.Cents != 0 {
		t.Errorf("empty sum = %d, want 0", got.Cents)
	}
}

func TestSumByTypeInWindow(t *testing.T) {
	w := core.Window{
		Start: core.NewDate(2026, time.March, 1),
		End:   core.NewDate(2026, time.March, 31),
	}
	txs := []core.Transaction{
		expense(core.NewDate(2026, time.February, 28), 9999, "Food"),
		expense(core.NewDate(2026, time.March, 1), 100, "Food"),
		expense(core.NewDate(2026, time.March, 31), 200, "Food"),
		expense(core.NewDate(2026, time.April, 1), 9999, "Food"),
	}

	if got := SumByTypeInWindow(txs, core.Expense, w); got.Cents != 300 {
		t.Errorf("windowed sum = %d, want 300 (bounds inclusive)", got.Cents)
	}
}

func TestGroupByCategory(t *testing.T) {
	d := core.NewDate(2026, time.March, 10)

	t.Run("totals conservation", func(t *testing.T) {
		txs := []core.Transaction{
			expense(d, 1200, "Food"),
			expense(d, 800, "Food"),
			expense(d, 3000, "Rent"),
			expense(d, 500, ""),
			income(d, 10000, "Salary"),
		}
		groups := GroupByCategory(txs, core.Expense)

		var sum int64
		for _, g := range groups {
			sum += g.Total.Cents
		}
		if want := SumByType(txs, core.Expense).Cents; sum != want {
			t.Errorf("group totals sum = %d, want %d", sum, want)
		}
	})

	t.Run("sorted descending with fallback", func(t *testing.T) {
		txs := []core.Transaction{
			expense(d, 500, ""),
			expense(d, 3000, "Rent"),
			expense(d, 2000, "Food"),
		}
		groups := GroupByCategory(txs, core.Expense)
		if len(groups) != 3 {
			t.Fatalf("got %d groups, want 3", len(groups))
		}
		if groups[0].Name != "Rent" || groups[1].Name != "Food" {
			t.Errorf("order = [%s %s %s], want Rent first", groups[0].Name, groups[1].Name, groups[2].Name)
		}
		if groups[2].Name != FallbackCategoryName || groups[2].Color != FallbackCategoryColor {
			t.Errorf("uncategorized group = %q/%q, want %q/%q",
				groups[2].Name, groups[2].Color, FallbackCategoryName, FallbackCategoryColor)
		}
	})

	t.Run("excludes other type", func(t *testing.T) {
		txs := []core.Transaction{income(d, 10000, "Salary")}
		if groups := GroupByCategory(txs, core.Expense); len(groups) != 0 {
			t.Errorf("got %d groups, want 0", len(groups))
		}
	})
}

func TestDailySeries(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense(core.NewDate(2026, time.March, 10), 500, "Food"),
		expense(core.NewDate(2026, time.March, 8), 300, "Food"),
		income(core.NewDate(2026, time.March, 8), 1000, "Salary"),
		expense(core.NewDate(2026, time.March, 1), 9999, "Food"),
	}

	series := DailySeries(txs, 7, now)
	if len(series) != 7 {
		t.Fatalf("got %d buckets, want 7", len(series))
	}
	if !series[0].Date.SameDay(core.NewDate(2026, time.March, 4)) {
		t.Errorf("first bucket = %v, want 2026-03-04", series[0].Date)
	}
	if !series[6].Date.SameDay(core.NewDate(2026, time.March, 10)) {
		t.Errorf("last bucket = %v, want 2026-03-10", series[6].Date)
	}
	if series[6].Expense.Cents != 500 {
		t.Errorf("today expense = %d, want 500", series[6].Expense.Cents)
	}
	if series[4].Expense.Cents != 300 || series[4].Income.Cents != 1000 {
		t.Errorf("march 8 bucket = %d/%d, want 300/1000", series[4].Expense.Cents, series[4].Income.Cents)
	}
	for i, b := range series[:4] {
		if b.Expense.Cents != 0 || b.Income.Cents != 0 {
			t.Errorf("bucket %d not zero-filled: %d/%d", i, b.Expense.Cents, b.Income.Cents)
		}
	}
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		income(core.NewDate(2026, time.March, 1), 50000, "Salary"),
		expense(core.NewDate(2026, time.March, 5), 20000, "Rent"),
		expense(core.NewDate(2025, time.October, 5), 1000, "Food"),
		expense(core.NewDate(2025, time.September, 5), 7777, "Food"),
	}

	series := MonthlySeries(txs, 6, now)
	if len(series) != 6 {
		t.Fatalf("got %d buckets, want 6", len(series))
	}
	if series[0].Year != 2025 || series[0].Month != time.October {
		t.Errorf("first bucket = %d-%d, want 2025-10", series[0].Year, series[0].Month)
	}
	if series[0].Expense.Cents != 1000 {
		t.Errorf("october expense = %d, want 1000 (september outside range)", series[0].Expense.Cents)
	}
	last := series[5]
	if last.Year != 2026 || last.Month != time.March {
		t.Errorf("last bucket = %d-%d, want 2026-3", last.Year, last.Month)
	}
	if last.Net.Cents != 30000 {
		t.Errorf("march net = %d, want 30000", last.Net.Cents)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name string
		num  int64
		den  int64
		want float64
	}{
		{"half", 50, 100, 50},
		{"over", 150, 100, 150},
		{"zero denominator", 50, 0, 0},
		{"negative denominator", 50, -1, 0},
		{"zero numerator", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.num, tt.den); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.num, tt.den, got, tt.want)
			}
		})
	}
}
