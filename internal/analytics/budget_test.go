package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestStatusForPercentage(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want BudgetStatus
	}{
		{"zero", 0, StatusOnTrack},
		{"just under near limit", 79.9, StatusOnTrack},
		{"exactly near limit", 80, StatusNearLimit},
		{"between thresholds", 99.9, StatusNearLimit},
		{"exactly over", 100, StatusOverBudget},
		{"well over", 250, StatusOverBudget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusForPercentage(tt.pct); got != tt.want {
				t.Errorf("StatusForPercentage(%v) = %q, want %q", tt.pct, got, tt.want)
			}
		})
	}
}

func TestEvaluateBudget(t *testing.T) {
	budget := core.Budget{
		ID:         "b1",
		CategoryID: "cat-food",
		Amount:     core.Money{Cents: 10000},
		Period:     core.Monthly,
		StartDate:  core.NewDate(2026, time.March, 1),
		EndDate:    core.NewDate(2026, time.March, 31),
	}

	catTx := func(date core.Date, typ core.TransactionType, cents int64, categoryID string) core.Transaction {
		tx := testTx(date, typ, cents, "Food")
		tx.CategoryID = categoryID
		return tx
	}

	t.Run("sums matching expenses in window", func(t *testing.T) {
		txs := []core.Transaction{
			catTx(core.NewDate(2026, time.March, 1), core.Expense, 2000, "cat-food"),
			catTx(core.NewDate(2026, time.March, 31), core.Expense, 3000, "cat-food"),
			catTx(core.NewDate(2026, time.April, 1), core.Expense, 9999, "cat-food"),
			catTx(core.NewDate(2026, time.March, 10), core.Expense, 9999, "cat-rent"),
			catTx(core.NewDate(2026, time.March, 10), core.Income, 9999, "cat-food"),
		}
		report := EvaluateBudget(budget, txs)
		if report.Spent.Cents != 5000 {
			t.Errorf("spent = %d, want 5000", report.Spent.Cents)
		}
		if report.Percentage != 50 {
			t.Errorf("percentage = %v, want 50", report.Percentage)
		}
		if report.Status != StatusOnTrack {
			t.Errorf("status = %q, want %q", report.Status, StatusOnTrack)
		}
	})

	t.Run("over budget", func(t *testing.T) {
		txs := []core.Transaction{
			catTx(core.NewDate(2026, time.March, 15), core.Expense, 12000, "cat-food"),
		}
		report := EvaluateBudget(budget, txs)
		if report.Percentage != 120 {
			t.Errorf("percentage = %v, want 120", report.Percentage)
		}
		if report.Status != StatusOverBudget {
			t.Errorf("status = %q, want %q", report.Status, StatusOverBudget)
		}
	})

	t.Run("zero amount budget", func(t *testing.T) {
		zero := budget
		zero.Amount = core.Money{}
		txs := []core.Transaction{
			catTx(core.NewDate(2026, time.March, 15), core.Expense, 100, "cat-food"),
		}
		report := EvaluateBudget(zero, txs)
		if report.Percentage != 0 {
			t.Errorf("percentage = %v, want 0 for zero budget", report.Percentage)
		}
	})
}

func TestEvaluateBudgets(t *testing.T) {
	budgets := []core.Budget{
		{
			ID: "b1", CategoryID: "cat-food",
			Amount: core.Money{Cents: 10000}, Period: core.Monthly,
			StartDate: core.NewDate(2026, time.March, 1),
			EndDate:   core.NewDate(2026, time.March, 31),
		},
		{
			ID: "b2", CategoryID: "cat-rent",
			Amount: core.Money{Cents: 50000}, Period: core.Monthly,
			StartDate: core.NewDate(2026, time.March, 1),
			EndDate:   core.NewDate(2026, time.March, 31),
		},
	}
	txs := []core.Transaction{
		{CategoryID: "cat-food", Type: core.Expense, Amount: core.Money{Cents: 9000}, Date: core.NewDate(2026, time.March, 10)},
		{CategoryID: "cat-rent", Type: core.Expense, Amount: core.Money{Cents: 50000}, Date: core.NewDate(2026, time.March, 1)},
	}

	summary := EvaluateBudgets(budgets, txs)
	if summary.TotalBudget.Cents != 60000 {
		t.Errorf("total budget = %d, want 60000", summary.TotalBudget.Cents)
	}
	if summary.TotalSpent.Cents != 59000 {
		t.Errorf("total spent = %d, want 59000", summary.TotalSpent.Cents)
	}
	if len(summary.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(summary.Reports))
	}
	if summary.Reports[0].Status != StatusNearLimit {
		t.Errorf("food status = %q, want %q", summary.Reports[0].Status, StatusNearLimit)
	}
	if summary.Reports[1].Status != StatusOverBudget {
		t.Errorf("rent status = %q, want %q", summary.Reports[1].Status, StatusOverBudget)
	}
}
