package google

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestTransactionRow(t *testing.T) {
	tx := core.Transaction{
		ID:            "tx-1",
		UserID:        "user-1",
		Amount:        core.Money{Cents: 4250},
		Description:   "Groceries",
		Date:          core.NewDate(2026, time.March, 5),
		Type:          core.Expense,
		PaymentMethod: "card",
		Category:      &core.CategoryRef{Name: "Food"},
	}

	row := transactionRow(tx)
	if len(row) != 8 {
		t.Fatalf("got %d columns, want 8", len(row))
	}
	if row[0] != "tx-1" || row[1] != "2026-03-05" || row[3] != "Food" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[5] != 42.50 {
		t.Errorf("amount = %v, want 42.50", row[5])
	}

	tx.Category = nil
	row = transactionRow(tx)
	if row[3] != "N/A" {
		t.Errorf("fallback category = %v, want N/A", row[3])
	}
}
