package memory

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

func sample(id string) core.Transaction {
	return core.Transaction{
		ID:            id,
		UserID:        "user-1",
		CategoryID:    "cat-1",
		Amount:        core.Money{Cents: 100},
		Description:   "t",
		Date:          core.NewDate(2026, 3, 1),
		Type:          core.Expense,
		PaymentMethod: "card",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestAppendAndRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendTransaction(ctx, sample("tx-1"))
	if err != nil || ref != "mem:1" {
		t.Fatalf("append: ref=%q err=%v", ref, err)
	}

	// Re-append keeps the reference and replaces the row.
	tx := sample("tx-1")
	tx.Amount = core.Money{Cents: 999}
	ref2, err := s.AppendTransaction(ctx, tx)
	if err != nil || ref2 != ref {
		t.Fatalf("re-append: ref=%q err=%v, want %q", ref2, err, ref)
	}
	got, ok := s.Get("tx-1")
	if !ok || got.Amount.Cents != 999 {
		t.Errorf("row not replaced: %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}

	if err := s.RemoveTransaction(ctx, "tx-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveTransaction(ctx, "tx-1"); err != nil {
		t.Errorf("removing a missing row should be a no-op, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	tx := sample("tx-1")
	tx.Description = ""
	if _, err := s.AppendTransaction(context.Background(), tx); err == nil {
		t.Error("append should reject an invalid transaction")
	}
}
