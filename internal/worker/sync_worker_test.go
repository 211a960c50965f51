package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
)

func seed(t *testing.T, store storage.Store, id string) {
	t.Helper()
	now := time.Now().UTC()
	err := store.CreateTransaction(context.Background(), core.Transaction{
		ID:            id,
		UserID:        "user-1",
		CategoryID:    "cat-1",
		Amount:        core.Money{Cents: 4250},
		Description:   "groceries",
		Date:          core.NewDate(2026, 3, 10),
		Type:          core.Expense,
		PaymentMethod: "card",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestHandleSyncMessageUpsert(t *testing.T) {
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, sheet, sheet, 10)
	seed(t, store, "tx-1")

	msg := amqp.NewTransactionSyncMessage("tx-1", "user-1", amqp.ActionUpsert)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := sheet.Get("tx-1"); !ok {
		t.Error("transaction not written to sheet")
	}
	pending, err := store.PendingSyncTransactions(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("still %d pending after sync", len(pending))
	}
}

func TestHandleSyncMessageDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, sheet, sheet, 10)
	seed(t, store, "tx-1")

	if err := w.HandleSyncMessage(context.Background(),
		amqp.NewTransactionSyncMessage("tx-1", "user-1", amqp.ActionUpsert)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := w.HandleSyncMessage(context.Background(),
		amqp.NewTransactionSyncMessage("tx-1", "user-1", amqp.ActionDelete)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if sheet.Len() != 0 {
		t.Errorf("sheet still holds %d rows", sheet.Len())
	}
}

func TestHandleSyncMessageStaleUpsert(t *testing.T) {
	// Transaction deleted after the message was queued: the worker removes
	// the sheet row instead of failing.
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, sheet, sheet, 10)
	seed(t, store, "tx-1")

	if err := w.HandleSyncMessage(context.Background(),
		amqp.NewTransactionSyncMessage("tx-1", "user-1", amqp.ActionUpsert)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.DeleteTransaction(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	msg := amqp.NewTransactionSyncMessage("tx-1", "user-1", amqp.ActionUpsert)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("stale upsert should not error: %v", err)
	}
	if sheet.Len() != 0 {
		t.Errorf("sheet still holds %d rows", sheet.Len())
	}
}

func TestHandleSyncMessageUnknownAction(t *testing.T) {
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, sheet, sheet, 10)

	msg := amqp.NewTransactionSyncMessage("tx-1", "user-1", "compact")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Errorf("unknown action should be dropped, got %v", err)
	}
}

type failingAppender struct{}

func (failingAppender) AppendTransaction(context.Context, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestSyncFailureMarksError(t *testing.T) {
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, failingAppender{}, sheet, 10)
	seed(t, store, "tx-1")

	msg := amqp.NewTransactionSyncMessage("tx-1", "user-1", amqp.ActionUpsert)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("handle should fail when the sheet write fails")
	}

	// The row leaves the pending queue so reconciliation does not spin on it.
	pending, err := store.PendingSyncTransactions(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("row still pending after sync error")
	}
}

func TestProcessPendingTransactions(t *testing.T) {
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, sheet, sheet, 10)
	seed(t, store, "tx-1")
	seed(t, store, "tx-2")

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if sheet.Len() != 2 {
		t.Errorf("sheet holds %d rows, want 2", sheet.Len())
	}
	pending, err := store.PendingSyncTransactions(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("still %d pending", len(pending))
	}
}

func TestStartupSyncCheck(t *testing.T) {
	store := storage.NewMemoryStore()
	sheet := memory.New()
	w := NewSyncWorker(store, sheet, sheet, 2)
	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		seed(t, store, id)
	}

	// Startup check uses a larger batch than the regular pass.
	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("startup check: %v", err)
	}
	if sheet.Len() != 3 {
		t.Errorf("sheet holds %d rows, want 3", sheet.Len())
	}
}
