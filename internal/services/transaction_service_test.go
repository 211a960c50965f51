package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakePublisher struct {
	published []string
	fail      bool
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, id, _, action string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, action+":"+id)
	return nil
}

func validTransaction(id string) core.Transaction {
	now := time.Now().UTC()
	return core.Transaction{
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
	}
}

func TestTransactionServiceCreate(t *testing.T) {
	t.Run("persists and publishes", func(t *testing.T) {
		store := storage.NewMemoryStore()
		pub := &fakePublisher{}
		svc := NewTransactionService(store, pub)

		if err := svc.Create(context.Background(), validTransaction("tx-1")); err != nil {
			t.Fatalf("create: %v", err)
		}

		if _, err := store.GetTransaction(context.Background(), "user-1", "tx-1"); err != nil {
			t.Errorf("transaction not persisted: %v", err)
		}
		if len(pub.published) != 1 || pub.published[0] != amqp.ActionUpsert+":tx-1" {
			t.Errorf("published = %v, want one upsert for tx-1", pub.published)
		}
	})

	t.Run("publish failure does not fail the write", func(t *testing.T) {
		store := storage.NewMemoryStore()
		svc := NewTransactionService(store, &fakePublisher{fail: true})

		if err := svc.Create(context.Background(), validTransaction("tx-1")); err != nil {
			t.Fatalf("create should succeed despite publish failure: %v", err)
		}
		if _, err := store.GetTransaction(context.Background(), "user-1", "tx-1"); err != nil {
			t.Errorf("transaction not persisted: %v", err)
		}
	})

	t.Run("nil publisher", func(t *testing.T) {
		svc := NewTransactionService(storage.NewMemoryStore(), nil)
		if err := svc.Create(context.Background(), validTransaction("tx-1")); err != nil {
			t.Fatalf("create without publisher: %v", err)
		}
	})

	t.Run("rejects invalid transaction", func(t *testing.T) {
		store := storage.NewMemoryStore()
		pub := &fakePublisher{}
		svc := NewTransactionService(store, pub)

		tx := validTransaction("tx-1")
		tx.Description = ""
		if err := svc.Create(context.Background(), tx); !errors.Is(err, core.ErrEmptyDescription) {
			t.Errorf("create = %v, want ErrEmptyDescription", err)
		}
		if len(pub.published) != 0 {
			t.Errorf("published %v for invalid transaction", pub.published)
		}
	})
}

func TestTransactionServiceDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	if err := svc.Create(context.Background(), validTransaction("tx-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", "tx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.GetTransaction(context.Background(), "user-1", "tx-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if len(pub.published) != 2 || pub.published[1] != amqp.ActionDelete+":tx-1" {
		t.Errorf("published = %v, want delete message last", pub.published)
	}

	t.Run("missing transaction", func(t *testing.T) {
		if err := svc.Delete(context.Background(), "user-1", "tx-404"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("delete = %v, want ErrNotFound", err)
		}
	})
}

func TestTransactionServiceUpdate(t *testing.T) {
	store := storage.NewMemoryStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	if err := svc.Create(context.Background(), validTransaction("tx-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	tx := validTransaction("tx-1")
	tx.Amount = core.Money{Cents: 9999}
	if err := svc.Update(context.Background(), tx); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetTransaction(context.Background(), "user-1", "tx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 9999 {
		t.Errorf("amount = %d, want 9999", got.Amount.Cents)
	}
	if len(pub.published) != 2 {
		t.Errorf("published = %v, want create + update messages", pub.published)
	}
}
