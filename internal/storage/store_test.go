package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func storeImpls(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": newSQLite(t),
		"memory": NewMemoryStore(),
	}
}

func seedCategory(t *testing.T, s Store, id, userID, name string, typ core.TransactionType) {
	t.Helper()
	err := s.CreateCategory(context.Background(), core.Category{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Type:      typ,
		Color:     "#16a34a",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func seedTransaction(t *testing.T, s Store, id, userID, categoryID string, date core.Date, typ core.TransactionType, cents int64) {
	t.Helper()
	now := time.Now().UTC()
	err := s.CreateTransaction(context.Background(), core.Transaction{
		ID:            id,
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        core.Money{Cents: cents},
		Description:   "seed " + id,
		Date:          date,
		Type:          typ,
		PaymentMethod: "card",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			seedTransaction(t, store, "tx-1", "user-1", "cat-1",
				core.NewDate(2026, 3, 10), core.Expense, 4250)

			got, err := store.GetTransaction(ctx, "user-1", "tx-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Amount.Cents != 4250 {
				t.Errorf("amount = %d, want 4250", got.Amount.Cents)
			}
			if got.Category == nil || got.Category.Name != "Food" {
				t.Errorf("category not joined: %+v", got.Category)
			}
			if !got.Date.SameDay(core.NewDate(2026, 3, 10)) {
				t.Errorf("date = %v, want 2026-03-10", got.Date)
			}

			got.Amount = core.Money{Cents: 5000}
			got.Description = "updated"
			if err := store.UpdateTransaction(ctx, got); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, err = store.GetTransaction(ctx, "user-1", "tx-1")
			if err != nil {
				t.Fatalf("get after update: %v", err)
			}
			if got.Amount.Cents != 5000 || got.Description != "updated" {
				t.Errorf("update not persisted: %+v", got)
			}

			if err := store.DeleteTransaction(ctx, "user-1", "tx-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.GetTransaction(ctx, "user-1", "tx-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("get after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestTransactionOwnership(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			seedTransaction(t, store, "tx-1", "user-1", "cat-1",
				core.NewDate(2026, 3, 10), core.Expense, 100)

			if _, err := store.GetTransaction(ctx, "user-2", "tx-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("cross-user get = %v, want ErrNotFound", err)
			}
			if err := store.DeleteTransaction(ctx, "user-2", "tx-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("cross-user delete = %v, want ErrNotFound", err)
			}
			txs, err := store.ListTransactions(ctx, "user-2", TransactionQuery{})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(txs) != 0 {
				t.Errorf("cross-user list returned %d transactions", len(txs))
			}
		})
	}
}

func TestListTransactionsFilters(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			seedTransaction(t, store, "tx-feb", "user-1", "cat-1",
				core.NewDate(2026, 2, 28), core.Expense, 1)
			seedTransaction(t, store, "tx-mar1", "user-1", "cat-1",
				core.NewDate(2026, 3, 1), core.Expense, 2)
			seedTransaction(t, store, "tx-mar31", "user-1", "cat-1",
				core.NewDate(2026, 3, 31), core.Income, 3)
			seedTransaction(t, store, "tx-apr", "user-1", "cat-1",
				core.NewDate(2026, 4, 1), core.Expense, 4)

			from := core.NewDate(2026, 3, 1)
			to := core.NewDate(2026, 3, 31)
			txs, err := store.ListTransactions(ctx, "user-1", TransactionQuery{From: &from, To: &to})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(txs) != 2 {
				t.Fatalf("got %d transactions, want 2 (range inclusive)", len(txs))
			}
			if txs[0].ID != "tx-mar31" || txs[1].ID != "tx-mar1" {
				t.Errorf("order = [%s %s], want newest first", txs[0].ID, txs[1].ID)
			}

			expenses, err := store.ListTransactions(ctx, "user-1", TransactionQuery{Type: core.Expense})
			if err != nil {
				t.Fatalf("list by type: %v", err)
			}
			if len(expenses) != 3 {
				t.Errorf("got %d expenses, want 3", len(expenses))
			}
		})
	}
}

func TestListBudgetsFilters(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-f", "user-1", "Food", core.Expense)
			seedCategory(t, store, "cat-r", "user-1", "Rent", core.Expense)
			now := time.Now().UTC()
			budgets := []core.Budget{
				{ID: "b-mar", UserID: "user-1", CategoryID: "cat-f", Amount: core.Money{Cents: 10000},
					Period: core.Monthly, StartDate: core.NewDate(2026, 3, 1), EndDate: core.NewDate(2026, 3, 31),
					CreatedAt: now, UpdatedAt: now},
				{ID: "b-feb", UserID: "user-1", CategoryID: "cat-r", Amount: core.Money{Cents: 20000},
					Period: core.Monthly, StartDate: core.NewDate(2026, 2, 1), EndDate: core.NewDate(2026, 2, 28),
					CreatedAt: now.Add(time.Second), UpdatedAt: now},
				{ID: "b-week", UserID: "user-1", CategoryID: "cat-f", Amount: core.Money{Cents: 5000},
					Period: core.Weekly, StartDate: core.NewDate(2026, 3, 2), EndDate: core.NewDate(2026, 3, 8),
					CreatedAt: now.Add(2 * time.Second), UpdatedAt: now},
			}
			for _, b := range budgets {
				if err := store.CreateBudget(ctx, b); err != nil {
					t.Fatalf("create %s: %v", b.ID, err)
				}
			}

			all, err := store.ListBudgets(ctx, "user-1", BudgetQuery{})
			if err != nil {
				t.Fatalf("list all: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("got %d budgets, want 3", len(all))
			}

			monthly, err := store.ListBudgets(ctx, "user-1", BudgetQuery{Period: core.Monthly})
			if err != nil {
				t.Fatalf("list monthly: %v", err)
			}
			if len(monthly) != 2 {
				t.Fatalf("got %d monthly budgets, want 2", len(monthly))
			}

			march := core.Window{Start: core.NewDate(2026, 3, 1), End: core.NewDate(2026, 3, 31)}
			got, err := store.ListBudgets(ctx, "user-1", BudgetQuery{Period: core.Monthly, Overlaps: &march})
			if err != nil {
				t.Fatalf("list overlapping: %v", err)
			}
			if len(got) != 1 || got[0].ID != "b-mar" {
				t.Fatalf("march overlap = %+v, want only b-mar", got)
			}
		})
	}
}

func TestBudgetCRUD(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			now := time.Now().UTC()
			budget := core.Budget{
				ID:         "b-1",
				UserID:     "user-1",
				CategoryID: "cat-1",
				Amount:     core.Money{Cents: 10000},
				Period:     core.Monthly,
				StartDate:  core.NewDate(2026, 3, 1),
				EndDate:    core.NewDate(2026, 3, 31),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := store.CreateBudget(ctx, budget); err != nil {
				t.Fatalf("create: %v", err)
			}

			dup := budget
			dup.ID = "b-2"
			if err := store.CreateBudget(ctx, dup); !errors.Is(err, ErrDuplicate) {
				t.Errorf("duplicate (user, category, period) = %v, want ErrDuplicate", err)
			}

			budgets, err := store.ListBudgets(ctx, "user-1", BudgetQuery{})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(budgets) != 1 {
				t.Fatalf("got %d budgets, want 1", len(budgets))
			}
			if budgets[0].Category == nil || budgets[0].Category.Name != "Food" {
				t.Errorf("category not joined: %+v", budgets[0].Category)
			}
			if !budgets[0].StartDate.SameDay(core.NewDate(2026, 3, 1)) {
				t.Errorf("start date = %v", budgets[0].StartDate)
			}

			budget.Amount = core.Money{Cents: 20000}
			if err := store.UpdateBudget(ctx, budget); err != nil {
				t.Fatalf("update: %v", err)
			}
			if err := store.DeleteBudget(ctx, "user-1", "b-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := store.DeleteBudget(ctx, "user-1", "b-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestCategoryDeleteDetachesTransactions(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			seedTransaction(t, store, "tx-1", "user-1", "cat-1",
				core.NewDate(2026, 3, 10), core.Expense, 100)

			if err := store.DeleteCategory(ctx, "user-1", "cat-1"); err != nil {
				t.Fatalf("delete category: %v", err)
			}

			tx, err := store.GetTransaction(ctx, "user-1", "tx-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if tx.Category != nil {
				t.Errorf("category still joined after delete: %+v", tx.Category)
			}
		})
	}
}

func TestDuplicateCategoryName(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			err := store.CreateCategory(context.Background(), core.Category{
				ID: "cat-2", UserID: "user-1", Name: "Food", Type: core.Expense,
			})
			if !errors.Is(err, ErrDuplicate) {
				t.Errorf("duplicate name = %v, want ErrDuplicate", err)
			}
			// Same name for the other type is allowed.
			err = store.CreateCategory(context.Background(), core.Category{
				ID: "cat-3", UserID: "user-1", Name: "Food", Type: core.Income,
			})
			if err != nil {
				t.Errorf("same name, different type = %v, want nil", err)
			}
		})
	}
}

func TestSyncQueue(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedCategory(t, store, "cat-1", "user-1", "Food", core.Expense)
			seedTransaction(t, store, "tx-1", "user-1", "cat-1",
				core.NewDate(2026, 3, 1), core.Expense, 1)
			seedTransaction(t, store, "tx-2", "user-1", "cat-1",
				core.NewDate(2026, 3, 2), core.Expense, 2)

			pending, err := store.PendingSyncTransactions(ctx, 10)
			if err != nil {
				t.Fatalf("pending: %v", err)
			}
			if len(pending) != 2 {
				t.Fatalf("got %d pending, want 2", len(pending))
			}

			if err := store.MarkSynced(ctx, "tx-1"); err != nil {
				t.Fatalf("mark synced: %v", err)
			}
			if err := store.MarkSyncError(ctx, "tx-2", "append failed"); err != nil {
				t.Fatalf("mark sync error: %v", err)
			}

			pending, err = store.PendingSyncTransactions(ctx, 10)
			if err != nil {
				t.Fatalf("pending after marks: %v", err)
			}
			if len(pending) != 0 {
				t.Errorf("got %d pending, want 0", len(pending))
			}

			// An update queues the transaction again.
			tx, err := store.GetTransaction(ctx, "user-1", "tx-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			tx.Description = "changed"
			if err := store.UpdateTransaction(ctx, tx); err != nil {
				t.Fatalf("update: %v", err)
			}
			pending, err = store.PendingSyncTransactions(ctx, 10)
			if err != nil {
				t.Fatalf("pending after update: %v", err)
			}
			if len(pending) != 1 || pending[0].ID != "tx-1" {
				t.Errorf("pending = %+v, want tx-1 requeued", pending)
			}
		})
	}
}
