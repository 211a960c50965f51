// Package storage persists transactions, categories, and budgets and
// tracks the spreadsheet sync state of each transaction.
package storage

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Sync states a transaction moves through on its way to the spreadsheet.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// TransactionQuery narrows a transaction listing. Nil dates and an empty
// type match everything.
type TransactionQuery struct {
	From *core.Date
	To   *core.Date
	Type core.TransactionType
}

// BudgetQuery narrows a budget listing. An empty period matches every
// period; a nil window matches every budget, otherwise only budgets whose
// [StartDate, EndDate] overlaps it.
type BudgetQuery struct {
	Period   core.BudgetPeriod
	Overlaps *core.Window
}

// PendingSync is the minimal record the sync worker needs to pick up a
// transaction that has not reached the spreadsheet yet.
type PendingSync struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// Store is the persistence boundary the HTTP layer and the sync worker
// talk to.
type Store interface {
	ListTransactions(ctx context.Context, userID string, q TransactionQuery) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error

	ListBudgets(ctx context.Context, userID string, q BudgetQuery) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) error
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error

	PendingSyncTransactions(ctx context.Context, limit int) ([]PendingSync, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id, message string) error

	Close() error
}
