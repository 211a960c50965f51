// Package worker mirrors transactions from the local database into the
// spreadsheet, driven by queue messages with a periodic reconciliation
// pass as backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

// SyncConsumer is the queue side the worker drains.
type SyncConsumer interface {
	ConsumeTransactionSync(ctx context.Context, handler func(*amqp.TransactionSyncMessage) error) error
}

type SyncWorker struct {
	store     storage.Store
	appender  sheets.TransactionAppender
	remover   sheets.TransactionRemover
	batchSize int
}

func NewSyncWorker(store storage.Store, appender sheets.TransactionAppender, remover sheets.TransactionRemover, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		appender:  appender,
		remover:   remover,
		batchSize: batchSize,
	}
}

// Run drains the queue and reconciles pending rows on a timer until ctx is
// canceled.
func (w *SyncWorker) Run(ctx context.Context, consumer SyncConsumer, reconcileInterval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
			return w.HandleSyncMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(reconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.ProcessPendingTransactions(ctx); err != nil {
					slog.ErrorContext(ctx, "Reconciliation pass failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

// HandleSyncMessage applies one queue message. The message only identifies
// the transaction; current data always comes from the database, so replayed
// or reordered messages converge on the latest state.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "action", msg.Action)

	switch msg.Action {
	case amqp.ActionDelete:
		if err := w.remover.RemoveTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove transaction from sheet: %w", err)
		}
		return nil
	case amqp.ActionUpsert:
		return w.syncTransaction(ctx, msg.UserID, msg.ID)
	default:
		// Unknown actions are dropped rather than requeued forever.
		slog.WarnContext(ctx, "Unknown sync action", "id", msg.ID, "action", msg.Action)
		return nil
	}
}

// ProcessPendingTransactions pushes rows the queue missed. This is the
// backup path for lost messages and broker downtime.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.store.PendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.UserID, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once, recovering from
// worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.PendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup", "count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.UserID, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, userID, id string) error {
	tx, err := w.store.GetTransaction(ctx, userID, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted since the message was queued; make the sheet agree.
		if err := w.remover.RemoveTransaction(ctx, id); err != nil {
			return fmt.Errorf("remove stale transaction from sheet: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.appender.AppendTransaction(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		// The sheet write worked; the row will be retried and rewritten in
		// place, so this is not fatal.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Transaction synced",
		"id", id,
		"sheet_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}
