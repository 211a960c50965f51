// Package services orchestrates writes across the local database and the
// spreadsheet sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// SyncPublisher queues a sync notification for a transaction.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, userID, action string) error
}

// TransactionService persists transactions and queues each change for the
// spreadsheet sync worker. The database write is authoritative; a publish
// failure is logged and the worker's reconciliation pass picks the row up
// later.
type TransactionService struct {
	store     storage.Store
	publisher SyncPublisher
}

func NewTransactionService(store storage.Store, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, tx.ID, tx.UserID, amqp.ActionUpsert)
	return nil
}

func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publish(ctx, tx.ID, tx.UserID, amqp.ActionUpsert)
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, id, userID, amqp.ActionDelete)
	return nil
}

// publish queues a sync message. The transaction is already persisted, so
// failures never surface to the caller.
func (s *TransactionService) publish(ctx context.Context, id, userID, action string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, userID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "action", action, "error", err)
	}
}

func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.publisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
