// Package memory is an in-process stand-in for the spreadsheet, used in
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows map[string]core.Transaction
	refs map[string]string
	next int
}

func New() *Store {
	return &Store{
		rows: make(map[string]core.Transaction),
		refs: make(map[string]string),
	}
}

// AppendTransaction stores the transaction and returns a synthetic row
// reference. Re-appending the same ID replaces the stored row and keeps
// its reference.
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.refs[tx.ID]
	if !ok {
		s.next++
		ref = fmt.Sprintf("mem:%d", s.next)
		s.refs[tx.ID] = ref
	}
	s.rows[tx.ID] = tx
	return ref, nil
}

// RemoveTransaction drops the row for id. Missing rows are a no-op.
func (s *Store) RemoveTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	delete(s.refs, id)
	return nil
}

// Get returns the stored row for id, for assertions in tests.
func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.rows[id]
	return tx, ok
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
