package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

// MemoryStore is an in-process Store used by the memory backend and by
// tests. All methods are safe for concurrent use.
type MemoryStore struct {
	mu         sync.Mutex
	txs        map[string]core.Transaction
	categories map[string]core.Category
	budgets    map[string]core.Budget
	syncState  map[string]string
	createdAt  map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs:        make(map[string]core.Transaction),
		categories: make(map[string]core.Category),
		budgets:    make(map[string]core.Budget),
		syncState:  make(map[string]string),
		createdAt:  make(map[string]time.Time),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) ListTransactions(_ context.Context, userID string, q TransactionQuery) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []core.Transaction
	for _, tx := range s.txs {
		if tx.UserID != userID {
			continue
		}
		if q.From != nil && tx.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && tx.Date.After(*q.To) {
			continue
		}
		if q.Type != "" && tx.Type != q.Type {
			continue
		}
		txs = append(txs, s.withCategory(tx))
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.SameDay(txs[j].Date) {
			return txs[j].Date.Before(txs[i].Date)
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok || tx.UserID != userID {
		return core.Transaction{}, ErrNotFound
	}
	return s.withCategory(tx), nil
}

func (s *MemoryStore) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[tx.ID]; ok {
		return ErrDuplicate
	}
	s.txs[tx.ID] = tx
	s.syncState[tx.ID] = SyncPending
	s.createdAt[tx.ID] = tx.CreatedAt
	return nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.txs[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return ErrNotFound
	}
	s.txs[tx.ID] = tx
	s.syncState[tx.ID] = SyncPending
	return nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok || tx.UserID != userID {
		return ErrNotFound
	}
	delete(s.txs, id)
	delete(s.syncState, id)
	delete(s.createdAt, id)
	return nil
}

func (s *MemoryStore) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cats []core.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			cats = append(cats, c)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[c.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.categories {
		if existing.UserID == c.UserID && existing.Name == c.Name && existing.Type == c.Type {
			return ErrDuplicate
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(s.categories, id)
	// Transactions keep running with the fallback category; budgets on a
	// deleted category go with it, mirroring the cascade in SQLite.
	for txID, tx := range s.txs {
		if tx.CategoryID == id {
			tx.CategoryID = ""
			s.txs[txID] = tx
		}
	}
	for bID, b := range s.budgets {
		if b.CategoryID == id {
			delete(s.budgets, bID)
		}
	}
	return nil
}

func (s *MemoryStore) ListBudgets(_ context.Context, userID string, q BudgetQuery) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var budgets []core.Budget
	for _, b := range s.budgets {
		if b.UserID != userID {
			continue
		}
		if q.Period != "" && b.Period != q.Period {
			continue
		}
		if q.Overlaps != nil &&
			(b.StartDate.After(q.Overlaps.End) || b.EndDate.Before(q.Overlaps.Start)) {
			continue
		}
		if c, ok := s.categories[b.CategoryID]; ok {
			b.Category = &core.CategoryRef{Name: c.Name, Color: c.Color, Icon: c.Icon}
		}
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].CreatedAt.Before(budgets[j].CreatedAt)
	})
	return budgets, nil
}

func (s *MemoryStore) CreateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[b.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.budgets {
		if existing.UserID == b.UserID && existing.CategoryID == b.CategoryID && existing.Period == b.Period {
			return ErrDuplicate
		}
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *MemoryStore) UpdateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.budgets[b.ID]
	if !ok || existing.UserID != b.UserID {
		return ErrNotFound
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *MemoryStore) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *MemoryStore) PendingSyncTransactions(_ context.Context, limit int) ([]PendingSync, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []PendingSync
	for id, state := range s.syncState {
		if state != SyncPending {
			continue
		}
		tx := s.txs[id]
		pending = append(pending, PendingSync{ID: id, UserID: tx.UserID, CreatedAt: s.createdAt[id]})
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *MemoryStore) MarkSynced(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncState[id] = SyncDone
	return nil
}

func (s *MemoryStore) MarkSyncError(_ context.Context, id, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncState[id] = SyncError
	return nil
}

// withCategory joins the category reference onto a copy of tx. Callers
// must hold s.mu.
func (s *MemoryStore) withCategory(tx core.Transaction) core.Transaction {
	if c, ok := s.categories[tx.CategoryID]; ok {
		tx.Category = &core.CategoryRef{Name: c.Name, Color: c.Color, Icon: c.Icon}
	}
	return tx
}
