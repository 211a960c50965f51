package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const transactionColumns = `
	t.id, t.user_id, t.category_id, t.amount_cents, t.description, t.date,
	t.type, t.payment_method, t.is_recurring, t.created_at, t.updated_at,
	c.name, c.color, c.icon`

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, q TransactionQuery) ([]core.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?`
	args := []any{userID}

	if q.From != nil {
		query += " AND t.date >= ?"
		args = append(args, q.From.Format(dateLayout))
	}
	if q.To != nil {
		query += " AND t.date <= ?"
		args = append(args, q.To.Format(dateLayout))
	}
	if q.Type != "" {
		query += " AND t.type = ?"
		args = append(args, string(q.Type))
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ? AND t.user_id = ?`, id, userID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
		(id, user_id, category_id, amount_cents, description, date, type,
		 payment_method, is_recurring, sync_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, nullIfEmpty(tx.CategoryID), tx.Amount.Cents, tx.Description,
		tx.Date.Format(dateLayout), string(tx.Type), tx.PaymentMethod,
		tx.IsRecurring, SyncPending, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", wrapConstraint(err))
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents)
	return nil
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET
		category_id = ?, amount_cents = ?, description = ?, date = ?,
		type = ?, payment_method = ?, is_recurring = ?,
		sync_status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		nullIfEmpty(tx.CategoryID), tx.Amount.Cents, tx.Description,
		tx.Date.Format(dateLayout), string(tx.Type), tx.PaymentMethod,
		tx.IsRecurring, SyncPending, tx.UpdatedAt, tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", wrapConstraint(err))
	}
	return requireRow(res, "update transaction")
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "delete transaction")
}

func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, user_id, name, type, color, icon, created_at, updated_at
		FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.Color,
			&c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories
		(id, user_id, name, type, color, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, string(c.Type), c.Color, c.Icon,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", wrapConstraint(err))
	}
	return nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "delete category")
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string, q BudgetQuery) ([]core.Budget, error) {
	query := `SELECT
		b.id, b.user_id, b.category_id, b.amount_cents, b.period,
		b.start_date, b.end_date, b.created_at, b.updated_at,
		c.name, c.color, c.icon
		FROM budgets b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = ?`
	args := []any{userID}
	if q.Period != "" {
		query += " AND b.period = ?"
		args = append(args, string(q.Period))
	}
	if q.Overlaps != nil {
		query += " AND b.start_date <= ? AND b.end_date >= ?"
		args = append(args, q.Overlaps.End.Format(dateLayout), q.Overlaps.Start.Format(dateLayout))
	}
	query += " ORDER BY b.created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		var period, start, end string
		var catName, catColor, catIcon sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount.Cents,
			&period, &start, &end, &b.CreatedAt, &b.UpdatedAt,
			&catName, &catColor, &catIcon); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Period = core.BudgetPeriod(period)
		if b.StartDate, err = parseDate(start); err != nil {
			return nil, fmt.Errorf("parse budget start date: %w", err)
		}
		if b.EndDate, err = parseDate(end); err != nil {
			return nil, fmt.Errorf("parse budget end date: %w", err)
		}
		if catName.Valid {
			b.Category = &core.CategoryRef{
				Name:  catName.String,
				Color: catColor.String,
				Icon:  catIcon.String,
			}
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (s *SQLiteStore) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO budgets
		(id, user_id, category_id, amount_cents, period, start_date, end_date,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.Amount.Cents, string(b.Period),
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout),
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create budget: %w", wrapConstraint(err))
	}
	return nil
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := s.db.ExecContext(ctx, `UPDATE budgets SET
		category_id = ?, amount_cents = ?, period = ?, start_date = ?,
		end_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Amount.Cents, string(b.Period),
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout),
		b.UpdatedAt, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", wrapConstraint(err))
	}
	return requireRow(res, "update budget")
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "delete budget")
}

func (s *SQLiteStore) PendingSyncTransactions(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, created_at
		FROM transactions WHERE sync_status = ?
		ORDER BY created_at LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSync
	for rows.Next() {
		var p PendingSync
		if err := rows.Scan(&p.ID, &p.UserID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync: %w", err)
	}
	return pending, nil
}

func (s *SQLiteStore) MarkSynced(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE transactions
		SET sync_status = ?, sync_error = '', synced_at = ?
		WHERE id = ?`, SyncDone, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

func (s *SQLiteStore) MarkSyncError(ctx context.Context, id, message string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE transactions
		SET sync_status = ?, sync_error = ?
		WHERE id = ?`, SyncError, message, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id, "error", message)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var categoryID sql.NullString
	var date, typ string
	var catName, catColor, catIcon sql.NullString

	err := row.Scan(&tx.ID, &tx.UserID, &categoryID, &tx.Amount.Cents,
		&tx.Description, &date, &typ, &tx.PaymentMethod, &tx.IsRecurring,
		&tx.CreatedAt, &tx.UpdatedAt, &catName, &catColor, &catIcon)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.CategoryID = categoryID.String
	tx.Type = core.TransactionType(typ)
	if tx.Date, err = parseDate(date); err != nil {
		return core.Transaction{}, err
	}
	if catName.Valid {
		tx.Category = &core.CategoryRef{
			Name:  catName.String,
			Color: catColor.String,
			Icon:  catIcon.String,
		}
	}
	return tx, nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.DateOf(t), nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func wrapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
