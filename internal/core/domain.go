package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	Monthly BudgetPeriod = "monthly"
	Weekly  BudgetPeriod = "weekly"
	Yearly  BudgetPeriod = "yearly"
)

type (
	TransactionType string

	BudgetPeriod string

	// Date is a calendar day. The time-of-day portion is always midnight in
	// the location the caller computes windows in.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// CategoryRef is the joined category data carried on transactions and
	// budgets. It is nil when the referenced category no longer exists.
	CategoryRef struct {
		Name  string
		Color string
		Icon  string
	}

	Transaction struct {
		ID            string
		UserID        string
		CategoryID    string
		Amount        Money
		Description   string
		Date          Date
		Type          TransactionType
		PaymentMethod string
		IsRecurring   bool
		CreatedAt     time.Time
		UpdatedAt     time.Time
		Category      *CategoryRef
	}

	Category struct {
		ID        string
		UserID    string
		Name      string
		Type      TransactionType
		Color     string
		Icon      string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Budget struct {
		ID         string
		UserID     string
		CategoryID string
		Amount     Money
		Period     BudgetPeriod
		StartDate  Date
		EndDate    Date
		CreatedAt  time.Time
		UpdatedAt  time.Time
		Category   *CategoryRef
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category reference")
	ErrInvalidWindow    = errors.New("end date before start date")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day, preserving the location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Before reports whether d is on an earlier calendar day than other.
// Comparison is by calendar day, not by instant, so dates built in
// different locations compare predictably.
func (d Date) Before(other Date) bool {
	if d.Year() != other.Year() {
		return d.Year() < other.Year()
	}
	if d.Month() != other.Month() {
		return d.Month() < other.Month()
	}
	return d.Day() < other.Day()
}

// After reports whether d is on a later calendar day than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the difference of two amounts. Balances may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case Monthly, Weekly, Yearly:
		return true
	default:
		return false
	}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if err := b.StartDate.Validate(); err != nil {
		return err
	}
	if err := b.EndDate.Validate(); err != nil {
		return err
	}
	if b.EndDate.Before(b.StartDate) {
		return ErrInvalidWindow
	}
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// CategoryName returns the joined category name, or fallback when the
// relation is missing.
func (t Transaction) CategoryName(fallback string) string {
	if t.Category != nil && t.Category.Name != "" {
		return t.Category.Name
	}
	return fallback
}
