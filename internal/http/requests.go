package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/core"
)

const maxBodyBytes = 64 << 10

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

type transactionRequest struct {
	CategoryID    string `json:"category_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	PaymentMethod string `json:"payment_method"`
	IsRecurring   bool   `json:"is_recurring"`
}

// toTransaction builds a domain transaction from the request. ID and UserID
// are assigned by the handler.
func (req transactionRequest) toTransaction(loc *time.Location) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDateParam(req.Date, loc)
	if err != nil || date == nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	return core.Transaction{
		CategoryID:    req.CategoryID,
		Amount:        core.Money{Cents: cents},
		Description:   sanitizeInput(req.Description),
		Date:          *date,
		Type:          core.TransactionType(req.Type),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		IsRecurring:   req.IsRecurring,
	}, nil
}

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (req categoryRequest) toCategory() core.Category {
	return core.Category{
		Name:  sanitizeInput(req.Name),
		Type:  core.TransactionType(req.Type),
		Color: req.Color,
		Icon:  req.Icon,
	}
}

type budgetRequest struct {
	CategoryID string `json:"category_id"`
	Amount     string `json:"amount"`
	Period     string `json:"period"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (req budgetRequest) toBudget(loc *time.Location) (core.Budget, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := parseDateParam(req.StartDate, loc)
	if err != nil || start == nil {
		return core.Budget{}, core.ErrInvalidDate
	}
	end, err := parseDateParam(req.EndDate, loc)
	if err != nil || end == nil {
		return core.Budget{}, core.ErrInvalidDate
	}
	return core.Budget{
		CategoryID: req.CategoryID,
		Amount:     core.Money{Cents: cents},
		Period:     core.BudgetPeriod(req.Period),
		StartDate:  *start,
		EndDate:    *end,
	}, nil
}
