package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.budgetSummary(w, r)
	case http.MethodPost:
		s.createBudget(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// budgetSummary evaluates every monthly budget against the expenses of its
// own [StartDate, EndDate] window.
func (s *Server) budgetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budgets, err := s.store.ListBudgets(r.Context(), userID, storage.BudgetQuery{Period: core.Monthly})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed loading budgets", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed loading budgets")
		return
	}
	if len(budgets) == 0 {
		writeJSON(w, http.StatusOK, budgetSummaryView(analytics.EvaluateBudgets(nil, nil)))
		return
	}

	// One query spanning every listed budget; the evaluator narrows each
	// budget to its own window.
	span := core.Window{Start: budgets[0].StartDate, End: budgets[0].EndDate}
	for _, b := range budgets[1:] {
		if b.StartDate.Before(span.Start) {
			span.Start = b.StartDate
		}
		if b.EndDate.After(span.End) {
			span.End = b.EndDate
		}
	}
	txs, err := s.store.ListTransactions(r.Context(), userID, storage.TransactionQuery{
		From: &span.Start,
		To:   &span.End,
		Type: core.Expense,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed loading budget spend", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed loading budgets")
		return
	}

	summary := analytics.EvaluateBudgets(budgets, txs)
	writeJSON(w, http.StatusOK, budgetSummaryView(summary))
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := req.toBudget(s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget.ID = uuid.NewString()
	budget.UserID = userID
	budget.CreatedAt = s.now()
	budget.UpdatedAt = budget.CreatedAt
	if err := budget.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateBudget(r.Context(), budget); err != nil {
		writeError(w, storeStatus(err), "failed creating budget")
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusCreated, budgetView(budget))
}

func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req budgetRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		budget, err := req.toBudget(s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		budget.ID = id
		budget.UserID = userID
		budget.UpdatedAt = s.now()
		if err := budget.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.UpdateBudget(r.Context(), budget); err != nil {
			writeError(w, storeStatus(err), "failed updating budget")
			return
		}
		s.invalidateViews(userID)
		writeJSON(w, http.StatusOK, budgetView(budget))

	case http.MethodDelete:
		if err := s.store.DeleteBudget(r.Context(), userID, id); err != nil {
			writeError(w, storeStatus(err), "failed deleting budget")
			return
		}
		s.invalidateViews(userID)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
