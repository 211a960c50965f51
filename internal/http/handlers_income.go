package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// handleIncome serves income analytics plus the filtered income listing.
// Stats always cover every income transaction; search and category only
// narrow the listing.
func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), userID, storage.TransactionQuery{Type: core.Income})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed loading income", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed loading income")
		return
	}

	now := s.now().In(s.loc)
	view := analytics.BuildIncomeAnalytics(txs, now)
	filtered := analytics.FilterIncome(txs,
		sanitizeInput(r.URL.Query().Get("search")),
		sanitizeInput(r.URL.Query().Get("category")))

	writeJSON(w, http.StatusOK, incomeView(view, filtered))
}

func (s *Server) handleIncomeExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), userID, storage.TransactionQuery{Type: core.Income})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed exporting income", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed exporting income")
		return
	}
	filtered := analytics.FilterIncome(txs,
		sanitizeInput(r.URL.Query().Get("search")),
		sanitizeInput(r.URL.Query().Get("category")))

	now := s.now().In(s.loc)
	writeCSV(w, analytics.ExportFilename("income-report", now), analytics.ExportIncomeCSV(filtered))
}
