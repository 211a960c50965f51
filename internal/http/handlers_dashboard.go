package http

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// handleDashboard serves the current-month dashboard. Transactions and
// budgets are fetched concurrently and the built view is cached per owner
// and month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now().In(s.loc)
	cacheKey := userID + ":" + now.Format("2006-01")
	if cached, ok := s.dashboardCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, dashboardView(cached))
		return
	}

	window := core.MonthWindow(now)
	var (
		txs     []core.Transaction
		budgets []core.Budget
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(ctx, userID, storage.TransactionQuery{
			From: &window.Start,
			To:   &window.End,
		})
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(ctx, userID, storage.BudgetQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "failed loading dashboard data", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed loading dashboard")
		return
	}

	dashboard := analytics.BuildDashboard(txs, budgets, now)
	s.dashboardCache.Set(cacheKey, dashboard)
	writeJSON(w, http.StatusOK, dashboardView(dashboard))
}
