package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/analytics"
	"fintrack/internal/storage"
)

var errReportLoad = errors.New("failed loading report")

// handleReports serves the date-range report. The range comes from explicit
// start/end dates or a trailing period preset; built reports are cached per
// owner and range.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, status, err := s.buildReport(r, userID)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reportView(report))
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, status, err := s.buildReport(r, userID)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	now := s.now().In(s.loc)
	writeCSV(w, analytics.ExportFilename("expense-report", now), analytics.ExportReportCSV(report))
}

func (s *Server) buildReport(r *http.Request, userID string) (analytics.Report, int, error) {
	now := s.now().In(s.loc)
	window, err := reportWindow(r, now, s.loc)
	if err != nil {
		return analytics.Report{}, http.StatusBadRequest, err
	}

	cacheKey := userID + ":" + window.Start.Format(dateLayout) + ":" + window.End.Format(dateLayout)
	if cached, ok := s.reportCache.Get(cacheKey); ok {
		return cached, http.StatusOK, nil
	}

	txs, err := s.store.ListTransactions(r.Context(), userID, storage.TransactionQuery{
		From: &window.Start,
		To:   &window.End,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed loading report data", "error", err, "user_id", userID)
		return analytics.Report{}, storeStatus(err), errReportLoad
	}

	report := analytics.BuildReport(txs, window, now)
	s.reportCache.Set(cacheKey, report)
	return report, http.StatusOK, nil
}
