package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// errInvalidQuery marks listing errors caused by the request, not storage.
var errInvalidQuery = errors.New("invalid query")

// listFiltered loads an owner's transactions with storage-level date/type
// filters and applies the in-memory search filter on top.
func (s *Server) listFiltered(r *http.Request, userID string) ([]core.Transaction, error) {
	q := r.URL.Query()

	from, err := parseDateParam(q.Get("from"), s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %s", errInvalidQuery, err)
	}
	to, err := parseDateParam(q.Get("to"), s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %s", errInvalidQuery, err)
	}

	txs, err := s.store.ListTransactions(r.Context(), userID, storage.TransactionQuery{
		From: from,
		To:   to,
		Type: core.TransactionType(q.Get("type")),
	})
	if err != nil {
		return nil, err
	}

	filtered := analytics.ApplyFilter(txs, analytics.Filter{
		Search:   sanitizeInput(q.Get("search")),
		Category: sanitizeInput(q.Get("category")),
	})
	// Listings are newest-first regardless of what order the store returns.
	return analytics.SortByDateDesc(filtered), nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.listFiltered(r, userID)
	if err != nil {
		if errors.Is(err, errInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed listing transactions", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed listing transactions")
		return
	}

	page := analytics.Paginate(txs, parsePage(r.URL.Query().Get("page")))
	writeJSON(w, http.StatusOK, pageView(page))
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toTransaction(s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx.ID = uuid.NewString()
	tx.UserID = userID
	tx.CreatedAt = s.now()
	tx.UpdatedAt = tx.CreatedAt
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transactions.Create(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "failed creating transaction", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed creating transaction")
		return
	}
	s.invalidateViews(userID)

	created, err := s.store.GetTransaction(r.Context(), userID, tx.ID)
	if err != nil {
		created = tx
	}
	writeJSON(w, http.StatusCreated, transactionView(created))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
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
	case http.MethodGet:
		tx, err := s.store.GetTransaction(r.Context(), userID, id)
		if err != nil {
			writeError(w, storeStatus(err), "transaction not found")
			return
		}
		writeJSON(w, http.StatusOK, transactionView(tx))

	case http.MethodPut:
		var req transactionRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tx, err := req.toTransaction(s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tx.ID = id
		tx.UserID = userID
		tx.UpdatedAt = s.now()
		if err := tx.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.transactions.Update(r.Context(), tx); err != nil {
			writeError(w, storeStatus(err), "failed updating transaction")
			return
		}
		s.invalidateViews(userID)
		updated, err := s.store.GetTransaction(r.Context(), userID, id)
		if err != nil {
			updated = tx
		}
		writeJSON(w, http.StatusOK, transactionView(updated))

	case http.MethodDelete:
		if err := s.transactions.Delete(r.Context(), userID, id); err != nil {
			writeError(w, storeStatus(err), "failed deleting transaction")
			return
		}
		s.invalidateViews(userID)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTransactionExport streams the filtered listing as a CSV download.
func (s *Server) handleTransactionExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.listFiltered(r, userID)
	if err != nil {
		if errors.Is(err, errInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed exporting transactions", "error", err, "user_id", userID)
		writeError(w, storeStatus(err), "failed exporting transactions")
		return
	}

	now := s.now().In(s.loc)
	writeCSV(w, analytics.ExportFilename("transactions", now), analytics.ExportCSV(txs))
}
