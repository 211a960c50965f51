package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		categories, err := s.store.ListCategories(r.Context(), userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed listing categories", "error", err, "user_id", userID)
			writeError(w, storeStatus(err), "failed listing categories")
			return
		}
		views := make([]categoryJSON, 0, len(categories))
		for _, c := range categories {
			views = append(views, categoryView(c))
		}
		writeJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var req categoryRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category := req.toCategory()
		category.ID = uuid.NewString()
		category.UserID = userID
		category.CreatedAt = s.now()
		category.UpdatedAt = category.CreatedAt
		if err := category.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.CreateCategory(r.Context(), category); err != nil {
			writeError(w, storeStatus(err), "failed creating category")
			return
		}
		writeJSON(w, http.StatusCreated, categoryView(category))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Deleting a category detaches its transactions, which changes how
	// they group in cached views.
	if err := s.store.DeleteCategory(r.Context(), userID, id); err != nil {
		writeError(w, storeStatus(err), "failed deleting category")
		return
	}
	s.invalidateViews(userID)
	w.WriteHeader(http.StatusNoContent)
}
