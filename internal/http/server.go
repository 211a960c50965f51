// Package http serves the JSON API: dashboard, income, report, budget, and
// transaction views over the storage layer, with CSV export endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// Server wires the JSON API over a store and the transaction service.
type Server struct {
	http.Server

	store        storage.Store
	transactions *services.TransactionService

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	dashboardCache *cache.LRU[analytics.Dashboard]
	reportCache    *cache.LRU[analytics.Report]
	cacheManager   *cache.Manager

	// now and loc are the clock boundary: handlers resolve the reference
	// instant here and the analytics engine below stays pure.
	now func() time.Time
	loc *time.Location

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// loc is the zone month and day windows are computed in.
func NewServer(addr string, store storage.Store, transactions *services.TransactionService, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}

	mux := http.NewServeMux()

	s := &Server{
		store:          store,
		transactions:   transactions,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:         trace.NewMiddleware(clientIP),
		dashboardCache: cache.NewLRU[analytics.Dashboard](100, 5*time.Minute),
		reportCache:    cache.NewLRU[analytics.Report](200, 5*time.Minute),
		cacheManager:   cache.NewManager(),
		now:            time.Now,
		loc:            loc,
	}
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/income", s.handleIncome)
	mux.HandleFunc("/api/income/export", s.handleIncomeExport)
	mux.HandleFunc("/api/reports", s.handleReports)
	mux.HandleFunc("/api/reports/export", s.handleReportExport)
	mux.HandleFunc("/api/budgets", s.handleBudgets)
	mux.HandleFunc("/api/budgets/", s.handleBudgetByID)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/export", s.handleTransactionExport)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/categories/", s.handleCategoryByID)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := headers.Middleware(s.withMutationLimit(mux))
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// withMutationLimit rate limits non-GET requests per client IP.
func (s *Server) withMutationLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.limiter.Allow(clientIP(r)) {
			slog.WarnContext(r.Context(), "rate limit exceeded",
				"client_ip", clientIP(r), "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateViews drops every cached view of one owner after a write.
func (s *Server) invalidateViews(userID string) {
	s.dashboardCache.DeletePrefix(userID + ":")
	s.reportCache.DeletePrefix(userID + ":")
}

// Shutdown gracefully stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Error("failed writing health response", "error", err)
	}
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Error("failed writing ready response", "error", err)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	m := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_requests":       m.TotalRequests,
		"avg_response_time_us": m.AverageResponseTime,
		"rate_limited_clients": s.limiter.ActiveClients(),
		"dashboard_cache_size": s.dashboardCache.Size(),
		"report_cache_size":    s.reportCache.Size(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCSV sends body as a CSV file download.
func writeCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed writing csv response", "error", err)
	}
}
