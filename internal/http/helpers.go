package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const dateLayout = "2006-01-02"

var errMissingUser = errors.New("missing X-User-ID header")

// requireUser extracts the owner reference from the request. The service
// trusts the header; authentication lives in front of it.
func requireUser(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if id == "" {
		return "", errMissingUser
	}
	return id, nil
}

// clientIP extracts the client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.Index(ip, ","); idx >= 0 {
			ip = ip[:idx]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// parseDateParam parses an optional YYYY-MM-DD query parameter in loc.
func parseDateParam(value string, loc *time.Location) (*core.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}
	d := core.DateOf(t)
	return &d, nil
}

// parsePage returns the requested page number, defaulting to 1. Out-of-range
// values are left for the paginator to clamp.
func parsePage(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 1
	}
	return n
}

// sanitizeInput strips control characters from free-text query input.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// Trailing-range presets accepted by the report endpoint.
var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// reportWindow resolves the report range from either explicit start/end
// dates or a trailing period preset, defaulting to the last 30 days.
func reportWindow(r *http.Request, now time.Time, loc *time.Location) (core.Window, error) {
	start, err := parseDateParam(r.URL.Query().Get("start"), loc)
	if err != nil {
		return core.Window{}, err
	}
	end, err := parseDateParam(r.URL.Query().Get("end"), loc)
	if err != nil {
		return core.Window{}, err
	}
	if start != nil && end != nil {
		if end.Before(*start) {
			return core.Window{}, errors.New("end date before start date")
		}
		return core.Window{Start: *start, End: *end}, nil
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}
	days, ok := periodDays[period]
	if !ok {
		return core.Window{}, errors.New("invalid period, expected 7d, 30d, 90d, or 1y")
	}
	return core.TrailingWindow(now, days), nil
}

// storeStatus maps storage errors to HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
