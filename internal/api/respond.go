package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"go.uber.org/zap"
)

// --- request helpers ---

var errEmptyBody = fmt.Errorf("%w: request body is empty", journal.ErrValidation)

// decodeJSON strictly decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("%w: invalid request body: %v", journal.ErrValidation, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", journal.ErrValidation)
	}
	return nil
}

// pathID parses the {id} path value as a positive integer.
func pathID(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", journal.ErrValidation, raw)
	}
	return uint(n), nil
}

// parseTime accepts RFC 3339 timestamps or YYYY-MM-DD dates. A bare date used
// as an upper bound covers the whole day.
func parseTime(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD or RFC 3339", journal.ErrValidation, v)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseFilter reads a TradeFilter from the query string:
// from, to, symbol, side, categoryId and excludeDemo.
func parseFilter(r *http.Request) (journal.TradeFilter, error) {
	q := r.URL.Query()
	var f journal.TradeFilter
	var err error

	if v := q.Get("from"); v != "" {
		if f.From, err = parseTime(v, false); err != nil {
			return f, err
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, err = parseTime(v, true); err != nil {
			return f, err
		}
	}
	f.Symbol = strings.ToUpper(strings.TrimSpace(q.Get("symbol")))
	f.Side = models.Side(strings.ToUpper(strings.TrimSpace(q.Get("side"))))

	if v := q.Get("categoryId"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: invalid categoryId %q", journal.ErrValidation, v)
		}
		f.CategoryID = uint(n)
	}
	if v := q.Get("excludeDemo"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("%w: invalid excludeDemo %q", journal.ErrValidation, v)
		}
		f.ExcludeDemo = b
	}
	return f, f.Validate()
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a journal error class to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, journal.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, journal.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status. Server faults are
// logged and their details withheld from the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("internal_error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
