package api

import (
	"errors"
	"net/http"

	"trading-journal-go/internal/models"
)

type demoRequest struct {
	Count int `json:"count"`
}

type demoResponse struct {
	Created int            `json:"created"`
	Trades  []models.Trade `json:"trades"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	d, err := s.svc.Dashboard(r.Context(), currentUser(r), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleGenerateDemo accepts an optional {"count": n} body.
func (s *Server) handleGenerateDemo(w http.ResponseWriter, r *http.Request) {
	req := demoRequest{Count: s.defaultDemoCount}
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		s.writeServiceError(w, r, err)
		return
	}

	trades, err := s.svc.GenerateDemoTrades(r.Context(), currentUser(r), req.Count)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, demoResponse{Created: len(trades), Trades: trades})
}

func (s *Server) handleClearDemo(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.ClearDemoTrades(r.Context(), currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
