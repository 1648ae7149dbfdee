package api

import (
	"bytes"
	"net/http"

	"trading-journal-go/internal/journal"
)

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	trades, err := s.svc.ListTrades(r.Context(), currentUser(r), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var in journal.TradeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	t, err := s.svc.CreateTrade(r.Context(), currentUser(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.GetTrade(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	var in journal.TradeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	t, err := s.svc.UpdateTrade(r.Context(), currentUser(r), r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTrade(r.Context(), currentUser(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportTrades buffers the CSV so failures still get a JSON error.
func (s *Server) handleExportTrades(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.svc.ExportTrades(r.Context(), currentUser(r), f, &buf); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
