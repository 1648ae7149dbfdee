package api

import (
	"net/http"

	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Deposit     decimal.Decimal `json:"deposit"`
}

// registerResponse is the only response that carries the API token.
type registerResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type defaultCategoryRequest struct {
	CategoryID uint `json:"categoryId"`
}

type depositRequest struct {
	Deposit decimal.Decimal `json:"deposit"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	u, err := s.svc.RegisterUser(r.Context(), req.Email, req.DisplayName, req.Deposit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{User: u, Token: u.APIToken})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Profile(r.Context(), currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleSetDefaultCategory(w http.ResponseWriter, r *http.Request) {
	var req defaultCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	u, err := s.svc.SetDefaultCategory(r.Context(), currentUser(r), req.CategoryID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	u, err := s.svc.UpdateDeposit(r.Context(), currentUser(r), req.Deposit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
