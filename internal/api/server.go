package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Server is the REST adapter over a journal.Service.
type Server struct {
	svc        *journal.Service
	log        *zap.Logger
	httpServer *http.Server
	corsOrigin string

	defaultDemoCount int
}

// NewServer wires routes and middleware.
func NewServer(svc *journal.Service, cfg config.Config, log *zap.Logger) *Server {
	s := &Server{
		svc:              svc,
		log:              log.Named("api"),
		corsOrigin:       cfg.Server.CORSAllowOrigin,
		defaultDemoCount: cfg.Demo.DefaultCount,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Handler returns the full middleware chain around the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check and registration (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/users", s.handleRegister)

	// Profile routes
	mux.HandleFunc("GET /api/me", s.handleProfile)
	mux.HandleFunc("PUT /api/me/default-category", s.handleSetDefaultCategory)
	mux.HandleFunc("PUT /api/me/deposit", s.handleUpdateDeposit)

	// Trade routes
	mux.HandleFunc("GET /api/trades", s.handleListTrades)
	mux.HandleFunc("POST /api/trades", s.handleCreateTrade)
	mux.HandleFunc("GET /api/trades/export", s.handleExportTrades)
	mux.HandleFunc("GET /api/trades/{id}", s.handleGetTrade)
	mux.HandleFunc("PUT /api/trades/{id}", s.handleUpdateTrade)
	mux.HandleFunc("DELETE /api/trades/{id}", s.handleDeleteTrade)

	// Statistics
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	// Category routes
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleRenameCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	// Demo routes
	mux.HandleFunc("POST /api/demo/trades", s.handleGenerateDemo)
	mux.HandleFunc("DELETE /api/demo/trades", s.handleClearDemo)

	return s.logMiddleware(corsMiddleware(s.authMiddleware(mux), s.corsOrigin))
}

// Start blocks serving requests until Shutdown.
func (s *Server) Start() error {
	s.log.Info("REST API server started", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- middleware ---

type ctxKey int

const userKey ctxKey = iota

// currentUser returns the authenticated user's id, or 0.
func currentUser(r *http.Request) uint {
	u, ok := r.Context().Value(userKey).(*models.User)
	if !ok {
		return 0
	}
	return u.ID
}

func isPublic(r *http.Request) bool {
	return r.URL.Path == "/health" ||
		(r.Method == http.MethodPost && r.URL.Path == "/api/users")
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r) {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			writeError(w, http.StatusUnauthorized, "expected a Bearer token")
			return
		}

		u, err := s.svc.Authenticate(r.Context(), token)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if allowOrigin != "*" {
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("ip", r.RemoteAddr),
			zap.Duration("latency", time.Since(start)),
		)
	})
}
