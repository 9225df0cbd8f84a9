// Package api exposes the reputation engine over HTTP. Identity resolution
// happens upstream; handlers receive the account identifier directly.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/loopwork/credo/internal/cadence"
	"github.com/loopwork/credo/internal/domain"
	"github.com/loopwork/credo/internal/registration"
)

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, in registration.Input) (*domain.Account, error)
}

// LoginRecorder appends and classifies one login.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, accountID uuid.UUID) (*cadence.Result, error)
}

// Refresher runs the aggregation cycles against the scoring model.
type Refresher interface {
	Refresh(ctx context.Context, accountID uuid.UUID) (*domain.Snapshot, error)
	CreditScore(ctx context.Context, accountID uuid.UUID) (float64, error)
}

// Ranker serves ranked leaderboard views.
type Ranker interface {
	Rank(ctx context.Context, role domain.Role, limit int) ([]domain.LeaderboardEntry, error)
}

// AccountReader reads account state and appends ratings.
type AccountReader interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	AddRating(ctx context.Context, id uuid.UUID, rating float64) (float64, error)
}

type Server struct {
	router    *chi.Mux
	port      int
	registrar Registrar
	logins    LoginRecorder
	refresher Refresher
	ranker    Ranker
	accounts  AccountReader
}

func NewServer(port int, registrar Registrar, logins LoginRecorder, refresher Refresher, ranker Ranker, accounts AccountReader) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		registrar: registrar,
		logins:    logins,
		refresher: refresher,
		ranker:    ranker,
		accounts:  accounts,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/credo/status", s.status)
	router.Post("/api/v1/accounts", s.register)
	router.Post("/api/v1/accounts/{accountID}/logins", s.recordLogin)
	router.Post("/api/v1/accounts/{accountID}/refresh", s.refresh)
	router.Post("/api/v1/accounts/{accountID}/credit-score", s.creditScore)
	router.Get("/api/v1/accounts/{accountID}/score", s.score)
	router.Post("/api/v1/accounts/{accountID}/ratings", s.addRating)
	router.Get("/api/v1/leaderboard", s.leaderboard)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "credo",
		"status":  "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy to a stable machine-readable kind plus
// a human-readable message. Upstream and internal failures get generic
// messages; transport detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.ErrorKind(err)

	var status int
	message := err.Error()
	switch kind {
	case "validation_error":
		status = http.StatusBadRequest
	case "not_found":
		status = http.StatusNotFound
	case "concurrency_conflict":
		status = http.StatusConflict
	case "upstream_unavailable":
		status = http.StatusServiceUnavailable
		message = "scoring model unavailable, retry later"
	default:
		status = http.StatusInternalServerError
		message = "internal error"
		slog.Error("request failed", "error", err)
	}

	writeJSON(w, status, map[string]any{
		"error": map[string]string{"kind": kind, "message": message},
	})
}

func accountIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		return uuid.Nil, domain.Validationf("invalid account id")
	}
	return id, nil
}
