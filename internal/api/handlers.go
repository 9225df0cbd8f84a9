package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/loopwork/credo/internal/domain"
	"github.com/loopwork/credo/internal/registration"
)

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	EngagementID int64  `json:"engagement_id"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("malformed request body"))
		return
	}

	account, err := s.registrar.Register(r.Context(), registration.Input{
		Username:     req.Username,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		EngagementID: req.EngagementID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"account_id":    account.ID,
		"username":      account.Username,
		"role":          account.Role,
		"tier":          account.Scores.Tier,
		"initial_boost": account.Scores.InitialBoost,
	})
}

func (s *Server) recordLogin(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// A bot-like classification is a successfully computed result, not an
	// error; it travels in the body with accepted=false.
	result, err := s.logins.RecordLogin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := s.refresher.Refresh(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) creditScore(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	credit, err := s.refresher.CreditScore(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account_id": id, "credit_score": credit})
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := s.accounts.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id":      account.ID,
		"username":        account.Username,
		"role":            account.Role,
		"rating":          account.Rating,
		"level_score":     account.Scores.LevelScore,
		"credit_score":    account.Scores.CreditScore,
		"spam_score":      account.Scores.SpamScore,
		"tier":            account.Scores.Tier,
		"initial_boost":   account.Scores.InitialBoost,
		"last_calculated": account.Scores.LastCalculated,
	})
}

type ratingRequest struct {
	Rating float64 `json:"rating"`
}

func (s *Server) addRating(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("malformed request body"))
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		writeError(w, domain.Validationf("rating must be between 0 and 5"))
		return
	}

	avg, err := s.accounts.AddRating(r.Context(), id, req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account_id": id, "rating": avg})
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, domain.Validationf("limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := s.ranker.Rank(r.Context(), role, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
