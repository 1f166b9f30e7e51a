// internal/httpserver/server.go
//
// HTTP wiring for the kitchen game backend.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, timeouts, JSON,
//     credentialed CORS).
//   - Public endpoints: "/", "/health", "/api/config".
//   - Game endpoints under /api/wordle: state, guess, hint, leaderboard,
//     new-round, history.
//   - Discord token exchange + activity token minting (token.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - The activity token is optional on game routes: when present it
//     overrides the player identity supplied in the body/query, matching
//     the original launcher contract where guests can always play.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/ochakos-kitchen/go-server/internal/catalog"
	"github.com/ochakos-kitchen/go-server/internal/round"
)

// Server bundles the router and the round manager.
type Server struct {
	r   *chi.Mux
	mgr *round.Manager
}

// New constructs a Server, installs middleware, and registers routes.
func New(mgr *round.Manager) *Server {
	s := &Server{r: chi.NewRouter(), mgr: mgr}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"ochakos-kitchen","endpoints":["/health","/api/config","/api/wordle/state","POST /api/wordle/guess","POST /api/wordle/hint","/api/wordle/leaderboard","POST /api/wordle/new-round"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/api/config", s.handleConfig)
	s.r.Post("/api/token", s.handleToken)

	s.r.Route("/api/wordle", func(r chi.Router) {
		r.Use(s.withActivityToken())
		r.Get("/state", s.handleState)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/new-round", s.handleNewRound)
		r.Get("/history", s.handleHistory)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	// Debug: catalog counts
	s.r.Get("/debug/catalog", func(w http.ResponseWriter, r *http.Request) {
		d, v := catalog.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"dishes": d, "validWords": v})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// handleState returns the round + player session snapshot. Creates the
// session lazily for an unseen playerId.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id, name := s.playerIdentity(r, r.URL.Query().Get("playerId"), "")
	snap := s.mgr.GetState(r.Context(), id, name)
	_ = json.NewEncoder(w).Encode(snap)
}

// guessReq is the payload for POST /api/wordle/guess.
type guessReq struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Guess      string `json:"guess"`
}

// handleGuess submits one guess. Missing identifiers are the only
// protocol-level (400) failure; everything else is a non-success body.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id, name := s.playerIdentity(r, req.PlayerID, req.PlayerName)
	if id == "" || req.Guess == "" {
		http.Error(w, `{"error":"Missing playerId or guess"}`, http.StatusBadRequest)
		return
	}
	out := s.mgr.SubmitGuess(r.Context(), id, name, req.Guess)
	_ = json.NewEncoder(w).Encode(out)
}

// hintReq is the payload for POST /api/wordle/hint.
type hintReq struct {
	PlayerID string `json:"playerId"`
}

// handleHint issues the next hint for the player.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id, _ := s.playerIdentity(r, req.PlayerID, "")
	out, err := s.mgr.RequestHint(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"Player not found"}`, http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleLeaderboard returns the top 10 durable standings.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.mgr.Leaderboard(r.Context(), 10)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"leaderboard": rows})
}

// handleNewRound rotates the shared round.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	res := s.mgr.Rotate(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "New round started!",
		"dish":    res.Dish,
	})
}

// handleHistory returns the rotation archive.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"history": s.mgr.History()})
}
