// internal/httpserver/server.go
//
// HTTP server wiring for the bowling backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     request logging, JSON, CORS).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /games/*.
//   - High-score board: GET /highscores.
//   - Scorekeeper accounts: /auth/*, GET /games/mine (require auth).
//
// Notes:
//   - Domain errors are mapped to HTTP statuses in one place (writeError).
//   - Frame submissions go through store.Update, so concurrent writers to the
//     same game are serialized by the store's version check.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bowling/internal/bowling"
	"github.com/robalobadob/bowling/internal/config"
	"github.com/robalobadob/bowling/internal/game"
	"github.com/robalobadob/bowling/internal/highscores"
	"github.com/robalobadob/bowling/internal/store"
)

// Server bundles router, game store, and DB handle (users, high scores).
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	store  store.Store
	db     *sql.DB
	scores *highscores.Store
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		store:  st,
		db:     db,
		scores: highscores.NewStore(db),
		now:    time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                     // one log line per request
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"bowling-go","endpoints":["/health","/games","/highscores","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Scorekeeper accounts
	s.mountAuthRoutes()

	// Games: optional auth (anyone can keep score; logged-in users own their games)
	s.mountGames(s.r.With(s.withOptionalAuth()))

	s.mountHighScores(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ responses ----------------------------------

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps domain errors to a status and error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, status, errorBody{Error: code})
		return
	}
	writeJSON(w, status, errorBody{Error: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	// An unparseable token is both an invalid roll and an invalid frame; the
	// more specific code wins.
	case errors.Is(err, bowling.ErrInvalidRoll):
		return http.StatusBadRequest, "invalid_roll"
	case errors.Is(err, bowling.ErrInvalidFrame):
		return http.StatusBadRequest, "invalid_frame"
	case errors.Is(err, game.ErrFrameLimitExceeded):
		return http.StatusBadRequest, "frame_limit_exceeded"
	case errors.Is(err, game.ErrInvalidIdentifier):
		return http.StatusBadRequest, "invalid_identifier"
	case errors.Is(err, game.ErrInvalidGame):
		return http.StatusBadRequest, "invalid_game"
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound, "player_not_found"
	case errors.Is(err, store.ErrGameNotFound):
		return http.StatusNotFound, "game_not_found"
	case errors.Is(err, store.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, errUsernameTaken):
		return http.StatusConflict, "username_taken"
	case errors.Is(err, errInvalidSignup):
		return http.StatusBadRequest, "invalid_signup"
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
