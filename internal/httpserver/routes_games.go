// internal/httpserver/routes_games.go
//
// HTTP routes for keeping score.
//   - POST  /games                                    → create a game
//   - GET   /games                                    → list games, newest first
//   - GET   /games/mine                               → games created by the caller (auth)
//   - GET   /games/{gameId}                           → full game state
//   - PATCH /games/{gameId}/players/{playerId}/frames → submit the player's next frame
//   - GET   /games/{gameId}/result                    → ranked standings
//
// When a submission completes a game, its final totals are recorded on the
// high-score board (best effort).

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bowling/internal/game"
	"github.com/robalobadob/bowling/internal/store"
)

var errInvalidRequest = errors.New("invalid request")

// mountGames registers all /games routes.
func (s *Server) mountGames(r chi.Router) {
	r.Post("/games", s.handleCreateGame)
	r.Get("/games", s.handleListGames)
	r.With(s.requireAuth()).Get("/games/mine", s.handleMyGames)
	r.Get("/games/{gameId}", s.handleGetGame)
	r.Patch("/games/{gameId}/players/{playerId}/frames", s.handleSubmitFrame)
	r.Get("/games/{gameId}/result", s.handleResult)
}

// -----------------------------------------------------------------------------
// POST /games

// createGameReq is the request payload for POST /games.
type createGameReq struct {
	Name    string   `json:"name"`    // optional; generated when blank
	Players []string `json:"players"` // 1–5 distinct names
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	g, err := game.New(req.Name, req.Players, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if me := currentUser(r); me != nil {
		g.OwnerID = me.ID
	}
	if err := s.store.Create(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameId", g.ID.String()).Str("name", g.Name).Int("players", len(g.Players)).Msg("game created")
	writeJSON(w, http.StatusCreated, g)
}

// -----------------------------------------------------------------------------
// GET /games, GET /games/mine

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(games, func(*game.Game) bool { return true }))
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	if me == nil {
		writeError(w, r, errUnauthorized)
		return
	}
	games, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(games, func(g *game.Game) bool { return g.OwnerID == me.ID }))
}

// summaries keeps the store's newest-first order.
func summaries(games []*game.Game, keep func(*game.Game) bool) []game.Summary {
	out := []game.Summary{}
	for _, g := range games {
		if keep(g) {
			out = append(out, g.Summary())
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// GET /games/{gameId}, GET /games/{gameId}/result

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGame(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Result())
}

func (s *Server) loadGame(r *http.Request) (*game.Game, error) {
	id, err := game.ParseID(chi.URLParam(r, "gameId"))
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// -----------------------------------------------------------------------------
// PATCH /games/{gameId}/players/{playerId}/frames

// submitFrameReq is the request payload for a frame submission.
type submitFrameReq struct {
	Rolls []string `json:"rolls"` // e.g. ["X"], ["7","/"], ["X","X","9"]
}

func (s *Server) handleSubmitFrame(w http.ResponseWriter, r *http.Request) {
	gameID, err := game.ParseID(chi.URLParam(r, "gameId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	playerID, err := game.ParseID(chi.URLParam(r, "playerId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req submitFrameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}
	if req.Rolls == nil {
		writeError(w, r, fmt.Errorf("%w: rolls is required", errInvalidRequest))
		return
	}

	// completedNow is reset on every attempt; Update may retry fn.
	var completedNow bool
	g, err := store.Update(r.Context(), s.store, gameID, func(g *game.Game) error {
		wasCompleted := g.Completed
		if _, err := g.SubmitFrame(playerID, req.Rolls, s.now()); err != nil {
			return err
		}
		completedNow = !wasCompleted && g.Completed
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if completedNow {
		log.Info().Str("gameId", g.ID.String()).Msg("game completed")
		if err := s.scores.Record(r.Context(), g); err != nil {
			log.Warn().Err(err).
				Str("requestId", chimw.GetReqID(r.Context())).
				Str("gameId", g.ID.String()).
				Msg("record high scores")
		}
	}
	writeJSON(w, http.StatusOK, g)
}
