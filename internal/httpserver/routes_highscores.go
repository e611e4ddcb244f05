// internal/httpserver/routes_highscores.go
//
// HTTP route for the per-day high-score board.
//   - GET /highscores?date=YYYY-MM-DD&limit=N → best totals of completed games
//
// date defaults to today (UTC); limit defaults to highscores.DefaultLimit.

package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/bowling/internal/highscores"
)

// mountHighScores registers the /highscores route.
func (s *Server) mountHighScores(r chi.Router) {
	r.Get("/highscores", s.handleHighScores)
}

// highScoresRes is returned by /highscores.
type highScoresRes struct {
	Date string             `json:"date"`
	Top  []highscores.Entry `json:"top"`
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := highscores.DateKey(s.now())
	if v := q.Get("date"); v != "" {
		d, err := highscores.ParseDate(v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: date must be YYYY-MM-DD", errInvalidRequest))
			return
		}
		date = d
	}

	limit := highscores.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", errInvalidRequest))
			return
		}
		limit = n
	}

	top, err := s.scores.Leaderboard(r.Context(), date, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, highScoresRes{Date: date, Top: top})
}
