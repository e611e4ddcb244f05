// internal/highscores/highscores.go
//
// Per-day high-score board.
// Responsibilities:
//   - Recording the final totals of a completed game (one row per player).
//   - Reading the top scores for a given day.
//
// Rows are keyed by (game_id, player_id), so recording the same game twice
// is a no-op. The day is taken from the moment the game was completed, in UTC.

package highscores

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/bowling/internal/game"
)

// DefaultLimit is the board size when the caller does not ask for one.
const DefaultLimit = 20

// MaxLimit caps the board size a caller can request.
const MaxLimit = 100

var ErrGameNotCompleted = errors.New("game not completed")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDate validates a YYYY-MM-DD key.
func ParseDate(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", err
	}
	return DateKey(t), nil
}

// Entry is one line of the board.
type Entry struct {
	GameID     string `json:"gameId"`
	GameName   string `json:"gameName"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TotalScore int    `json:"totalScore"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record stores every player's final total of a completed game.
func (s *Store) Record(ctx context.Context, g *game.Game) error {
	if !g.Completed {
		return ErrGameNotCompleted
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	date := DateKey(g.UpdatedAt)
	for _, p := range g.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO high_scores(game_id, player_id, game_name, player_name, total_score, date)
             VALUES(?,?,?,?,?,?)`,
			g.ID.String(), p.ID.String(), g.Name, p.Name, p.TotalScore, date,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Leaderboard returns the best totals of the day, highest first.
// Ties keep the order in which they were recorded.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, game_name, player_id, player_name, total_score
         FROM high_scores
         WHERE date=?
         ORDER BY total_score DESC, created_at ASC, rowid ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.GameID, &e.GameName, &e.PlayerID, &e.PlayerName, &e.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
