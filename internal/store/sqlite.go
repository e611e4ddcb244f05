// internal/store/sqlite.go
//
// SQLite implementation of Store.
//
// Schema (see assets/sql/001_games.sql):
//   - games:   one row per game, with a version column for optimistic locking.
//   - players: ordered by position within the game.
//   - frames:  keyed by (player_id, frame_id); rolls stored as a JSON array.
//
// Save runs in one transaction: the version-guarded game UPDATE, the player
// counters, and an upsert of the frames. Either all of it lands or none.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/robalobadob/bowling/internal/game"
)

// timeLayout is fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by an already migrated database.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Create(ctx context.Context, g *game.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO games (id, name, owner_id, count_of_completed, completed, version, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		g.ID.String(), g.Name, nullString(g.OwnerID), g.CountOfCompleted, g.Completed,
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, g.Name)
		}
		return fmt.Errorf("insert game: %w", err)
	}

	for i, p := range g.Players {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO players (id, game_id, position, name, total_score, on_frame)
            VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID.String(), g.ID.String(), i, p.Name, p.TotalScore, p.OnFrame,
		); err != nil {
			return fmt.Errorf("insert player %q: %w", p.Name, err)
		}
		if err := upsertFrames(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	g.Version = 1
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	games, err := s.load(ctx, `WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return games[0], nil
}

func (s *sqliteStore) Save(ctx context.Context, g *game.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        UPDATE games
        SET count_of_completed = ?, completed = ?, updated_at = ?, version = version + 1
        WHERE id = ? AND version = ?`,
		g.CountOfCompleted, g.Completed, formatTime(g.UpdatedAt), g.ID.String(), g.Version,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, g.ID.String()).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, g.ID)
		}
		return fmt.Errorf("%w: game %s changed since version %d", ErrConflict, g.ID, g.Version)
	}

	for _, p := range g.Players {
		if _, err := tx.ExecContext(ctx, `
            UPDATE players SET total_score = ?, on_frame = ? WHERE id = ? AND game_id = ?`,
			p.TotalScore, p.OnFrame, p.ID.String(), g.ID.String(),
		); err != nil {
			return fmt.Errorf("update player %q: %w", p.Name, err)
		}
		if err := upsertFrames(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	g.Version++
	return nil
}

func (s *sqliteStore) List(ctx context.Context) ([]*game.Game, error) {
	return s.load(ctx, ``)
}

// upsertFrames writes every frame of p; existing rows only get their
// cumulative score refreshed, since rolls never change.
func upsertFrames(ctx context.Context, tx *sql.Tx, p game.Player) error {
	for _, f := range p.Frames {
		rolls, err := json.Marshal(f.Rolls)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO frames (player_id, frame_id, rolls, cumulative_score, created_at)
            VALUES (?, ?, ?, ?, ?)
            ON CONFLICT (player_id, frame_id) DO UPDATE SET cumulative_score = excluded.cumulative_score`,
			p.ID.String(), f.FrameID, string(rolls), f.CumulativeScore, formatTime(f.DateTime),
		); err != nil {
			return fmt.Errorf("upsert frame %d of %q: %w", f.FrameID, p.Name, err)
		}
	}
	return nil
}

// load reads the games matching where (newest first) with their players and frames.
func (s *sqliteStore) load(ctx context.Context, where string, args ...any) ([]*game.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, COALESCE(owner_id, ''), count_of_completed, completed, version, created_at, updated_at
        FROM games `+where+`
        ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*game.Game
	byID := make(map[string]*game.Game)
	for rows.Next() {
		var (
			g                game.Game
			id               string
			created, updated string
		)
		if err := rows.Scan(&id, &g.Name, &g.OwnerID, &g.CountOfCompleted, &g.Completed, &g.Version,
			&created, &updated); err != nil {
			return nil, err
		}
		if g.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("game id %q: %w", id, err)
		}
		g.CreatedAt, g.UpdatedAt = parseTime(created), parseTime(updated)
		g.Players = []game.Player{}
		out = append(out, &g)
		byID[id] = &g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.loadPlayers(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sqliteStore) loadPlayers(ctx context.Context, byID map[string]*game.Game) error {
	ids := make([]any, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	in := placeholders(len(ids))

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, game_id, name, total_score, on_frame
        FROM players WHERE game_id IN (`+in+`)
        ORDER BY game_id, position`, ids...)
	if err != nil {
		return err
	}
	type ref struct {
		g   *game.Game
		idx int
	}
	players := make(map[string]ref)
	for rows.Next() {
		var (
			p        game.Player
			pid, gid string
		)
		if err := rows.Scan(&pid, &gid, &p.Name, &p.TotalScore, &p.OnFrame); err != nil {
			rows.Close()
			return err
		}
		if p.ID, err = uuid.Parse(pid); err != nil {
			rows.Close()
			return fmt.Errorf("player id %q: %w", pid, err)
		}
		p.Frames = []game.Frame{}
		g := byID[gid]
		g.Players = append(g.Players, p)
		players[pid] = ref{g: g, idx: len(g.Players) - 1}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	frames, err := s.db.QueryContext(ctx, `
        SELECT f.player_id, f.frame_id, f.rolls, f.cumulative_score, f.created_at
        FROM frames f JOIN players p ON p.id = f.player_id
        WHERE p.game_id IN (`+in+`)
        ORDER BY f.player_id, f.frame_id`, ids...)
	if err != nil {
		return err
	}
	defer frames.Close()
	for frames.Next() {
		var (
			f              game.Frame
			pid, rolls, at string
		)
		if err := frames.Scan(&pid, &f.FrameID, &rolls, &f.CumulativeScore, &at); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(rolls), &f.Rolls); err != nil {
			return fmt.Errorf("frame %d of player %s: %w", f.FrameID, pid, err)
		}
		f.DateTime = parseTime(at)
		r, ok := players[pid]
		if !ok {
			continue
		}
		p := &r.g.Players[r.idx]
		p.Frames = append(p.Frames, f)
	}
	return frames.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
