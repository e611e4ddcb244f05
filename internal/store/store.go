// internal/store/store.go
//
// Persistence boundary for bowling games.
//
// Every backend honors the same contract:
//   - Create inserts a new game; game names are unique.
//   - Get returns an independent snapshot of a game.
//   - Save writes a modified snapshot back only if nobody else saved the game
//     since it was loaded (optimistic version check); otherwise ErrConflict.
//   - List returns all games, newest first.
//
// Update wraps Get → mutate → Save with a bounded retry on ErrConflict, which
// gives at-most-one-writer semantics per game without holding locks across
// a request.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bowling/internal/game"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrConflict      = errors.New("concurrent modification")
	ErrDuplicateName = errors.New("game name already taken")
)

// Store defines the persistence interface for games.
// Implementations: memory (this package), SQLite, Redis.
type Store interface {
	// Create persists a new game and sets its Version.
	Create(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	// Returns ErrGameNotFound if the game does not exist.
	Get(ctx context.Context, id uuid.UUID) (*game.Game, error)

	// Save writes back a game obtained from Get.
	// Returns ErrConflict if the stored version moved on; bumps g.Version on success.
	Save(ctx context.Context, g *game.Game) error

	// List returns every game, newest first.
	List(ctx context.Context) ([]*game.Game, error)
}

// MaxUpdateAttempts bounds the retries of Update on write conflicts.
const MaxUpdateAttempts = 3

// Update loads a game, applies fn and saves the result, retrying from a fresh
// read when another writer saved the game in between.
// An error from fn aborts without saving.
func Update(ctx context.Context, st Store, id uuid.UUID, fn func(*game.Game) error) (*game.Game, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := st.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(g); err != nil {
			return nil, err
		}
		err = st.Save(ctx, g)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		lastErr = err
		log.Debug().Str("gameId", id.String()).Int("attempt", attempt).Msg("save conflict, retrying")
	}
	return nil, fmt.Errorf("game %s: %w after %d attempts", id, lastErr, MaxUpdateAttempts)
}

// Kind names a Store backend.
type Kind string

const (
	KindMemory Kind = "memory"
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
)
