// internal/store/memory.go
//
// In-memory implementation of Store.
// Used in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores deep copies of *game.Game keyed by ID, so callers never share
//     mutable state with the map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/robalobadob/bowling/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*game.Game
	names map[string]uuid.UUID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		games: make(map[uuid.UUID]*game.Game),
		names: make(map[string]uuid.UUID),
	}
}

// Create adds the game if its name is free.
func (m *memory) Create(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.names[g.Name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, g.Name)
	}
	g.Version = 1
	m.games[g.ID] = g.Clone()
	m.names[g.Name] = g.ID
	return nil
}

// Get returns a copy of the stored game.
func (m *memory) Get(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
}

// Save replaces the stored game when versions match.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.games[g.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, g.ID)
	}
	if cur.Version != g.Version {
		return fmt.Errorf("%w: game %s at version %d, have %d", ErrConflict, g.ID, cur.Version, g.Version)
	}
	g.Version++
	m.games[g.ID] = g.Clone()
	return nil
}

// List returns copies of all games, newest first.
func (m *memory) List(ctx context.Context) ([]*game.Game, error) {
	m.mu.RLock()
	out := make([]*game.Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
