// internal/store/redis.go
//
// Redis implementation of Store.
//
// Keys (all under a configurable prefix):
//   - <prefix>:game:<id>   msgpack-encoded game snapshot
//   - <prefix>:name:<name> game id, claimed with SETNX to keep names unique
//   - <prefix>:games       sorted set of game ids scored by creation time
//
// Save uses WATCH/MULTI on the game key: the transaction aborts if another
// client wrote the key after it was read, which surfaces as ErrConflict.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/robalobadob/bowling/internal/game"
)

type redisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore returns a Store backed by rdb, namespacing keys with prefix.
func NewRedisStore(rdb redis.UniversalClient, prefix string) Store {
	if prefix == "" {
		prefix = "bowling"
	}
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (r *redisStore) gameKey(id uuid.UUID) string { return r.prefix + ":game:" + id.String() }
func (r *redisStore) nameKey(name string) string  { return r.prefix + ":name:" + name }
func (r *redisStore) indexKey() string            { return r.prefix + ":games" }

func (r *redisStore) Create(ctx context.Context, g *game.Game) error {
	ok, err := r.rdb.SetNX(ctx, r.nameKey(g.Name), g.ID.String(), 0).Result()
	if err != nil {
		return fmt.Errorf("claim name: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, g.Name)
	}

	rec := toRecord(g)
	rec.Version = 1
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.gameKey(g.ID), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(g.CreatedAt.UnixNano()), Member: g.ID.String()})
		return nil
	})
	if err != nil {
		_ = r.rdb.Del(ctx, r.nameKey(g.Name)).Err()
		return fmt.Errorf("create game: %w", err)
	}
	g.Version = 1
	return nil
}

func (r *redisStore) Get(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	data, err := r.rdb.Get(ctx, r.gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decodeGame(data)
}

func (r *redisStore) Save(ctx context.Context, g *game.Game) error {
	key := r.gameKey(g.ID)
	next := g.Version + 1

	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, g.ID)
		}
		if err != nil {
			return err
		}
		var cur gameRecord
		if err := msgpack.Unmarshal(data, &cur); err != nil {
			return err
		}
		if cur.Version != g.Version {
			return fmt.Errorf("%w: game %s at version %d, have %d", ErrConflict, g.ID, cur.Version, g.Version)
		}

		rec := toRecord(g)
		rec.Version = next
		out, err := msgpack.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: game %s", ErrConflict, g.ID)
	}
	if err != nil {
		return err
	}
	g.Version = next
	return nil
}

func (r *redisStore) List(ctx context.Context) ([]*game.Game, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*game.Game, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + ":game:" + id
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // index entry without a snapshot
		}
		g, err := decodeGame([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, g)
	}
	return out, nil
}

// gameRecord is the msgpack shape of a stored game.
type gameRecord struct {
	ID               string         `msgpack:"id"`
	Name             string         `msgpack:"name"`
	OwnerID          string         `msgpack:"ownerId,omitempty"`
	Players          []playerRecord `msgpack:"players"`
	CountOfCompleted int            `msgpack:"countOfCompleted"`
	Completed        bool           `msgpack:"completed"`
	CreatedAt        time.Time      `msgpack:"createdAt"`
	UpdatedAt        time.Time      `msgpack:"updatedAt"`
	Version          int64          `msgpack:"version"`
}

type playerRecord struct {
	ID         string        `msgpack:"id"`
	Name       string        `msgpack:"name"`
	TotalScore int           `msgpack:"totalScore"`
	OnFrame    int           `msgpack:"onFrame"`
	Frames     []frameRecord `msgpack:"frames"`
}

type frameRecord struct {
	FrameID         int       `msgpack:"frameId"`
	Rolls           []string  `msgpack:"rolls"`
	CumulativeScore int       `msgpack:"cumulativeScore"`
	DateTime        time.Time `msgpack:"dateTime"`
}

func toRecord(g *game.Game) gameRecord {
	rec := gameRecord{
		ID:               g.ID.String(),
		Name:             g.Name,
		OwnerID:          g.OwnerID,
		Players:          make([]playerRecord, len(g.Players)),
		CountOfCompleted: g.CountOfCompleted,
		Completed:        g.Completed,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
		Version:          g.Version,
	}
	for i, p := range g.Players {
		pr := playerRecord{
			ID:         p.ID.String(),
			Name:       p.Name,
			TotalScore: p.TotalScore,
			OnFrame:    p.OnFrame,
			Frames:     make([]frameRecord, len(p.Frames)),
		}
		for j, f := range p.Frames {
			pr.Frames[j] = frameRecord(f)
		}
		rec.Players[i] = pr
	}
	return rec
}

func decodeGame(data []byte) (*game.Game, error) {
	var rec gameRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("game id %q: %w", rec.ID, err)
	}
	g := &game.Game{
		ID:               id,
		Name:             rec.Name,
		OwnerID:          rec.OwnerID,
		Players:          make([]game.Player, len(rec.Players)),
		CountOfCompleted: rec.CountOfCompleted,
		Completed:        rec.Completed,
		CreatedAt:        rec.CreatedAt.UTC(),
		UpdatedAt:        rec.UpdatedAt.UTC(),
		Version:          rec.Version,
	}
	for i, pr := range rec.Players {
		pid, err := uuid.Parse(pr.ID)
		if err != nil {
			return nil, fmt.Errorf("player id %q: %w", pr.ID, err)
		}
		p := game.Player{
			ID:         pid,
			Name:       pr.Name,
			TotalScore: pr.TotalScore,
			OnFrame:    pr.OnFrame,
			Frames:     make([]game.Frame, len(pr.Frames)),
		}
		for j, fr := range pr.Frames {
			fr.DateTime = fr.DateTime.UTC()
			if fr.Rolls == nil {
				fr.Rolls = []string{}
			}
			p.Frames[j] = game.Frame(fr)
		}
		g.Players[i] = p
	}
	return g, nil
}
