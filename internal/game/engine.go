// internal/game/engine.go
//
// Game engine for a single bowling match.
// Responsibilities:
//   - Create games from a name and a list of player names.
//   - Apply one frame at a time per player, resolving the previous frame's bonus.
//   - Track per-player and game-level completion.
//
// Notes:
//   - Scoring rules live in the bowling package; this file only drives them.
//   - A failed submission leaves the game untouched.
//   - Identifiers are UUIDs; ParseID maps malformed ones to ErrInvalidIdentifier.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/bowling/internal/bowling"
	"github.com/robalobadob/bowling/internal/names"
)

const (
	minPlayers    = 1
	maxPlayers    = 5
	minNameLength = 3
)

var (
	ErrFrameLimitExceeded = errors.New("frame limit exceeded")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrInvalidGame        = errors.New("invalid game")
)

// New constructs a game for the given players.
// If name is blank a random one is generated.
//
// Validation rules:
//   - A supplied name must be at least 3 characters.
//   - 1–5 players, each with a non-blank, distinct name.
func New(name string, playerNames []string, now time.Time) (*Game, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		name = names.Random()
	case len([]rune(name)) < minNameLength:
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidGame, minNameLength)
	}

	if len(playerNames) < minPlayers || len(playerNames) > maxPlayers {
		return nil, fmt.Errorf("%w: a game needs %d–%d players, got %d",
			ErrInvalidGame, minPlayers, maxPlayers, len(playerNames))
	}

	seen := make(map[string]struct{}, len(playerNames))
	players := make([]Player, 0, len(playerNames))
	for _, pn := range playerNames {
		pn = strings.TrimSpace(pn)
		if pn == "" {
			return nil, fmt.Errorf("%w: player names must not be blank", ErrInvalidGame)
		}
		if _, dup := seen[pn]; dup {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrInvalidGame, pn)
		}
		seen[pn] = struct{}{}
		players = append(players, Player{ID: uuid.New(), Name: pn, Frames: []Frame{}})
	}

	now = now.UTC()
	return &Game{
		ID:        uuid.New(),
		Name:      name,
		Players:   players,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ParseID parses a game or player identifier.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return id, nil
}

// Player returns the player with the given id.
func (g *Game) Player(id uuid.UUID) (*Player, error) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s in game %s", ErrPlayerNotFound, id, g.ID)
}

// SubmitFrame scores the next frame for a player and records it.
// Returns the stored frame.
//
// State transitions:
//   - The previous frame's cumulative score is patched with its resolved bonus.
//   - The new frame is appended; TotalScore and OnFrame follow it.
//   - Reaching frame 10 counts the player as completed; when every player has,
//     the game is completed.
func (g *Game) SubmitFrame(playerID uuid.UUID, rolls []string, now time.Time) (Frame, error) {
	p, err := g.Player(playerID)
	if err != nil {
		return Frame{}, err
	}
	if p.OnFrame >= bowling.LastFrame {
		return Frame{}, fmt.Errorf("%w: player %s already has %d frames",
			ErrFrameLimitExceeded, p.Name, bowling.LastFrame)
	}

	frameID := p.OnFrame + 1
	var prev *Frame
	if frameID > bowling.FirstFrame {
		prev = p.lastFrame()
		if prev == nil || prev.FrameID != p.OnFrame {
			return Frame{}, fmt.Errorf("frame %d not found for player %s", p.OnFrame, p.Name)
		}
	}

	res, err := bowling.Score(scoringFrame(prev), bowling.Frame{ID: frameID, Rolls: rolls})
	if err != nil {
		return Frame{}, err
	}

	if prev != nil {
		prev.CumulativeScore = res.Previous
	}
	f := Frame{
		FrameID:         frameID,
		Rolls:           append([]string(nil), rolls...),
		CumulativeScore: res.Current,
		DateTime:        now.UTC(),
	}
	p.Frames = append(p.Frames, f)
	p.TotalScore = f.CumulativeScore
	p.OnFrame = frameID

	if frameID == bowling.LastFrame {
		g.CountOfCompleted++
		if g.CountOfCompleted == len(g.Players) {
			g.Completed = true
		}
	}
	g.UpdatedAt = now.UTC()
	return f, nil
}

// Finished reports whether the player has recorded all ten frames.
func (p *Player) Finished() bool { return p.OnFrame >= bowling.LastFrame }

// lastFrame returns a pointer into p.Frames so it can be patched in place.
func (p *Player) lastFrame() *Frame {
	if len(p.Frames) == 0 {
		return nil
	}
	return &p.Frames[len(p.Frames)-1]
}

// scoringFrame adapts a stored frame to the scorer's view.
func scoringFrame(f *Frame) *bowling.Frame {
	if f == nil {
		return nil
	}
	return &bowling.Frame{ID: f.FrameID, Rolls: f.Rolls, CumulativeScore: f.CumulativeScore}
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	out := *g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		cp := p
		cp.Frames = make([]Frame, len(p.Frames))
		for j, f := range p.Frames {
			f.Rolls = append([]string(nil), f.Rolls...)
			cp.Frames[j] = f
		}
		out.Players[i] = cp
	}
	return &out
}
