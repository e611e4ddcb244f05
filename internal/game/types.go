// internal/game/types.go
//
// Core type definitions for a bowling game.
// Defines:
//   - Frame:  one submitted frame with its running total.
//   - Player: a bowler's frame sequence and progress.
//   - Game:   the players of one match and its completion counters.

package game

import (
	"time"

	"github.com/google/uuid"
)

// Frame is one frame as submitted by a player.
// Rolls never change after creation; CumulativeScore is patched once, when
// the following frame resolves this frame's bonus.
type Frame struct {
	FrameID         int       `json:"frameId"`
	Rolls           []string  `json:"rolls"`
	CumulativeScore int       `json:"cumulativeScore"`
	DateTime        time.Time `json:"dateTime"`
}

// Player holds one bowler's progress within a game.
type Player struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"playerName"`
	TotalScore int       `json:"totalScore"` // mirrors the last frame's CumulativeScore
	Frames     []Frame   `json:"frames"`
	OnFrame    int       `json:"onFrame"` // id of the last completed frame, 0..10
}

// Game is a match between 1–5 players.
type Game struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	OwnerID          string    `json:"ownerId,omitempty"` // scorekeeper account that created the game
	Players          []Player  `json:"players"`
	CountOfCompleted int       `json:"countOfCompleted"`
	Completed        bool      `json:"completed"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Version is bumped by the store on every successful save.
	Version int64 `json:"-"`
}

// Standing is one row of a game result.
type Standing struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"playerName"`
	TotalScore int    `json:"totalScore"`
}

// Result is the ranked outcome of a game.
type Result struct {
	Name    string     `json:"name"`
	Players []Standing `json:"players"`
}

// PlayerSummary is a player's row in the game listing.
type PlayerSummary struct {
	ID         uuid.UUID `json:"id"`
	PlayerName string    `json:"playerName"`
	TotalScore int       `json:"totalScore"`
}

// Summary is a game's row in the game listing.
type Summary struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Players   []PlayerSummary `json:"players"`
	CreatedAt time.Time       `json:"createdAt"`
}
