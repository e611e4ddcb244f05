// internal/bowling/roll.go
//
// Roll parsing for the bowling scoring engine.
// A roll is one delivery, submitted as a single text token:
//   - "X" or "x" → strike (10)
//   - "/"        → spare (10)
//   - "0".."9"   → pins knocked down
//
// Anything else is rejected with ErrInvalidRoll.

package bowling

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StrikeSymbol = "X"
	SpareSymbol  = "/"

	// MaxPins is the value of a strike or spare token.
	MaxPins = 10
)

var (
	// ErrInvalidRoll is returned when a token is not X, / or a single digit.
	ErrInvalidRoll = errors.New("invalid roll")
	// ErrInvalidFrame is returned when a frame breaks a structural rule.
	ErrInvalidFrame = errors.New("invalid frame")
)

// Kind tags the closed set of roll variants.
type Kind uint8

const (
	KindPins Kind = iota
	KindStrike
	KindSpare
)

// Roll is a parsed delivery. The zero value is Pins(0).
type Roll struct {
	kind Kind
	pins int
}

// Strike returns the strike roll.
func Strike() Roll { return Roll{kind: KindStrike} }

// Spare returns the spare roll.
func Spare() Roll { return Roll{kind: KindSpare} }

// Pins returns an open roll of n pins; n must be 0..9.
func Pins(n int) (Roll, error) {
	if n < 0 || n >= MaxPins {
		return Roll{}, fmt.Errorf("%w: %d pins", ErrInvalidRoll, n)
	}
	return Roll{kind: KindPins, pins: n}, nil
}

// ParseRoll converts a single token into a Roll.
func ParseRoll(token string) (Roll, error) {
	switch {
	case strings.EqualFold(token, StrikeSymbol):
		return Strike(), nil
	case token == SpareSymbol:
		return Spare(), nil
	case len(token) == 1 && token[0] >= '0' && token[0] <= '9':
		return Roll{kind: KindPins, pins: int(token[0] - '0')}, nil
	}
	return Roll{}, fmt.Errorf("%w: %q", ErrInvalidRoll, token)
}

// Kind reports which variant r is.
func (r Roll) Kind() Kind { return r.kind }

func (r Roll) IsStrike() bool { return r.kind == KindStrike }
func (r Roll) IsSpare() bool  { return r.kind == KindSpare }
func (r Roll) IsPins() bool   { return r.kind == KindPins }

// Value is the point value of the roll: 10 for strike and spare, n for Pins(n).
func (r Roll) Value() int {
	if r.kind == KindPins {
		return r.pins
	}
	return MaxPins
}

// String renders the canonical token.
func (r Roll) String() string {
	switch r.kind {
	case KindStrike:
		return StrikeSymbol
	case KindSpare:
		return SpareSymbol
	}
	return string(rune('0' + r.pins))
}
