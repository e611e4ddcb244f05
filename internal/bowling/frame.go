// internal/bowling/frame.go
//
// Structural validation of a single frame.
//
// Rules:
//   - Every token parses as a Roll.
//   - A spare may only be the second roll, and only after a pin count.
//   - Frames 1–9: a strike stands alone; otherwise exactly two rolls,
//     and an open frame may not knock down more than 10 pins.
//   - Frame 10: two or three rolls whose values add up to at most 30.

package bowling

import "fmt"

const (
	FirstFrame = 1
	LastFrame  = 10

	maxTenthFrameTotal = 3 * MaxPins
)

// Frame is the scoring view of one frame: its position, the tokens as
// submitted and the running total through it.
type Frame struct {
	ID              int
	Rolls           []string
	CumulativeScore int
}

// Validate checks the roll tokens of frame frameID and returns them parsed.
// All failures wrap ErrInvalidFrame; unparseable tokens also wrap ErrInvalidRoll.
func Validate(frameID int, tokens []string) ([]Roll, error) {
	if frameID < FirstFrame || frameID > LastFrame {
		return nil, fmt.Errorf("%w: frame id %d out of range", ErrInvalidFrame, frameID)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: frame %d has no rolls", ErrInvalidFrame, frameID)
	}

	rolls := make([]Roll, len(tokens))
	for i, tok := range tokens {
		r, err := ParseRoll(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ErrInvalidFrame, frameID, err)
		}
		rolls[i] = r
	}

	for i, r := range rolls {
		if r.IsSpare() && (i != 1 || !rolls[0].IsPins()) {
			return nil, fmt.Errorf("%w: frame %d: spare (/) must be the second roll and follow a number",
				ErrInvalidFrame, frameID)
		}
	}

	if frameID == LastFrame {
		if err := validateTenth(rolls); err != nil {
			return nil, err
		}
		return rolls, nil
	}

	switch {
	case rolls[0].IsStrike():
		if len(rolls) != 1 {
			return nil, fmt.Errorf("%w: frame %d: strike frame must have only 1 roll", ErrInvalidFrame, frameID)
		}
	case len(rolls) != 2:
		if isSpareFrame(rolls) {
			return nil, fmt.Errorf("%w: frame %d: spare frame must have exactly 2 rolls", ErrInvalidFrame, frameID)
		}
		return nil, fmt.Errorf("%w: frame %d: open frame must have exactly 2 rolls", ErrInvalidFrame, frameID)
	case !rolls[1].IsSpare():
		if sum := rolls[0].Value() + rolls[1].Value(); sum > MaxPins {
			return nil, fmt.Errorf("%w: frame %d: %d pins exceeds %d", ErrInvalidFrame, frameID, sum, MaxPins)
		}
	}
	return rolls, nil
}

func validateTenth(rolls []Roll) error {
	if len(rolls) < 2 || len(rolls) > 3 {
		return fmt.Errorf("%w: frame %d must have 2 or 3 rolls", ErrInvalidFrame, LastFrame)
	}
	total := 0
	for _, r := range rolls {
		total += r.Value()
	}
	if total > maxTenthFrameTotal {
		return fmt.Errorf("%w: frame %d total %d exceeds %d", ErrInvalidFrame, LastFrame, total, maxTenthFrameTotal)
	}
	return nil
}

// isStrikeFrame reports whether the frame opened with a strike.
func isStrikeFrame(rolls []Roll) bool {
	return len(rolls) > 0 && rolls[0].IsStrike()
}

// isSpareFrame reports whether the second roll closed the frame.
func isSpareFrame(rolls []Roll) bool {
	return len(rolls) > 1 && rolls[1].IsSpare()
}
