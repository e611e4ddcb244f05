// internal/bowling/score.go
//
// Incremental scoring.
//
// Each submission resolves exactly one pending bonus: the one owed to the
// frame immediately before the submitted one. A strike collects the first two
// roll slots of the next frame, a spare collects the first. When the next
// frame is itself a strike its second slot is empty and contributes 0; the
// frame after that is never consulted.

package bowling

// Result carries the resolved cumulative score of the previous frame (0 when
// there is none) and the cumulative score of the submitted frame.
type Result struct {
	Previous int
	Current  int
}

// Score validates both frames and computes their cumulative scores.
// prev is nil for the first frame of a player.
func Score(prev *Frame, cur Frame) (Result, error) {
	curRolls, err := Validate(cur.ID, cur.Rolls)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if prev != nil {
		prevRolls, err := Validate(prev.ID, prev.Rolls)
		if err != nil {
			return Result{}, err
		}
		res.Previous = prev.CumulativeScore
		switch {
		case isStrikeFrame(prevRolls):
			res.Previous += strikeBonus(curRolls)
		case isSpareFrame(prevRolls):
			res.Previous += spareBonus(curRolls)
		}
	}

	res.Current = res.Previous + frameScore(cur.ID, curRolls)
	return res, nil
}

// FrameScore is the value a frame contributes on its own, bonuses excluded
// (except the 10th frame, which carries its bonus rolls).
func FrameScore(frameID int, tokens []string) (int, error) {
	rolls, err := Validate(frameID, tokens)
	if err != nil {
		return 0, err
	}
	return frameScore(frameID, rolls), nil
}

func frameScore(frameID int, rolls []Roll) int {
	if frameID == LastFrame {
		return tenthFrameScore(rolls)
	}
	if isStrikeFrame(rolls) || isSpareFrame(rolls) {
		return MaxPins
	}
	return rolls[0].Value() + rolls[1].Value()
}

func tenthFrameScore(rolls []Roll) int {
	score := 0
	for i, r := range rolls {
		score += r.Value()
		if i == 1 && r.IsSpare() {
			score += rollValue(rolls, 2)
			break
		}
	}
	return score
}

func strikeBonus(next []Roll) int {
	return rollValue(next, 0) + rollValue(next, 1)
}

func spareBonus(next []Roll) int {
	return rollValue(next, 0)
}

// rollValue is the value of rolls[i], or 0 when that slot is empty.
func rollValue(rolls []Roll, i int) int {
	if i >= len(rolls) {
		return 0
	}
	return rolls[i].Value()
}
