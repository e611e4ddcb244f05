package game

import "sort"

const untitledGame = "Untitled Game"

// Result ranks players by total score, highest first.
// Tied players share a rank and the next lower score takes its position,
// so totals 30, 30, 20 rank 1, 1, 3.
func (g *Game) Result() Result {
	sorted := make([]Player, len(g.Players))
	copy(sorted, g.Players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})

	standings := make([]Standing, len(sorted))
	rank := 1
	for i, p := range sorted {
		if i > 0 && p.TotalScore < sorted[i-1].TotalScore {
			rank = i + 1
		}
		standings[i] = Standing{Rank: rank, PlayerName: p.Name, TotalScore: p.TotalScore}
	}

	name := g.Name
	if name == "" {
		name = untitledGame
	}
	return Result{Name: name, Players: standings}
}

// Summary is the listing view of the game.
func (g *Game) Summary() Summary {
	players := make([]PlayerSummary, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerSummary{ID: p.ID, PlayerName: p.Name, TotalScore: p.TotalScore}
	}
	return Summary{ID: g.ID, Name: g.Name, Players: players, CreatedAt: g.CreatedAt}
}
