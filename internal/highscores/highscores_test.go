package highscores

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/bowling/internal/database"
	"github.com/robalobadob/bowling/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewStore(db)
}

// playGame bowls ten identical open frames of (a, b) for every player.
func playGame(t *testing.T, name string, at time.Time, pins map[string][2]string) *game.Game {
	t.Helper()
	var players []string
	for p := range pins {
		players = append(players, p)
	}
	g, err := game.New(name, players, at)
	require.NoError(t, err)
	for _, p := range g.Players {
		r := pins[p.Name]
		for i := 0; i < 10; i++ {
			_, err := g.SubmitFrame(p.ID, []string{r[0], r[1]}, at)
			require.NoError(t, err)
		}
	}
	require.True(t, g.Completed)
	return g
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, "2025-03-13", DateKey(time.Date(2025, 3, 14, 5, 0, 0, 0, loc)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d)

	for _, bad := range []string{"", "14/03/2025", "2025-13-01", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestRecordAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	day := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	g1 := playGame(t, "Morning League", day, map[string][2]string{"Ann": {"4", "5"}, "Bob": {"1", "1"}})
	g2 := playGame(t, "Evening League", day.Add(time.Hour), map[string][2]string{"Cat": {"3", "3"}})
	g3 := playGame(t, "Next Day", day.Add(24*time.Hour), map[string][2]string{"Dan": {"9", "0"}})
	for _, g := range []*game.Game{g1, g2, g3} {
		require.NoError(t, s.Record(ctx, g))
	}

	top, err := s.Leaderboard(ctx, "2025-03-14", 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"Ann", "Cat", "Bob"}, []string{top[0].PlayerName, top[1].PlayerName, top[2].PlayerName})
	assert.Equal(t, []int{90, 60, 20}, []int{top[0].TotalScore, top[1].TotalScore, top[2].TotalScore})
	assert.Equal(t, "Morning League", top[0].GameName)
	assert.Equal(t, g1.ID.String(), top[0].GameID)

	top, err = s.Leaderboard(ctx, "2025-03-14", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Ann", top[0].PlayerName)

	top, err = s.Leaderboard(ctx, "2025-03-15", 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Dan", top[0].PlayerName)
}

func TestRecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	day := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	g := playGame(t, "Lane Seven", day, map[string][2]string{"Ann": {"4", "5"}})

	require.NoError(t, s.Record(ctx, g))
	require.NoError(t, s.Record(ctx, g))

	top, err := s.Leaderboard(ctx, "2025-03-14", 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestRecordRejectsUnfinishedGame(t *testing.T) {
	g, err := game.New("Lane Seven", []string{"Ann"}, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, newTestStore(t).Record(context.Background(), g), ErrGameNotCompleted)
}

func TestLeaderboardEmptyDay(t *testing.T) {
	top, err := newTestStore(t).Leaderboard(context.Background(), "2000-01-01", 5)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}
