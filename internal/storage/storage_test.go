package storage

import (
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chess88/internal/game"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, 5, prefs.Depth)
	assert.Equal(t, 2*time.Second, prefs.MoveTime)
	assert.Equal(t, "medium", prefs.Difficulty)

	prefs.Depth = 7
	prefs.MoveTime = 500 * time.Millisecond
	prefs.LogLevel = "debug"
	require.NoError(t, s.SavePreferences(prefs))
	assert.False(t, prefs.UpdatedAt.IsZero())

	loaded, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Depth)
	assert.Equal(t, 500*time.Millisecond, loaded.MoveTime)
	assert.Equal(t, "debug", loaded.LogLevel)
}

func TestGames(t *testing.T) {
	s := openTest(t)

	g := game.New()
	for _, m := range []string{"e2e4", "e7e5", "g1f3"} {
		_, err := g.Play(m)
		require.NoError(t, err)
	}
	require.NoError(t, s.SaveGame(g.Record("open")))
	require.NoError(t, s.SaveGame(game.New().Record("blank")))

	names, err := s.ListGames()
	require.NoError(t, err)
	assert.Equal(t, []string{"blank", "open"}, names)

	rec, err := s.LoadGame("open")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5", "g1f3"}, rec.Moves)

	restored, err := game.FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, *g.Position(), *restored.Position())

	require.NoError(t, s.DeleteGame("open"))
	_, err = s.LoadGame("open")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteGame("open"), ErrNotFound))

	names, err = s.ListGames()
	require.NoError(t, err)
	assert.Equal(t, []string{"blank"}, names)
}

func TestGameNames(t *testing.T) {
	s := openTest(t)
	assert.Error(t, s.SaveGame(game.Record{}))
	assert.Error(t, s.SaveGame(game.Record{Name: "a/b"}))
	_, err := s.LoadGame("")
	assert.Error(t, err)
}

func TestRecordResult(t *testing.T) {
	s := openTest(t)

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Zero(t, stats.GamesPlayed)
	assert.Zero(t, stats.DrawRate())

	assert.Error(t, s.RecordResult(game.New()), "unfinished games are not counted")

	mate := game.New()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		_, err := mate.Play(m)
		require.NoError(t, err)
	}
	require.NoError(t, s.RecordResult(mate))

	draw, err := game.FromFEN("8/8/8/4k3/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.NoError(t, s.RecordResult(draw))

	stats, err = s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.GamesPlayed)
	assert.Equal(t, 1, stats.BlackWins)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, stats.ByTermination["checkmate"])
	assert.Equal(t, 1, stats.ByTermination["insufficient material"])
	assert.Equal(t, float64(50), stats.DrawRate())
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveGame(game.New().Record("persisted")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	names, err := s.ListGames()
	require.NoError(t, err)
	assert.Equal(t, []string{"persisted"}, names)
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dbDir, err := GetDatabaseDir()
	require.NoError(t, err)
	assert.NotEmpty(t, dbDir)

	_, err = os.Stat(dbDir)
	assert.NoError(t, err)
}
