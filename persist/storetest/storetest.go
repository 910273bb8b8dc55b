// Package storetest holds the behaviour every persist.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"junglequest/engine"
	"junglequest/engine/local"
	"junglequest/persist"
	"junglequest/record"
	"junglequest/types"
)

// Clock is the fixed time used for every game the suite plays.
var Clock = time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)

// Config returns the game configuration the suite plays with.
func Config() engine.GameConfig {
	cfg := engine.DefaultConfig()
	cfg.Players = [2]string{"Alice", "Bob"}
	cfg.Now = func() time.Time { return Clock }
	return cfg
}

// PlayedGame returns a game with a few moves and one undo behind it.
func PlayedGame(t *testing.T) *local.Engine {
	t.Helper()
	g := local.New(Config())
	for _, line := range []string{"A3 to A4", "G7 to G6", "A4 to B4", "G6 to G5"} {
		from, to, err := types.ParseMoveInput(line)
		require.NoError(t, err)
		_, err = g.PlayMove(from, to)
		require.NoError(t, err, line)
	}
	require.NoError(t, g.Undo())
	return g
}

// EqualLogs compares move logs, treating timestamps as instants.
func EqualLogs(t *testing.T, want, got []engine.MoveRecord) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Time.Equal(got[i].Time), "move %d time", i+1)
		w, g := want[i], got[i]
		w.Time, g.Time = time.Time{}, time.Time{}
		assert.Equal(t, w, g, "move %d", i+1)
	}
}

// Run exercises s. The store should be empty.
func Run(t *testing.T, s persist.Store) {
	ctx := context.Background()

	t.Run("missing save", func(t *testing.T) {
		_, err := s.GetSave(ctx, "no-such-game")
		assert.True(t, errors.Is(err, persist.ErrNotFound), "got %v", err)
		var perr *persist.PersistenceError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := s.GetRecord(ctx, "no-such-record")
		assert.True(t, errors.Is(err, persist.ErrNotFound), "got %v", err)
	})

	t.Run("bad key", func(t *testing.T) {
		var perr *persist.PersistenceError
		err := s.PutSave(ctx, "../escape", &persist.SaveFile{})
		assert.True(t, errors.As(err, &perr))
		_, err = s.GetRecord(ctx, "")
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("save and load", func(t *testing.T) {
		g := PlayedGame(t)
		_, err := persist.SaveGame(ctx, s, "game-1", g, Clock)
		require.NoError(t, err)

		loaded, err := persist.LoadGame(ctx, s, "game-1", Config())
		require.NoError(t, err)
		assert.Equal(t, g.Board().Occupants(), loaded.Board().Occupants())
		assert.Equal(t, g.CurrentTurn(), loaded.CurrentTurn())
		assert.Equal(t, g.UndosRemaining(), loaded.UndosRemaining())
		assert.Equal(t, g.Players(), loaded.Players())
		EqualLogs(t, g.MoveLog(), loaded.MoveLog())

		// undo history survives the round trip
		require.NoError(t, g.Undo())
		require.NoError(t, loaded.Undo())
		assert.Equal(t, g.Board().Occupants(), loaded.Board().Occupants())
		assert.Equal(t, g.CurrentTurn(), loaded.CurrentTurn())
	})

	t.Run("save overwrites", func(t *testing.T) {
		g := local.New(Config())
		_, err := persist.SaveGame(ctx, s, "game-2", g, Clock)
		require.NoError(t, err)
		from, to, _ := types.ParseMoveInput("A3 to A4")
		_, err = g.PlayMove(from, to)
		require.NoError(t, err)
		_, err = persist.SaveGame(ctx, s, "game-2", g, Clock)
		require.NoError(t, err)

		loaded, err := persist.LoadGame(ctx, s, "game-2", Config())
		require.NoError(t, err)
		assert.Len(t, loaded.MoveLog(), 1)
	})

	t.Run("record", func(t *testing.T) {
		g := PlayedGame(t)
		f := record.FromLog("rec-1", [2]string{"Alice", "Bob"}, g.MoveLog(), Clock)
		require.NoError(t, s.PutRecord(ctx, "rec-1", f))

		got, err := s.GetRecord(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, f.TotalMoves, got.TotalMoves)
		assert.Equal(t, f.Players, got.Players)

		replayed, err := record.Replay(got, record.ReplayOptions{})
		require.NoError(t, err)
		assert.Equal(t, g.Board().Occupants(), replayed.Board.Occupants())
	})

	t.Run("list", func(t *testing.T) {
		saves, err := s.List(ctx, persist.KindSave)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"game-1", "game-2"}, saves)

		records, err := s.List(ctx, persist.KindRecord)
		require.NoError(t, err)
		assert.Equal(t, []string{"rec-1"}, records)
	})
}
