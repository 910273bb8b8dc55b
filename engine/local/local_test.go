package local

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"junglequest/engine"
	"junglequest/history"
	"junglequest/rules"
	"junglequest/types"
)

var clock = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func testConfig(t *testing.T) engine.GameConfig {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Players = [2]string{"Alice", "Bob"}
	cfg.Now = func() time.Time { return clock }
	cfg.Logger = zaptest.NewLogger(t).Sugar()
	return cfg
}

// customGame starts a game whose only pieces are the given placements.
func customGame(t *testing.T, setup ...rules.Placement) *Engine {
	t.Helper()
	cfg := testConfig(t)
	cfg.Layout.Setup = setup
	return New(cfg)
}

func at(s rules.Species, owner types.Player, col, row int) rules.Placement {
	return rules.Placement{Piece: rules.NewPiece(s, owner), At: types.Pos(col, row)}
}

func play(t *testing.T, e *Engine, from, to string) engine.MoveRecord {
	t.Helper()
	f, err := types.ParsePosition(from)
	require.NoError(t, err)
	d, err := types.ParsePosition(to)
	require.NoError(t, err)
	rec, err := e.PlayMove(f, d)
	require.NoError(t, err, "%s to %s", from, to)
	return rec
}

func refusal(t *testing.T, err error) string {
	t.Helper()
	var ill *engine.IllegalMoveError
	require.True(t, errors.As(err, &ill), "expected IllegalMoveError, got %v", err)
	return ill.Reason
}

func TestNewGame(t *testing.T) {
	e := New(testConfig(t))
	assert.Equal(t, types.Player1, e.CurrentTurn())
	assert.Equal(t, 8, e.PiecesRemaining(types.Player1))
	assert.Equal(t, 8, e.PiecesRemaining(types.Player2))
	assert.Equal(t, history.DefaultMaxUndos, e.UndosRemaining())
	assert.Equal(t, "Bob", e.Players()[1].Name)
	_, over := e.Outcome()
	assert.False(t, over)
}

func TestMoveSwitchesTurnAndLogs(t *testing.T) {
	e := New(testConfig(t))
	var seen []engine.MoveRecord
	e.OnMove(func(rec engine.MoveRecord) { seen = append(seen, rec) })

	rec := play(t, e, "A3", "A4")
	assert.Equal(t, types.Player2, e.CurrentTurn())
	assert.Equal(t, 1, rec.Sequence)
	assert.Equal(t, "Alice", rec.MoverName)
	assert.Equal(t, rules.Rat, rec.Species)
	assert.Equal(t, rules.NoSpecies, rec.Captured)
	assert.Equal(t, "A3 to A4", rec.MoveString())
	assert.Equal(t, clock, rec.Time)
	assert.Equal(t, []engine.MoveRecord{rec}, e.MoveLog())
	assert.Equal(t, []engine.MoveRecord{rec}, seen)

	rec = play(t, e, "G7", "G6")
	assert.Equal(t, 2, rec.Sequence)
	assert.Equal(t, types.Player2, rec.MoverIndex)
	assert.Equal(t, types.Player1, e.CurrentTurn())
}

func TestRefusedMovesLeaveStateUnchanged(t *testing.T) {
	e := customGame(t,
		at(rules.Dog, types.Player1, 3, 4),
		at(rules.Cat, types.Player1, 3, 5),
		at(rules.Wolf, types.Player2, 3, 3),
		at(rules.Lion, types.Player2, 0, 4),
	)
	before := e.Board().Occupants()

	tests := []struct {
		from, to types.Position
		reason   string
	}{
		{types.Pos(0, 0), types.Pos(0, 1), engine.ReasonNoPiece},
		{types.Pos(3, 3), types.Pos(3, 2), engine.ReasonNotYours},
		{types.Pos(0, 4), types.Pos(3, 4), engine.ReasonNotYours},
		{types.Pos(3, 4), types.Pos(3, 5), engine.ReasonOwnPiece},
		{types.Pos(3, 4), types.Pos(3, 3), engine.ReasonCantCapture},
	}
	for _, tc := range tests {
		_, err := e.PlayMove(tc.from, tc.to)
		assert.Equal(t, tc.reason, refusal(t, err), "%s to %s", tc.from, tc.to)
	}

	_, err := e.PlayMove(types.Pos(3, 4), types.Pos(2, 4))
	var mv *rules.MoveViolation
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, rules.WaterBarrier, mv.Rule)

	assert.Equal(t, before, e.Board().Occupants())
	assert.Equal(t, types.Player1, e.CurrentTurn())
	assert.Empty(t, e.MoveLog())
}

func TestCaptureRemovesDefender(t *testing.T) {
	e := customGame(t,
		at(rules.Wolf, types.Player1, 3, 4),
		at(rules.Dog, types.Player2, 3, 3),
		at(rules.Cat, types.Player2, 0, 8),
	)
	rec := play(t, e, "D5", "D4")
	assert.Equal(t, rules.Dog, rec.Captured)
	assert.True(t, rec.IsCapture())
	assert.Equal(t, 1, e.PiecesRemaining(types.Player2))

	p, ok := e.Board().PieceAt(types.Pos(3, 3))
	require.True(t, ok)
	assert.Equal(t, rules.NewPiece(rules.Wolf, types.Player1), p)
}

func TestTrappedPieceIsCapturedByAnyRank(t *testing.T) {
	e := customGame(t,
		at(rules.Rat, types.Player1, 3, 2),
		at(rules.Elephant, types.Player2, 3, 1),
		at(rules.Cat, types.Player2, 0, 8),
	)
	rec := play(t, e, "D3", "D2")
	assert.Equal(t, rules.Elephant, rec.Captured)
}

func TestDenEntryIsCheckedBeforeElimination(t *testing.T) {
	e := customGame(t,
		at(rules.Cat, types.Player1, 3, 7),
		at(rules.Rat, types.Player2, 3, 8),
	)
	var ended []engine.Outcome
	e.OnGameEnd(func(o engine.Outcome) { ended = append(ended, o) })

	play(t, e, "D8", "D9")
	outcome, over := e.Outcome()
	require.True(t, over)
	assert.Equal(t, engine.WinByDen, outcome.Reason)
	assert.Equal(t, types.Player1, outcome.Winner)
	assert.Equal(t, "Alice", outcome.Name)
	assert.Equal(t, []engine.Outcome{outcome}, ended)
	assert.Zero(t, e.PiecesRemaining(types.Player2))
}

func TestEliminationWinEndsGame(t *testing.T) {
	e := customGame(t,
		at(rules.Elephant, types.Player1, 3, 4),
		at(rules.Dog, types.Player2, 3, 3),
	)
	play(t, e, "D5", "D4")
	outcome, over := e.Outcome()
	require.True(t, over)
	assert.Equal(t, engine.WinByElimination, outcome.Reason)
	assert.Equal(t, types.Player1, e.CurrentTurn(), "turn does not pass after a win")

	_, err := e.PlayMove(types.Pos(3, 3), types.Pos(3, 2))
	assert.True(t, errors.Is(err, engine.ErrGameOver))
	assert.True(t, errors.Is(e.Undo(), engine.ErrGameOver))
}

func TestUndoRoundTrip(t *testing.T) {
	e := New(testConfig(t))
	before := e.Board().Occupants()
	var undone []engine.MoveRecord
	e.OnUndo(func(rec engine.MoveRecord) { undone = append(undone, rec) })

	rec := play(t, e, "A3", "A4")
	require.NoError(t, e.Undo())

	assert.Equal(t, before, e.Board().Occupants())
	assert.Equal(t, types.Player1, e.CurrentTurn())
	assert.Empty(t, e.MoveLog())
	assert.Equal(t, history.DefaultMaxUndos-1, e.UndosRemaining())
	assert.Equal(t, []engine.MoveRecord{rec}, undone)

	rec = play(t, e, "A3", "A4")
	assert.Equal(t, 1, rec.Sequence, "sequence numbers follow the log")
}

func TestUndoRestoresCapturedPiece(t *testing.T) {
	e := customGame(t,
		at(rules.Wolf, types.Player1, 3, 4),
		at(rules.Dog, types.Player2, 3, 3),
		at(rules.Cat, types.Player2, 0, 8),
	)
	before := e.Board().Occupants()
	play(t, e, "D5", "D4")
	require.NoError(t, e.Undo())
	assert.Equal(t, before, e.Board().Occupants())
	assert.Equal(t, 2, e.PiecesRemaining(types.Player2))
}

func TestUndoBudget(t *testing.T) {
	e := New(testConfig(t))
	assert.True(t, errors.Is(e.Undo(), history.ErrUndoEmpty))

	moves := [][2]string{{"A3", "A4"}, {"G7", "G6"}, {"A4", "A5"}, {"G6", "G5"}, {"A5", "A6"}}
	for _, m := range moves {
		play(t, e, m[0], m[1])
	}
	for i := 0; i < history.DefaultMaxUndos; i++ {
		require.NoError(t, e.Undo())
	}
	state := e.Board().Occupants()
	turn := e.CurrentTurn()

	assert.True(t, errors.Is(e.Undo(), history.ErrUndoExhausted))
	assert.Equal(t, state, e.Board().Occupants())
	assert.Equal(t, turn, e.CurrentTurn())
	assert.Len(t, e.MoveLog(), 2)
	assert.Zero(t, e.UndosRemaining())
}

func TestExportAndRestore(t *testing.T) {
	e := New(testConfig(t))
	play(t, e, "A3", "A4")
	play(t, e, "G7", "G6")
	play(t, e, "A4", "B4")
	require.NoError(t, e.Undo())

	st := e.Export()
	restored, err := NewFromState(testConfig(t), st)
	require.NoError(t, err)

	assert.Equal(t, e.Board().Occupants(), restored.Board().Occupants())
	assert.Equal(t, e.CurrentTurn(), restored.CurrentTurn())
	assert.Equal(t, e.MoveLog(), restored.MoveLog())
	assert.Equal(t, e.UndosRemaining(), restored.UndosRemaining())

	// the restored game keeps its undo history
	require.NoError(t, restored.Undo())
	assert.Len(t, restored.MoveLog(), 1)
	assert.Equal(t, types.Player2, restored.CurrentTurn())
}

func TestRestoreKeepsZeroUndoBudget(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxUndos = 0
	e := New(cfg)
	play(t, e, "A3", "A4")

	st := e.Export()
	require.NotNil(t, st.MaxUndos)
	restored, err := NewFromState(testConfig(t), st)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.MaxUndos())
	assert.ErrorIs(t, restored.Undo(), history.ErrUndoExhausted)

	st.MaxUndos = nil
	restored, err = NewFromState(testConfig(t), st)
	require.NoError(t, err)
	assert.Equal(t, history.DefaultMaxUndos, restored.MaxUndos())
}

func TestRestoreRejectsBadState(t *testing.T) {
	st := New(testConfig(t)).Export()
	st.Occupants[types.Pos(1, 3)] = rules.NewPiece(rules.Tiger, types.Player1)
	_, err := NewFromState(testConfig(t), st)
	assert.Error(t, err)

	st = New(testConfig(t)).Export()
	st.Turn = 5
	_, err = NewFromState(testConfig(t), st)
	assert.Error(t, err)
}
