package persist

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"junglequest/engine"
	"junglequest/engine/local"
	"junglequest/types"
)

var clock = time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)

func playedState(t *testing.T) engine.State {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Players = [2]string{"Alice", "Bob"}
	cfg.Now = func() time.Time { return clock }
	g := local.New(cfg)
	for _, line := range []string{"A3 to A4", "G7 to G6", "A4 to A5"} {
		from, to, err := types.ParseMoveInput(line)
		require.NoError(t, err)
		_, err = g.PlayMove(from, to)
		require.NoError(t, err)
	}
	require.NoError(t, g.Undo())
	return g.Export()
}

func TestSaveDocumentFields(t *testing.T) {
	sf := FromState("game-1", playedState(t), clock)
	var b strings.Builder
	require.NoError(t, Encode(&b, sf))
	out := b.String()

	for _, field := range []string{`"version"`, `"timestamp"`, `"players"`, `"current_turn": 0`, `"undo_count": 1`,
		`"board"`, `"move_log"`, `"snapshot_stack"`, `"A4": {`, `"mover_name": "Alice"`, `"captured": "none"`} {
		assert.Contains(t, out, field)
	}
	assert.NotContains(t, out, "terrain")
	assert.Len(t, sf.SnapshotStack, 2)
}

func TestSaveRoundTrip(t *testing.T) {
	st := playedState(t)
	var b strings.Builder
	require.NoError(t, Encode(&b, FromState("game-1", st, clock)))

	sf, err := Decode(strings.NewReader(b.String()))
	require.NoError(t, err)
	got, err := sf.ToState()
	require.NoError(t, err)

	assert.Equal(t, st.Occupants, got.Occupants)
	assert.Equal(t, st.Turn, got.Turn)
	assert.Equal(t, st.UndoCount, got.UndoCount)
	assert.Equal(t, st.Players, got.Players)
	assert.Equal(t, st.Snapshots, got.Snapshots)
	require.Len(t, got.MoveLog, len(st.MoveLog))
	for i := range st.MoveLog {
		assert.Equal(t, st.MoveLog[i].MoveString(), got.MoveLog[i].MoveString())
		assert.True(t, st.MoveLog[i].Time.Equal(got.MoveLog[i].Time))
	}
}

func TestZeroUndoBudgetRoundTrip(t *testing.T) {
	st := playedState(t)
	zero := 0
	st.MaxUndos = &zero
	var b strings.Builder
	require.NoError(t, Encode(&b, FromState("game-1", st, clock)))
	assert.Contains(t, b.String(), `"max_undos": 0`)

	sf, err := Decode(strings.NewReader(b.String()))
	require.NoError(t, err)
	got, err := sf.ToState()
	require.NoError(t, err)
	require.NotNil(t, got.MaxUndos)
	assert.Equal(t, 0, *got.MaxUndos)
}

func TestToStateRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no version", `{"current_turn": 0, "board": {}}`},
		{"bad turn", `{"version": "1.0", "current_turn": 2, "board": {}}`},
		{"negative undo count", `{"version": "1.0", "undo_count": -1, "board": {}}`},
		{"bad square", `{"version": "1.0", "board": {"H1": {"species": "Rat", "owner": 0}}}`},
		{"no species", `{"version": "1.0", "board": {"A1": {"species": "none", "owner": 0}}}`},
		{"bad owner", `{"version": "1.0", "board": {"A1": {"species": "Rat", "owner": 3}}}`},
		{"bad snapshot", `{"version": "1.0", "board": {}, "snapshot_stack": [{"board": {"A0": {"species": "Rat", "owner": 0}}, "turn": 0}]}`},
		{"sequence gap", `{"version": "1.0", "board": {}, "move_log": [{"sequence_number": 2, "from": "A1", "to": "A2"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sf, err := Decode(strings.NewReader(tc.data))
			if err != nil {
				return
			}
			_, err = sf.ToState()
			assert.Error(t, err)
		})
	}
}

func TestCheckKey(t *testing.T) {
	for _, key := range []string{"game-1", "2026-07-04_180000_ab12cd34", "save.v2"} {
		assert.NoError(t, CheckKey("save", key), key)
	}
	for _, key := range []string{"", "../x", "a/b", ".hidden", "with space", strings.Repeat("k", 200)} {
		assert.Error(t, CheckKey("save", key), key)
	}
}
