package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"junglequest/engine"
	"junglequest/record"
	"junglequest/rules"
	"junglequest/types"
)

var clock = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func sampleRecord(id string) *record.File {
	log := []engine.MoveRecord{
		{Sequence: 1, MoverName: "Alice", MoverIndex: types.Player1, Species: rules.Rat,
			From: types.Pos(0, 2), To: types.Pos(0, 3), Time: clock},
		{Sequence: 2, MoverName: "Bob", MoverIndex: types.Player2, Species: rules.Wolf,
			From: types.Pos(2, 6), To: types.Pos(2, 7), Captured: rules.Cat, Time: clock.Add(time.Second)},
	}
	f := record.FromLog(id, [2]string{"Alice", "Bob"}, log, clock)
	f.Result = "Bob wins by reaching the den"
	return f
}

func TestRows(t *testing.T) {
	rows := Rows(sampleRecord("g1"))
	require.Len(t, rows, 2)
	assert.Equal(t, MoveRow{
		GameID: "g1", Sequence: 1, MoverName: "Alice", MoverIndex: 0, Species: "Rat",
		From: "A3", To: "A4", Captured: "none", UnixMillis: clock.UnixMilli(),
		Result: "Bob wins by reaching the den",
	}, rows[0])
	assert.Equal(t, "Cat", rows[1].Captured)
}

func TestWriterRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "moves.parquet")
	w, err := NewWriter(out)
	require.NoError(t, err)
	require.NoError(t, w.WriteGame(sampleRecord("g1")))
	require.NoError(t, w.WriteGame(sampleRecord("g2")))

	games, rows, err := w.Finalize()
	require.NoError(t, err)
	assert.Equal(t, 2, games)
	assert.Equal(t, 4, rows)

	got, err := parquet.ReadFile[MoveRow](out)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "g2", got[2].GameID)
	assert.Equal(t, "C8", got[3].To)

	_, _, err = w.Finalize()
	assert.Error(t, err)
	assert.Error(t, w.WriteGame(sampleRecord("g3")))
}

func TestExportDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, record.WriteFile(filepath.Join(dir, record.FileName("g1", clock)), sampleRecord("g1")))
	require.NoError(t, record.WriteFile(filepath.Join(dir, record.FileName("g2", clock.Add(time.Hour))), sampleRecord("g2")))

	out := filepath.Join(t.TempDir(), "export", "all.parquet")
	games, rows, err := ExportDir(dir, out)
	require.NoError(t, err)
	assert.Equal(t, 2, games)
	assert.Equal(t, 4, rows)

	got, err := parquet.ReadFile[MoveRow](out)
	require.NoError(t, err)
	assert.Equal(t, "g2", got[0].GameID, "newest record first")
}
