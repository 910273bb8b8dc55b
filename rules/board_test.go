package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"junglequest/types"
)

func TestStandardBoardTerrain(t *testing.T) {
	b := NewStandardBoard()

	assert.True(t, b.Terrain(types.Pos(3, 0)).IsDenOf(types.Player1))
	assert.True(t, b.Terrain(types.Pos(3, 8)).IsDenOf(types.Player2))

	for _, pos := range []types.Position{types.Pos(2, 0), types.Pos(4, 0), types.Pos(3, 1)} {
		assert.True(t, b.Terrain(pos).IsTrapOf(types.Player1), "trap %s", pos)
	}
	for _, pos := range []types.Position{types.Pos(2, 8), types.Pos(4, 8), types.Pos(3, 7)} {
		assert.True(t, b.Terrain(pos).IsTrapOf(types.Player2), "trap %s", pos)
	}

	water := 0
	for col := 0; col < types.Cols; col++ {
		for row := 0; row < types.Rows; row++ {
			if b.Terrain(types.Pos(col, row)).IsWater() {
				water++
				assert.Contains(t, []int{1, 2, 4, 5}, col)
				assert.Contains(t, []int{3, 4, 5}, row)
			}
		}
	}
	assert.Equal(t, 12, water)
}

func TestInitialPlacement(t *testing.T) {
	b := NewStandardBoard()
	assert.Equal(t, 8, b.Count(types.Player1))
	assert.Equal(t, 8, b.Count(types.Player2))
	assert.Len(t, b.Occupants(), MaxPieces)

	checks := []struct {
		pos   types.Position
		piece Piece
	}{
		{types.Pos(6, 2), NewPiece(Elephant, types.Player1)},
		{types.Pos(0, 6), NewPiece(Elephant, types.Player2)},
		{types.Pos(0, 0), NewPiece(Lion, types.Player1)},
		{types.Pos(6, 8), NewPiece(Lion, types.Player2)},
		{types.Pos(0, 2), NewPiece(Rat, types.Player1)},
		{types.Pos(6, 6), NewPiece(Rat, types.Player2)},
	}
	for _, c := range checks {
		got, ok := b.PieceAt(c.pos)
		require.True(t, ok, "no piece at %s", c.pos)
		assert.Equal(t, c.piece, got, "piece at %s", c.pos)
	}
}

func TestPlaceRespectsTerrainAndOccupancy(t *testing.T) {
	b := NewEmptyBoard(StandardLayout())
	river := types.Pos(1, 3)

	assert.False(t, b.Place(NewPiece(Cat, types.Player1), river), "cat must not be placed in water")
	_, ok := b.PieceAt(river)
	assert.False(t, ok)

	assert.True(t, b.Place(NewPiece(Rat, types.Player1), river))
	assert.False(t, b.Place(NewPiece(Rat, types.Player2), river), "occupied tile")

	assert.True(t, b.Place(NewPiece(Tiger, types.Player2), types.Pos(3, 1)), "traps are land")
	assert.True(t, b.Place(NewPiece(Tiger, types.Player1), types.Pos(3, 8)), "dens are land")
	assert.False(t, b.Place(NewPiece(Tiger, types.Player1), types.Pos(7, 0)))
}

func TestRemoveIsIdempotent(t *testing.T) {
	b := NewStandardBoard()
	for col := 0; col < types.Cols; col++ {
		for row := 0; row < types.Rows; row++ {
			pos := types.Pos(col, row)
			b.Remove(pos)
			_, ok := b.PieceAt(pos)
			assert.False(t, ok)
			b.Remove(pos)
			_, ok = b.PieceAt(pos)
			assert.False(t, ok)
		}
	}
	assert.Zero(t, b.Count(types.Player1))
}

func TestRelocateAndClone(t *testing.T) {
	b := NewStandardBoard()
	clone := b.Clone()

	require.True(t, b.Relocate(types.Pos(0, 2), types.Pos(0, 3)))
	_, ok := b.PieceAt(types.Pos(0, 2))
	assert.False(t, ok)

	p, ok := clone.PieceAt(types.Pos(0, 2))
	require.True(t, ok, "clone must not share tiles")
	assert.Equal(t, Rat, p.Species)

	assert.False(t, b.Relocate(types.Pos(3, 4), types.Pos(3, 5)), "empty source")
}

func TestSetOccupantsIsAtomic(t *testing.T) {
	b := NewStandardBoard()
	before := b.Occupants()

	_, ok := b.SetOccupants(map[types.Position]Piece{
		types.Pos(0, 0): NewPiece(Lion, types.Player1),
		types.Pos(1, 3): NewPiece(Dog, types.Player1),
	})
	assert.False(t, ok)
	assert.Equal(t, before, b.Occupants())

	_, ok = b.SetOccupants(map[types.Position]Piece{types.Pos(1, 3): NewPiece(Rat, types.Player2)})
	require.True(t, ok)
	assert.Len(t, b.Occupants(), 1)
}
