package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"junglequest/types"
)

func emptyBoard() *Board {
	return NewEmptyBoard(StandardLayout())
}

func violation(t *testing.T, err error) Violation {
	t.Helper()
	var mv *MoveViolation
	require.True(t, errors.As(err, &mv), "expected MoveViolation, got %v", err)
	return mv.Rule
}

func TestOneStepMoves(t *testing.T) {
	b := emptyBoard()
	from := types.Pos(3, 4) // D5, land between the rivers
	require.True(t, b.Place(p1(Dog), from))

	for _, to := range []types.Position{types.Pos(3, 3), types.Pos(3, 5)} {
		assert.True(t, IsLegal(b, from, to, types.Player1), "to %s", to)
	}
	assert.Equal(t, WaterBarrier, violation(t, CheckMove(b, from, types.Pos(2, 4), types.Player1)))
	assert.Equal(t, NotAdjacent, violation(t, CheckMove(b, from, types.Pos(4, 6), types.Player1)))
	assert.Equal(t, NotAdjacent, violation(t, CheckMove(b, from, types.Pos(3, 6), types.Player1)))
	assert.Equal(t, NotAdjacent, violation(t, CheckMove(b, from, from, types.Player1)))
}

func TestOwnershipAndEmptySource(t *testing.T) {
	b := NewStandardBoard()
	assert.Equal(t, NotOwner, violation(t, CheckMove(b, types.Pos(0, 6), types.Pos(0, 5), types.Player1)))
	assert.Equal(t, EmptySource, violation(t, CheckMove(b, types.Pos(3, 4), types.Pos(3, 5), types.Player1)))
	assert.Equal(t, OffBoard, violation(t, CheckMove(b, types.Pos(0, 0), types.Pos(-1, 0), types.Player1)))
}

func TestCannotEnterOwnDen(t *testing.T) {
	b := emptyBoard()
	require.True(t, b.Place(p1(Cat), types.Pos(3, 1)))
	assert.Equal(t, OwnDen, violation(t, CheckMove(b, types.Pos(3, 1), types.Pos(3, 0), types.Player1)))

	require.True(t, b.Place(p2(Cat), types.Pos(2, 0)))
	assert.True(t, IsLegal(b, types.Pos(2, 0), types.Pos(3, 0), types.Player2), "opponent den is open")
}

func TestOnlyRatsEnterWater(t *testing.T) {
	b := emptyBoard()
	for _, s := range AllSpecies {
		b.Clear()
		require.True(t, b.Place(p1(s), types.Pos(0, 3)))
		legal := IsLegal(b, types.Pos(0, 3), types.Pos(1, 3), types.Player1)
		assert.Equal(t, s == Rat, legal, "%s into water", s)
	}
}

func TestRiverJumpHorizontal(t *testing.T) {
	b := emptyBoard()
	require.True(t, b.Place(p1(Lion), types.Pos(0, 4)))
	assert.True(t, IsLegal(b, types.Pos(0, 4), types.Pos(3, 4), types.Player1))

	require.True(t, b.Place(p2(Rat), types.Pos(1, 4)))
	assert.False(t, IsLegal(b, types.Pos(0, 4), types.Pos(3, 4), types.Player1), "rat blocks the jump")
}

func TestRiverJumpVertical(t *testing.T) {
	b := emptyBoard()
	require.True(t, b.Place(p1(Tiger), types.Pos(1, 2)))
	assert.True(t, IsLegal(b, types.Pos(1, 2), types.Pos(1, 6), types.Player1))

	require.True(t, b.Place(p1(Rat), types.Pos(1, 5)))
	assert.False(t, IsLegal(b, types.Pos(1, 2), types.Pos(1, 6), types.Player1))
}

func TestRiverJumpRequiresWaterBetween(t *testing.T) {
	b := emptyBoard()
	require.True(t, b.Place(p1(Lion), types.Pos(0, 0)))
	assert.False(t, IsLegal(b, types.Pos(0, 0), types.Pos(3, 0), types.Player1))

	require.True(t, b.Place(p1(Leopard), types.Pos(0, 4)))
	assert.False(t, IsLegal(b, types.Pos(0, 4), types.Pos(3, 4), types.Player1), "only lion and tiger jump")
}

func TestRiverJumpSkipsOwnershipCheck(t *testing.T) {
	b := emptyBoard()
	require.True(t, b.Place(p2(Lion), types.Pos(0, 4)))
	assert.True(t, IsLegal(b, types.Pos(0, 4), types.Pos(3, 4), types.Player1))
	assert.False(t, IsLegal(b, types.Pos(0, 4), types.Pos(1, 4), types.Player1))
}
