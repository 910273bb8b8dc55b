package rules

import (
	"fmt"

	"junglequest/types"
)

// Violation names the rule a rejected move broke.
type Violation int

const (
	OffBoard Violation = iota + 1
	EmptySource
	NotOwner
	OwnDen
	WaterBarrier
	NotAdjacent
)

var violationText = map[Violation]string{
	OffBoard:     "position is off the board",
	EmptySource:  "no piece on the source tile",
	NotOwner:     "you may only move your own pieces",
	OwnDen:       "a piece may not enter its own den",
	WaterBarrier: "only the rat may enter water",
	NotAdjacent:  "pieces move exactly one tile horizontally or vertically",
}

// MoveViolation is returned by CheckMove for an illegal move.
type MoveViolation struct {
	From, To types.Position
	Rule     Violation
}

func (e *MoveViolation) Error() string {
	return fmt.Sprintf("%s: %s", types.MoveString(e.From, e.To), violationText[e.Rule])
}

// Reason returns the human-readable rule text.
func (e *MoveViolation) Reason() string {
	return violationText[e.Rule]
}

// River jump spans: three columns across a river, or four rows along it.
const (
	jumpCols = 3
	jumpRows = 4
)

// CanJump reports whether the species may leap across the river.
func (s Species) CanJump() bool {
	return s == Lion || s == Tiger
}

// CheckMove validates moving the piece on from to to for mover. It looks at
// geometry, ownership and terrain only; occupancy of to is the caller's concern.
//
// A clear river jump by a Lion or Tiger is accepted before any other rule is
// consulted, ownership included.
func CheckMove(b *Board, from, to types.Position, mover types.Player) error {
	if !from.OnBoard() || !to.OnBoard() {
		return &MoveViolation{From: from, To: to, Rule: OffBoard}
	}
	pc, ok := b.PieceAt(from)
	if !ok {
		return &MoveViolation{From: from, To: to, Rule: EmptySource}
	}

	if pc.Species.CanJump() && isRiverJump(b, from, to) {
		return nil
	}

	if pc.Owner != mover {
		return &MoveViolation{From: from, To: to, Rule: NotOwner}
	}
	if to == b.Den(mover) {
		return &MoveViolation{From: from, To: to, Rule: OwnDen}
	}
	if b.Terrain(to).IsWater() && pc.Species != Rat {
		return &MoveViolation{From: from, To: to, Rule: WaterBarrier}
	}
	if from.Distance(to) != 1 {
		return &MoveViolation{From: from, To: to, Rule: NotAdjacent}
	}
	return nil
}

// IsLegal is CheckMove reduced to a boolean.
func IsLegal(b *Board, from, to types.Position, mover types.Player) bool {
	return CheckMove(b, from, to, mover) == nil
}

// isRiverJump reports whether from->to has jump shape and every tile between
// them is empty water.
func isRiverJump(b *Board, from, to types.Position) bool {
	var dc, dr, steps int
	switch {
	case from.Row == to.Row && abs(from.Col-to.Col) == jumpCols:
		dc, steps = sign(to.Col-from.Col), jumpCols
	case from.Col == to.Col && abs(from.Row-to.Row) == jumpRows:
		dr, steps = sign(to.Row-from.Row), jumpRows
	default:
		return false
	}

	for i := 1; i < steps; i++ {
		t := b.Tile(types.Pos(from.Col+i*dc, from.Row+i*dr))
		if !t.Terrain.IsWater() || !t.Empty() {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
