package rules

import "junglequest/types"

// TerrainKind classifies a tile.
type TerrainKind uint8

const (
	Land TerrainKind = iota
	Water
	Den
	Trap
)

func (k TerrainKind) String() string {
	switch k {
	case Water:
		return "water"
	case Den:
		return "den"
	case Trap:
		return "trap"
	default:
		return "land"
	}
}

// Terrain is the static part of a tile. Owner is meaningful only for Den and Trap.
type Terrain struct {
	Kind  TerrainKind
	Owner types.Player
}

// IsWater reports whether the terrain is a river tile.
func (t Terrain) IsWater() bool {
	return t.Kind == Water
}

// IsDenOf reports whether the terrain is p's den.
func (t Terrain) IsDenOf(p types.Player) bool {
	return t.Kind == Den && t.Owner == p
}

// IsTrapOf reports whether the terrain is a trap owned by p.
func (t Terrain) IsTrapOf(p types.Player) bool {
	return t.Kind == Trap && t.Owner == p
}

// Layout is the static board configuration: dens, traps, rivers and the
// starting placement. It is plain data handed to NewBoard.
type Layout struct {
	Dens  [2]types.Position
	Traps [2][]types.Position
	Water []types.Position
	Setup []Placement
}

// Placement is a starting piece position.
type Placement struct {
	Piece Piece
	At    types.Position
}

// StandardLayout returns the 7x9 jungle board: dens at D1 and D9, three traps
// around each den, two 2x3 rivers in rows 4-6, and the mirrored starting army.
func StandardLayout() Layout {
	l := Layout{
		Dens: [2]types.Position{types.Pos(3, 0), types.Pos(3, 8)},
		Traps: [2][]types.Position{
			{types.Pos(2, 0), types.Pos(4, 0), types.Pos(3, 1)},
			{types.Pos(2, 8), types.Pos(4, 8), types.Pos(3, 7)},
		},
	}
	for _, col := range []int{1, 2, 4, 5} {
		for row := 3; row <= 5; row++ {
			l.Water = append(l.Water, types.Pos(col, row))
		}
	}

	// species, Player 1 position, Player 2 position
	start := []struct {
		s      Species
		p1, p2 types.Position
	}{
		{Elephant, types.Pos(6, 2), types.Pos(0, 6)},
		{Tiger, types.Pos(6, 0), types.Pos(0, 8)},
		{Cat, types.Pos(5, 1), types.Pos(1, 7)},
		{Wolf, types.Pos(4, 2), types.Pos(2, 6)},
		{Leopard, types.Pos(2, 2), types.Pos(4, 6)},
		{Dog, types.Pos(1, 1), types.Pos(5, 7)},
		{Rat, types.Pos(0, 2), types.Pos(6, 6)},
		{Lion, types.Pos(0, 0), types.Pos(6, 8)},
	}
	for _, st := range start {
		l.Setup = append(l.Setup,
			Placement{Piece: NewPiece(st.s, types.Player1), At: st.p1},
			Placement{Piece: NewPiece(st.s, types.Player2), At: st.p2},
		)
	}
	return l
}
