package rules

import "junglequest/types"

// MaxPieces is the number of pieces both players start with together.
const MaxPieces = 16

// Tile is one board square. Terrain never changes after construction.
type Tile struct {
	Terrain  Terrain
	Occupant *Piece
}

// Empty reports whether no piece stands on the tile.
func (t Tile) Empty() bool {
	return t.Occupant == nil
}

// Board is the 7x9 grid, indexed as grid[col][row].
type Board struct {
	layout Layout
	grid   [types.Cols][types.Rows]Tile
}

// NewBoard builds the terrain from layout and places the starting pieces.
func NewBoard(layout Layout) *Board {
	b := NewEmptyBoard(layout)
	for _, pl := range layout.Setup {
		b.Place(pl.Piece, pl.At)
	}
	return b
}

// NewStandardBoard is NewBoard(StandardLayout()).
func NewStandardBoard() *Board {
	return NewBoard(StandardLayout())
}

// NewEmptyBoard builds the terrain from layout without any pieces.
func NewEmptyBoard(layout Layout) *Board {
	b := &Board{layout: layout}
	for _, pos := range layout.Water {
		b.setTerrain(pos, Terrain{Kind: Water})
	}
	for p, positions := range layout.Traps {
		for _, pos := range positions {
			b.setTerrain(pos, Terrain{Kind: Trap, Owner: types.Player(p)})
		}
	}
	for p, pos := range layout.Dens {
		b.setTerrain(pos, Terrain{Kind: Den, Owner: types.Player(p)})
	}
	return b
}

func (b *Board) setTerrain(pos types.Position, t Terrain) {
	if pos.OnBoard() {
		b.grid[pos.Col][pos.Row].Terrain = t
	}
}

// Layout returns the layout the board was built from.
func (b *Board) Layout() Layout {
	return b.layout
}

// Den returns p's den position.
func (b *Board) Den(p types.Player) types.Position {
	return b.layout.Dens[p]
}

// Tile returns the tile at pos. Off-board positions yield an empty land tile.
func (b *Board) Tile(pos types.Position) Tile {
	if !pos.OnBoard() {
		return Tile{}
	}
	return b.grid[pos.Col][pos.Row]
}

// Terrain returns the terrain at pos.
func (b *Board) Terrain(pos types.Position) Terrain {
	return b.Tile(pos).Terrain
}

// PieceAt returns the occupant of pos, if any.
func (b *Board) PieceAt(pos types.Position) (Piece, bool) {
	t := b.Tile(pos)
	if t.Occupant == nil {
		return Piece{}, false
	}
	return *t.Occupant, true
}

// CanPlace reports whether Place would succeed.
// Den and Trap tiles count as land; only a Rat may stand on water.
func (b *Board) CanPlace(p Piece, pos types.Position) bool {
	if !pos.OnBoard() || !p.Species.Valid() || !p.Owner.Valid() {
		return false
	}
	t := b.grid[pos.Col][pos.Row]
	if !t.Empty() {
		return false
	}
	return !t.Terrain.IsWater() || p.Species == Rat
}

// Place puts p on pos. It reports false, leaving the board untouched, when the
// tile is occupied or the terrain does not admit the piece.
func (b *Board) Place(p Piece, pos types.Position) bool {
	if !b.CanPlace(p, pos) {
		return false
	}
	piece := p
	b.grid[pos.Col][pos.Row].Occupant = &piece
	return true
}

// Remove clears pos. Removing from an empty tile is a no-op.
func (b *Board) Remove(pos types.Position) {
	if pos.OnBoard() {
		b.grid[pos.Col][pos.Row].Occupant = nil
	}
}

// Relocate moves the occupant of from onto to, replacing whatever stood there.
// It skips the terrain check of Place: the caller has already validated the move.
func (b *Board) Relocate(from, to types.Position) bool {
	if !from.OnBoard() || !to.OnBoard() || from == to {
		return false
	}
	occ := b.grid[from.Col][from.Row].Occupant
	if occ == nil {
		return false
	}
	b.grid[from.Col][from.Row].Occupant = nil
	b.grid[to.Col][to.Row].Occupant = occ
	return true
}

// Clear removes every piece.
func (b *Board) Clear() {
	for col := range b.grid {
		for row := range b.grid[col] {
			b.grid[col][row].Occupant = nil
		}
	}
}

// Count returns how many pieces p has on the board.
func (b *Board) Count(p types.Player) int {
	n := 0
	for col := range b.grid {
		for row := range b.grid[col] {
			if occ := b.grid[col][row].Occupant; occ != nil && occ.Owner == p {
				n++
			}
		}
	}
	return n
}

// Occupants returns every occupied position with its piece.
func (b *Board) Occupants() map[types.Position]Piece {
	out := make(map[types.Position]Piece, MaxPieces)
	for col := range b.grid {
		for row := range b.grid[col] {
			if occ := b.grid[col][row].Occupant; occ != nil {
				out[types.Pos(col, row)] = *occ
			}
		}
	}
	return out
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := NewEmptyBoard(b.layout)
	for pos, p := range b.Occupants() {
		piece := p
		out.grid[pos.Col][pos.Row].Occupant = &piece
	}
	return out
}

// SetOccupants replaces all pieces with the given map. On failure the board is
// left unchanged and the offending position is returned.
func (b *Board) SetOccupants(occupants map[types.Position]Piece) (types.Position, bool) {
	if len(occupants) > MaxPieces {
		return types.Position{}, false
	}
	scratch := NewEmptyBoard(b.layout)
	for pos, p := range occupants {
		if !scratch.Place(p, pos) {
			return pos, false
		}
	}
	b.grid = scratch.grid
	return types.Position{}, true
}
