// Package types contains shared data structures for junglequest.
package types

import "fmt"

// Board dimensions. Columns are labelled A-G, rows 1-9.
const (
	Cols = 7
	Rows = 9
)

// Player identifies one of the two sides. Player1 moves first.
type Player int

const (
	Player1 Player = 0
	Player2 Player = 1
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return (p + 1) % 2
}

// Valid reports whether p is Player1 or Player2.
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

func (p Player) String() string {
	return fmt.Sprintf("P%d", int(p)+1)
}

// PlayerInfo is a named participant of a session. Index matches the Player value.
type PlayerInfo struct {
	Name  string `json:"name"`
	Index Player `json:"index"`
}

// Position is a board coordinate. Col 0 is column A, Row 0 is row 1.
type Position struct {
	Col int
	Row int
}

// Pos is shorthand for Position{Col: col, Row: row}.
func Pos(col, row int) Position {
	return Position{Col: col, Row: row}
}

// OnBoard reports whether the position lies inside the 7x9 grid.
func (p Position) OnBoard() bool {
	return p.Col >= 0 && p.Col < Cols && p.Row >= 0 && p.Row < Rows
}

// Distance returns the Manhattan distance between two positions.
func (p Position) Distance(o Position) int {
	return abs(p.Col-o.Col) + abs(p.Row-o.Row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
