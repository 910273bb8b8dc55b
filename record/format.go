// Package record writes and reads game records: the ordered move log of a game
// without any board state, replayable from the starting position.
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"junglequest/engine"
	"junglequest/rules"
	"junglequest/types"
)

// Version is written into every record file.
const Version = "1.0"

// File is the on-disk record document.
type File struct {
	Version    string    `json:"version"`
	GameID     string    `json:"game_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Players    [2]string `json:"players"`
	TotalMoves int       `json:"total_moves"`
	Result     string    `json:"result,omitempty"`
	Moves      []Move    `json:"moves"`
}

// Move is one logged ply.
type Move struct {
	Sequence   int            `json:"sequence_number"`
	MoverName  string         `json:"mover_name"`
	MoverIndex types.Player   `json:"mover_index"`
	MoveString string         `json:"move_string"`
	Species    rules.Species  `json:"species"`
	From       types.Position `json:"from"`
	To         types.Position `json:"to"`
	Captured   rules.Species  `json:"captured_species"`
	Timestamp  time.Time      `json:"timestamp"`
}

// FromMoveRecord converts an engine log entry.
func FromMoveRecord(rec engine.MoveRecord) Move {
	return Move{
		Sequence:   rec.Sequence,
		MoverName:  rec.MoverName,
		MoverIndex: rec.MoverIndex,
		MoveString: rec.MoveString(),
		Species:    rec.Species,
		From:       rec.From,
		To:         rec.To,
		Captured:   rec.Captured,
		Timestamp:  rec.Time,
	}
}

// FromLog builds a complete record from a move log.
func FromLog(gameID string, players [2]string, log []engine.MoveRecord, now time.Time) *File {
	f := &File{
		Version:   Version,
		GameID:    gameID,
		Timestamp: now.UTC(),
		Players:   players,
		Moves:     make([]Move, 0, len(log)),
	}
	for _, rec := range log {
		f.Moves = append(f.Moves, FromMoveRecord(rec))
	}
	f.TotalMoves = len(f.Moves)
	return f
}

// Encode writes f as indented JSON.
func Encode(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Decode reads a record and checks that it is internally consistent.
// It does not replay the moves; see Replay.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("decode record: missing version")
	}
	if f.TotalMoves != len(f.Moves) {
		return nil, fmt.Errorf("decode record: total_moves is %d but %d moves are listed", f.TotalMoves, len(f.Moves))
	}
	for i, m := range f.Moves {
		if m.Sequence != i+1 {
			return nil, fmt.Errorf("decode record: move %d has sequence number %d", i+1, m.Sequence)
		}
		if !m.MoverIndex.Valid() {
			return nil, fmt.Errorf("decode record: move %d has mover index %d", m.Sequence, m.MoverIndex)
		}
	}
	return &f, nil
}
