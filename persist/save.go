// Package persist saves and restores complete games and stores game records.
package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"junglequest/engine"
	"junglequest/history"
	"junglequest/rules"
	"junglequest/types"
)

// Version is written into every save file.
const Version = "1.0"

// BoardMap maps board notation ("A1") to the piece standing there.
type BoardMap map[string]history.Occupant

// SaveFile is the whole-state save document. Terrain is not part of it.
type SaveFile struct {
	Version       string              `json:"version" bson:"version"`
	GameID        string              `json:"game_id" bson:"game_id"`
	Timestamp     time.Time           `json:"timestamp" bson:"timestamp"`
	Players       [2]string           `json:"players" bson:"players"`
	CurrentTurn   types.Player        `json:"current_turn" bson:"current_turn"`
	UndoCount     int                 `json:"undo_count" bson:"undo_count"`
	MaxUndos      *int                `json:"max_undos,omitempty" bson:"max_undos,omitempty"`
	Board         BoardMap            `json:"board" bson:"board"`
	MoveLog       []engine.MoveRecord `json:"move_log" bson:"move_log"`
	SnapshotStack []SavedSnapshot     `json:"snapshot_stack" bson:"snapshot_stack"`
	Outcome       *engine.Outcome     `json:"outcome,omitempty" bson:"outcome,omitempty"`
}

// SavedSnapshot is one undo snapshot in a save.
type SavedSnapshot struct {
	Board BoardMap     `json:"board" bson:"board"`
	Turn  types.Player `json:"turn" bson:"turn"`
}

// FromState builds a save document from an engine export.
func FromState(gameID string, st engine.State, now time.Time) *SaveFile {
	s := &SaveFile{
		Version:       Version,
		GameID:        gameID,
		Timestamp:     now.UTC(),
		Players:       st.Players,
		CurrentTurn:   st.Turn,
		UndoCount:     st.UndoCount,
		MaxUndos:      st.MaxUndos,
		Board:         make(BoardMap, len(st.Occupants)),
		MoveLog:       append([]engine.MoveRecord{}, st.MoveLog...),
		SnapshotStack: make([]SavedSnapshot, 0, len(st.Snapshots)),
		Outcome:       st.Outcome,
	}
	for pos, p := range st.Occupants {
		s.Board[pos.String()] = history.Occupant{Species: p.Species, Owner: p.Owner}
	}
	for _, snap := range st.Snapshots {
		saved := SavedSnapshot{Board: make(BoardMap, len(snap.Occupants)), Turn: snap.Turn}
		for pos, o := range snap.Occupants {
			saved.Board[pos.String()] = o
		}
		s.SnapshotStack = append(s.SnapshotStack, saved)
	}
	return s
}

// ToState validates the document and converts it for local.NewFromState.
func (s *SaveFile) ToState() (engine.State, error) {
	if s.Version == "" {
		return engine.State{}, fmt.Errorf("missing version")
	}
	if !s.CurrentTurn.Valid() {
		return engine.State{}, fmt.Errorf("invalid current turn %d", s.CurrentTurn)
	}
	if s.UndoCount < 0 {
		return engine.State{}, fmt.Errorf("negative undo count %d", s.UndoCount)
	}

	occ, err := s.Board.occupants()
	if err != nil {
		return engine.State{}, fmt.Errorf("board: %w", err)
	}
	st := engine.State{
		Players:   s.Players,
		Turn:      s.CurrentTurn,
		UndoCount: s.UndoCount,
		MaxUndos:  s.MaxUndos,
		Occupants: make(map[types.Position]rules.Piece, len(occ)),
		MoveLog:   append([]engine.MoveRecord(nil), s.MoveLog...),
		Outcome:   s.Outcome,
	}
	for pos, o := range occ {
		st.Occupants[pos] = rules.NewPiece(o.Species, o.Owner)
	}
	for i, saved := range s.SnapshotStack {
		occ, err := saved.Board.occupants()
		if err != nil {
			return engine.State{}, fmt.Errorf("snapshot %d: %w", i+1, err)
		}
		if !saved.Turn.Valid() {
			return engine.State{}, fmt.Errorf("snapshot %d: invalid turn %d", i+1, saved.Turn)
		}
		st.Snapshots = append(st.Snapshots, history.Snapshot{Occupants: occ, Turn: saved.Turn})
	}
	for i, m := range st.MoveLog {
		if m.Sequence != i+1 {
			return engine.State{}, fmt.Errorf("move log entry %d has sequence number %d", i+1, m.Sequence)
		}
	}
	return st, nil
}

func (bm BoardMap) occupants() (map[types.Position]history.Occupant, error) {
	if len(bm) > rules.MaxPieces {
		return nil, fmt.Errorf("%d pieces on the board", len(bm))
	}
	out := make(map[types.Position]history.Occupant, len(bm))
	for key, o := range bm {
		pos, err := types.ParsePosition(key)
		if err != nil {
			return nil, err
		}
		if !o.Species.Valid() || !o.Owner.Valid() {
			return nil, fmt.Errorf("invalid piece %v on %s", o, key)
		}
		out[pos] = o
	}
	return out, nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *SaveFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a save document. Use ToState to validate it.
func Decode(r io.Reader) (*SaveFile, error) {
	var s SaveFile
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
