package types

import (
	"fmt"
	"strings"
)

// Board notation:
// - Columns: A-G (case-insensitive), left to right
// - Rows: 1-9, Player 1's den row is 1
// - Example: D1 is Player 1's den, D9 is Player 2's den
//
// A move is written "<from> to <to>", e.g. "A3 to A4".

// FormatError reports input that does not match the board notation.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// String formats the position in board notation, e.g. (0, 0) -> "A1".
func (p Position) String() string {
	if !p.OnBoard() {
		return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
	}
	return fmt.Sprintf("%c%d", 'A'+rune(p.Col), p.Row+1)
}

// MarshalText lets positions serve as JSON object keys.
func (p Position) MarshalText() ([]byte, error) {
	if !p.OnBoard() {
		return nil, fmt.Errorf("position %d,%d is off the board", p.Col, p.Row)
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses board notation.
func (p *Position) UnmarshalText(text []byte) error {
	pos, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// ParsePosition converts board notation to a Position.
// Out-of-range letters and digits are rejected, never clamped.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Position{}, &FormatError{Input: s, Reason: "expected a column letter and a row digit"}
	}

	col := int(strings.ToUpper(s[:1])[0]) - 'A'
	if col < 0 || col >= Cols {
		return Position{}, &FormatError{Input: s, Reason: "column must be A-G"}
	}

	row := int(s[1]) - '1'
	if row < 0 || row >= Rows {
		return Position{}, &FormatError{Input: s, Reason: "row must be 1-9"}
	}

	return Position{Col: col, Row: row}, nil
}

// ParseMoveInput parses "<col><row> to <col><row>".
func ParseMoveInput(line string) (from, to Position, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || !strings.EqualFold(fields[1], "to") {
		return from, to, &FormatError{Input: line, Reason: "expected a move like \"A1 to A2\""}
	}

	if from, err = ParsePosition(fields[0]); err != nil {
		return from, to, &FormatError{Input: line, Reason: err.(*FormatError).Reason}
	}
	if to, err = ParsePosition(fields[2]); err != nil {
		return from, to, &FormatError{Input: line, Reason: err.(*FormatError).Reason}
	}
	return from, to, nil
}

// MoveString formats a move in input notation, e.g. "A3 to A4".
func MoveString(from, to Position) string {
	return from.String() + " to " + to.String()
}
