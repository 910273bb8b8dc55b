// Package rules implements the jungle board, its pieces, and the move and capture rules.
package rules

import (
	"fmt"
	"strings"

	"junglequest/types"
)

// Species is one of the eight animals. Its numeric value is its rank (Rat=1 .. Elephant=8).
type Species uint8

const (
	NoSpecies Species = iota
	Rat
	Cat
	Dog
	Wolf
	Leopard
	Tiger
	Lion
	Elephant
)

// AllSpecies lists the species from lowest to highest rank.
var AllSpecies = [...]Species{Rat, Cat, Dog, Wolf, Leopard, Tiger, Lion, Elephant}

var speciesNames = [...]string{"", "Rat", "Cat", "Dog", "Wolf", "Leopard", "Tiger", "Lion", "Elephant"}

var speciesAbbrev = [...]string{"", "rat", "cat", "dog", "wlf", "lpd", "tgr", "lio", "elp"}

// Rank returns the capture rank, 1-8.
func (s Species) Rank() int {
	if !s.Valid() {
		return 0
	}
	return int(s)
}

// Valid reports whether s is one of the eight species.
func (s Species) Valid() bool {
	return s >= Rat && s <= Elephant
}

func (s Species) String() string {
	if !s.Valid() {
		return "none"
	}
	return speciesNames[s]
}

// Abbrev returns the three-letter display name, e.g. "wlf".
func (s Species) Abbrev() string {
	if !s.Valid() {
		return "   "
	}
	return speciesAbbrev[s]
}

// ParseSpecies accepts a species name case-insensitively. "none" and "" map to NoSpecies.
func ParseSpecies(name string) (Species, error) {
	n := strings.TrimSpace(name)
	if n == "" || strings.EqualFold(n, "none") {
		return NoSpecies, nil
	}
	for _, s := range AllSpecies {
		if strings.EqualFold(n, speciesNames[s]) {
			return s, nil
		}
	}
	return NoSpecies, fmt.Errorf("unknown species %q", name)
}

// MarshalText encodes the species by name.
func (s Species) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a species name.
func (s *Species) UnmarshalText(text []byte) error {
	v, err := ParseSpecies(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Piece is an immutable animal owned by a player. Capturing destroys the piece.
type Piece struct {
	Species Species
	Owner   types.Player
}

// NewPiece creates a piece.
func NewPiece(s Species, owner types.Player) Piece {
	return Piece{Species: s, Owner: owner}
}

// Rank is shorthand for p.Species.Rank().
func (p Piece) Rank() int {
	return p.Species.Rank()
}

func (p Piece) String() string {
	return fmt.Sprintf("%s(%s)", p.Species, p.Owner)
}
