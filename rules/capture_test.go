package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"junglequest/types"
)

var (
	land  = Terrain{Kind: Land}
	water = Terrain{Kind: Water}
	trap1 = Terrain{Kind: Trap, Owner: types.Player1}
	trap2 = Terrain{Kind: Trap, Owner: types.Player2}
)

func p1(s Species) Piece { return NewPiece(s, types.Player1) }
func p2(s Species) Piece { return NewPiece(s, types.Player2) }

func TestCaptureByRank(t *testing.T) {
	for _, a := range AllSpecies {
		for _, d := range AllSpecies {
			if a == Rat || (a == Elephant && d == Rat) {
				continue
			}
			want := a.Rank() >= d.Rank()
			assert.Equal(t, want, CanCapture(p1(a), land, p2(d), land), "%s vs %s", a, d)
		}
	}
}

func TestCaptureIsNotTransitive(t *testing.T) {
	assert.True(t, CanCapture(p1(Elephant), land, p2(Tiger), land))
	assert.False(t, CanCapture(p1(Tiger), land, p2(Elephant), land))
	assert.True(t, CanCapture(p1(Rat), land, p2(Elephant), land))
	assert.False(t, CanCapture(p1(Elephant), land, p2(Rat), land))
}

func TestRatCaptureTerrain(t *testing.T) {
	tests := []struct {
		name     string
		attacker Terrain
		defender Piece
		dTerrain Terrain
		want     bool
	}{
		{"rat in water vs elephant on land", water, p2(Elephant), land, false},
		{"rat on land vs rat in water", land, p2(Rat), water, false},
		{"rat in water vs rat on land", water, p2(Rat), land, false},
		{"rat vs rat in water", water, p2(Rat), water, true},
		{"rat vs rat on land", land, p2(Rat), land, true},
		{"rat vs cat on land", land, p2(Cat), land, false},
		{"rat vs elephant standing on a den", land, p2(Elephant), Terrain{Kind: Den, Owner: types.Player2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanCapture(p1(Rat), tc.attacker, tc.defender, tc.dTerrain))
		})
	}
}

func TestTrapOverridesEverything(t *testing.T) {
	// defender in attacker's trap
	assert.True(t, CanCapture(p1(Rat), land, p2(Elephant), trap1))
	assert.True(t, CanCapture(p1(Elephant), land, p2(Rat), trap1))
	assert.True(t, CanCapture(p1(Cat), land, p2(Lion), trap1))
	assert.True(t, CanCapture(p1(Rat), land, p2(Rat), trap1))

	// a trap owned by the defender gives no advantage
	assert.False(t, CanCapture(p1(Cat), land, p2(Lion), trap2))
}

func TestResolveNamesDecidingRule(t *testing.T) {
	rule, ok := DefaultCaptureRules.Resolve(Encounter{
		Attacker: p1(Elephant), AttackerTerrain: land,
		Defender: p2(Rat), DefenderTerrain: trap1,
	})
	assert.True(t, ok)
	assert.Equal(t, "trap", rule)

	rule, ok = DefaultCaptureRules.Resolve(Encounter{
		Attacker: p1(Elephant), AttackerTerrain: land,
		Defender: p2(Rat), DefenderTerrain: land,
	})
	assert.False(t, ok)
	assert.Equal(t, "elephant", rule)

	rule, _ = CaptureRules{}.Resolve(Encounter{})
	assert.Empty(t, rule)
}
