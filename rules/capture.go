package rules

// Verdict is the outcome of a single capture rule.
type Verdict int

const (
	// Pass defers to the next rule in the list.
	Pass Verdict = iota
	Allow
	Deny
)

// Encounter describes an attack: who attacks whom and on which terrain each stands.
type Encounter struct {
	Attacker        Piece
	AttackerTerrain Terrain
	Defender        Piece
	DefenderTerrain Terrain
}

// CaptureRule is one entry in the ordered capture relation.
type CaptureRule struct {
	Name   string
	Decide func(Encounter) Verdict
}

// CaptureRules are evaluated in order; the first rule that does not Pass decides.
// An encounter no rule decides is denied.
type CaptureRules []CaptureRule

// DefaultCaptureRules is the jungle capture relation:
// trap > rat exceptions > elephant exception > rank.
var DefaultCaptureRules = CaptureRules{
	{Name: "trap", Decide: trapRule},
	{Name: "rat", Decide: ratRule},
	{Name: "elephant", Decide: elephantRule},
	{Name: "rank", Decide: rankRule},
}

// A defender standing in one of the attacker's traps loses all rank.
func trapRule(e Encounter) Verdict {
	if e.DefenderTerrain.IsTrapOf(e.Attacker.Owner) {
		return Allow
	}
	return Pass
}

func ratRule(e Encounter) Verdict {
	if e.Attacker.Species != Rat {
		return Pass
	}
	// never across the bank
	if e.AttackerTerrain.IsWater() != e.DefenderTerrain.IsWater() {
		return Deny
	}
	switch e.Defender.Species {
	case Elephant:
		if !e.AttackerTerrain.IsWater() && !e.DefenderTerrain.IsWater() {
			return Allow
		}
		return Deny
	case Rat:
		return Allow
	}
	return Pass
}

func elephantRule(e Encounter) Verdict {
	if e.Attacker.Species == Elephant && e.Defender.Species == Rat {
		return Deny
	}
	return Pass
}

func rankRule(e Encounter) Verdict {
	if e.Attacker.Rank() >= e.Defender.Rank() {
		return Allow
	}
	return Deny
}

// Resolve returns the name of the deciding rule and whether the capture succeeds.
func (rs CaptureRules) Resolve(e Encounter) (string, bool) {
	for _, r := range rs {
		switch r.Decide(e) {
		case Allow:
			return r.Name, true
		case Deny:
			return r.Name, false
		}
	}
	return "", false
}

// CanCapture reports whether e.Attacker may take e.Defender.
func (rs CaptureRules) CanCapture(e Encounter) bool {
	_, ok := rs.Resolve(e)
	return ok
}

// CanCapture applies DefaultCaptureRules to two pieces on their tiles.
func CanCapture(attacker Piece, attackerTile Terrain, defender Piece, defenderTile Terrain) bool {
	return DefaultCaptureRules.CanCapture(Encounter{
		Attacker:        attacker,
		AttackerTerrain: attackerTile,
		Defender:        defender,
		DefenderTerrain: defenderTile,
	})
}
