package engine

import (
	"math/rand"
)

// Face is the symbol shown on top of a die after a roll.
type Face string

const (
	Hand   Face = "HAND"
	Arrow  Face = "ARROW"
	Helmet Face = "HELMET"
	Shield Face = "SHIELD"
	Axe    Face = "AXE"
)

// Faces lists every face once, in the order used for tie-breaks.
var Faces = []Face{Hand, Arrow, Helmet, Shield, Axe}

// sides maps a d6 outcome to a face. AXE sits on two sides.
var sides = [6]Face{Hand, Arrow, Helmet, Shield, Axe, Axe}

// IsDefense reports whether the face only ever absorbs hits.
func (f Face) IsDefense() bool { return f == Helmet || f == Shield }

// IsAttack reports whether the face acts against the opponent during combat.
func (f Face) IsAttack() bool { return f == Axe || f == Arrow || f == Hand }

// HitType records what the last point of an axe ended up striking.
type HitType string

const (
	HitNone    HitType = ""
	HitDefense HitType = "DEFENSE"
	HitPlayer  HitType = "PLAYER"
)

// Die is one six-sided die owned by a player.
type Die struct {
	Face      Face
	Kept      bool
	Locked    bool
	Resolved  bool
	Temporary bool
	HasToken  bool

	// DefenseHealth is how many hits a helmet or shield can still absorb.
	DefenseHealth int
	// Damage is what an axe or arrow deals, or how many tokens a hand steals.
	Damage  int
	HitType HitType
}

// NewDie returns a fresh die showing HAND.
func NewDie(temporary bool) *Die {
	return &Die{Face: Hand, Temporary: temporary, DefenseHealth: 1, Damage: 1}
}

// Roll draws a new face. Faces other than AXE get an independent coin flip
// for the token marker.
func (d *Die) Roll(r *rand.Rand) {
	d.Face = sides[r.Intn(len(sides))]
	d.HasToken = false
	if d.Face != Axe {
		d.HasToken = r.Intn(2) == 0
	}
}

// TakeHit removes defense. It reports whether the die still holds; a die that
// breaks is clamped to zero and marked resolved.
func (d *Die) TakeHit(amount int) bool {
	d.DefenseHealth -= amount
	if d.DefenseHealth <= 0 {
		d.DefenseHealth = 0
		d.Resolved = true
		return false
	}
	return true
}

// AddDefense raises how many hits the die can absorb.
func (d *Die) AddDefense(amount int) { d.DefenseHealth += amount }

// Clear resets round state. Face and token marker are left for the next roll.
func (d *Die) Clear() {
	d.Kept = false
	d.Locked = false
	d.Resolved = false
	d.DefenseHealth = 1
	d.Damage = 1
	d.HitType = HitNone
}

// Resolve applies the die's face against the opponent and marks it resolved.
// Callers check Resolved first; a die resolves at most once per round.
func (d *Die) Resolve(owner, opponent *Player) {
	switch d.Face {
	case Axe:
		resolveAxe(d, opponent)
	case Arrow:
		resolveArrow(d, opponent)
	case Hand:
		resolveHand(d, owner, opponent)
	case Helmet, Shield:
		// passive: consumed as defenders by TakeHit
		return
	}
	d.Resolved = true
}

func resolveAxe(d *Die, opponent *Player) {
	for point := d.Damage; point > 0; point-- {
		hit := HitPlayer
		if helmet := opponent.UnresolvedHelmet(); helmet != nil {
			helmet.TakeHit(1)
			hit = HitDefense
		} else {
			opponent.Damage(1)
		}
		if point == 1 {
			d.HitType = hit
		}
	}
}

func resolveArrow(d *Die, opponent *Player) {
	for point := d.Damage; point > 0; point-- {
		if shield := opponent.UnresolvedShield(); shield != nil {
			shield.TakeHit(1)
			continue
		}
		opponent.Damage(1)
	}
}

func resolveHand(d *Die, owner, opponent *Player) {
	if opponent.Tokens <= 0 {
		return
	}
	for steal := d.Damage; steal > 0; steal-- {
		if opponent.Tokens <= 0 {
			d.Damage = 0
			return
		}
		opponent.RemoveTokens(1)
		owner.AddTokens(1)
	}
}
