package favors

import (
	"fmt"
	"math"

	"github.com/pefman/orlog-duel/internal/engine"
)

// BrunhildsFury multiplies the damage of the owner's axes, rounding up.
type BrunhildsFury struct{ base }

var brunhildMultiplier = [3]float64{1.5, 2, 3}

func NewBrunhildsFury() BrunhildsFury {
	return BrunhildsFury{base{name: "Brunhild's Fury", priority: engine.PreCombat, costs: tiers{6, 10, 18}}}
}

func (BrunhildsFury) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Multiply axes, rounded up."
	}
	return fmt.Sprintf("Axes x%g", brunhildMultiplier[l-1])
}

func (BrunhildsFury) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	m := brunhildMultiplier[x.Level-1]
	for _, axe := range x.Owner.Unresolved(engine.Axe) {
		axe.Damage = int(math.Ceil(float64(axe.Damage) * m))
	}
	x.Infof("Brunhild multiplies %s's axe damage by %g!", x.Owner.Name, m)
	return nil
}

// SkadisHunt adds damage to each of the owner's arrows.
type SkadisHunt struct{ base }

func NewSkadisHunt() SkadisHunt {
	return SkadisHunt{base{name: "Skaði's Hunt", priority: engine.PreCombat, costs: tiers{6, 10, 14}}}
}

func (SkadisHunt) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Add arrows to each die that rolled ARROW."
	}
	return fmt.Sprintf("+%d arrows per die", int(l))
}

func (SkadisHunt) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	for _, arrow := range x.Owner.Unresolved(engine.Arrow) {
		arrow.Damage += int(x.Level)
	}
	x.Infof("Skaði adds +%d to each of %s's arrows!", int(x.Level), x.Owner.Name)
	return nil
}

// FreyrsGift boosts whichever face the owner has most of.
type FreyrsGift struct{ base }

var freyrBonus = tiers{2, 3, 4}

func NewFreyrsGift() FreyrsGift {
	return FreyrsGift{base{name: "Freyr's Gift", priority: engine.PreCombat, costs: tiers{4, 6, 8}}}
}

func (FreyrsGift) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Add to the total of whichever die face is in majority."
	}
	return fmt.Sprintf("Add %d to the face in majority", freyrBonus.of(l))
}

func (FreyrsGift) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	bonus := freyrBonus.of(x.Level)
	face, ok := MajorityFace(x.Owner)
	if !ok {
		x.Infof("Freyr finds no dice to bless.")
		return nil
	}
	for _, d := range x.Owner.Unresolved(face) {
		if face.IsDefense() {
			d.AddDefense(bonus)
		} else {
			d.Damage += bonus
		}
	}
	x.Infof("Freyr adds +%d to each %s die!", bonus, face)
	return nil
}

// MajorityFace returns the most common face among the player's unresolved
// dice. Ties go to the face listed first in engine.Faces.
func MajorityFace(p *engine.Player) (engine.Face, bool) {
	counts := make(map[engine.Face]int, len(engine.Faces))
	for _, d := range p.Unresolved(engine.Faces...) {
		counts[d.Face]++
	}
	best, top := engine.Axe, 0
	for _, f := range engine.Faces {
		if counts[f] > top {
			best, top = f, counts[f]
		}
	}
	return best, top > 0
}

// BaldrsInvulnerability reinforces every helmet and shield the owner rolled.
type BaldrsInvulnerability struct{ base }

func NewBaldrsInvulnerability() BaldrsInvulnerability {
	return BaldrsInvulnerability{base{name: "Baldr's Invulnerability", priority: engine.PreCombat, costs: tiers{3, 6, 9}}}
}

func (BaldrsInvulnerability) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Reinforce each die that rolled HELMET or SHIELD."
	}
	return fmt.Sprintf("+%d defense per helmet and shield", int(l))
}

func (BaldrsInvulnerability) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	dice := x.Owner.Unresolved(engine.Helmet, engine.Shield)
	for _, d := range dice {
		d.AddDefense(int(x.Level))
	}
	x.Infof("Baldr reinforces %d of %s's defense dice.", len(dice), x.Owner.Name)
	return nil
}

// VidarrsMight breaks the opponent's helmets before combat.
type VidarrsMight struct{ base }

func NewVidarrsMight() VidarrsMight {
	return VidarrsMight{base{name: "Víðarr's Might", priority: engine.PreCombat, costs: tiers{2, 4, 6}}}
}

func (VidarrsMight) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Remove helmets from the opponent."
	}
	return fmt.Sprintf("-%d helmets", 2*int(l))
}

func (VidarrsMight) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	n := breakDefenders(x.Opponent, engine.Helmet, 2*int(x.Level))
	x.Infof("Víðarr removes %d %s!", n, plural(n, "helmet", "helmets"))
	return nil
}

// UllrsAim breaks the opponent's shields so arrows pass through.
type UllrsAim struct{ base }

var ullrShields = tiers{2, 3, 6}

func NewUllrsAim() UllrsAim {
	return UllrsAim{base{name: "Ullr's Aim", priority: engine.PreCombat, costs: tiers{2, 3, 4}}}
}

func (UllrsAim) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Your arrows ignore the opponent's shields."
	}
	return fmt.Sprintf("%d arrows ignore shields", ullrShields.of(l))
}

func (UllrsAim) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	n := breakDefenders(x.Opponent, engine.Shield, ullrShields.of(x.Level))
	x.Infof("Ullr makes arrows ignore %d %s!", n, plural(n, "shield", "shields"))
	return nil
}

// breakDefenders lands one hit on each of the first limit unresolved dice
// of the face and returns how many were hit.
func breakDefenders(p *engine.Player, face engine.Face, limit int) int {
	dice := p.Unresolved(face)
	if len(dice) > limit {
		dice = dice[:limit]
	}
	for _, d := range dice {
		d.TakeHit(1)
	}
	return len(dice)
}

// FreyjasPlenty rolls extra dice for the owner for this round only.
type FreyjasPlenty struct{ base }

func NewFreyjasPlenty() FreyjasPlenty {
	return FreyjasPlenty{base{name: "Freyja's Plenty", priority: engine.PreCombat, costs: tiers{2, 4, 6}}}
}

func (FreyjasPlenty) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Roll additional dice this round."
	}
	return fmt.Sprintf("+%d %s", int(l), plural(int(l), "die", "dice"))
}

func (FreyjasPlenty) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	if x.Rand == nil {
		return fmt.Errorf("freyja's plenty: %w", errNoRand)
	}
	for i := 0; i < int(x.Level); i++ {
		d := engine.NewDie(true)
		d.Roll(x.Rand)
		x.Owner.AddDie(d)
	}
	x.Infof("Freyja adds %d %s to %s.", int(x.Level), plural(int(x.Level), "die", "dice"), x.Owner.Name)
	return nil
}

// FriggsSight rerolls dice of either player and brings them back into play.
type FriggsSight struct{ base }

func NewFriggsSight() FriggsSight {
	return FriggsSight{base{name: "Frigg's Sight", priority: engine.PreCombat, target: engine.TargetAnyDice, costs: tiers{2, 3, 4}}}
}

func (FriggsSight) SelectionLimit(l engine.Level) int { return int(l) + 1 }

func (f FriggsSight) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Reroll any of your or your opponent's dice."
	}
	return fmt.Sprintf("Reroll %d dice", f.SelectionLimit(l))
}

func (FriggsSight) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	if len(x.Target.Dice) > 0 && x.Rand == nil {
		return fmt.Errorf("frigg's sight: %w", errNoRand)
	}
	for _, d := range x.Target.Dice {
		d.Roll(x.Rand)
		d.Resolved = false
	}
	x.Infof("Frigg rerolls %d %s.", len(x.Target.Dice), plural(len(x.Target.Dice), "die", "dice"))
	return nil
}

// LokisTrick bans the opponent's dice for the round.
type LokisTrick struct{ base }

func NewLokisTrick() LokisTrick {
	return LokisTrick{base{name: "Loki's Trick", priority: engine.PreCombat, target: engine.TargetOpponentDice, costs: tiers{3, 6, 9}}}
}

func (LokisTrick) SelectionLimit(l engine.Level) int { return int(l) }

func (LokisTrick) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Ban the opponent's dice for the round."
	}
	return fmt.Sprintf("Ban %d %s", int(l), plural(int(l), "die", "dice"))
}

func (LokisTrick) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	for _, d := range x.Target.Dice {
		d.Resolved = true
	}
	x.Infof("Loki bans %d of %s's dice.", len(x.Target.Dice), x.Opponent.Name)
	return nil
}
