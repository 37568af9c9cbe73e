package favors

import (
	"fmt"

	"github.com/pefman/orlog-duel/internal/engine"
)

// BragisVerve turns the owner's hands into extra tokens.
type BragisVerve struct{ base }

func NewBragisVerve() BragisVerve {
	return BragisVerve{base{name: "Bragi's Verve", priority: engine.PreCombat, costs: tiers{4, 8, 12}}}
}

func (BragisVerve) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Gain tokens for each die that rolled HAND."
	}
	return fmt.Sprintf("Gain %d tokens per hand", int(l)+1)
}

func (BragisVerve) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	hands := len(x.Owner.Unresolved(engine.Hand))
	gain := hands * (int(x.Level) + 1)
	x.Owner.AddTokens(gain)
	x.Infof("Bragi grants %s %d tokens from %d %s.", x.Owner.Name, gain, hands, plural(hands, "hand", "hands"))
	return nil
}

// SkuldsClaim destroys opponent tokens for each arrow the owner rolled.
type SkuldsClaim struct{ base }

func NewSkuldsClaim() SkuldsClaim {
	return SkuldsClaim{base{name: "Skuld's Claim", priority: engine.PreCombat, costs: tiers{4, 6, 8}}}
}

func (SkuldsClaim) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Destroy the opponent's tokens for each die that rolled ARROW."
	}
	return fmt.Sprintf("-%d tokens per arrow", int(l)+1)
}

func (SkuldsClaim) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	arrows := len(x.Owner.Unresolved(engine.Arrow))
	destroyed := arrows * (int(x.Level) + 1)
	x.Opponent.RemoveTokens(destroyed)
	x.Infof("Skuld destroys up to %d of %s's tokens.", destroyed, x.Opponent.Name)
	return nil
}

// MimirsWisdom rewards the owner for the damage the opponent took this round.
type MimirsWisdom struct{ base }

func NewMimirsWisdom() MimirsWisdom {
	return MimirsWisdom{base{name: "Mímir's Wisdom", priority: engine.PostCombat, costs: tiers{3, 5, 7}}}
}

func (MimirsWisdom) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Gain tokens for each damage dealt this round."
	}
	return fmt.Sprintf("+%d tokens per damage", int(l))
}

func (MimirsWisdom) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	dealt := x.Opponent.DamageTakenThisRound
	if dealt == 0 {
		x.Infof("No damage dealt, Mímir grants nothing.")
		return nil
	}
	gain := dealt * int(x.Level)
	x.Owner.AddTokens(gain)
	x.Infof("%s dealt %d damage, Mímir grants %d tokens.", x.Owner.Name, dealt, gain)
	return nil
}

// OdinsSacrifice trades the owner's health for tokens.
type OdinsSacrifice struct{ base }

func NewOdinsSacrifice() OdinsSacrifice {
	return OdinsSacrifice{base{name: "Odin's Sacrifice", priority: engine.PostCombat, target: engine.TargetSelfHealth, costs: tiers{6, 8, 10}}}
}

func (OdinsSacrifice) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Sacrifice any amount of health and gain tokens for each point."
	}
	return fmt.Sprintf("Gain %d tokens per health", int(l)+2)
}

func (OdinsSacrifice) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	n := sacrifice(x.Owner, x.Target.Amount)
	if n == 0 {
		x.Infof("No health sacrificed, Odin grants nothing.")
		return nil
	}
	gain := n * (int(x.Level) + 2)
	x.Owner.AddTokens(gain)
	x.Infof("%s sacrificed %d health. Odin grants %d tokens.", x.Owner.Name, n, gain)
	return nil
}

// TyrsPledge trades the owner's health for destroying opponent tokens.
type TyrsPledge struct{ base }

func NewTyrsPledge() TyrsPledge {
	return TyrsPledge{base{name: "Týr's Pledge", priority: engine.PreCombat, target: engine.TargetSelfHealth, costs: tiers{4, 6, 8}}}
}

func (TyrsPledge) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Sacrifice any amount of health and destroy opponent tokens for each point."
	}
	return fmt.Sprintf("-%d opponent tokens per health", int(l)+1)
}

func (TyrsPledge) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	n := sacrifice(x.Owner, x.Target.Amount)
	if n == 0 {
		x.Infof("No health sacrificed, Týr can't destroy %s's tokens.", x.Opponent.Name)
		return nil
	}
	destroyed := n * (int(x.Level) + 1)
	x.Opponent.RemoveTokens(destroyed)
	x.Infof("%s sacrificed %d health. Týr destroys %d of %s's tokens.", x.Owner.Name, n, destroyed, x.Opponent.Name)
	return nil
}

// sacrifice takes up to amount health from p and returns what was taken.
func sacrifice(p *engine.Player, amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > p.Health {
		amount = p.Health
	}
	p.Damage(amount)
	return amount
}

// ThrymrsTheft weakens the opponent's pending favor. If the opponent picked
// nothing the owner gets the cost back.
type ThrymrsTheft struct{ base }

func NewThrymrsTheft() ThrymrsTheft {
	return ThrymrsTheft{base{name: "Thrymr's Theft", priority: engine.Immediate, costs: tiers{3, 6, 9}}}
}

func (ThrymrsTheft) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Reduce the level of the favor the opponent invoked this round."
	}
	return fmt.Sprintf("-%d %s", int(l), plural(int(l), "level", "levels"))
}

func (t ThrymrsTheft) Execute(x engine.Execution) error {
	cost, err := t.Cost(x.Level)
	if err != nil {
		return err
	}
	sel := x.Opponent.Selected
	if sel == nil {
		x.Owner.AddTokens(cost)
		x.Infof("%s selected no favor. Thrymr refunds %d tokens to %s.", x.Opponent.Name, cost, x.Owner.Name)
		return nil
	}
	sel.Level -= x.Level
	if sel.Level < engine.MinLevel {
		x.Opponent.Selected = nil
		x.Infof("Thrymr strips %s's %s entirely.", x.Opponent.Name, sel.Favor.Name())
		return nil
	}
	x.Infof("Thrymr downgrades %s's %s to level %d.", x.Opponent.Name, sel.Favor.Name(), sel.Level)
	return nil
}
