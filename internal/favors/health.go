package favors

import (
	"fmt"

	"github.com/pefman/orlog-duel/internal/engine"
)

// ThorsStrike deals direct damage to the opponent after combat.
type ThorsStrike struct{ base }

var thorDamage = tiers{2, 5, 8}

func NewThorsStrike() ThorsStrike {
	return ThorsStrike{base{name: "Thor's Strike", priority: engine.PostCombat, costs: tiers{4, 8, 12}}}
}

func (ThorsStrike) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Deal damage to the opponent after combat."
	}
	return fmt.Sprintf("Deal %d damage", thorDamage.of(l))
}

func (ThorsStrike) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	dmg := thorDamage.of(x.Level)
	x.Opponent.Damage(dmg)
	x.Infof("Thor strikes %s for %d damage!", x.Opponent.Name, dmg)
	return nil
}

// IdunnsRejuvenation heals its owner before combat.
type IdunnsRejuvenation struct{ base }

var idunnHeal = tiers{2, 4, 6}

func NewIdunnsRejuvenation() IdunnsRejuvenation {
	return IdunnsRejuvenation{base{name: "Iðunn's Rejuvenation", priority: engine.PreCombat, costs: tiers{4, 7, 10}}}
}

func (IdunnsRejuvenation) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Heal health."
	}
	return fmt.Sprintf("Heal %d health", idunnHeal.of(l))
}

func (IdunnsRejuvenation) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	heal := idunnHeal.of(x.Level)
	x.Owner.Heal(heal)
	x.Infof("Iðunn heals %s for %d health!", x.Owner.Name, heal)
	return nil
}

// HeimdallsWatch heals for every attack the owner's defense dice blocked.
type HeimdallsWatch struct{ base }

func NewHeimdallsWatch() HeimdallsWatch {
	return HeimdallsWatch{base{name: "Heimdall's Watch", priority: engine.PostCombat, costs: tiers{4, 7, 10}}}
}

func (HeimdallsWatch) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Heal health for each attack you block."
	}
	return fmt.Sprintf("+%d health per block", int(l))
}

func (HeimdallsWatch) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	blocks := len(x.Owner.ResolvedOf(engine.Helmet, engine.Shield))
	heal := blocks * int(x.Level)
	x.Owner.Heal(heal)
	x.Infof("Heimdall heals %d health for blocking %d %s!", heal, blocks, plural(blocks, "attack", "attacks"))
	return nil
}

// HelsGrip heals for every axe that reached the opponent's health.
type HelsGrip struct{ base }

func NewHelsGrip() HelsGrip {
	return HelsGrip{base{name: "Hel's Grip", priority: engine.PostCombat, costs: tiers{6, 12, 18}}}
}

func (HelsGrip) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Each axe that hits the opponent heals you."
	}
	return fmt.Sprintf("+%d health per axe hit", int(l))
}

func (HelsGrip) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	hits := 0
	for _, d := range x.Owner.ResolvedOf(engine.Axe) {
		if d.HitType == engine.HitPlayer {
			hits++
		}
	}
	heal := hits * int(x.Level)
	x.Owner.Heal(heal)
	x.Infof("Hel's Grip heals %s for %d health!", x.Owner.Name, heal)
	return nil
}

// VarsBond heals in proportion to the tokens the opponent's pending favor
// costs. A favor that already resolved this round no longer counts.
type VarsBond struct{ base }

func NewVarsBond() VarsBond {
	return VarsBond{base{name: "Vár's Bond", priority: engine.PostCombat, costs: tiers{10, 14, 18}}}
}

func (VarsBond) Describe(l engine.Level) string {
	if !l.Valid() {
		return "Each token spent by your opponent heals you."
	}
	return fmt.Sprintf("+%d health per token", int(l))
}

func (VarsBond) Execute(x engine.Execution) error {
	if err := checkLevel(x.Level); err != nil {
		return err
	}
	sel := x.Opponent.Selected
	if sel == nil {
		x.Infof("%s selected no favor. Vár can't heal.", x.Opponent.Name)
		return nil
	}
	spent, err := sel.Cost()
	if err != nil {
		return fmt.Errorf("opponent selection: %w", err)
	}
	heal := spent * int(x.Level)
	x.Owner.Heal(heal)
	x.Infof("Vár heals %s for %d health from %s's %s.", x.Owner.Name, heal, x.Opponent.Name, sel.Favor.Name())
	return nil
}
