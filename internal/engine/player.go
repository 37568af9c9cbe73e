package engine

import (
	"errors"
	"math/rand"
)

const (
	// MaxHealth is both the starting and the maximum health of a player.
	MaxHealth = 15
	// DicePerPlayer is the number of permanent dice each player owns.
	DicePerPlayer = 6
	// MaxFavors is how many favors a player may bring to a match.
	MaxFavors = 3
)

var ErrTooManyFavors = errors.New("at most 3 favors per player")

// Player holds one side of the match.
type Player struct {
	Name   string
	Health int
	Tokens int
	Dice   []*Die

	// DamageTakenThisRound counts every point dealt this round, overkill included.
	DamageTakenThisRound int

	Favors   []Favor
	Selected *Selection
}

// NewPlayer returns a player at full health with six permanent dice.
func NewPlayer(name string) *Player {
	p := &Player{Name: name, Health: MaxHealth}
	for i := 0; i < DicePerPlayer; i++ {
		p.Dice = append(p.Dice, NewDie(false))
	}
	return p
}

func (p *Player) String() string { return p.Name }

// RollDice re-rolls every die that is not kept.
func (p *Player) RollDice(r *rand.Rand) {
	for _, d := range p.Dice {
		if !d.Kept {
			d.Roll(r)
		}
	}
}

// KeepAll keeps and locks every die; used after the last roll.
func (p *Player) KeepAll() {
	for _, d := range p.Dice {
		d.Kept = true
		d.Locked = true
	}
}

// LockKept locks the dice kept so far.
func (p *Player) LockKept() {
	for _, d := range p.Dice {
		if d.Kept {
			d.Locked = true
		}
	}
}

// ClearDice drops temporary dice and resets the rest for the next round.
func (p *Player) ClearDice() {
	kept := p.Dice[:0]
	for _, d := range p.Dice {
		if d.Temporary {
			continue
		}
		d.Clear()
		kept = append(kept, d)
	}
	for i := len(kept); i < len(p.Dice); i++ {
		p.Dice[i] = nil
	}
	p.Dice = kept
	p.DamageTakenThisRound = 0
}

// AddDie appends a die to the player's pool for this round.
func (p *Player) AddDie(d *Die) { p.Dice = append(p.Dice, d) }

// Damage lowers health, never below zero.
func (p *Player) Damage(hp int) {
	p.Health -= hp
	p.DamageTakenThisRound += hp
	if p.Health < 0 {
		p.Health = 0
	}
}

// Heal raises health, never above MaxHealth.
func (p *Player) Heal(hp int) {
	p.Health += hp
	if p.Health > MaxHealth {
		p.Health = MaxHealth
	}
}

func (p *Player) Dead() bool { return p.Health <= 0 }

func (p *Player) AddTokens(n int) { p.Tokens += n }

// RemoveTokens spends or destroys tokens, never below zero.
func (p *Player) RemoveTokens(n int) {
	p.Tokens -= n
	if p.Tokens < 0 {
		p.Tokens = 0
	}
}

// UnresolvedShield returns the first shield still able to block, or nil.
func (p *Player) UnresolvedShield() *Die { return p.firstUnresolved(Shield) }

// UnresolvedHelmet returns the first helmet still able to block, or nil.
func (p *Player) UnresolvedHelmet() *Die { return p.firstUnresolved(Helmet) }

func (p *Player) firstUnresolved(face Face) *Die {
	for _, d := range p.Dice {
		if d.Face == face && !d.Resolved {
			return d
		}
	}
	return nil
}

// Unresolved returns the unresolved dice showing one of the given faces,
// in dice order.
func (p *Player) Unresolved(faces ...Face) []*Die {
	return p.filter(func(d *Die) bool { return !d.Resolved && hasFace(faces, d.Face) })
}

// ResolvedOf returns the resolved dice showing one of the given faces.
func (p *Player) ResolvedOf(faces ...Face) []*Die {
	return p.filter(func(d *Die) bool { return d.Resolved && hasFace(faces, d.Face) })
}

func (p *Player) filter(keep func(*Die) bool) []*Die {
	var out []*Die
	for _, d := range p.Dice {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func hasFace(faces []Face, f Face) bool {
	for _, x := range faces {
		if x == f {
			return true
		}
	}
	return false
}

// TokenDice counts dice carrying a token marker, resolved or not.
func (p *Player) TokenDice() int {
	n := 0
	for _, d := range p.Dice {
		if d.HasToken {
			n++
		}
	}
	return n
}

// ChooseFavors sets the favors the player brings to the match.
func (p *Player) ChooseFavors(favors []Favor) error {
	if len(favors) > MaxFavors {
		return ErrTooManyFavors
	}
	p.Favors = append([]Favor(nil), favors...)
	return nil
}

// HasFavor reports whether the named favor is among the chosen ones.
func (p *Player) HasFavor(name string) (Favor, bool) {
	for _, f := range p.Favors {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Reset returns the player to the start of a match.
func (p *Player) Reset() {
	p.Health = MaxHealth
	p.Tokens = 0
	p.ClearDice()
	p.Favors = nil
	p.Selected = nil
}
