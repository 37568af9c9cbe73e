package game

import "github.com/pefman/orlog-duel/internal/engine"

// MaxRolls is how many times each player may roll per round.
const MaxRolls = 3

// RollPhase lets players take turns rolling and keeping dice.
type RollPhase struct {
	g      *Game
	rolls  [2]int
	rolled bool
}

func newRollPhase(g *Game) *RollPhase {
	g.current = g.first
	return &RollPhase{g: g}
}

func (*RollPhase) Name() PhaseName { return PhaseRoll }

// CanRoll reports whether the current seat has a roll available this turn.
func (rp *RollPhase) CanRoll() bool {
	return !rp.rolled && rp.rolls[rp.g.current] < MaxRolls
}

// Rolls returns how many rolls a seat has used.
func (rp *RollPhase) Rolls(s Seat) int { return rp.rolls[s] }

func (rp *RollPhase) roll(seat Seat) error {
	if err := rp.g.checkTurn(seat); err != nil {
		return err
	}
	if rp.rolled {
		return ErrAlreadyRolled
	}
	if rp.rolls[seat] >= MaxRolls {
		return ErrNoRollsLeft
	}
	p := rp.g.players[seat]
	p.RollDice(rp.g.rng)
	rp.rolls[seat]++
	rp.rolled = true

	if rp.rolls[seat] == MaxRolls {
		p.KeepAll()
		rp.g.notifyf(engine.NoticeInfo, "Last roll for %s! All dice are kept.", p.Name)
	}
	return nil
}

func (rp *RollPhase) toggle(seat Seat, ref DieRef) error {
	if err := rp.g.checkTurn(seat); err != nil {
		return err
	}
	if ref.Seat != seat {
		return ErrForeignDie
	}
	p := rp.g.players[seat]
	if ref.Index < 0 || ref.Index >= len(p.Dice) {
		return ErrNoSuchDie
	}
	if !rp.rolled {
		return ErrMustRollFirst
	}
	if rp.rolls[seat] >= MaxRolls {
		return ErrKeepClosed
	}
	d := p.Dice[ref.Index]
	if d.Locked {
		return ErrDieLocked
	}
	d.Kept = !d.Kept
	return nil
}

func (rp *RollPhase) confirm(seat Seat) error {
	if err := rp.g.checkTurn(seat); err != nil {
		return err
	}
	if !rp.rolled && rp.rolls[seat] < MaxRolls {
		return ErrMustRollFirst
	}
	rp.g.players[seat].LockKept()

	if rp.rolls[SeatOne] == MaxRolls && rp.rolls[SeatTwo] == MaxRolls {
		rp.g.phase = newFavorPhase(rp.g)
		return nil
	}
	rp.g.current = seat.Other()
	rp.rolled = false
	return nil
}
