// Package bot plays a seat automatically with a simple scripted policy.
package bot

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/game"
)

// ErrTooManyRounds is returned by Play when the round limit is reached
// before the match is decided.
var ErrTooManyRounds = errors.New("round limit reached")

// ErrStalled means neither seat had a legal move.
var ErrStalled = errors.New("no seat could act")

// Bot decides for one seat.
type Bot struct {
	Seat game.Seat
	rng  *rand.Rand
}

func New(seat game.Seat, r *rand.Rand) *Bot {
	return &Bot{Seat: seat, rng: r}
}

// worth scores how much the bot wants to keep a face.
func worth(f engine.Face) int {
	switch f {
	case engine.Axe:
		return 3
	case engine.Arrow, engine.Helmet, engine.Shield:
		return 2
	}
	return 1
}

// KeepChoices returns the indexes of unlocked dice whose keep flag should be
// toggled this turn. Attack and defense faces are kept, token dice too.
func (b *Bot) KeepChoices(p *engine.Player) []int {
	var out []int
	for i, d := range p.Dice {
		if d.Locked {
			continue
		}
		want := worth(d.Face) >= 2 || d.HasToken
		if want != d.Kept {
			out = append(out, i)
		}
	}
	return out
}

// ChooseFavor picks the most expensive affordable favor tier among p's
// favors. ok is false when nothing is affordable.
func (b *Bot) ChooseFavor(p *engine.Player) (name string, level engine.Level, ok bool) {
	best := -1
	for _, f := range p.Favors {
		for l := engine.MaxLevel; l >= engine.MinLevel; l-- {
			cost, err := f.Cost(l)
			if err != nil || cost > p.Tokens {
				continue
			}
			if cost > best {
				best, name, level, ok = cost, f.Name(), l, true
			}
			break
		}
	}
	return name, level, ok
}

// Answer builds a reply to a target request.
func (b *Bot) Answer(g *game.Game, req *game.TargetRequest) game.TargetAnswer {
	switch req.Kind {
	case engine.TargetSelfHealth:
		// keep a safe margin
		spare := g.Player(req.Seat).Health - 8
		if spare <= 0 {
			return game.TargetAnswer{Cancelled: true}
		}
		return game.TargetAnswer{Amount: min(spare, req.MaxAmount)}
	case engine.TargetOpponentDice:
		return game.TargetAnswer{Dice: pick(g, req.Seat.Other(), req.Limit, func(d *engine.Die) bool {
			return !d.Resolved && d.Face.IsAttack()
		})}
	case engine.TargetOwnDice, engine.TargetAnyDice:
		return game.TargetAnswer{Dice: pick(g, req.Seat, req.Limit, func(d *engine.Die) bool {
			return worth(d.Face) < 2
		})}
	}
	return game.TargetAnswer{Cancelled: true}
}

func pick(g *game.Game, seat game.Seat, limit int, want func(*engine.Die) bool) []game.DieRef {
	var refs []game.DieRef
	for i, d := range g.Player(seat).Dice {
		if len(refs) == limit {
			break
		}
		if want(d) {
			refs = append(refs, game.DieRef{Seat: seat, Index: i})
		}
	}
	return refs
}

// Act performs one decision for the bot's seat if it is the bot's move.
// It reports whether it did anything.
func (b *Bot) Act(g *game.Game) (bool, error) {
	if g.Over() {
		return false, nil
	}
	switch g.PhaseName() {
	case game.PhaseRoll:
		if g.CurrentSeat() != b.Seat {
			return false, nil
		}
		if g.CanRoll() {
			if err := g.Roll(b.Seat); err != nil {
				return false, err
			}
			if g.Rolls(b.Seat) < game.MaxRolls {
				for _, i := range b.KeepChoices(g.Player(b.Seat)) {
					if err := g.ToggleKeep(b.Seat, game.DieRef{Seat: b.Seat, Index: i}); err != nil {
						return false, err
					}
				}
			}
		}
		return true, g.Confirm(b.Seat)

	case game.PhaseFavor:
		if g.CurrentSeat() != b.Seat {
			return false, nil
		}
		p := g.Player(b.Seat)
		if name, level, ok := b.ChooseFavor(p); ok && b.rng.Intn(3) > 0 {
			return true, g.PickFavor(b.Seat, name, level)
		}
		return true, g.SkipFavor(b.Seat)

	case game.PhaseResolution:
		req := g.Pending()
		if req == nil || req.Seat != b.Seat {
			return false, nil
		}
		_, err := g.SupplyTarget(b.Answer(g, req))
		return true, err
	}
	return false, nil
}

// Observer is told about every finished round.
type Observer func(step game.Step)

// Play drives g until the match is decided or maxRounds rounds have been
// played (0 means no limit). bots[i] must play seat i.
func Play(g *game.Game, bots [2]*Bot, maxRounds int, observe Observer) (game.Result, error) {
	for !g.Over() {
		if maxRounds > 0 && g.Round() > maxRounds {
			return game.Result{}, fmt.Errorf("%w: %d", ErrTooManyRounds, maxRounds)
		}
		if g.PhaseName() == game.PhaseResolution {
			var (
				step game.Step
				err  error
			)
			if req := g.Pending(); req != nil {
				step, err = g.SupplyTarget(bots[req.Seat].Answer(g, req))
			} else {
				step, err = g.Advance()
			}
			if err != nil {
				return game.Result{}, err
			}
			if step.Kind != game.StepAwaitingTarget && observe != nil {
				observe(step)
			}
			continue
		}
		acted := false
		for _, b := range bots {
			ok, err := b.Act(g)
			if err != nil {
				return game.Result{}, fmt.Errorf("seat %d: %w", b.Seat, err)
			}
			acted = acted || ok
		}
		if !acted {
			return game.Result{}, ErrStalled
		}
	}
	res, _ := g.Result()
	return res, nil
}
