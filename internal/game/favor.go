package game

import (
	"fmt"

	"github.com/pefman/orlog-duel/internal/engine"
)

// FavorPhase lets each player, starting with the first seat, pick one favor
// or skip. Picks are checked against current tokens only; nothing is paid
// until resolution.
type FavorPhase struct {
	g     *Game
	acted [2]bool
}

func newFavorPhase(g *Game) *FavorPhase {
	g.current = g.first
	g.notifyf(engine.NoticeInfo, "Favor phase. %s picks first.", g.players[g.first].Name)
	return &FavorPhase{g: g}
}

func (*FavorPhase) Name() PhaseName { return PhaseFavor }

func (fp *FavorPhase) pick(seat Seat, name string, level engine.Level) error {
	if err := fp.g.checkTurn(seat); err != nil {
		return err
	}
	p := fp.g.players[seat]
	f, ok := p.HasFavor(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFavor, name)
	}
	cost, err := f.Cost(level)
	if err != nil {
		return err
	}
	if cost > p.Tokens {
		return fmt.Errorf("%w: you have %d, need %d", ErrInsufficientTokens, p.Tokens, cost)
	}
	p.Selected = &engine.Selection{Favor: f, Level: level}
	fp.g.notifyf(engine.NoticeInfo, "%s chose a favor.", p.Name)
	fp.advance(seat)
	return nil
}

func (fp *FavorPhase) skip(seat Seat) error {
	if err := fp.g.checkTurn(seat); err != nil {
		return err
	}
	p := fp.g.players[seat]
	p.Selected = nil
	fp.g.notifyf(engine.NoticeInfo, "%s skipped the favor.", p.Name)
	fp.advance(seat)
	return nil
}

func (fp *FavorPhase) advance(seat Seat) {
	fp.acted[seat] = true
	if fp.acted[SeatOne] && fp.acted[SeatTwo] {
		fp.g.phase = newResolutionPhase(fp.g)
		return
	}
	fp.g.current = seat.Other()
}
