package game

import (
	"fmt"

	"github.com/pefman/orlog-duel/internal/engine"
)

type stage int

const (
	stageTokens stage = iota
	stageImmediate
	stagePreCombat
	stageCombat
	stageCombatCheck
	stagePostCombat
	stageFinalCheck
	stageCleanup
	stageDone
)

func (s stage) priority() (engine.Priority, bool) {
	switch s {
	case stageImmediate:
		return engine.Immediate, true
	case stagePreCombat:
		return engine.PreCombat, true
	case stagePostCombat:
		return engine.PostCombat, true
	}
	return "", false
}

// ResolutionPhase plays out a round: token gain, favors by priority,
// positional combat and the win checks. It is a cursor that can stop
// while a favor waits for its target and resume where it left off.
type ResolutionPhase struct {
	g     *Game
	stage stage
	// turn is 0 for the first seat and 1 for the other within a favor stage.
	turn     int
	pending  *TargetRequest
	gains    [2]int
	outcomes []FavorOutcome
}

func newResolutionPhase(g *Game) *ResolutionPhase {
	g.notifyf(engine.NoticeInfo, "Resolution of round %d.", g.round)
	return &ResolutionPhase{g: g}
}

func (*ResolutionPhase) Name() PhaseName { return PhaseResolution }

// Pending returns the outstanding target request, if any.
func (rp *ResolutionPhase) Pending() *TargetRequest { return rp.pending }

func (rp *ResolutionPhase) seat() Seat {
	if rp.turn == 0 {
		return rp.g.first
	}
	return rp.g.first.Other()
}

// Advance runs stages until a favor needs a target, the round ends or the
// match is decided. Calling it while a target is pending returns the same
// request again.
func (rp *ResolutionPhase) Advance() Step {
	if rp.pending != nil {
		return Step{Kind: StepAwaitingTarget, Request: rp.pending}
	}
	for {
		switch rp.stage {
		case stageTokens:
			rp.gains = rp.ResolveTokenGains()
			rp.stage++

		case stageImmediate, stagePreCombat, stagePostCombat:
			prio, _ := rp.stage.priority()
			for rp.turn < 2 {
				seat := rp.seat()
				if req := rp.needsTarget(seat, prio); req != nil {
					rp.pending = req
					return Step{Kind: StepAwaitingTarget, Request: req}
				}
				rp.resolveFavor(seat, prio, engine.Target{})
				rp.turn++
			}
			rp.turn = 0
			rp.stage++

		case stageCombat:
			n := max(len(rp.g.players[SeatOne].Dice), len(rp.g.players[SeatTwo].Dice), engine.DicePerPlayer)
			for i := 0; i < n; i++ {
				rp.ResolveCombatAt(i)
			}
			rp.stage++

		case stageCombatCheck, stageFinalCheck:
			if res, over := rp.checkWin(); over {
				rp.stage = stageDone
				rp.g.result = &res
				sum := rp.summary()
				return Step{Kind: StepMatchOver, Summary: &sum, Result: &res}
			}
			rp.stage++

		case stageCleanup:
			sum := rp.summary()
			rp.cleanup()
			return Step{Kind: StepRoundOver, Summary: &sum}

		default:
			res := rp.g.result
			return Step{Kind: StepMatchOver, Result: res}
		}
	}
}

// Supply answers the pending target request, resolves that favor and keeps
// advancing. An invalid answer is rejected and the request stays pending.
func (rp *ResolutionPhase) Supply(ans TargetAnswer) (Step, error) {
	req := rp.pending
	if req == nil {
		return Step{}, ErrNoPendingTarget
	}
	target, err := rp.target(req, ans)
	if err != nil {
		return Step{Kind: StepAwaitingTarget, Request: req}, err
	}
	rp.pending = nil
	rp.resolveFavor(req.Seat, req.Priority, target)
	rp.turn++
	return rp.Advance(), nil
}

// Cancel resumes with an empty target.
func (rp *ResolutionPhase) Cancel() (Step, error) {
	return rp.Supply(TargetAnswer{Cancelled: true})
}

// needsTarget returns a request when seat holds an affordable targeted favor
// of priority prio.
func (rp *ResolutionPhase) needsTarget(seat Seat, prio engine.Priority) *TargetRequest {
	p := rp.g.players[seat]
	sel := p.Selected
	if sel == nil || sel.Favor.Priority() != prio || sel.Favor.TargetKind() == engine.TargetNone {
		return nil
	}
	if cost, err := sel.Cost(); err != nil || cost > p.Tokens {
		return nil
	}
	req := &TargetRequest{
		Seat:     seat,
		Favor:    sel.Favor.Name(),
		Level:    sel.Level,
		Priority: prio,
		Kind:     sel.Favor.TargetKind(),
	}
	if req.Kind == engine.TargetSelfHealth {
		req.MaxAmount = p.Health
	} else {
		req.Limit = sel.Favor.SelectionLimit(sel.Level)
	}
	return req
}

func (rp *ResolutionPhase) target(req *TargetRequest, ans TargetAnswer) (engine.Target, error) {
	if ans.Cancelled {
		return engine.Target{}, nil
	}
	if req.Kind == engine.TargetSelfHealth {
		if ans.Amount < 0 || ans.Amount > req.MaxAmount {
			return engine.Target{}, fmt.Errorf("%w: sacrifice must be between 0 and %d", ErrInvalidTarget, req.MaxAmount)
		}
		return engine.Target{Amount: ans.Amount}, nil
	}
	if len(ans.Dice) > req.Limit {
		return engine.Target{}, fmt.Errorf("%w: select at most %d dice", ErrInvalidTarget, req.Limit)
	}
	seen := make(map[DieRef]bool, len(ans.Dice))
	dice := make([]*engine.Die, 0, len(ans.Dice))
	for _, ref := range ans.Dice {
		if !ref.Seat.Valid() {
			return engine.Target{}, fmt.Errorf("%w: %w", ErrInvalidTarget, ErrInvalidSeat)
		}
		switch req.Kind {
		case engine.TargetOwnDice:
			if ref.Seat != req.Seat {
				return engine.Target{}, fmt.Errorf("%w: only your own dice", ErrInvalidTarget)
			}
		case engine.TargetOpponentDice:
			if ref.Seat == req.Seat {
				return engine.Target{}, fmt.Errorf("%w: only your opponent's dice", ErrInvalidTarget)
			}
		}
		owner := rp.g.players[ref.Seat]
		if ref.Index < 0 || ref.Index >= len(owner.Dice) {
			return engine.Target{}, fmt.Errorf("%w: %w", ErrInvalidTarget, ErrNoSuchDie)
		}
		if seen[ref] {
			return engine.Target{}, fmt.Errorf("%w: die selected twice", ErrInvalidTarget)
		}
		seen[ref] = true
		dice = append(dice, owner.Dice[ref.Index])
	}
	return engine.Target{Dice: dice}, nil
}

func (rp *ResolutionPhase) resolveFavor(seat Seat, prio engine.Priority, target engine.Target) {
	out, err := rp.ResolvePlayerFavor(seat, prio, target)
	if err != nil {
		rp.g.notifyf(engine.NoticeError, "%s failed: %v", out.Favor, err)
	}
	if out.Favor != "" {
		rp.outcomes = append(rp.outcomes, out)
	}
}

// ResolveTokenGains adds one token per token-marked die to each player and
// returns the gains by seat.
func (rp *ResolutionPhase) ResolveTokenGains() [2]int {
	var gains [2]int
	for s, p := range rp.g.players {
		n := p.TokenDice()
		p.AddTokens(n)
		gains[s] = n
		if n > 0 {
			rp.g.notifyf(engine.NoticeInfo, "%s gains %d %s.", p.Name, n, tokenWord(n))
		}
	}
	return gains
}

// ResolveCombatAt resolves the attack dice at index i, first seat first.
// A side with no die at i is skipped.
func (rp *ResolutionPhase) ResolveCombatAt(i int) {
	for _, s := range [2]Seat{rp.g.first, rp.g.first.Other()} {
		p, opp := rp.g.players[s], rp.g.players[s.Other()]
		if i < 0 || i >= len(p.Dice) {
			continue
		}
		d := p.Dice[i]
		if d.Resolved || !d.Face.IsAttack() {
			continue
		}
		d.Resolve(p, opp)
	}
}

// ResolvePlayerFavor pays for and executes seat's selected favor when its
// priority is prio. An unaffordable favor is forfeited. The selection is
// cleared whenever a favor of this priority was considered.
func (rp *ResolutionPhase) ResolvePlayerFavor(seat Seat, prio engine.Priority, target engine.Target) (FavorOutcome, error) {
	if !seat.Valid() {
		return FavorOutcome{}, ErrInvalidSeat
	}
	p, opp := rp.g.players[seat], rp.g.players[seat.Other()]
	sel := p.Selected
	if sel == nil || sel.Favor.Priority() != prio {
		return FavorOutcome{Seat: seat}, nil
	}
	defer func() { p.Selected = nil }()

	out := FavorOutcome{Seat: seat, Favor: sel.Favor.Name(), Level: int(sel.Level)}
	cost, err := sel.Cost()
	if err != nil {
		return out, err
	}
	if cost > p.Tokens {
		rp.g.notifyf(engine.NoticeError, "%s cannot afford %s (%d tokens, needs %d).", p.Name, out.Favor, p.Tokens, cost)
		return out, nil
	}
	p.RemoveTokens(cost)
	out.Cost = cost

	before, taken := len(p.Dice), p.DamageTakenThisRound
	err = sel.Favor.Execute(engine.Execution{
		Owner:    p,
		Opponent: opp,
		Level:    sel.Level,
		Target:   target,
		Notifier: rp.g.notifier,
		Rand:     rp.g.rng,
	})
	if err != nil {
		return out, err
	}
	out.Executed = true
	out.DiceAdded = len(p.Dice) - before
	out.Sacrificed = p.DamageTakenThisRound - taken
	rp.g.notifyf(engine.NoticeSuccess, "%s invoked %s at level %d.", p.Name, out.Favor, out.Level)
	return out, nil
}

func (rp *ResolutionPhase) checkWin() (Result, bool) {
	a, b := rp.g.players[SeatOne], rp.g.players[SeatTwo]
	switch {
	case a.Dead() && b.Dead():
		rp.g.notifyf(engine.NoticeSuccess, "Both gods fall. It's a draw!")
		return Result{Draw: true}, true
	case a.Dead():
		rp.g.notifyf(engine.NoticeSuccess, "%s wins the match!", b.Name)
		return Result{Winner: SeatTwo}, true
	case b.Dead():
		rp.g.notifyf(engine.NoticeSuccess, "%s wins the match!", a.Name)
		return Result{Winner: SeatOne}, true
	}
	return Result{}, false
}

func (rp *ResolutionPhase) summary() RoundSummary {
	sum := RoundSummary{
		Round:      rp.g.round,
		TokensGain: rp.gains,
		Favors:     rp.outcomes,
	}
	for s, p := range rp.g.players {
		sum.DamageTaken[s] = p.DamageTakenThisRound
		sum.Health[s] = p.Health
		sum.Tokens[s] = p.Tokens
	}
	for _, f := range rp.outcomes {
		sum.Sacrificed[f.Seat] += f.Sacrificed
	}
	return sum
}

func (rp *ResolutionPhase) cleanup() {
	g := rp.g
	for _, p := range g.players {
		p.ClearDice()
		p.Selected = nil
	}
	g.first = g.first.Other()
	g.round++
	rp.stage = stageDone
	g.phase = newRollPhase(g)
	g.notifyf(engine.NoticeInfo, "Round %d. %s goes first.", g.round, g.players[g.first].Name)
}

func tokenWord(n int) string {
	if n == 1 {
		return "token"
	}
	return "tokens"
}
