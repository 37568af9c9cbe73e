// Package game runs a two-player match: the roll, favor and resolution
// phases of each round and the ordering rules that tie them together.
//
// A Game is not safe for concurrent use. Every action returns an error that
// wraps one of the Err values in this package when it is rejected; rejected
// actions also emit an error notice and leave the state untouched.
package game

import (
	"fmt"
	"math/rand"

	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/favors"
)

// Options configures a new match.
type Options struct {
	Names [2]string
	// Rand drives every roll and the coin toss. Required.
	Rand     *rand.Rand
	Notifier engine.Notifier
	// First fixes the seat that starts; nil tosses a coin.
	First *Seat
}

// Game is one match between two players.
type Game struct {
	players  [2]*engine.Player
	current  Seat
	first    Seat
	phase    Phase
	round    int
	rng      *rand.Rand
	notifier engine.Notifier
	result   *Result
	fixed    *Seat
}

// New starts a match in the roll phase of round 1.
func New(opts Options) *Game {
	names := opts.Names
	for i, n := range names {
		if n == "" {
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
	}
	g := &Game{
		players:  [2]*engine.Player{engine.NewPlayer(names[0]), engine.NewPlayer(names[1])},
		rng:      opts.Rand,
		notifier: opts.Notifier,
		fixed:    opts.First,
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(1))
	}
	g.start()
	return g
}

func (g *Game) start() {
	g.round = 1
	g.result = nil
	g.first = g.tossCoin()
	g.phase = newRollPhase(g)
}

func (g *Game) tossCoin() Seat {
	if g.fixed != nil && g.fixed.Valid() {
		return *g.fixed
	}
	return Seat(g.rng.Intn(2))
}

// Reset restarts the match with the same players. Favors must be chosen again.
func (g *Game) Reset() {
	for _, p := range g.players {
		p.Reset()
	}
	g.start()
	g.notifyf(engine.NoticeInfo, "New match! %s goes first.", g.players[g.first].Name)
}

// ChooseFavors sets the favors a seat brings to the match. Allowed only
// before anyone has rolled in round 1.
func (g *Game) ChooseFavors(seat Seat, names []string) error {
	if !seat.Valid() {
		return g.reject(ErrInvalidSeat)
	}
	rp, ok := g.phase.(*RollPhase)
	if !ok || g.round != 1 || rp.rolls[0] > 0 || rp.rolls[1] > 0 {
		return g.reject(ErrFavorsLocked)
	}
	fs, err := favors.LookupAll(names)
	if err != nil {
		return g.reject(fmt.Errorf("%w: %v", ErrUnknownFavor, err))
	}
	if err := g.players[seat].ChooseFavors(fs); err != nil {
		return g.reject(err)
	}
	return nil
}

// ----- queries -----

func (g *Game) Player(s Seat) *engine.Player { return g.players[s] }
func (g *Game) Phase() Phase                 { return g.phase }
func (g *Game) PhaseName() PhaseName         { return g.phase.Name() }
func (g *Game) Round() int                   { return g.round }
func (g *Game) FirstSeat() Seat              { return g.first }
func (g *Game) CurrentSeat() Seat            { return g.current }
func (g *Game) Rand() *rand.Rand             { return g.rng }

// Result returns the outcome once the match is decided.
func (g *Game) Result() (Result, bool) {
	if g.result == nil {
		return Result{}, false
	}
	return *g.result, true
}

func (g *Game) Over() bool { return g.result != nil }

// CanRoll reports whether the current seat may roll right now.
func (g *Game) CanRoll() bool {
	rp, ok := g.phase.(*RollPhase)
	return ok && !g.Over() && rp.CanRoll()
}

// Rolls returns how many rolls a seat has used this round.
func (g *Game) Rolls(s Seat) int {
	if rp, ok := g.phase.(*RollPhase); ok && s.Valid() {
		return rp.rolls[s]
	}
	return 0
}

// Budget is the token ceiling for the seat picking a favor.
func (g *Game) Budget() int {
	if _, ok := g.phase.(*FavorPhase); ok {
		return g.players[g.current].Tokens
	}
	return 0
}

// Pending returns the target request the resolution is waiting on, if any.
func (g *Game) Pending() *TargetRequest {
	if rp, ok := g.phase.(*ResolutionPhase); ok {
		return rp.pending
	}
	return nil
}

// ----- actions -----

func (g *Game) Roll(seat Seat) error {
	rp, err := g.rollPhase()
	if err != nil {
		return g.reject(err)
	}
	return g.reject(rp.roll(seat))
}

func (g *Game) ToggleKeep(seat Seat, die DieRef) error {
	rp, err := g.rollPhase()
	if err != nil {
		return g.reject(err)
	}
	return g.reject(rp.toggle(seat, die))
}

func (g *Game) Confirm(seat Seat) error {
	rp, err := g.rollPhase()
	if err != nil {
		return g.reject(err)
	}
	return g.reject(rp.confirm(seat))
}

func (g *Game) PickFavor(seat Seat, name string, level engine.Level) error {
	fp, err := g.favorPhase()
	if err != nil {
		return g.reject(err)
	}
	return g.reject(fp.pick(seat, name, level))
}

func (g *Game) SkipFavor(seat Seat) error {
	fp, err := g.favorPhase()
	if err != nil {
		return g.reject(err)
	}
	return g.reject(fp.skip(seat))
}

// Advance runs the resolution until it needs a target or the round ends.
func (g *Game) Advance() (Step, error) {
	rp, err := g.resolutionPhase()
	if err != nil {
		return Step{}, g.reject(err)
	}
	return rp.Advance(), nil
}

// SupplyTarget answers the pending target request and keeps resolving.
func (g *Game) SupplyTarget(answer TargetAnswer) (Step, error) {
	rp, err := g.resolutionPhase()
	if err != nil {
		return Step{}, g.reject(err)
	}
	step, err := rp.Supply(answer)
	return step, g.reject(err)
}

// AnswerTarget is SupplyTarget on behalf of seat, which must be the seat
// the pending request asks.
func (g *Game) AnswerTarget(seat Seat, answer TargetAnswer) (Step, error) {
	rp, err := g.resolutionPhase()
	if err != nil {
		return Step{}, g.reject(err)
	}
	if !seat.Valid() {
		return Step{}, g.reject(ErrInvalidSeat)
	}
	if req := rp.Pending(); req != nil && req.Seat != seat {
		return Step{Kind: StepAwaitingTarget, Request: req}, g.reject(ErrNotYourTurn)
	}
	step, err := rp.Supply(answer)
	return step, g.reject(err)
}

// CancelTarget declines the pending target request.
func (g *Game) CancelTarget() (Step, error) {
	return g.SupplyTarget(TargetAnswer{Cancelled: true})
}

func (g *Game) rollPhase() (*RollPhase, error) {
	if g.Over() {
		return nil, ErrMatchOver
	}
	rp, ok := g.phase.(*RollPhase)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.phase.Name())
	}
	return rp, nil
}

func (g *Game) favorPhase() (*FavorPhase, error) {
	if g.Over() {
		return nil, ErrMatchOver
	}
	fp, ok := g.phase.(*FavorPhase)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.phase.Name())
	}
	return fp, nil
}

func (g *Game) resolutionPhase() (*ResolutionPhase, error) {
	if g.Over() {
		return nil, ErrMatchOver
	}
	rp, ok := g.phase.(*ResolutionPhase)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.phase.Name())
	}
	return rp, nil
}

// checkTurn validates that seat exists and holds the turn.
func (g *Game) checkTurn(seat Seat) error {
	if !seat.Valid() {
		return ErrInvalidSeat
	}
	if seat != g.current {
		return ErrNotYourTurn
	}
	return nil
}

// reject emits an error notice for err and returns it unchanged.
func (g *Game) reject(err error) error {
	if err != nil {
		engine.Notify(g.notifier, engine.NoticeError, err.Error())
	}
	return err
}

func (g *Game) notifyf(kind engine.NoticeKind, format string, args ...any) {
	engine.Notify(g.notifier, kind, fmt.Sprintf(format, args...))
}
