package game

import (
	"errors"

	"github.com/pefman/orlog-duel/internal/engine"
)

// Seat identifies one of the two players.
type Seat int

const (
	SeatOne Seat = 0
	SeatTwo Seat = 1
)

func (s Seat) Valid() bool { return s == SeatOne || s == SeatTwo }

// Other returns the opposing seat.
func (s Seat) Other() Seat { return 1 - s }

// Errors returned for rejected actions. The game state is unchanged when
// any of them is returned.
var (
	ErrInvalidSeat        = errors.New("no such seat")
	ErrWrongPhase         = errors.New("action not allowed in this phase")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrAlreadyRolled      = errors.New("you have already rolled this turn, end your turn")
	ErrNoRollsLeft        = errors.New("you have no rolls left")
	ErrMustRollFirst      = errors.New("you must roll first")
	ErrDieLocked          = errors.New("die was kept on a previous turn")
	ErrKeepClosed         = errors.New("final roll, dice can no longer change")
	ErrForeignDie         = errors.New("cannot select the opponent's dice")
	ErrNoSuchDie          = errors.New("no such die")
	ErrUnknownFavor       = errors.New("favor not available to this player")
	ErrInsufficientTokens = errors.New("not enough tokens")
	ErrFavorsLocked       = errors.New("favors are fixed once the match has started")
	ErrNoPendingTarget    = errors.New("no favor is waiting for a target")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrMatchOver          = errors.New("the match is over")
)

// PhaseName names the three phases of a round.
type PhaseName string

const (
	PhaseRoll       PhaseName = "ROLL"
	PhaseFavor      PhaseName = "FAVOR"
	PhaseResolution PhaseName = "RESOLUTION"
)

// Phase is the active stage of a round.
type Phase interface {
	Name() PhaseName
}

// Result is the outcome of a finished match.
type Result struct {
	Draw   bool `json:"draw"`
	Winner Seat `json:"winner"`
}

// DieRef points at a die by owner and position so selections survive
// serialization.
type DieRef struct {
	Seat  Seat `json:"seat"`
	Index int  `json:"index"`
}

// TargetRequest describes the input a favor is waiting for.
type TargetRequest struct {
	Seat     Seat              `json:"seat"`
	Favor    string            `json:"favor"`
	Level    engine.Level      `json:"level"`
	Priority engine.Priority   `json:"priority"`
	Kind     engine.TargetKind `json:"kind"`
	// Limit is the most dice that may be selected.
	Limit int `json:"limit,omitempty"`
	// MaxAmount is the most health that may be sacrificed.
	MaxAmount int `json:"maxAmount,omitempty"`
}

// TargetAnswer is the reply to a TargetRequest. A cancelled answer runs the
// favor with an empty target.
type TargetAnswer struct {
	Dice      []DieRef `json:"dice,omitempty"`
	Amount    int      `json:"amount,omitempty"`
	Cancelled bool     `json:"cancelled,omitempty"`
}

// FavorOutcome reports what happened when a player's favor was resolved.
type FavorOutcome struct {
	Seat     Seat   `json:"seat"`
	Favor    string `json:"favor"`
	Level    int    `json:"level"`
	Cost     int    `json:"cost"`
	Executed bool   `json:"executed"`
	// DiceAdded is how many dice the favor appended to its owner's pool.
	DiceAdded int `json:"diceAdded,omitempty"`
	// Sacrificed is health the owner gave up to the favor.
	Sacrificed int `json:"sacrificed,omitempty"`
}

// RoundSummary is a snapshot taken at the end of a round's resolution,
// before dice are cleared. Sacrificed is the self-inflicted part of
// DamageTaken.
type RoundSummary struct {
	Round       int            `json:"round"`
	TokensGain  [2]int         `json:"tokensGain"`
	DamageTaken [2]int         `json:"damageTaken"`
	Sacrificed  [2]int         `json:"sacrificed"`
	Health      [2]int         `json:"health"`
	Tokens      [2]int         `json:"tokens"`
	Favors      []FavorOutcome `json:"favors,omitempty"`
}

// StepKind says why the resolution stopped advancing.
type StepKind string

const (
	StepAwaitingTarget StepKind = "AWAITING_TARGET"
	StepRoundOver      StepKind = "ROUND_OVER"
	StepMatchOver      StepKind = "MATCH_OVER"
)

// Step is returned whenever the resolution pauses or finishes.
type Step struct {
	Kind    StepKind       `json:"kind"`
	Request *TargetRequest `json:"request,omitempty"`
	Summary *RoundSummary  `json:"summary,omitempty"`
	Result  *Result        `json:"result,omitempty"`
}
