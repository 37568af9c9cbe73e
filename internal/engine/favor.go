package engine

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrInvalidLevel = errors.New("favor level must be 1, 2 or 3")

// Level is the strength a favor is invoked at.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 3
)

func (l Level) Valid() bool { return l >= MinLevel && l <= MaxLevel }

// Priority is the bucket a favor resolves in during a round.
type Priority string

const (
	// Immediate favors run before anything else, regardless of turn order.
	Immediate  Priority = "IMMEDIATE"
	PreCombat  Priority = "PRE_COMBAT"
	PostCombat Priority = "POST_COMBAT"
)

// Priorities lists the buckets in resolution order.
var Priorities = []Priority{Immediate, PreCombat, PostCombat}

// TargetKind is the input a favor needs before it can execute.
type TargetKind string

const (
	TargetNone         TargetKind = ""
	TargetOwnDice      TargetKind = "OWN_DICE"
	TargetOpponentDice TargetKind = "OPPONENT_DICE"
	TargetAnyDice      TargetKind = "ANY_DICE"
	TargetSelfHealth   TargetKind = "SELF_HEALTH"
)

// Dice reports whether the target is a dice selection.
func (k TargetKind) Dice() bool {
	return k == TargetOwnDice || k == TargetOpponentDice || k == TargetAnyDice
}

// Target is what the player chose for a targeted favor. A cancelled
// selection is the zero value.
type Target struct {
	Dice   []*Die
	Amount int
}

// Execution is everything a favor effect may read or change.
type Execution struct {
	Owner    *Player
	Opponent *Player
	Level    Level
	Target   Target
	Notifier Notifier
	Rand     *rand.Rand
}

// Infof sends an informational notice.
func (x Execution) Infof(format string, args ...any) {
	Notify(x.Notifier, NoticeInfo, fmt.Sprintf(format, args...))
}

// Favor is a costed, leveled special ability. Execute never checks
// affordability; the caller pays the cost first.
type Favor interface {
	Name() string
	Priority() Priority
	TargetKind() TargetKind
	Cost(level Level) (int, error)
	// SelectionLimit is the most dice a UI may offer for selection.
	SelectionLimit(level Level) int
	// Describe returns the effect at a level; level 0 gives the general text.
	Describe(level Level) string
	Execute(x Execution) error
}

// Selection is the favor a player picked for the current round.
type Selection struct {
	Favor Favor
	Level Level
}

// Cost is the token price of the selection.
func (s Selection) Cost() (int, error) { return s.Favor.Cost(s.Level) }
