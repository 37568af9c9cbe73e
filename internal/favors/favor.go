// Package favors holds the catalog of god favors a player can invoke.
//
// Every favor is a small value type that embeds a base carrying its name,
// priority, target requirement and per-level cost table. Effects only mutate
// the players and dice handed to them through engine.Execution; paying the
// cost and choosing when to run them belongs to the round resolution.
package favors

import (
	"errors"
	"fmt"

	"github.com/pefman/orlog-duel/internal/engine"
)

var errNoRand = errors.New("no random source")

// tiers holds one value per level, 1 through 3.
type tiers [3]int

func (t tiers) at(level engine.Level) (int, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: got %d", engine.ErrInvalidLevel, level)
	}
	return t[level-1], nil
}

// of is at for levels already known to be valid.
func (t tiers) of(level engine.Level) int {
	v, _ := t.at(level)
	return v
}

type base struct {
	name     string
	priority engine.Priority
	target   engine.TargetKind
	costs    tiers
}

func (b base) Name() string                     { return b.name }
func (b base) Priority() engine.Priority        { return b.priority }
func (b base) TargetKind() engine.TargetKind    { return b.target }
func (b base) SelectionLimit(engine.Level) int  { return 0 }
func (b base) Cost(l engine.Level) (int, error) { return b.costs.at(l) }

func checkLevel(l engine.Level) error {
	if !l.Valid() {
		return fmt.Errorf("%w: got %d", engine.ErrInvalidLevel, l)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
