// Package stats keeps in-memory tallies for hosted matches.
package stats

import (
	"sync"
	"time"

	"github.com/pefman/orlog-duel/internal/game"
)

// Tally is the running record of one match.
type Tally struct {
	MatchID      string       `json:"matchId"`
	Names        [2]string    `json:"names"`
	Rounds       int          `json:"rounds"`
	DamageDealt  [2]int       `json:"damageDealt"`
	TokensGained [2]int       `json:"tokensGained"`
	TokensSpent  [2]int       `json:"tokensSpent"`
	FavorsCast   [2]int       `json:"favorsCast"`
	Forfeited    [2]int       `json:"favorsForfeited"`
	RoundsWon    [2]int       `json:"roundsWon"`
	Result       *game.Result `json:"result,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// DefaultLimit is the tally capacity used when NewStore gets no limit.
const DefaultLimit = 1000

// Store is safe for concurrent use. It holds at most limit tallies.
type Store struct {
	mu      sync.Mutex
	matches map[string]*Tally
	limit   int
	// best single-round damage by UTC date (YYYY-MM-DD)
	daily map[string]BestRound
	now   func() time.Time
}

// NewStore returns a store keeping up to limit tallies; limit <= 0 means
// DefaultLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		matches: make(map[string]*Tally),
		limit:   limit,
		daily:   make(map[string]BestRound),
		now:     time.Now,
	}
}

// Start registers a match. Starting an existing ID resets its tally. A full
// store first evicts one tally, see evict.
func (s *Store) Start(id string, names [2]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok && len(s.matches) >= s.limit {
		s.evict()
	}
	now := s.now()
	s.matches[id] = &Tally{MatchID: id, Names: names, StartedAt: now, UpdatedAt: now}
}

// evict drops the least recently updated finished match, or the least
// recently updated match when none has finished. Caller holds s.mu.
func (s *Store) evict() {
	var victim *Tally
	for _, t := range s.matches {
		switch {
		case victim == nil:
			victim = t
		case (t.Result != nil) != (victim.Result != nil):
			if t.Result != nil {
				victim = t
			}
		case t.UpdatedAt.Before(victim.UpdatedAt),
			t.UpdatedAt.Equal(victim.UpdatedAt) && t.MatchID < victim.MatchID:
			victim = t
		}
	}
	if victim != nil {
		delete(s.matches, victim.MatchID)
	}
}

// Record folds a finished round into the match tally. Unknown IDs are ignored.
func (s *Store) Record(id string, sum game.RoundSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.matches[id]
	if !ok {
		return
	}
	t.Rounds = sum.Round
	var dealt [2]int
	for seat := 0; seat < 2; seat++ {
		// health a player sacrificed was not dealt by the opponent
		dealt[seat] = max(sum.DamageTaken[1-seat]-sum.Sacrificed[1-seat], 0)
		t.DamageDealt[seat] += dealt[seat]
		t.TokensGained[seat] += sum.TokensGain[seat]
		s.recordDaily(t, seat, dealt[seat], sum.Round)
	}
	switch a, b := dealt[0], dealt[1]; {
	case a > b:
		t.RoundsWon[0]++
	case b > a:
		t.RoundsWon[1]++
	}
	for _, f := range sum.Favors {
		if f.Executed {
			t.FavorsCast[f.Seat]++
			t.TokensSpent[f.Seat] += f.Cost
		} else {
			t.Forfeited[f.Seat]++
		}
	}
	t.UpdatedAt = s.now()
}

// Finish stores the match result.
func (s *Store) Finish(id string, res game.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.matches[id]; ok {
		t.Result = &res
		t.UpdatedAt = s.now()
	}
}

// Get returns a copy of a match tally.
func (s *Store) Get(id string) (Tally, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.matches[id]
	if !ok {
		return Tally{}, false
	}
	out := *t
	if t.Result != nil {
		r := *t.Result
		out.Result = &r
	}
	return out, true
}

// Delete forgets a match.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

// Len is the number of tracked matches.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}
