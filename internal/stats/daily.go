package stats

import "time"

// BestRound is the heaviest single-round damage dealt on a given day.
type BestRound struct {
	MatchID string    `json:"matchId"`
	Player  string    `json:"player"`
	Round   int       `json:"round"`
	Damage  int       `json:"damage"`
	At      time.Time `json:"at"`
}

func dateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

// recordDaily keeps the best round of the day. Caller holds s.mu.
func (s *Store) recordDaily(t *Tally, seat, damage, round int) {
	if damage <= 0 {
		return
	}
	now := s.now()
	key := dateKey(now)
	if cur, ok := s.daily[key]; ok && cur.Damage >= damage {
		return
	}
	// only today's record is ever read
	for k := range s.daily {
		if k != key {
			delete(s.daily, k)
		}
	}
	s.daily[key] = BestRound{MatchID: t.MatchID, Player: t.Names[seat], Round: round, Damage: damage, At: now}
}

// BestToday returns today's best round, if any round dealt damage.
func (s *Store) BestToday() (BestRound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.daily[dateKey(s.now())]
	return b, ok
}
