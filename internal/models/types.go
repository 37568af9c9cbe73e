package models

import (
	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/favors"
	"github.com/pefman/orlog-duel/internal/game"
)

// ========================= Views =========================
// JSON shapes sent to the UI. Built from live game state, never read back.

type DieView struct {
	Face      engine.Face `json:"face"`
	Kept      bool        `json:"kept"`
	Locked    bool        `json:"locked"`
	Resolved  bool        `json:"resolved"`
	Temporary bool        `json:"temporary,omitempty"`
	HasToken  bool        `json:"has_token"`
	Defense   int         `json:"defense"`
	Damage    int         `json:"damage"`
}

type PlayerView struct {
	Name   string    `json:"name"`
	Health int       `json:"health"`
	Tokens int       `json:"tokens"`
	Dice   []DieView `json:"dice"`
	Favors []string  `json:"favors,omitempty"`
	// Whether a favor is picked for this round; which one stays hidden
	// until it resolves.
	HasSelection bool `json:"has_selection"`
}

type FavorView struct {
	Name        string            `json:"name"`
	Priority    engine.Priority   `json:"priority"`
	Target      engine.TargetKind `json:"target,omitempty"`
	Description string            `json:"description"`
	Costs       [3]int            `json:"costs"`
	Levels      [3]string         `json:"levels"`
}

type TargetRequestView struct {
	Seat        game.Seat         `json:"seat"`
	Favor       string            `json:"favor"`
	Level       engine.Level      `json:"level"`
	Kind        engine.TargetKind `json:"kind"`
	Limit       int               `json:"limit,omitempty"`
	MaxAmount   int               `json:"max_amount,omitempty"`
	Description string            `json:"description,omitempty"`
}

type MatchView struct {
	ID      string             `json:"id"`
	Round   int                `json:"round"`
	Phase   game.PhaseName     `json:"phase"`
	First   game.Seat          `json:"first"`
	Current game.Seat          `json:"current"`
	Rolls   [2]int             `json:"rolls"`
	CanRoll bool               `json:"can_roll"`
	Budget  int                `json:"budget,omitempty"`
	Players [2]PlayerView      `json:"players"`
	Pending *TargetRequestView `json:"pending,omitempty"`
	Result  *game.Result       `json:"result,omitempty"`
}

// SimRequest asks the server to play a bot-vs-bot match.
type SimRequest struct {
	Names     [2]string   `json:"names"`
	Favors    [2][]string `json:"favors"`
	Seed      int64       `json:"seed"`
	MaxRounds int         `json:"max_rounds"`
}

type SimResponse struct {
	ID     string              `json:"id"`
	Seed   int64               `json:"seed"`
	Result *game.Result        `json:"result,omitempty"`
	Rounds []game.RoundSummary `json:"rounds"`
	// Error is set when the round limit stopped the match.
	Error string `json:"error,omitempty"`
}

// WebSocket message structure
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ========================= Builders =========================

func NewDieView(d *engine.Die) DieView {
	return DieView{
		Face:      d.Face,
		Kept:      d.Kept,
		Locked:    d.Locked,
		Resolved:  d.Resolved,
		Temporary: d.Temporary,
		HasToken:  d.HasToken,
		Defense:   d.DefenseHealth,
		Damage:    d.Damage,
	}
}

func NewPlayerView(p *engine.Player) PlayerView {
	v := PlayerView{
		Name:         p.Name,
		Health:       p.Health,
		Tokens:       p.Tokens,
		Dice:         make([]DieView, 0, len(p.Dice)),
		HasSelection: p.Selected != nil,
	}
	for _, d := range p.Dice {
		v.Dice = append(v.Dice, NewDieView(d))
	}
	for _, f := range p.Favors {
		v.Favors = append(v.Favors, f.Name())
	}
	return v
}

func NewFavorView(f engine.Favor) FavorView {
	v := FavorView{
		Name:        f.Name(),
		Priority:    f.Priority(),
		Target:      f.TargetKind(),
		Description: f.Describe(0),
	}
	for l := engine.MinLevel; l <= engine.MaxLevel; l++ {
		// levels 1..3 are always valid
		v.Costs[l-1], _ = f.Cost(l)
		v.Levels[l-1] = f.Describe(l)
	}
	return v
}

// Catalog lists every favor in registry order.
func Catalog() []FavorView {
	all := favors.All()
	out := make([]FavorView, 0, len(all))
	for _, f := range all {
		out = append(out, NewFavorView(f))
	}
	return out
}

func NewTargetRequestView(req *game.TargetRequest) *TargetRequestView {
	if req == nil {
		return nil
	}
	v := &TargetRequestView{
		Seat:      req.Seat,
		Favor:     req.Favor,
		Level:     req.Level,
		Kind:      req.Kind,
		Limit:     req.Limit,
		MaxAmount: req.MaxAmount,
	}
	if f, ok := favors.Lookup(req.Favor); ok {
		v.Description = f.Describe(req.Level)
	}
	return v
}

// NewMatchView snapshots g for the UI.
func NewMatchView(id string, g *game.Game) MatchView {
	v := MatchView{
		ID:      id,
		Round:   g.Round(),
		Phase:   g.PhaseName(),
		First:   g.FirstSeat(),
		Current: g.CurrentSeat(),
		Rolls:   [2]int{g.Rolls(game.SeatOne), g.Rolls(game.SeatTwo)},
		CanRoll: g.CanRoll(),
		Budget:  g.Budget(),
		Pending: NewTargetRequestView(g.Pending()),
	}
	v.Players[0] = NewPlayerView(g.Player(game.SeatOne))
	v.Players[1] = NewPlayerView(g.Player(game.SeatTwo))
	if res, over := g.Result(); over {
		v.Result = &res
	}
	return v
}
