package models

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/game"
)

func TestCatalog(t *testing.T) {
	cat := Catalog()
	if len(cat) != 20 {
		t.Fatalf("catalog has %d favors, want 20", len(cat))
	}
	for _, f := range cat {
		if f.Name == "" || f.Description == "" {
			t.Fatalf("incomplete view %+v", f)
		}
		for i, c := range f.Costs {
			if c <= 0 {
				t.Fatalf("%s level %d cost = %d", f.Name, i+1, c)
			}
			if f.Levels[i] == "" {
				t.Fatalf("%s level %d has no description", f.Name, i+1)
			}
		}
	}
	if cat[0].Name != "Thor's Strike" || cat[0].Costs != [3]int{4, 8, 12} {
		t.Fatalf("first entry = %+v", cat[0])
	}
}

func TestMatchView(t *testing.T) {
	first := game.SeatOne
	g := game.New(game.Options{Names: [2]string{"Ann", "Bo"}, Rand: rand.New(rand.NewSource(1)), First: &first})
	if err := g.ChooseFavors(game.SeatTwo, []string{"Hel's Grip"}); err != nil {
		t.Fatal(err)
	}
	if err := g.Roll(game.SeatOne); err != nil {
		t.Fatal(err)
	}

	v := NewMatchView("m1", g)
	if v.ID != "m1" || v.Phase != game.PhaseRoll || v.Round != 1 {
		t.Fatalf("view = %+v", v)
	}
	if v.Rolls != [2]int{1, 0} || v.CanRoll {
		t.Fatalf("rolls = %v can roll = %v", v.Rolls, v.CanRoll)
	}
	if len(v.Players[0].Dice) != engine.DicePerPlayer {
		t.Fatalf("dice = %d", len(v.Players[0].Dice))
	}
	if len(v.Players[1].Favors) != 1 || v.Players[1].Favors[0] != "Hel's Grip" {
		t.Fatalf("favors = %v", v.Players[1].Favors)
	}
	if v.Pending != nil || v.Result != nil {
		t.Fatal("unexpected pending request or result")
	}

	raw, err := json.Marshal(Envelope{Type: "state", Data: v})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"type":"state"`, `"phase":"ROLL"`, `"can_roll":false`, `"has_selection":false`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("json missing %s: %s", key, raw)
		}
	}
}

func TestTargetRequestView(t *testing.T) {
	if NewTargetRequestView(nil) != nil {
		t.Fatal("nil request produced a view")
	}
	v := NewTargetRequestView(&game.TargetRequest{
		Seat:  game.SeatTwo,
		Favor: "Loki's Trick",
		Level: 2,
		Kind:  engine.TargetOpponentDice,
		Limit: 2,
	})
	if v.Description == "" || v.Limit != 2 || v.Kind != engine.TargetOpponentDice {
		t.Fatalf("view = %+v", v)
	}
}
