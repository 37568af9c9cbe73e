package favors

import (
	"errors"
	"testing"

	"github.com/pefman/orlog-duel/internal/engine"
)

func TestCatalogCosts(t *testing.T) {
	tests := []struct {
		name     string
		costs    [3]int
		priority engine.Priority
		target   engine.TargetKind
	}{
		{"Thor's Strike", [3]int{4, 8, 12}, engine.PostCombat, engine.TargetNone},
		{"Iðunn's Rejuvenation", [3]int{4, 7, 10}, engine.PreCombat, engine.TargetNone},
		{"Víðarr's Might", [3]int{2, 4, 6}, engine.PreCombat, engine.TargetNone},
		{"Ullr's Aim", [3]int{2, 3, 4}, engine.PreCombat, engine.TargetNone},
		{"Heimdall's Watch", [3]int{4, 7, 10}, engine.PostCombat, engine.TargetNone},
		{"Baldr's Invulnerability", [3]int{3, 6, 9}, engine.PreCombat, engine.TargetNone},
		{"Brunhild's Fury", [3]int{6, 10, 18}, engine.PreCombat, engine.TargetNone},
		{"Freyr's Gift", [3]int{4, 6, 8}, engine.PreCombat, engine.TargetNone},
		{"Hel's Grip", [3]int{6, 12, 18}, engine.PostCombat, engine.TargetNone},
		{"Skaði's Hunt", [3]int{6, 10, 14}, engine.PreCombat, engine.TargetNone},
		{"Skuld's Claim", [3]int{4, 6, 8}, engine.PreCombat, engine.TargetNone},
		{"Frigg's Sight", [3]int{2, 3, 4}, engine.PreCombat, engine.TargetAnyDice},
		{"Bragi's Verve", [3]int{4, 8, 12}, engine.PreCombat, engine.TargetNone},
		{"Freyja's Plenty", [3]int{2, 4, 6}, engine.PreCombat, engine.TargetNone},
		{"Loki's Trick", [3]int{3, 6, 9}, engine.PreCombat, engine.TargetOpponentDice},
		{"Mímir's Wisdom", [3]int{3, 5, 7}, engine.PostCombat, engine.TargetNone},
		{"Odin's Sacrifice", [3]int{6, 8, 10}, engine.PostCombat, engine.TargetSelfHealth},
		{"Thrymr's Theft", [3]int{3, 6, 9}, engine.Immediate, engine.TargetNone},
		{"Týr's Pledge", [3]int{4, 6, 8}, engine.PreCombat, engine.TargetSelfHealth},
		{"Vár's Bond", [3]int{10, 14, 18}, engine.PostCombat, engine.TargetNone},
	}
	if got := len(All()); got != len(tests) {
		t.Fatalf("catalog has %d favors, want %d", got, len(tests))
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("favor %q not found", tt.name)
			}
			if f.Priority() != tt.priority {
				t.Errorf("priority = %s, want %s", f.Priority(), tt.priority)
			}
			if f.TargetKind() != tt.target {
				t.Errorf("target = %q, want %q", f.TargetKind(), tt.target)
			}
			for i, want := range tt.costs {
				got, err := f.Cost(engine.Level(i + 1))
				if err != nil {
					t.Fatalf("cost level %d: %v", i+1, err)
				}
				if got != want {
					t.Errorf("cost level %d = %d, want %d", i+1, got, want)
				}
			}
			for _, bad := range []engine.Level{0, 4, -1, 99} {
				if _, err := f.Cost(bad); !errors.Is(err, engine.ErrInvalidLevel) {
					t.Errorf("cost level %d: err = %v, want ErrInvalidLevel", bad, err)
				}
			}
			if f.Describe(0) == "" || f.Describe(1) == "" {
				t.Error("empty description")
			}
		})
	}
}

func TestExecuteRejectsInvalidLevel(t *testing.T) {
	for _, f := range All() {
		x := engine.Execution{
			Owner:    engine.NewPlayer("A"),
			Opponent: engine.NewPlayer("B"),
			Level:    4,
		}
		if err := f.Execute(x); !errors.Is(err, engine.ErrInvalidLevel) {
			t.Errorf("%s: err = %v, want ErrInvalidLevel", f.Name(), err)
		}
	}
}

func TestSelectionLimits(t *testing.T) {
	frigg, loki := NewFriggsSight(), NewLokisTrick()
	for l := engine.Level(1); l <= 3; l++ {
		if got := frigg.SelectionLimit(l); got != int(l)+1 {
			t.Errorf("frigg level %d limit = %d", l, got)
		}
		if got := loki.SelectionLimit(l); got != int(l) {
			t.Errorf("loki level %d limit = %d", l, got)
		}
	}
	if NewThorsStrike().SelectionLimit(1) != 0 {
		t.Error("untargeted favor has a selection limit")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("  thor's strike "); !ok {
		t.Fatal("lookup should ignore case and space")
	}
	if _, ok := Lookup("Zeus's Bolt"); ok {
		t.Fatal("unknown favor found")
	}
	fs, err := LookupAll([]string{"Thor's Strike", "", "Loki's Trick"})
	if err != nil || len(fs) != 2 {
		t.Fatalf("LookupAll = %v, %v", fs, err)
	}
	if _, err := LookupAll([]string{"nope"}); err == nil {
		t.Fatal("expected error for unknown favor")
	}
	seen := map[string]bool{}
	for _, n := range Names() {
		if seen[n] {
			t.Fatalf("duplicate favor name %q", n)
		}
		seen[n] = true
	}
}
