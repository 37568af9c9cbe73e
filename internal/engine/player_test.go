package engine

import (
	"errors"
	"math/rand"
	"testing"
)

type stubFavor struct{ name string }

func (s stubFavor) Name() string                  { return s.name }
func (s stubFavor) Priority() Priority            { return PreCombat }
func (s stubFavor) TargetKind() TargetKind        { return TargetNone }
func (s stubFavor) Cost(level Level) (int, error) { return int(level), nil }
func (s stubFavor) SelectionLimit(Level) int      { return 0 }
func (s stubFavor) Describe(Level) string         { return s.name }
func (s stubFavor) Execute(Execution) error       { return nil }

func TestHealthClamping(t *testing.T) {
	for _, amount := range []int{0, 1, 7, 15, 16, 100} {
		p := NewPlayer("p")
		p.Health = 10
		p.Heal(amount)
		want := 10 + amount
		if want > MaxHealth {
			want = MaxHealth
		}
		if p.Health != want {
			t.Errorf("heal %d: health = %d, want %d", amount, p.Health, want)
		}

		p.Health = 10
		p.Damage(amount)
		want = 10 - amount
		if want < 0 {
			want = 0
		}
		if p.Health != want {
			t.Errorf("damage %d: health = %d, want %d", amount, p.Health, want)
		}
	}
}

func TestTokenRemovalClamps(t *testing.T) {
	for _, amount := range []int{0, 2, 3, 10} {
		p := NewPlayer("p")
		p.AddTokens(3)
		p.RemoveTokens(amount)
		want := 3 - amount
		if want < 0 {
			want = 0
		}
		if p.Tokens != want {
			t.Errorf("remove %d: tokens = %d, want %d", amount, p.Tokens, want)
		}
	}
}

func TestDamageTrackerCountsOverkill(t *testing.T) {
	p := NewPlayer("p")
	p.Damage(3)
	p.Damage(20)
	if p.Health != 0 || !p.Dead() {
		t.Fatalf("health = %d, want dead at 0", p.Health)
	}
	if p.DamageTakenThisRound != 23 {
		t.Fatalf("damage taken = %d, want 23", p.DamageTakenThisRound)
	}
	p.ClearDice()
	if p.DamageTakenThisRound != 0 {
		t.Fatalf("damage taken after clear = %d, want 0", p.DamageTakenThisRound)
	}
}

func TestClearDiceDropsTemporaryDice(t *testing.T) {
	p := NewPlayer("p")
	p.AddDie(NewDie(true))
	p.AddDie(NewDie(true))
	p.Dice[0].Damage = 4

	p.ClearDice()

	if len(p.Dice) != DicePerPlayer {
		t.Fatalf("dice = %d, want %d", len(p.Dice), DicePerPlayer)
	}
	for _, d := range p.Dice {
		if d.Temporary {
			t.Fatal("temporary die survived the round")
		}
	}
	if p.Dice[0].Damage != 1 {
		t.Fatalf("damage = %d, want reset to 1", p.Dice[0].Damage)
	}
}

func TestRollDiceKeepsKeptDice(t *testing.T) {
	p := NewPlayer("p")
	r := rand.New(rand.NewSource(3))
	p.Dice[0].Face = Shield
	p.Dice[0].Kept = true

	for i := 0; i < 20; i++ {
		p.RollDice(r)
		if p.Dice[0].Face != Shield {
			t.Fatal("kept die was re-rolled")
		}
	}
}

func TestKeepAllLocksEverything(t *testing.T) {
	p := NewPlayer("p")
	p.KeepAll()
	for _, d := range p.Dice {
		if !d.Kept || !d.Locked {
			t.Fatalf("die %+v not kept and locked", d)
		}
	}
}

func TestChooseFavors(t *testing.T) {
	p := NewPlayer("p")
	four := []Favor{stubFavor{"a"}, stubFavor{"b"}, stubFavor{"c"}, stubFavor{"d"}}
	if err := p.ChooseFavors(four); !errors.Is(err, ErrTooManyFavors) {
		t.Fatalf("err = %v, want ErrTooManyFavors", err)
	}
	if err := p.ChooseFavors(four[:3]); err != nil {
		t.Fatalf("choose three: %v", err)
	}
	if _, ok := p.HasFavor("b"); !ok {
		t.Fatal("chosen favor not found")
	}
	if _, ok := p.HasFavor("d"); ok {
		t.Fatal("unchosen favor found")
	}
}

func TestResetRestoresStartingState(t *testing.T) {
	p := NewPlayer("p")
	p.Damage(9)
	p.AddTokens(4)
	p.Selected = &Selection{Favor: stubFavor{"a"}, Level: 1}
	p.AddDie(NewDie(true))

	p.Reset()

	if p.Health != MaxHealth || p.Tokens != 0 || p.Selected != nil || len(p.Dice) != DicePerPlayer {
		t.Fatalf("player after reset = %+v", p)
	}
}

func TestTokenDiceIgnoresResolvedState(t *testing.T) {
	p := NewPlayer("p")
	p.Dice[0].HasToken = true
	p.Dice[1].HasToken = true
	p.Dice[1].Resolved = true
	if got := p.TokenDice(); got != 2 {
		t.Fatalf("token dice = %d, want 2", got)
	}
}
