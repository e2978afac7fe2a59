package squadgen

import (
	"math/rand"
	"testing"

	"github.com/mwhite31/squadmarket/go/internal/models"
)

func TestGenerateShape(t *testing.T) {
	g := NewGenerator(rand.NewSource(1))
	squad := g.Generate("acct-1")

	if len(squad.Players) != 20 {
		t.Fatalf("expected 20 players, got %d", len(squad.Players))
	}

	counts := map[models.Position]int{}
	for _, p := range squad.Players {
		counts[p.Position]++
	}

	want := map[models.Position]int{
		models.PositionGoalkeeper: 3,
		models.PositionDefender:   6,
		models.PositionMidfielder: 6,
		models.PositionAttacker:   5,
	}
	for pos, n := range want {
		if counts[pos] != n {
			t.Errorf("position %s: expected %d players, got %d", pos, n, counts[pos])
		}
	}
}

func TestGenerateBudgetIsInitialConstant(t *testing.T) {
	g := NewGenerator(rand.NewSource(2))
	squad := g.Generate("acct-2")

	if squad.Budget != InitialBudget {
		t.Errorf("expected budget %d, got %d", InitialBudget, squad.Budget)
	}
}

func TestGeneratePlayerValuesWithinBounds(t *testing.T) {
	g := NewGenerator(rand.NewSource(3))
	squad := g.Generate("acct-3")

	for _, p := range squad.Players {
		base := positionBaseValue[p.Position]
		if p.Value < base-valueJitter || p.Value > base+valueJitter {
			t.Errorf("player %s (%s): value %d outside [%d, %d]",
				p.FullName, p.Position, p.Value, base-valueJitter, base+valueJitter)
		}
	}
}

func TestGenerateNamesNonEmpty(t *testing.T) {
	g := NewGenerator(rand.NewSource(4))
	squad := g.Generate("acct-4")

	if squad.Name == "" {
		t.Error("squad name is empty")
	}
	for _, p := range squad.Players {
		if p.FullName == "" {
			t.Error("player with empty name")
		}
	}
}

func TestGenerateDeterministicWithSameSeed(t *testing.T) {
	a := NewGenerator(rand.NewSource(42)).Generate("acct-5")
	b := NewGenerator(rand.NewSource(42)).Generate("acct-5")

	if a.Name != b.Name {
		t.Errorf("squad names differ: %q vs %q", a.Name, b.Name)
	}
	for i := range a.Players {
		if a.Players[i] != b.Players[i] {
			t.Errorf("player %d differs: %+v vs %+v", i, a.Players[i], b.Players[i])
		}
	}
}
