package squadgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mwhite31/squadmarket/go/internal/models"
)

// InitialBudget is the transfer budget every freshly provisioned squad starts with,
// independent of the market valuations of its generated players.
const InitialBudget int64 = 5_000_000

const valueJitter int64 = 200_000

// positionBaseValue is the market valuation a generated player starts from before jitter
var positionBaseValue = map[models.Position]int64{
	models.PositionGoalkeeper: 900_000,
	models.PositionDefender:   950_000,
	models.PositionMidfielder: 1_050_000,
	models.PositionAttacker:   1_100_000,
}

// squadShape is the fixed creation-time distribution: 3/6/6/5, 20 players total
var squadShape = []struct {
	Position models.Position
	Count    int
}{
	{models.PositionGoalkeeper, 3},
	{models.PositionDefender, 6},
	{models.PositionMidfielder, 6},
	{models.PositionAttacker, 5},
}

// GeneratedPlayer is a player produced by the generator, not yet persisted
type GeneratedPlayer struct {
	Position models.Position `json:"position"`
	FullName string          `json:"full_name"`
	Value    int64           `json:"value"`
}

// GeneratedSquad is the generator's output for one account
type GeneratedSquad struct {
	Name    string            `json:"name"`
	Budget  int64             `json:"budget"`
	Players []GeneratedPlayer `json:"players"`
}

// Generator produces randomized squads with a deterministic shape. It has no side
// effects and performs no deduplication; callers own idempotency. Safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from src. A nil src seeds from the
// current time.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate produces a complete squad for the given account reference. Calling it
// twice for the same account is safe; nothing is written anywhere.
func (g *Generator) Generate(accountID string) GeneratedSquad {
	g.mu.Lock()
	defer g.mu.Unlock()

	squad := GeneratedSquad{
		Name:    g.squadName(),
		Budget:  InitialBudget,
		Players: make([]GeneratedPlayer, 0, 20),
	}

	for _, shape := range squadShape {
		for i := 0; i < shape.Count; i++ {
			squad.Players = append(squad.Players, GeneratedPlayer{
				Position: shape.Position,
				FullName: g.playerName(),
				Value:    g.playerValue(shape.Position),
			})
		}
	}

	return squad
}

func (g *Generator) squadName() string {
	return fmt.Sprintf("%s %s", squadPrefixes[g.rng.Intn(len(squadPrefixes))], squadSuffixes[g.rng.Intn(len(squadSuffixes))])
}

func (g *Generator) playerName() string {
	return fmt.Sprintf("%s %s", firstNames[g.rng.Intn(len(firstNames))], lastNames[g.rng.Intn(len(lastNames))])
}

// playerValue returns the position base value with bounded jitter in [-valueJitter, +valueJitter]
func (g *Generator) playerValue(pos models.Position) int64 {
	base := positionBaseValue[pos]
	jitter := g.rng.Int63n(2*valueJitter+1) - valueJitter
	return base + jitter
}
