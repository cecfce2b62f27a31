package agent

import (
	"guardtowers/game"
	"guardtowers/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays uniformly random legal moves.
// It is not safe for concurrent use.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state *game.GameState) (searcher.Result, bool) {
	moves := state.Generator().Generate(state.Position)
	if len(moves) == 0 {
		return searcher.Result{}, false
	}
	return searcher.Result{Move: moves[a.rng.Intn(len(moves))]}, true
}
