package searcher

import (
	"math"
	"sync"
	"time"

	"guardtowers/experiments/metrics"
	"guardtowers/game"
	"guardtowers/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type MCTSOption func(m *MCTS)

// MCTS is a tree-parallel UCT searcher. Goroutines share one tree and
// spread out through virtual losses. Rollouts are random and stop at the
// cutoff, where the evaluation function scores them.
type MCTS struct {
	gen        *game.Generator
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   game.Evaluate
	seed       uint64
	metrics    metrics.Collector
}

func WithGoroutines(goroutines int) MCTSOption {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

// WithEpisodes runs a fixed number of simulations. It takes precedence over
// WithBudget.
func WithEpisodes(episodes int) MCTSOption {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithBudget(duration time.Duration) MCTSOption {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithCutoff(depth int) MCTSOption {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithRolloutEvaluation(evaluate game.Evaluate) MCTSOption {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithSeed(seed uint64) MCTSOption {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithTreeGenerator(gen *game.Generator) MCTSOption {
	return func(m *MCTS) {
		if gen != nil {
			m.gen = gen
		}
	}
}

func WithTreeMetrics() MCTSOption {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...MCTSOption) *MCTS {
	m := &MCTS{ // Default values
		goroutines: meta.GO_ROUTINES,
		cutoff:     MaxCutoff,
		evaluate:   game.EvaluateMaterial,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.gen == nil {
		m.gen = game.NewGenerator()
	}
	if m.episodes <= 0 && m.duration <= 0 {
		m.episodes = DefaultEpisodes
	}
	return m
}

// Search builds a fresh tree for pos and returns the most visited root move.
// Score is the mean reward of that move scaled to WinScore, from red's point
// of view, and Depth the length of the most visited line.
func (m *MCTS) Search(pos game.Position) (Result, bool) {
	state := game.NewGameState(pos, m.gen)
	root := newNode(nil, state)
	if len(root.moves) == 0 {
		return Result{}, false
	}

	m.metrics.Start(m.cutoff, m.duration, false, m.evaluate)
	if m.episodes > 0 {
		m.iterate(root, state)
	} else {
		m.countdown(root, state)
	}

	i := root.mostVisited()
	score := int(math.Round(root.children[i].mean() * game.WinScore))
	if pos.SideToMove == game.Blue {
		score = -score
	}
	depth := root.principalDepth()
	m.metrics.SetDepth(depth)

	result := Result{
		Move:     root.moves[i],
		Score:    score,
		Depth:    depth,
		Complete: true,
		Metric:   m.metrics.Complete(),
	}
	log.Debug().
		Str("move", result.Move.String()).
		Int("score", result.Score).
		Int("depth", result.Depth).
		Float64("visits", root.visitCount()).
		Msg("tree search finished")
	return result, true
}

func (m *MCTS) iterate(root *node, state game.State) {
	task := make(chan struct{}, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- struct{}{}
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				m.simulate(root, state, rng)
			}
		}(m.rng(i))
	}

	wg.Wait()
}

// countdown simulates until the budget runs out. Every goroutine completes
// at least one episode so the root always has a child to pick.
func (m *MCTS) countdown(root *node, state game.State) {
	deadline := time.Now().Add(m.duration)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for {
				m.simulate(root, state, rng)
				if !time.Now().Before(deadline) {
					return
				}
			}
		}(m.rng(i))
	}

	wg.Wait()
}

func (m *MCTS) rng(worker int) *rand.Rand {
	return rand.New(rand.NewSource(m.seed + uint64(worker)))
}

func (m *MCTS) simulate(root *node, state game.State, rng *rand.Rand) {
	leaf, leafState, added := selectThenExpand(root, state)
	if added {
		m.metrics.AddNode()
	}

	value, finished := rollout(leafState, m.cutoff, m.evaluate, rng)
	m.metrics.AddLeaf()
	if !finished {
		m.metrics.AddCutoff()
	}

	for n := leaf; n != nil; {
		n = n.backup(value)
	}
}

func selectThenExpand(root *node, state game.State) (*node, game.State, bool) {
	parent := root
	child, state, added := parent.selectOrExpand(state)
	for !added && child != parent {
		parent = child
		child, state, added = parent.selectOrExpand(state)
	}
	return child, state, added
}

// rollout plays random moves until the game ends or cutoff moves have been
// played. It returns a reward from red's point of view and whether the game
// ended. A side left without moves loses.
func rollout(state game.State, cutoff int, evaluate game.Evaluate, rng *rand.Rand) (float64, bool) {
	moves := state.LegalMoves()
	for depth := 0; len(moves) > 0 && depth < cutoff; depth++ {
		state = state.Play(moves[rng.Intn(len(moves))])
		moves = state.LegalMoves()
	}

	if len(moves) > 0 {
		return reward(state.Score(evaluate)), false
	}

	winner := state.Winner()
	if winner == game.NoColor {
		winner = state.Player().Opponent()
	}
	if winner == game.Red {
		return Win, true
	}
	return Loss, true
}
