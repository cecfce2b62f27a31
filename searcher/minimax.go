package searcher

import (
	"time"

	"guardtowers/experiments/metrics"
	"guardtowers/game"

	"github.com/rs/zerolog/log"
)

type Option func(m *Minimax)

// Minimax is a depth-first alpha-beta searcher. With a duration it deepens
// iteratively until the budget runs out; otherwise it searches to a fixed
// depth. A Minimax runs one search at a time; the Generator it holds may be
// shared.
type Minimax struct {
	gen      *game.Generator
	depth    int
	duration time.Duration
	pruning  bool
	ordering bool
	evaluate game.Evaluate
	metrics  metrics.Collector
}

// WithDepth sets the search depth, or the deepening cap with a duration.
func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *Minimax) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithPruning(false) turns the search into plain minimax.
func WithPruning(pruning bool) Option {
	return func(m *Minimax) {
		m.pruning = pruning
	}
}

func WithMoveOrdering(ordering bool) Option {
	return func(m *Minimax) {
		m.ordering = ordering
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithGenerator(gen *game.Generator) Option {
	return func(m *Minimax) {
		if gen != nil {
			m.gen = gen
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		pruning:  true,
		ordering: true,
		evaluate: game.EvaluateMaterial,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.gen == nil {
		m.gen = game.NewGenerator()
	}
	if m.depth == 0 {
		if m.duration > 0 {
			m.depth = MaxDepth
		} else {
			m.depth = DefaultDepth
		}
	}
	return m
}

// Search returns the best move for the side to move. ok is false only if
// the position has no legal moves.
func (m *Minimax) Search(pos game.Position) (result Result, ok bool) {
	moves := m.gen.Generate(pos)
	if len(moves) == 0 {
		return Result{}, false
	}
	if m.ordering {
		orderMoves(pos, moves)
	}

	m.metrics.Start(m.depth, m.duration, m.pruning, m.evaluate)
	s := &search{Minimax: m}

	if m.duration <= 0 {
		result = s.root(pos, moves, m.depth)
		m.metrics.SetDepth(result.Depth)
	} else {
		result = s.deepen(pos, moves, time.Now().Add(m.duration))
	}

	result.Metric = m.metrics.Complete()
	log.Debug().
		Str("move", result.Move.String()).
		Int("score", result.Score).
		Int("depth", result.Depth).
		Bool("complete", result.Complete).
		Msg("search finished")
	return result, true
}

func (s *search) deepen(pos game.Position, moves []game.Move, deadline time.Time) Result {
	s.deadline = deadline
	var result Result
	for depth := 1; depth <= s.depth; depth++ {
		r := s.root(pos, moves, depth)
		if !r.Complete {
			// A partial iteration only counts when nothing finished before it
			if depth == 1 {
				result = r
			}
			break
		}
		result = r
		s.metrics.SetDepth(depth)
		if s.expired() {
			break
		}
		// Search the previous best move first in the next iteration
		promote(moves, r.Move)
	}
	return result
}

func promote(moves []game.Move, best game.Move) {
	for i, m := range moves {
		if m == best {
			copy(moves[1:i+1], moves[:i])
			moves[0] = best
			return
		}
	}
}
