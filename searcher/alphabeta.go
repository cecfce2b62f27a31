package searcher

import (
	"time"

	"guardtowers/game"
)

// search holds the state of a single root search.
type search struct {
	*Minimax
	deadline time.Time // zero means no deadline
	timedOut bool
}

func (s *search) expired() bool {
	if s.timedOut {
		return true
	}
	if !s.deadline.IsZero() && !time.Now().Before(s.deadline) {
		s.timedOut = true
	}
	return s.timedOut
}

// root searches every root move to the given depth and keeps the one most
// favourable to the side to move. Once the deadline passes the remaining
// root moves are skipped and the best move so far is returned.
func (s *search) root(pos game.Position, moves []game.Move, depth int) Result {
	maximizing := pos.SideToMove == game.Red
	alpha, beta := -Infinity, Infinity

	best := Result{Move: moves[0], Depth: depth}
	for i, move := range moves {
		if i > 0 && s.expired() {
			return best
		}
		score := s.alphaBeta(game.Apply(pos, move), depth-1, alpha, beta)
		switch {
		case i == 0:
			best.Score = score
		case maximizing && score > best.Score, !maximizing && score < best.Score:
			best.Move = move
			best.Score = score
		}
		if maximizing {
			alpha = max(alpha, best.Score)
		} else {
			beta = min(beta, best.Score)
		}
	}
	best.Complete = !s.timedOut
	return best
}

// alphaBeta returns the minimax value of pos from red's point of view. With
// pruning disabled the window is still maintained but never cuts, so both
// modes return the same value.
func (s *search) alphaBeta(pos game.Position, depth, alpha, beta int) int {
	s.metrics.AddNode()

	if depth <= 0 || game.HasWon(pos, pos.SideToMove.Opponent()) || s.expired() {
		s.metrics.AddLeaf()
		return s.evaluate(pos)
	}

	moves := s.gen.Generate(pos)
	if len(moves) == 0 {
		s.metrics.AddLeaf()
		return s.evaluate(pos)
	}
	if s.ordering {
		orderMoves(pos, moves)
	}

	if pos.SideToMove == game.Red {
		value := -Infinity
		for _, move := range moves {
			value = max(value, s.alphaBeta(game.Apply(pos, move), depth-1, alpha, beta))
			alpha = max(alpha, value)
			if s.pruning && alpha >= beta {
				s.metrics.AddCutoff()
				break
			}
		}
		return value
	}

	value := Infinity
	for _, move := range moves {
		value = min(value, s.alphaBeta(game.Apply(pos, move), depth-1, alpha, beta))
		beta = min(beta, value)
		if s.pruning && alpha >= beta {
			s.metrics.AddCutoff()
			break
		}
	}
	return value
}
