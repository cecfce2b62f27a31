package searcher

import (
	"guardtowers/experiments/metrics"
	"guardtowers/game"
)

// Searcher picks a move for the side to move in a position.
type Searcher interface {
	Search(pos game.Position) (Result, bool)
}

// Result is the outcome of one root search.
type Result struct {
	Move  game.Move
	Score int // from red's point of view
	Depth int // depth of the iteration the move comes from
	// Complete is false when the deadline interrupted that iteration.
	Complete bool
	Metric   metrics.SearchMetric
}
